// Package main provides the sealed command-line tool.
package main

import (
	"os"

	"github.com/gork-labs/sealed/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
