package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gork-labs/sealed/pkg/schema"
)

func newDescribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the message union descriptor tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if err := schema.WriteTree(out, a.codec.Descriptor()); err != nil {
				return err
			}
			_, err := fmt.Fprintf(out, "variants: %v\nfingerprint: %016x\n", a.codec.Registry().Names(), a.codec.Fingerprint())
			return err
		},
	}
}
