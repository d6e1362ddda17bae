// Package cli provides the command-line interface for working with sealed
// unions: descriptor inspection, schema export and format conversion.
package cli

import (
	"reflect"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gork-labs/sealed/internal/logging"
	"github.com/gork-labs/sealed/internal/protocol"
	"github.com/gork-labs/sealed/pkg/formats/tree"
	"github.com/gork-labs/sealed/pkg/sealed"
)

// Execute creates and runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	cfg        Config
	logger     *zap.Logger
	codec      *sealed.Codec[protocol.Message, reflect.Type]
}

// NewRootCommand wires the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{cfg: DefaultConfig(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:          "sealed",
		Short:        "Sealed union serialization tools",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to .sealed.yml config file")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.BoolVar(&a.cfg.ArrayPolymorphism, "array", a.cfg.ArrayPolymorphism, "Write unions as [type, value] arrays")
	flags.BoolVar(&a.cfg.IgnoreUnknownKeys, "ignore-unknown-keys", a.cfg.IgnoreUnknownKeys, "Skip unknown object keys while decoding")
	flags.BoolVar(&a.cfg.ValidatePayloads, "validate", a.cfg.ValidatePayloads, "Validate decoded payloads")
	flags.BoolVar(&a.cfg.StrictDiscriminator, "strict", a.cfg.StrictDiscriminator, "Reject a repeated type field naming another variant")

	rootCmd.AddCommand(newDescribeCommand(a), newSchemaCommand(a), newConvertCommand(a))
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := a.loadConfigFile(cmd.Flags()); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	codec, err := protocol.New(a.codecOptions()...)
	if err != nil {
		return err
	}
	a.codec = codec
	return nil
}

func (a *app) codecOptions() []sealed.Option {
	opts := []sealed.Option{sealed.WithLogger(a.logger)}
	if a.cfg.ValidatePayloads {
		opts = append(opts, sealed.WithValidation())
	}
	if a.cfg.StrictDiscriminator {
		opts = append(opts, sealed.StrictDiscriminator())
	}
	return opts
}

func (a *app) treeOptions() []tree.Option {
	var opts []tree.Option
	if a.cfg.ArrayPolymorphism {
		opts = append(opts, tree.WithArrayPolymorphism())
	}
	if a.cfg.IgnoreUnknownKeys {
		opts = append(opts, tree.WithIgnoreUnknownKeys())
	}
	return opts
}
