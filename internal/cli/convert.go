package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gork-labs/sealed/internal/protocol"
	"github.com/gork-labs/sealed/pkg/formats"
	"github.com/gork-labs/sealed/pkg/serial"
)

// ErrOutputConflict is returned when two inputs would be written to the same file.
var ErrOutputConflict = errors.New("convert: output path conflict")

// ConvertConfig holds configuration for message stream conversion.
type ConvertConfig struct {
	From   string
	To     string
	OutDir string
	Jobs   int
}

func newConvertCommand(a *app) *cobra.Command {
	var config ConvertConfig

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert a stream of messages between json, yaml and msgpack",
		Long: "Convert reads a list of messages in one format and writes it in another.\n" +
			"Without arguments it reads stdin and writes stdout. With files it writes\n" +
			"one converted file per input into --out-dir.",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := formats.Lookup(config.From)
			if err != nil {
				return err
			}
			to, err := formats.Lookup(config.To)
			if err != nil {
				return err
			}
			c := &converter{
				from:   from,
				to:     to,
				stream: protocol.Stream(a.codec),
				app:    a,
			}
			if len(args) == 0 {
				return c.convertStream(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return c.convertFiles(cmd.Context(), args, &config, defaultFileSystem)
		},
	}

	cmd.Flags().StringVar(&config.From, "from", "json", "Input format: "+strings.Join(formats.Names(), ", "))
	cmd.Flags().StringVar(&config.To, "to", "yaml", "Output format: "+strings.Join(formats.Names(), ", "))
	cmd.Flags().StringVar(&config.OutDir, "out-dir", ".", "Directory for converted files")
	cmd.Flags().IntVar(&config.Jobs, "jobs", runtime.NumCPU(), "Files converted in parallel")

	return cmd
}

type converter struct {
	from   formats.Format
	to     formats.Format
	stream serial.Codec[[]protocol.Message]
	app    *app
}

func (c *converter) convert(data []byte) ([]byte, int, error) {
	opts := c.app.treeOptions()
	msgs, err := formats.Unmarshal(c.from, c.stream, data, opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", c.from.Name(), err)
	}
	out, err := formats.Marshal(c.to, c.stream, msgs, opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("encode %s: %w", c.to.Name(), err)
	}
	return out, len(msgs), nil
}

func (c *converter) convertStream(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	out, n, err := c.convert(data)
	if err != nil {
		return err
	}
	c.app.logger.Info("converted", zap.String("input", "-"), zap.Int("messages", n))
	_, err = w.Write(out)
	return err
}

func (c *converter) convertFiles(ctx context.Context, paths []string, config *ConvertConfig, fs FileSystem) error {
	if err := checkDir(fs, config.OutDir); err != nil {
		return err
	}
	outputs := make([]string, len(paths))
	seen := make(map[string]string, len(paths))
	for i, path := range paths {
		out := outputPath(config.OutDir, path, c.to.Name())
		if prev, dup := seen[out]; dup {
			return fmt.Errorf("%w: %s and %s both write %s", ErrOutputConflict, prev, path, out)
		}
		seen[out] = path
		outputs[i] = out
	}
	if ctx == nil {
		ctx = context.Background()
	}

	g, ctx := errgroup.WithContext(ctx)
	if config.Jobs > 0 {
		g.SetLimit(config.Jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return c.convertFile(path, outputs[i], fs)
		})
	}
	return g.Wait()
}

func (c *converter) convertFile(in, out string, fs FileSystem) error {
	data, err := fs.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	converted, n, err := c.convert(data)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	f, err := fs.Create(out) // #nosec G304
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(converted); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	c.app.logger.Info("converted",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("messages", n),
	)
	return nil
}

// outputPath swaps the extension of in for the target format name.
func outputPath(dir, in, format string) string {
	base := filepath.Base(in)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"."+format)
}
