package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gork-labs/sealed/pkg/schema"
	"github.com/gork-labs/sealed/pkg/serial"
)

// SchemaConfig holds configuration for schema export.
type SchemaConfig struct {
	OutputPath string
	Title      string
	Version    string
	Format     string
}

func newSchemaCommand(a *app) *cobra.Command {
	var config SchemaConfig

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Export an OpenAPI document describing the message union",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := a.schemaDocument(&config)
			if err != nil {
				return err
			}
			return writeOutputWithFS(cmd.OutOrStdout(), doc, &config, defaultFileSystem)
		},
	}

	cmd.Flags().StringVar(&config.OutputPath, "output", "-", "Path to output file or '-' for stdout")
	cmd.Flags().StringVar(&config.Title, "title", "Sealed Messages", "Document title")
	cmd.Flags().StringVar(&config.Version, "version", "0.1.0", "Document version")
	cmd.Flags().StringVar(&config.Format, "format", "json", "Output format: json or yaml")

	return cmd
}

func (a *app) schemaDocument(config *SchemaConfig) (*schema.Document, error) {
	var opts []schema.Option
	if a.cfg.ArrayPolymorphism {
		opts = append(opts, schema.WithArrayPolymorphism())
	}

	doc := schema.NewDocument(config.Title, config.Version, []*serial.Descriptor{a.codec.Descriptor()}, opts...)
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	a.logger.Debug("schema generated",
		zap.Int("components", len(doc.Components.Schemas)),
		zap.Bool("array_polymorphism", a.cfg.ArrayPolymorphism),
	)
	return doc, nil
}

// FileSystem allows dependency injection for testing.
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	Create(name string) (io.WriteCloser, error)
}

// DefaultFileSystem implements FileSystem on the host filesystem.
type DefaultFileSystem struct{}

func (fs *DefaultFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *DefaultFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Clean(name))
}

func (fs *DefaultFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

var defaultFileSystem FileSystem = &DefaultFileSystem{}

func writeOutputWithFS(stdout io.Writer, doc *schema.Document, config *SchemaConfig, fs FileSystem) error {
	if config.OutputPath == "-" {
		return writeDocument(stdout, config.Format, doc)
	}

	if err := checkDir(fs, filepath.Dir(config.OutputPath)); err != nil {
		return err
	}

	f, err := fs.Create(config.OutputPath) // #nosec G304
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return writeDocument(f, config.Format, doc)
}

func checkDir(fs FileSystem, dir string) error {
	fi, err := fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory %s does not exist, please create it first", dir)
		}
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("output path %s is not a directory", dir)
	}
	return nil
}

func writeDocument(w io.Writer, format string, doc *schema.Document) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
