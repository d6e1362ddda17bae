package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gork-labs/sealed/internal/protocol"
	"github.com/gork-labs/sealed/pkg/formats"
	"github.com/gork-labs/sealed/pkg/formats/msgpackfmt"
)

const sampleJSON = `[{"type":"StringMessage","value":{"description":"d","message":"hi"}},{"type":"EOF","value":{}}]`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "", "describe")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Message (sealed)\n"))
	assert.Contains(t, out, "variants: [StringMessage IntMessage ErrorMessage EOF]")
	assert.Regexp(t, `fingerprint: [0-9a-f]{16}\n`, out)
}

func TestSchema(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "json", args: []string{"schema"}, want: `"openapi": "3.1.0"`},
		{name: "yaml", args: []string{"schema", "--format", "yaml"}, want: "openapi: 3.1.0"},
		{name: "array", args: []string{"schema", "--array"}, want: `"prefixItems"`},
		{name: "title", args: []string{"schema", "--title", "Wire"}, want: `"title": "Wire"`},
		{name: "bad format", args: []string{"schema", "--format", "xml"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestSchemaToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")

	_, err := run(t, "", "schema", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"discriminator"`)

	_, err = run(t, "", "schema", "--output", filepath.Join(dir, "missing", "schema.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestConvertStream(t *testing.T) {
	yamlOut, err := run(t, sampleJSON, "convert", "--from", "json", "--to", "yaml")
	require.NoError(t, err)
	assert.Contains(t, yamlOut, "type: StringMessage")

	jsonOut, err := run(t, yamlOut, "convert", "--from", "yml", "--to", "json")
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, jsonOut)
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
	}{
		{name: "unknown format", input: sampleJSON, args: []string{"convert", "--to", "toml"}},
		{name: "unknown variant", input: `[{"type":"Nope","value":{}}]`, args: []string{"convert"}},
		{name: "not a list", input: `{"type":"EOF","value":{}}`, args: []string{"convert"}},
		{
			name:  "invalid payload",
			input: `[{"type":"ErrorMessage","value":{"error":""}}]`,
			args:  []string{"convert", "--validate"},
		},
		{
			name:  "repeated discriminator",
			input: `[{"type":"EOF","type":"ErrorMessage","value":{"error":"x"}}]`,
			args:  []string{"convert", "--strict"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestConvertFiles(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o700))

	first := writeFile(t, dir, "first.json", sampleJSON)
	second := writeFile(t, dir, "second.json", `[{"type":"IntMessage","value":{"description":"n","message":3}}]`)

	_, err := run(t, "", "convert", "--to", "msgpack", "--out-dir", outDir, "--jobs", "2", first, second)
	require.NoError(t, err)

	c, err := protocol.New()
	require.NoError(t, err)
	stream := protocol.Stream(c)

	data, err := os.ReadFile(filepath.Join(outDir, "second.msgpack"))
	require.NoError(t, err)
	msgs, err := msgpackfmt.Unmarshal(stream, data)
	require.NoError(t, err)
	assert.Equal(t, []protocol.Message{protocol.IntMessage{Description: "n", Message: 3}}, msgs)

	_, err = os.Stat(filepath.Join(outDir, "first.msgpack"))
	assert.NoError(t, err)
}

func TestConvertFilesFailure(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `[{"type":"Nope","value":{}}]`)

	_, err := run(t, "", "convert", "--out-dir", dir, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")

	_, err = run(t, "", "convert", "--out-dir", dir, filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, ".sealed.yml", "sealed:\n  array_polymorphism: true\n  log_level: warn\n")

	_, err := run(t, sampleJSON, "--config", config, "convert", "--to", "json")
	require.Error(t, err, "array input expected once the config enables it")

	arrayJSON := `[["StringMessage",{"description":"d","message":"hi"}],["EOF",{}]]`
	out, err := run(t, arrayJSON, "--config", config, "convert", "--to", "json")
	require.NoError(t, err)
	assert.Equal(t, arrayJSON, out)

	out, err = run(t, sampleJSON, "--config", config, "--array=false", "convert", "--to", "json")
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, out)
}

func TestConfigFileValidate(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, ".sealed.yml", "sealed:\n  validate: true\n")
	empty := `[{"type":"ErrorMessage","value":{"error":""}}]`

	_, err := run(t, empty, "--config", config, "convert", "--to", "json")
	require.Error(t, err, "validate from the config file rejects an empty error")

	out, err := run(t, empty, "--config", config, "--validate=false", "convert", "--to", "json")
	require.NoError(t, err)
	assert.Equal(t, empty, out)
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	badLevel := writeFile(t, dir, "level.yml", "sealed:\n  log_level: loud\n")
	badYAML := writeFile(t, dir, "broken.yml", "sealed: [\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{"--config", filepath.Join(dir, "nope.yml"), "describe"}},
		{name: "invalid yaml", args: []string{"--config", badYAML, "describe"}},
		{name: "invalid level", args: []string{"--config", badLevel, "describe"}},
		{name: "invalid level flag", args: []string{"--log-level", "loud", "describe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			assert.Error(t, err)
		})
	}

	_, err := run(t, "", "--config", badLevel, "--log-level", "error", "describe")
	assert.NoError(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "a.yaml"), outputPath("out", "in/a.json", "yaml"))
	assert.Equal(t, filepath.Join("out", "b.msgpack"), outputPath("out", "b", "msgpack"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.LogLevel = "trace"
	assert.Error(t, cfg.Validate())
}

func TestConvertFilesOutputConflict(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a"), 0o700))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0o700))
	first := writeFile(t, filepath.Join(dir, "a"), "x.json", sampleJSON)
	second := writeFile(t, filepath.Join(dir, "b"), "x.json", sampleJSON)

	_, err := run(t, "", "convert", "--out-dir", dir, first, second)
	require.ErrorIs(t, err, ErrOutputConflict)

	_, statErr := os.Stat(filepath.Join(dir, "x.yaml"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written when outputs collide")
}

// memFS keeps files in memory; Stat is answered by the host filesystem.
type memFS struct {
	DefaultFileSystem
	mu    sync.Mutex
	files map[string][]byte
}

type memFile struct {
	bytes.Buffer
	fs   *memFS
	name string
}

func (f *memFile) Close() error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	f.fs.files[f.name] = f.Bytes()
	return nil
}

func (m *memFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *memFS) Create(name string) (io.WriteCloser, error) {
	return &memFile{fs: m, name: name}, nil
}

func TestConvertFilesThroughFileSystem(t *testing.T) {
	outDir := t.TempDir()
	fs := &memFS{files: map[string][]byte{
		"in/one.json": []byte(sampleJSON),
		"in/two.json": []byte(`[{"type":"ErrorMessage","value":{"error":"x"}}]`),
	}}

	codec, err := protocol.New()
	require.NoError(t, err)
	from, err := formats.Lookup("json")
	require.NoError(t, err)
	to, err := formats.Lookup("yaml")
	require.NoError(t, err)

	c := &converter{
		from:   from,
		to:     to,
		stream: protocol.Stream(codec),
		app:    &app{cfg: DefaultConfig(), logger: zap.NewNop(), codec: codec},
	}
	config := &ConvertConfig{OutDir: outDir, Jobs: 2}
	require.NoError(t, c.convertFiles(context.Background(), []string{"in/one.json", "in/two.json"}, config, fs))

	assert.Contains(t, string(fs.files[filepath.Join(outDir, "two.yaml")]), "type: ErrorMessage")
	assert.Contains(t, string(fs.files[filepath.Join(outDir, "one.yaml")]), "type: StringMessage")

	err = c.convertFiles(context.Background(), []string{"in/missing.json"}, config, fs)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
