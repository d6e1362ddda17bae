package msgpackfmt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/gork-labs/sealed/pkg/formats/tree"
	"github.com/gork-labs/sealed/pkg/serial"
)

func TestRenderParse(t *testing.T) {
	tests := []struct {
		name string
		node *tree.Node
	}{
		{name: "null", node: tree.Null()},
		{name: "small int", node: tree.Int(3)},
		{name: "negative int", node: tree.Int(-300)},
		{name: "large int", node: tree.Int(1 << 40)},
		{name: "float", node: tree.Float(0.5)},
		{name: "bool", node: tree.Bool(false)},
		{name: "string", node: tree.String("hello")},
		{name: "empty list", node: tree.List()},
		{
			name: "ordered map",
			node: tree.Map(
				tree.P("value", tree.Map(tree.P("error", tree.String("boom")))),
				tree.P("type", tree.String("ErrorMessage")),
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Render(tt.node)
			require.NoError(t, err)

			got, err := Parse(data)
			require.NoError(t, err)
			assert.Equal(t, tt.node, got)
		})
	}
}

func TestParseForeignEncoding(t *testing.T) {
	data, err := msgpack.Marshal([]any{"EOF", map[string]any{}})
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, tree.List(tree.String("EOF"), tree.Map()), got)
}

func TestParseErrors(t *testing.T) {
	data, err := Render(tree.Int(1))
	require.NoError(t, err)

	_, err = Parse(append(data, data...))
	assert.ErrorIs(t, err, ErrTrailingData)

	_, err = Parse(nil)
	assert.Error(t, err)

	_, err = Parse([]byte{0xd4, 0x01, 0x00})
	assert.ErrorIs(t, err, ErrUnsupportedCode)
}

func TestParseUint64(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    *tree.Node
		wantErr error
	}{
		{
			name:  "fits int64",
			input: []byte{0xcf, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00},
			want:  tree.Int(1 << 40),
		},
		{
			name:  "max int64",
			input: []byte{0xcf, 0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			want:  tree.Int(math.MaxInt64),
		},
		{
			name:    "above max int64",
			input:   []byte{0xcf, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			wantErr: ErrIntOverflow,
		},
		{
			name:    "max uint64",
			input:   []byte{0xcf, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			wantErr: ErrIntOverflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := serial.List(serial.Float64())
	data, err := Marshal(c, []float64{1, 2.5})
	require.NoError(t, err)

	got, err := Unmarshal(c, data)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, got)
}
