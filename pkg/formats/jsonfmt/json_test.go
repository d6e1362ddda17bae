package jsonfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gork-labs/sealed/pkg/formats/tree"
	"github.com/gork-labs/sealed/pkg/serial"
)

func TestRenderKeepsKeyOrder(t *testing.T) {
	n := tree.Map(
		tree.P("z", tree.Int(1)),
		tree.P("a", tree.List(tree.Bool(true), tree.Null(), tree.Float(1.5))),
		tree.P("m", tree.String("q\"uote")),
	)
	data, err := Render(n)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[true,null,1.5],"m":"q\"uote"}`, string(data))

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, n, back)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *tree.Node
		wantErr bool
	}{
		{name: "int", input: `42`, want: tree.Int(42)},
		{name: "negative", input: `-7`, want: tree.Int(-7)},
		{name: "float", input: `2.25`, want: tree.Float(2.25)},
		{name: "exponent", input: `1e3`, want: tree.Float(1000)},
		{name: "string", input: `"x"`, want: tree.String("x")},
		{name: "null", input: `null`, want: tree.Null()},
		{name: "empty object", input: `{}`, want: tree.Map()},
		{name: "empty array", input: `[]`, want: tree.List()},
		{
			name:  "duplicate keys kept",
			input: `{"type":"A","type":"B"}`,
			want:  tree.Map(tree.P("type", tree.String("A")), tree.P("type", tree.String("B"))),
		},
		{name: "trailing data", input: `{} {}`, wantErr: true},
		{name: "truncated", input: `{"a":`, wantErr: true},
		{name: "empty input", input: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTrailingData(t *testing.T) {
	_, err := Parse([]byte(`1 2`))
	assert.ErrorIs(t, err, ErrTrailingData)
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(serial.List(serial.Int64()), []int64{1, 2}, "  ")
	require.NoError(t, err)
	assert.Equal(t, "[\n  1,\n  2\n]", string(data))

	got, err := Unmarshal(serial.List(serial.Int64()), data)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got)
}
