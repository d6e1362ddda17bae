package yamlfmt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gork-labs/sealed/pkg/formats/tree"
	"github.com/gork-labs/sealed/pkg/serial"
)

func TestRenderKeepsKeyOrder(t *testing.T) {
	n := tree.Map(
		tree.P("type", tree.String("IntMessage")),
		tree.P("value", tree.Map(
			tree.P("message", tree.Int(5)),
			tree.P("description", tree.String("true")),
		)),
	)
	data, err := Render(n)
	require.NoError(t, err)
	text := string(data)
	assert.Less(t, strings.Index(text, "type:"), strings.Index(text, "value:"))
	assert.Less(t, strings.Index(text, "message:"), strings.Index(text, "description:"))

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, n, back)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *tree.Node
		wantErr error
	}{
		{name: "int", input: "42", want: tree.Int(42)},
		{name: "float", input: "1.5", want: tree.Float(1.5)},
		{name: "bool", input: "true", want: tree.Bool(true)},
		{name: "null", input: "~", want: tree.Null()},
		{name: "quoted", input: `"42"`, want: tree.String("42")},
		{name: "flow list", input: "[a, 1]", want: tree.List(tree.String("a"), tree.Int(1))},
		{
			name:  "alias",
			input: "a: &x 1\nb: *x\n",
			want:  tree.Map(tree.P("a", tree.Int(1)), tree.P("b", tree.Int(1))),
		},
		{name: "empty", input: "", wantErr: ErrEmptyDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// laughs builds a document where each level lists the previous anchor
// nine times, so it expands to 9^levels scalars.
func laughs(levels int) string {
	var b strings.Builder
	b.WriteString("l0: &l0 x\n")
	for i := 1; i <= levels; i++ {
		fmt.Fprintf(&b, "l%d: &l%d [", i, i)
		for j := 0; j < 9; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "*l%d", i-1)
		}
		b.WriteString("]\n")
	}
	return b.String()
}

func TestParseAliasExpansion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "small fan out", input: laughs(2)},
		{name: "nested fan out", input: laughs(8), wantErr: ErrAliasExpansion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got.Keys, 3)
		})
	}

	_, err := Parse([]byte("a: &a [*a]\n"))
	assert.Error(t, err, "self-referencing anchor")
}

func TestParseRejectsComplexKeys(t *testing.T) {
	_, err := Parse([]byte("? [a]\n: 1\n"))
	assert.Error(t, err)
}

func TestMarshalUnmarshal(t *testing.T) {
	c := serial.List(serial.String())
	data, err := Marshal(c, []string{"a", "null"})
	require.NoError(t, err)

	got, err := Unmarshal(c, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "null"}, got)
}
