package nbformat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/nbformat/internal/jsonv"
)

func TestTextLines(t *testing.T) {
	tests := []struct {
		text Text
		want []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a\n", []string{"a\n"}},
		{"a\nb", []string{"a\n", "b"}},
		{"a\n\nb\n", []string{"a\n", "\n", "b\n"}},
		{"\n", []string{"\n"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.text), func(t *testing.T) {
			got := tt.text.Lines()
			assert.Equal(t, tt.want, got)

			joined := ""
			for _, line := range got {
				joined += line
			}
			assert.Equal(t, tt.text.String(), joined, "lines concatenate back to the text")
		})
	}
}

func TestDecodeText(t *testing.T) {
	got, ok := decodeText(jsonv.String("x"))
	assert.True(t, ok)
	assert.Equal(t, Text("x"), got)

	got, ok = decodeText(jsonv.Array{jsonv.String("a\n"), jsonv.String("b")})
	assert.True(t, ok)
	assert.Equal(t, Text("a\nb"), got)

	got, ok = decodeText(jsonv.Array{})
	assert.True(t, ok)
	assert.Equal(t, Text(""), got)

	_, ok = decodeText(jsonv.Array{jsonv.String("a"), jsonv.Int(1)})
	assert.False(t, ok)

	_, ok = decodeText(jsonv.Null{})
	assert.False(t, ok)
}

func TestSplitsLines(t *testing.T) {
	assert.True(t, splitsLines("text/plain"))
	assert.True(t, splitsLines("text/markdown"))
	assert.True(t, splitsLines("application/javascript"))
	assert.True(t, splitsLines("image/svg+xml"))
	assert.False(t, splitsLines("application/json"))
	assert.False(t, splitsLines("application/vnd.jupyter.widget-view+json"))
	assert.False(t, splitsLines("image/png"))
}
