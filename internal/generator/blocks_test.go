package generator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dulynoted/internal/extract"
)

func str(s string) *string { return &s }

func TestFold(t *testing.T) {
	lines := []extract.Line{
		{Comment: str("# Title"), LongComment: true},
		{Comment: str(""), LongComment: true},
		{Comment: str("More text"), LongComment: true},
		{Code: str("func a() {")},
		{},
		{Code: str("}")},
		{},
		{Code: str("x := 1"), Comment: str("trailing note")},
		{Comment: str("")},
	}

	require.Equal(t, []Block{
		{Kind: BlockComment, Text: "# Title\n\nMore text", LongComment: true},
		{Kind: BlockCode, Text: "func a() {\n\n}"},
		{Kind: BlockComment, Text: "trailing note"},
		{Kind: BlockCode, Text: "x := 1"},
	}, Fold(lines))
}

func TestFold_DropsEmptyCommentRuns(t *testing.T) {
	blocks := Fold([]extract.Line{
		{Comment: str("")},
		{Comment: str("  ")},
		{Code: str("a")},
	})
	require.Equal(t, []Block{{Kind: BlockCode, Text: "a"}}, blocks)
	require.Empty(t, Fold(nil))
}
