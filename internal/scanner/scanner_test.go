package scanner

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	"git.home.luguber.info/inful/dulynoted/internal/refs"
)

var (
	anchorRE = regexp.MustCompile(`!([\w/-]+)`)
	linkRE   = regexp.MustCompile(`@([\w/-]+)`)
)

func TestNext_FindsFromPosition(t *testing.T) {
	s := "see @a and @b"
	m, ok := Next(linkRE, s, 0)
	require.True(t, ok)
	require.Equal(t, Match{Start: 4, End: 6, Tag: "a"}, m)

	m, ok = Next(linkRE, s, m.End)
	require.True(t, ok)
	require.Equal(t, "b", m.Tag)
	require.Equal(t, 11, m.Start)

	_, ok = Next(linkRE, s, m.End)
	require.False(t, ok)
	_, ok = Next(linkRE, s, len(s)+1)
	require.False(t, ok)
}

func TestAll_ReturnsMatchesInOrder(t *testing.T) {
	matches := All(anchorRE, "!one text !two/three")
	require.Len(t, matches, 2)
	require.Equal(t, "one", matches[0].Tag)
	require.Equal(t, "two/three", matches[1].Tag)
}

func TestAll_EmptyMatchesTerminate(t *testing.T) {
	re := regexp.MustCompile(`(x*)`)
	matches := All(re, "aé")
	// One empty match per rune boundary.
	require.Len(t, matches, 3)
}

func TestAll_AnchoredPatternKeepsPrecedingText(t *testing.T) {
	re := regexp.MustCompile(`^@(\w+)`)
	matches := All(re, "@a@b")
	require.Len(t, matches, 1)
	require.Equal(t, "a", matches[0].Tag)
}

func TestNext_SeesTextBeforePosition(t *testing.T) {
	re := regexp.MustCompile(`\b@?(x\w*)`)
	_, ok := Next(regexp.MustCompile(`^@(\w+)`), "@a@b", 2)
	require.False(t, ok)

	m, ok := Next(re, "ax x1", 1)
	require.True(t, ok)
	require.Equal(t, "x1", m.Tag)
	require.Equal(t, 3, m.Start)
}

func TestSubstitute_BoundaryPatternUsesOriginalContext(t *testing.T) {
	re := regexp.MustCompile(`(?:^|\s)@(\w+)`)
	var visited []string
	out := Substitute(re, "@a@b", func(m Match) (string, bool) {
		visited = append(visited, m.Tag)
		return "[" + m.Tag + "]", true
	})
	require.Equal(t, []string{"a"}, visited)
	require.Equal(t, "[a]@b", out)
}

func TestDeclareAnchors_AnchoredPattern(t *testing.T) {
	tree := refs.NewCollection("")
	n := DeclareAnchors(regexp.MustCompile(`^!([\w/-]+)`), "!first!second", "f.go", 1, tree, diagnostics.NewCollector(nil))
	require.Equal(t, 1, n)
	require.Equal(t, 1, tree.AnchorCount())
	_, ok := tree.Anchor("first")
	require.True(t, ok)
}

func TestSubstitute_ReplacesEveryTagAndKeepsSurroundingText(t *testing.T) {
	out := Substitute(linkRE, "see @a, then @b.", func(m Match) (string, bool) {
		return "[" + m.Tag + "]", true
	})
	require.Equal(t, "see [a], then [b].", out)
}

func TestSubstitute_DoesNotRescanInsertedText(t *testing.T) {
	var visited []string
	out := Substitute(linkRE, "@a@b", func(m Match) (string, bool) {
		visited = append(visited, m.Tag)
		// The replacement itself matches the link pattern.
		return "@" + m.Tag + "-x", true
	})
	require.Equal(t, []string{"a", "b"}, visited)
	require.Equal(t, "@a-x@b-x", out)
}

func TestSubstitute_AdjacentTagsVisitedOnce(t *testing.T) {
	calls := 0
	out := Substitute(linkRE, "@first @second", func(m Match) (string, bool) {
		calls++
		return "[@" + m.Tag + "](#" + m.Tag + ")", true
	})
	require.Equal(t, 2, calls)
	require.Equal(t, "[@first](#first) [@second](#second)", out)
}

func TestSubstitute_DeclinedMatchLeavesTextAndContinues(t *testing.T) {
	out := Substitute(linkRE, "@keep @swap", func(m Match) (string, bool) {
		if m.Tag == "keep" {
			return "", false
		}
		return "X", true
	})
	require.Equal(t, "@keep X", out)
}

func TestSubstitute_EmptyReplacementShrinksString(t *testing.T) {
	out := Substitute(linkRE, "a@b c@d", func(Match) (string, bool) { return "", true })
	require.Equal(t, "a c", out)
}

func TestSubstitute_EmptyPatternTerminates(t *testing.T) {
	re := regexp.MustCompile(`(z*)`)
	out := Substitute(re, "ab", func(Match) (string, bool) { return "", true })
	require.Equal(t, "ab", out)
}

func TestSegments(t *testing.T) {
	segments, ok := Segments("a/b/c")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "c"}, segments)

	for _, bad := range []string{"", "a//b", "a/", "/a"} {
		_, ok := Segments(bad)
		require.False(t, ok, bad)
	}
}

func TestDeclareAnchors_BuildsTree(t *testing.T) {
	tree := refs.NewCollection("")
	diag := diagnostics.NewCollector(nil)

	n := DeclareAnchors(anchorRE, "# !classes/Generator and !intro", "src/gen.ts", 4, tree, diag)
	require.Equal(t, 2, n)
	require.Equal(t, 0, diag.Len())

	tags := tree.NamespacedTags()
	require.Len(t, tags, 2)
	require.Equal(t, "intro", tags[0].Anchor)
	require.Equal(t, "classes/Generator", tags[1].Anchor)
	require.Equal(t, "src/gen.ts", tags[1].Path)
}

func TestDeclareAnchors_SkipsEmptySegments(t *testing.T) {
	tree := refs.NewCollection("")
	diag := diagnostics.NewCollector(nil)

	n := DeclareAnchors(anchorRE, "!a//b !ok", "f.go", 0, tree, diag)
	require.Equal(t, 1, n)
	require.Equal(t, 1, diag.Count(diagnostics.KindInvalidInput))
	require.Equal(t, 1, tree.AnchorCount())
	require.True(t, strings.Contains(diag.Items()[0].Message, "a//b"))
}
