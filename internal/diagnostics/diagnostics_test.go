package diagnostics

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollector_ReportUsesKindSeverity(t *testing.T) {
	c := NewCollector(nil)
	c.Report(KindUnresolvedLink, "src/a.ts", 4, "link %q has no anchor", "baz")
	c.Report(KindNameCollision, "src/b.ts", 1, "collision")

	items := c.Items()
	require.Len(t, items, 2)
	require.Equal(t, SeverityWarning, items[0].Severity)
	require.Equal(t, `link "baz" has no anchor`, items[0].Message)
	require.Equal(t, SeverityError, items[1].Severity)
	require.True(t, c.HasErrors())
	require.True(t, c.HasWarnings())
	require.Equal(t, 1, c.Count(KindUnresolvedLink))
}

func TestCollector_NilIsSafe(t *testing.T) {
	var c *Collector
	c.Report(KindInvalidInput, "x", 0, "ignored")
	require.Equal(t, 0, c.Len())
	require.False(t, c.HasWarnings())
	require.Nil(t, c.Items())
}

func TestCollector_LogsWhenLoggerAttached(t *testing.T) {
	var buf bytes.Buffer
	c := NewCollector(slog.New(slog.NewTextHandler(&buf, nil)))
	c.Report(KindDuplicateAnchor, "src/a.ts", 2, "duplicate")

	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "kind=duplicate_anchor")
	require.Contains(t, buf.String(), "file=src/a.ts")
}

func TestCollector_MergeAndSorted(t *testing.T) {
	a := NewCollector(nil)
	a.Report(KindUnresolvedLink, "z.ts", 1, "z")
	b := NewCollector(nil)
	b.Report(KindUnresolvedLink, "a.ts", 9, "a9")
	b.Report(KindUnresolvedLink, "a.ts", 2, "a2")
	a.Merge(b)

	sorted := a.Sorted()
	require.Equal(t, []string{"a2", "a9", "z"}, []string{sorted[0].Message, sorted[1].Message, sorted[2].Message})
	// Items keep report order.
	require.Equal(t, "z", a.Items()[0].Message)
}

func TestTextFormatter(t *testing.T) {
	c := NewCollector(nil)
	c.Report(KindUnresolvedLink, "src/a.ts", 3, "link: baz does not have a corresponding anchor")

	var buf bytes.Buffer
	require.NoError(t, NewFormatter("text").Format(&buf, Summarize(c, 2)))
	out := buf.String()
	require.Contains(t, out, "⚠ src/a.ts:3")
	require.Contains(t, out, "WARNING [unresolved_link]")
	require.Contains(t, out, "2 files scanned")
	require.Contains(t, out, "1 warning\n")
}

func TestTextFormatter_Clean(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("text").Format(&buf, Summarize(NewCollector(nil), 1)))
	require.Contains(t, buf.String(), "1 file scanned")
	require.Contains(t, buf.String(), "All anchors and links resolved.")
}

func TestJSONFormatter(t *testing.T) {
	c := NewCollector(nil)
	c.Report(KindNameCollision, "src/b.ts", 7, "collision")

	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json").Format(&buf, Summarize(c, 4)))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 4, out.FilesTotal)
	require.Equal(t, 1, out.ErrorCount)
	require.Equal(t, 0, out.WarningCount)
	require.Equal(t, "name_collision", out.Diagnostics[0].Kind)
	require.Equal(t, 7, out.Diagnostics[0].Line)
}
