package linkverify

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	"git.home.luguber.info/inful/dulynoted/internal/testutil"
)

func TestVerify_HTML(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{
		"css/default.css": "body {}",
		"index.html": `<link rel="stylesheet" href="css/default.css">
<a href="src/gen.ts.html#Generator">ok</a>
<a href="src/gen.ts.html#Missing">bad anchor</a>
<a href="gone.html">bad file</a>
<a href="https://example.com/x">external</a>`,
		"src/gen.ts.html": `<link rel="stylesheet" href="../css/default.css">
<a name="Generator" id="Generator">&#187; Generator</a>
<a href="../index.html">index</a>
<a href="#Generator">self</a>
<a href="../../escape.html">escape</a>`,
	})
	diag := diagnostics.NewCollector(nil)

	report, err := New(dir, Options{}, diag).Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Report{Pages: 2, Links: 8, Broken: 3}, report)

	items := diag.Items()
	require.Len(t, items, 3)
	for _, d := range items {
		assert.Equal(t, diagnostics.KindBrokenLink, d.Kind)
	}
	assert.Equal(t, "index.html", items[0].File)
	assert.Equal(t, 3, items[0].Line)
	assert.Contains(t, items[0].Message, "anchor #Missing not found")
	assert.Equal(t, "index.html", items[1].File)
	assert.Contains(t, items[1].Message, "does not exist")
	assert.Equal(t, "src/gen.ts.html", items[2].File)
	assert.Contains(t, items[2].Message, "outside the output directory")
}

func TestVerify_MarkdownFragments(t *testing.T) {
	files := map[string]string{
		"README.md":     "* [Generator](src/gen.ts.md#user-content-classes-generator)\n* [Other](src/gen.ts.md#classes-other)\n",
		"src/gen.ts.md": "<a name=\"classes-generator\" id=\"classes-generator\"></a>[🔗classes/Generator](#user-content-classes-generator)\n",
	}

	t.Run("checked when enabled", func(t *testing.T) {
		diag := diagnostics.NewCollector(nil)
		report, err := New(testutil.TempTree(t, files), Options{MarkdownFragments: true}, diag).Verify(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.Broken)
		require.Equal(t, 1, diag.Len())
		d := diag.Items()[0]
		assert.Equal(t, "README.md", d.File)
		assert.Equal(t, 2, d.Line)
		assert.Contains(t, d.Message, "#classes-other")
	})

	t.Run("ignored by default", func(t *testing.T) {
		diag := diagnostics.NewCollector(nil)
		report, err := New(testutil.TempTree(t, files), Options{}, diag).Verify(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, report.Links)
		assert.Zero(t, report.Broken)
		assert.Zero(t, diag.Len())
	})
}

func TestVerify_SkipsExcludedDirectories(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{
		"index.html":               `<a href="a.html">a</a>`,
		"a.html":                   "",
		".dulynoted/internal.html": `<a href="missing.html">x</a>`,
	})
	diag := diagnostics.NewCollector(nil)

	report, err := New(dir, Options{Exclude: []string{".dulynoted"}}, diag).Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pages)
	assert.Zero(t, diag.Len())
}

func TestVerify_MissingOutputDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), Options{}, nil).Verify(context.Background())
	require.Error(t, err)
}

func TestVerify_Canceled(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"index.html": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(dir, Options{Concurrency: 1}, nil).Verify(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
