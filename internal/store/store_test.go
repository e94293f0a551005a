package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	"git.home.luguber.info/inful/dulynoted/internal/extract"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/refs"
	"git.home.luguber.info/inful/dulynoted/internal/resolver"
)

func TestCache_ReferencesRoundTrip(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "parse"))

	tree := refs.NewCollection("")
	tree.AddAnchorTag([]string{"a", "b"}, "src/x.ts", 1, nil)
	tree.AddAnchorTag([]string{"top"}, "src/y.ts", 0, nil)
	require.NoError(t, c.WriteReferences(tree))

	loaded, err := c.ReadReferences()
	require.NoError(t, err)
	require.Equal(t, tree.TopLevelTags(), loaded.TopLevelTags())
	require.Equal(t, tree.NamespacedTags(), loaded.NamespacedTags())
}

func TestCache_ExternalRoundTrip(t *testing.T) {
	c := New(t.TempDir())
	table := []resolver.ExternalReference{{Anchor: "issue", Path: "https://x/issues/::"}}
	require.NoError(t, c.WriteExternal(table))

	loaded, err := c.ReadExternal()
	require.NoError(t, err)
	require.Equal(t, table, loaded)

	require.NoError(t, c.WriteExternal(nil))
	data, err := os.ReadFile(filepath.Join(c.Dir(), ExternalReferencesFile))
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(data))
}

func TestCache_MissingReferencesAreFatal(t *testing.T) {
	c := New(t.TempDir())

	_, err := c.ReadReferences()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMissingReferences)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryParse, classified.Category())
	require.True(t, classified.IsFatal())

	_, err = c.ReadExternal()
	require.ErrorIs(t, err, ErrMissingReferences)
}

func TestCache_CorruptReferencesAreFatal(t *testing.T) {
	c := New(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir(), InternalReferencesFile), []byte("{not json"), 0o600))

	_, err := c.ReadReferences()
	require.ErrorIs(t, err, ErrCorruptDocument)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryParse))
}

func TestCache_FilesRoundTrip(t *testing.T) {
	c := New(t.TempDir())
	code, comment := "x := 1", "!x"
	files := []*extract.File{
		{Name: "src/lib/b.go", Type: "go", Lines: []extract.Line{{Code: &code, Comment: &comment}}},
		{Name: "a.go", Type: "go", Lines: []extract.Line{}},
	}
	for _, f := range files {
		require.NoError(t, c.WriteFile(f))
	}
	require.NoError(t, c.WriteReferences(refs.NewCollection("")))
	require.NoError(t, c.WriteExternal(nil))
	require.FileExists(t, filepath.Join(c.Dir(), "src", "lib", "b.go.json"))

	diag := diagnostics.NewCollector(nil)
	loaded, err := c.ReadFiles(diag)
	require.NoError(t, err)
	require.Equal(t, 0, diag.Len())
	require.Len(t, loaded, 2)
	require.Equal(t, "a.go", loaded[0].Name)
	require.Equal(t, "src/lib/b.go", loaded[1].Name)
	require.Equal(t, "!x", *loaded[1].Lines[0].Comment)
}

func TestCache_CorruptFileMapIsReportedAndSkipped(t *testing.T) {
	c := New(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir(), "bad.ts.json"), []byte("[1,"), 0o600))
	require.NoError(t, c.WriteFile(&extract.File{Name: "good.ts", Type: "ts"}))

	diag := diagnostics.NewCollector(nil)
	loaded, err := c.ReadFiles(diag)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, 1, diag.Count(diagnostics.KindInvalidInput))
}

func TestCache_WriteFileRejectsEscapingNames(t *testing.T) {
	c := New(t.TempDir())
	err := c.WriteFile(&extract.File{Name: "../escape.ts"})
	require.ErrorIs(t, err, ErrUnsafePath)
}

func TestCache_Remove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := New(dir)
	require.NoError(t, c.WriteExternal(nil))
	require.NoError(t, c.Remove())
	require.NoDirExists(t, dir)
}
