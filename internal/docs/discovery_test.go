package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	derrors "git.home.luguber.info/inful/dulynoted/internal/docs/errors"
)

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte("// "+f+"\n"), 0o600))
	}
	return root
}

func TestDiscover_FilesDirectoriesAndPatterns(t *testing.T) {
	root := writeTree(t,
		"README.md",
		"src/a.ts",
		"src/lib/b.ts",
		"src/lib/c.js",
		"src/.hidden/d.ts",
		"src/.e.ts",
		"tools/x.go",
	)
	d := NewDiscovery(root, nil, nil)

	files, err := d.Discover([]string{"src/**/*.ts", "./tools", "README.md", "src/a.ts"})
	require.NoError(t, err)
	require.Equal(t, []string{"README.md", "src/a.ts", "src/lib/b.ts", "tools/x.go"}, files)
}

func TestDiscover_SingleStarStaysInSegment(t *testing.T) {
	root := writeTree(t, "src/a.ts", "src/lib/b.ts")
	files, err := NewDiscovery(root, nil, nil).Discover([]string{"src/*.ts"})
	require.NoError(t, err)
	require.Equal(t, []string{"src/a.ts"}, files)
}

func TestDiscover_ExcludesOutputDirectories(t *testing.T) {
	root := writeTree(t, "src/a.ts", "docs/src/a.ts.md", "docs/.dulynoted/src/a.ts.json")
	files, err := NewDiscovery(root, []string{"./docs"}, nil).Discover([]string{"."})
	require.NoError(t, err)
	require.Equal(t, []string{"src/a.ts"}, files)
}

func TestDiscover_MissingEntryIsReported(t *testing.T) {
	root := writeTree(t, "src/a.ts")
	diag := diagnostics.NewCollector(nil)

	files, err := NewDiscovery(root, nil, diag).Discover([]string{"missing.ts", "src"})
	require.NoError(t, err)
	require.Equal(t, []string{"src/a.ts"}, files)
	require.Equal(t, 1, diag.Count(diagnostics.KindInvalidInput))
	require.Equal(t, "missing.ts", diag.Items()[0].File)
}

func TestDiscover_NoMatches(t *testing.T) {
	root := writeTree(t, "src/a.ts")
	_, err := NewDiscovery(root, nil, nil).Discover([]string{"lib/**/*.go"})
	require.ErrorIs(t, err, derrors.ErrNoSourcesFound)
}

func TestDiscover_InvalidPattern(t *testing.T) {
	root := writeTree(t, "src/a.ts")
	_, err := NewDiscovery(root, nil, nil).Discover([]string{"src/[a.ts"})
	require.ErrorIs(t, err, derrors.ErrInvalidPattern)
}

func TestStaticPrefix(t *testing.T) {
	require.Equal(t, "src/lib", staticPrefix("src/lib/*.ts"))
	require.Equal(t, "src", staticPrefix("src/**/*.ts"))
	require.Equal(t, ".", staticPrefix("*.ts"))
	require.Equal(t, ".", staticPrefix("**/*.ts"))
}

func TestComputeSourcesHash(t *testing.T) {
	root := writeTree(t, "a.ts", "b.ts")

	h1, err := ComputeSourcesHash(root, []string{"b.ts", "a.ts"})
	require.NoError(t, err)
	h2, err := ComputeSourcesHash(root, []string{"a.ts", "b.ts"})
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.ts"), []byte("changed"), 0o600))
	h3, err := ComputeSourcesHash(root, []string{"a.ts", "b.ts"})
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)

	_, err = ComputeSourcesHash(root, []string{"gone.ts"})
	require.ErrorIs(t, err, derrors.ErrSourcePathNotFound)
}

func TestDiscover_SkipsEntriesOutsideRoot(t *testing.T) {
	root := writeTree(t, "src/a.ts")
	diag := diagnostics.NewCollector(nil)

	files, err := NewDiscovery(root, nil, diag).Discover([]string{"../other/*.ts", "src"})
	require.NoError(t, err)
	require.Equal(t, []string{"src/a.ts"}, files)
	require.Equal(t, 1, diag.Count(diagnostics.KindInvalidInput))
}
