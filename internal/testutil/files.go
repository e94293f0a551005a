// Package testutil holds file system and git helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WriteFiles creates every file in files under dir. Keys are slash separated
// paths relative to dir; missing parent directories are created.
func WriteFiles(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
}

// TempTree returns a fresh temporary directory populated with files.
func TempTree(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFiles(t, dir, files)
	return dir
}

// FileAssertions checks the state of a directory tree. Failures are reported
// with assert so one call chain can surface several problems.
type FileAssertions struct {
	t       testing.TB
	baseDir string
}

func NewFileAssertions(t testing.TB, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

func (fa *FileAssertions) Exists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.FileExists(fa.t, fa.path(rel))
	return fa
}

func (fa *FileAssertions) NotExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.NoFileExists(fa.t, fa.path(rel))
	return fa
}

func (fa *FileAssertions) DirExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.DirExists(fa.t, fa.path(rel))
	return fa
}

func (fa *FileAssertions) NoDir(rel string) *FileAssertions {
	fa.t.Helper()
	assert.NoDirExists(fa.t, fa.path(rel))
	return fa
}

// Contains asserts that the file at rel contains want.
func (fa *FileAssertions) Contains(rel, want string) *FileAssertions {
	fa.t.Helper()
	data, err := os.ReadFile(fa.path(rel))
	if !assert.NoError(fa.t, err) {
		return fa
	}
	assert.Contains(fa.t, string(data), want, "file %s", rel)
	return fa
}

// MinFileCount asserts that the directory rel holds at least n regular files,
// not counting subdirectories.
func (fa *FileAssertions) MinFileCount(rel string, n int) *FileAssertions {
	fa.t.Helper()
	entries, err := os.ReadDir(fa.path(rel))
	if !assert.NoError(fa.t, err) {
		return fa
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			count++
		}
	}
	assert.GreaterOrEqual(fa.t, count, n, "files in %s", rel)
	return fa
}

// InitGitRepo turns dir into a git repository and commits everything in it.
// It returns the hash of the commit.
func InitGitRepo(t testing.TB, dir string) plumbing.Hash {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}
