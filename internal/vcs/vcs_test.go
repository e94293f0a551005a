package vcs

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dulynoted/internal/testutil"
)

func TestHead(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"src/a.ts": "// !a\n"})
	hash := testutil.InitGitRepo(t, dir)

	rev, err := Head(filepath.Join(dir, "src"))
	require.NoError(t, err)
	require.Equal(t, hash.String(), rev.Hash)
	require.Equal(t, hash.String()[:ShortHashLen], rev.Short())
	require.Equal(t, "master", rev.Branch)
	require.Equal(t, "master@"+rev.Short(), rev.String())
}

func TestHead_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = Head(dir)
	require.ErrorIs(t, err, ErrNoRevision)
}

func TestHead_NotARepository(t *testing.T) {
	_, err := Head(t.TempDir())
	require.ErrorIs(t, err, ErrNoRevision)
}

func TestRevision_String(t *testing.T) {
	require.Equal(t, "abc", Revision{Hash: "abc"}.String())
	require.Equal(t, "0123456789ab"[:ShortHashLen], Revision{Hash: "0123456789ab"}.String())
}
