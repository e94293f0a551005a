// Package vcs looks up the source revision shown on the index page.
package vcs

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ShortHashLen is the number of hex digits of a revision shown to readers.
const ShortHashLen = 8

// ErrNoRevision indicates dir is not inside a repository or HEAD has no commit.
var ErrNoRevision = errors.New("no source revision")

// Revision describes the checked-out commit.
type Revision struct {
	Hash string
	// Branch is empty for a detached HEAD.
	Branch string
}

// Short returns the abbreviated hash.
func (r Revision) Short() string {
	if len(r.Hash) <= ShortHashLen {
		return r.Hash
	}
	return r.Hash[:ShortHashLen]
}

// String renders "branch@short" or just the short hash.
func (r Revision) String() string {
	if r.Branch == "" {
		return r.Short()
	}
	return r.Branch + "@" + r.Short()
}

// Head returns the revision of the repository containing dir. Parent
// directories are searched for the .git directory.
func Head(dir string) (Revision, error) {
	repository, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Revision{}, ErrNoRevision
		}
		return Revision{}, fmt.Errorf("failed to open repository: %w", err)
	}

	ref, err := repository.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Revision{}, ErrNoRevision
		}
		return Revision{}, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	rev := Revision{Hash: ref.Hash().String()}
	if ref.Name().IsBranch() {
		rev.Branch = ref.Name().Short()
	}
	return rev, nil
}
