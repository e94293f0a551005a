// Package store persists the parse cache shared by the parse and generate
// stages: the anchor tree, the external reference table and one line map per
// source file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	"git.home.luguber.info/inful/dulynoted/internal/extract"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/logfields"
	"git.home.luguber.info/inful/dulynoted/internal/refs"
	"git.home.luguber.info/inful/dulynoted/internal/resolver"
)

const (
	InternalReferencesFile = "internalReferences.json"
	ExternalReferencesFile = "externalReferences.json"
)

var (
	// ErrMissingReferences indicates a reference document is absent from the cache.
	ErrMissingReferences = errors.New("parse cache reference document missing")
	// ErrCorruptDocument indicates a cache document does not decode.
	ErrCorruptDocument = errors.New("parse cache document corrupt")
	// ErrUnsafePath indicates a file map name that would escape the cache directory.
	ErrUnsafePath = errors.New("file name escapes the parse directory")
)

// Cache is a parse cache rooted at one directory.
type Cache struct {
	dir string
}

// New returns a cache stored under dir.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// WriteReferences stores the anchor tree.
func (c *Cache) WriteReferences(tree *refs.Collection) error {
	return c.writeJSON(InternalReferencesFile, tree.Record())
}

// WriteExternal stores the external reference table.
func (c *Cache) WriteExternal(table []resolver.ExternalReference) error {
	if table == nil {
		table = []resolver.ExternalReference{}
	}
	return c.writeJSON(ExternalReferencesFile, table)
}

// WriteFile stores the line map of one source file as <name>.json.
func (c *Cache) WriteFile(f *extract.File) error {
	if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
		return ferrors.FileSystemError("cannot store line map").
			WithCause(fmt.Errorf("%w: %s", ErrUnsafePath, f.Name)).
			WithContext("file", f.Name).
			Build()
	}
	return c.writeJSON(f.Name+".json", f)
}

// ReadReferences loads and inflates the anchor tree.
func (c *Cache) ReadReferences() (*refs.Collection, error) {
	var record refs.Record
	if err := c.readJSON(InternalReferencesFile, &record); err != nil {
		return nil, err
	}
	return refs.Inflate(record), nil
}

// ReadExternal loads the external reference table.
func (c *Cache) ReadExternal() ([]resolver.ExternalReference, error) {
	var table []resolver.ExternalReference
	if err := c.readJSON(ExternalReferencesFile, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// ReadFiles loads every line map in the cache, sorted by name. Documents that
// do not decode are reported and skipped.
func (c *Cache) ReadFiles(diag *diagnostics.Collector) ([]*extract.File, error) {
	var files []*extract.File
	err := filepath.WalkDir(c.dir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}
		rel, err := filepath.Rel(c.dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == InternalReferencesFile || rel == ExternalReferencesFile {
			return nil
		}
		// #nosec G304 -- p is inside the cache directory
		data, err := os.ReadFile(p)
		if err != nil {
			diag.Report(diagnostics.KindInvalidInput, rel, -1, "cannot read line map: %v", err)
			return nil
		}
		var f extract.File
		if err := json.Unmarshal(data, &f); err != nil {
			diag.Report(diagnostics.KindInvalidInput, rel, -1, "%s: %v", ErrCorruptDocument, err)
			return nil
		}
		if f.Name == "" {
			f.Name = strings.TrimSuffix(rel, ".json")
		}
		files = append(files, &f)
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot read parse cache").
			Fatal().
			WithContext("dir", c.dir).
			Build()
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Remove deletes the cache directory.
func (c *Cache) Remove() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot remove parse cache").
			WithContext("dir", c.dir).
			Build()
	}
	slog.Debug("Removed parse cache", logfields.Path(c.dir))
	return nil
}

func (c *Cache) writeJSON(name string, v any) error {
	p := filepath.Join(c.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot create parse directory").
			Fatal().
			WithContext("path", p).
			Build()
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "cannot encode parse cache document").
			Fatal().
			WithContext("path", p).
			Build()
	}
	if err := os.WriteFile(p, append(data, '\n'), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot write parse cache document").
			Fatal().
			WithContext("path", p).
			Build()
	}
	return nil
}

func (c *Cache) readJSON(name string, v any) error {
	p := filepath.Join(c.dir, name)
	// #nosec G304 -- p is inside the cache directory
	data, err := os.ReadFile(p)
	if err != nil {
		cause := err
		if errors.Is(err, fs.ErrNotExist) {
			cause = fmt.Errorf("%w: %s", ErrMissingReferences, name)
		}
		return ferrors.ParseError("cannot load "+name+"; run parse first").
			WithCause(cause).
			WithContext("path", p).
			Build()
	}
	if err := json.Unmarshal(data, v); err != nil {
		return ferrors.ParseError("cannot decode "+name).
			WithCause(fmt.Errorf("%w: %w", ErrCorruptDocument, err)).
			WithContext("path", p).
			Build()
	}
	return nil
}
