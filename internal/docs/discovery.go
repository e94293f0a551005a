// Package docs discovers the source files whose comments are documented.
package docs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	derrors "git.home.luguber.info/inful/dulynoted/internal/docs/errors"
	"git.home.luguber.info/inful/dulynoted/internal/logfields"
)

// Discovery resolves configured file entries to source paths. An entry is a
// file, a directory (walked recursively) or a glob pattern where "*" stays
// within one path segment and "**" spans segments.
type Discovery struct {
	root    string
	exclude []string
	diag    *diagnostics.Collector
}

// NewDiscovery returns a Discovery rooted at root. Paths under any exclude
// directory (relative to root) are never returned; the output and parse
// directories belong there.
func NewDiscovery(root string, exclude []string, diag *diagnostics.Collector) *Discovery {
	if root == "" {
		root = "."
	}
	cleaned := make([]string, 0, len(exclude))
	for _, e := range exclude {
		if e = cleanRel(e); e != "" && e != "." {
			cleaned = append(cleaned, e)
		}
	}
	return &Discovery{root: root, exclude: cleaned, diag: diag}
}

// Discover returns the matched files as sorted, de-duplicated, slash-separated
// paths relative to the root. Missing plain entries are reported as
// diagnostics; a run that matches nothing fails with ErrNoSourcesFound.
func (d *Discovery) Discover(entries []string) ([]string, error) {
	seen := make(map[string]struct{})
	add := func(rel string) {
		if d.excluded(rel) {
			return
		}
		seen[rel] = struct{}{}
	}

	for _, entry := range entries {
		entry = cleanRel(entry)
		if entry == "" {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(entry)) && entry != "." {
			d.diag.Report(diagnostics.KindInvalidInput, entry, -1, "source entry %q is outside the project root and was skipped", entry)
			continue
		}
		if isPattern(entry) {
			if err := d.matchPattern(entry, add); err != nil {
				return nil, err
			}
			continue
		}

		full := filepath.Join(d.root, filepath.FromSlash(entry))
		info, err := os.Stat(full)
		if err != nil {
			d.diag.Report(diagnostics.KindInvalidInput, entry, -1, "%s: %v", derrors.ErrSourcePathNotFound, err)
			continue
		}
		if !info.IsDir() {
			add(entry)
			continue
		}
		if err := d.walk(entry, add); err != nil {
			return nil, err
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, derrors.ErrNoSourcesFound
	}
	slog.Info("Sources discovered", logfields.Count(len(files)))
	return files, nil
}

func (d *Discovery) matchPattern(pattern string, add func(string)) error {
	matchers, err := compile(pattern)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", derrors.ErrInvalidPattern, pattern, err)
	}
	base := staticPrefix(pattern)
	if _, err := os.Stat(filepath.Join(d.root, filepath.FromSlash(base))); err != nil {
		slog.Debug("Pattern base does not exist", logfields.Path(base))
		return nil
	}
	return d.walk(base, func(rel string) {
		for _, m := range matchers {
			if m.Match(rel) {
				add(rel)
				return
			}
		}
	})
}

// walk visits every regular file below dir, skipping hidden entries.
func (d *Discovery) walk(dir string, visit func(rel string)) error {
	start := filepath.Join(d.root, filepath.FromSlash(dir))
	err := filepath.WalkDir(start, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != start && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return fmt.Errorf("%w: %w", derrors.ErrInvalidRelativePath, err)
		}
		rel = filepath.ToSlash(rel)
		if entry.IsDir() {
			if p != start && d.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Type().IsRegular() {
			slog.Debug("Discovered file", logfields.File(rel))
			visit(rel)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", derrors.ErrSourceWalkFailed, dir, err)
	}
	return nil
}

func (d *Discovery) excluded(rel string) bool {
	for _, e := range d.exclude {
		if rel == e || strings.HasPrefix(rel, e+"/") {
			return true
		}
	}
	return false
}

// compile returns matchers for pattern. "dir/**/x" also matches "dir/x".
func compile(pattern string) ([]glob.Glob, error) {
	variants := []string{pattern}
	if strings.Contains(pattern, "/**/") {
		variants = append(variants, strings.ReplaceAll(pattern, "/**/", "/"))
	}
	if strings.HasPrefix(pattern, "**/") {
		variants = append(variants, strings.TrimPrefix(pattern, "**/"))
	}
	out := make([]glob.Glob, 0, len(variants))
	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func isPattern(entry string) bool {
	return strings.ContainsAny(entry, "*?[{")
}

// staticPrefix returns the leading segments of pattern that contain no glob
// syntax, or "." when the first segment is already a pattern.
func staticPrefix(pattern string) string {
	segments := strings.Split(pattern, "/")
	var static []string
	for _, seg := range segments[:len(segments)-1] {
		if isPattern(seg) {
			break
		}
		static = append(static, seg)
	}
	if len(static) == 0 {
		return "."
	}
	return strings.Join(static, "/")
}

func cleanRel(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "./")
}
