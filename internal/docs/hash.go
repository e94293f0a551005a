package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	derrors "git.home.luguber.info/inful/dulynoted/internal/docs/errors"
)

// ComputeSourcesHash returns a deterministic hash over the names and contents
// of files (slash paths relative to root). It changes whenever a source is
// added, removed, renamed or edited.
func ComputeSourcesHash(root string, files []string) (string, error) {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	h := sha256.New()
	for _, f := range sorted {
		// #nosec G304 -- f is a discovered source path
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f)))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", derrors.ErrSourcePathNotFound, f, err)
		}
		content := sha256.Sum256(data)
		_, _ = fmt.Fprintf(h, "%s\x00%x\n", f, content)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
