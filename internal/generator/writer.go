package generator

import (
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
)

// writeOutput writes content to rel (slash-separated) under outputDir and
// returns the full path. Parent directories are created; existing files are
// replaced. rel must stay inside outputDir.
func writeOutput(outputDir, rel string, content []byte) (string, error) {
	if rel == "" {
		return "", ferrors.ValidationError("output path is required").Build()
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if !filepath.IsLocal(clean) {
		return "", ferrors.FileSystemError("output path escapes the output directory").
			WithContext("path", rel).Build()
	}

	fullPath := filepath.Join(outputDir, clean)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
			Fatal().WithContext("path", filepath.Dir(fullPath)).Build()
	}
	// #nosec G306 -- generated documentation is meant to be readable by the web server.
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output file").
			Fatal().WithContext("path", fullPath).Build()
	}
	return fullPath, nil
}
