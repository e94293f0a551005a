// Package errors provides sentinel errors for source discovery.
package errors

import "errors"

var (
	// ErrSourcePathNotFound indicates a configured source entry does not exist.
	ErrSourcePathNotFound = errors.New("source path not found")

	// ErrSourceWalkFailed indicates filesystem traversal of a source directory failed.
	ErrSourceWalkFailed = errors.New("source directory walk failed")

	// ErrInvalidPattern indicates a configured glob pattern does not compile.
	ErrInvalidPattern = errors.New("invalid source pattern")

	// ErrNoSourcesFound indicates discovery matched no files at all.
	ErrNoSourcesFound = errors.New("no source files found")

	// ErrInvalidRelativePath indicates a discovered path could not be made relative to the root.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")
)
