// Package errors provides the classified error primitives used across dulynoted.
//
// Fatal conditions (a missing parse cache, an invalid configuration, an unwritable
// output directory) travel as *ClassifiedError values. Recoverable findings such as
// unresolved links are not errors; they are collected by package diagnostics.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "cannot write output").
//		Fatal().
//		WithContext("path", outPath).
//		Build()
package errors
