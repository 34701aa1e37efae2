// Package errors provides the classified error primitives used across docparse.
//
// A ClassifiedError carries a category (config, filesystem, parser, index, ...),
// a severity and a retry strategy, plus free-form context. The CLI maps the
// category to an exit code through CLIErrorAdapter.
//
// Example usage:
//
//	err := errors.FileSystemError("cannot create output sub-directory").
//		Fatal().
//		WithContext("subdir", sub).
//		WithCause(mkdirErr).
//		Build()
//
// Warnings that do not stop a run (a metacommand on the wrong node, a file path
// outside the bundle base dir) are not errors; they go through internal/diag.
package errors
