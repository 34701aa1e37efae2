package parser

import (
	"fmt"

	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
)

var (
	// ErrNilParser indicates a nil plugin was registered.
	ErrNilParser = errors.ValidationError("cannot register nil parser").Build()

	// ErrNoLanguage indicates a plugin returned an empty language name.
	ErrNoLanguage = errors.ValidationError("parser language is required").Build()

	// ErrInitializeFailed classifies InitializeParser failures.
	ErrInitializeFailed = errors.ParserError("parser initialization failed").Fatal().Build()
)

// ParserError records which plugin failed and during which operation.
type ParserError struct {
	Language  string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ParserError) Error() string {
	return fmt.Sprintf("parser %s failed during %s: %v", e.Language, e.Operation, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *ParserError) Unwrap() error {
	return e.Err
}

// NewParserError creates a new parser error.
func NewParserError(language, operation string, err error) *ParserError {
	return &ParserError{Language: language, Operation: operation, Err: err}
}
