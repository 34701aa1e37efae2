package titleindex

import (
	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
)

var (
	// ErrIndexClosed indicates the index was used after Close.
	ErrIndexClosed = errors.IndexError("title index is closed").Build()

	// ErrOpenFailed indicates the sqlite database could not be opened.
	ErrOpenFailed = errors.IndexError("could not open title index database").Fatal().Build()

	// ErrSchemaFailed indicates the schema could not be created.
	ErrSchemaFailed = errors.IndexError("failed to initialize title index schema").Fatal().Build()

	// ErrWriteFailed indicates storing a title failed.
	ErrWriteFailed = errors.IndexError("failed to store page title").Build()

	// ErrQueryFailed indicates reading titles failed.
	ErrQueryFailed = errors.IndexError("failed to query page titles").Build()
)
