package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "docparse.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "docparse.yaml", file)
	})

	t.Run("Wrapped cause", func(t *testing.T) {
		cause := stderrors.New("permission denied")
		err := FileSystemError("cannot create output sub-directory").
			Fatal().
			WithCause(cause).
			Build()

		assert.ErrorIs(t, err, cause)
		assert.True(t, err.IsFatal())
		assert.Contains(t, err.Error(), "[filesystem:fatal]")
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := ParserError("initialize failed").Build()
		wrapped := fmt.Errorf("parser cpp: %w", inner)

		assert.True(t, IsClassified(wrapped))
		assert.True(t, HasCategory(wrapped, CategoryParser))
		assert.False(t, IsFatal(wrapped))
		assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	})

	t.Run("Sentinel comparison", func(t *testing.T) {
		sentinel := IndexError("title index closed").Build()
		derived := sentinel.WithContext("name", "overview")

		assert.ErrorIs(t, derived, sentinel)
		_, ok := sentinel.Context().Get("name")
		assert.False(t, ok, "WithContext must not mutate the receiver")
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
			{"NotFoundError", NotFoundError("test"), CategoryNotFound, SeverityError, RetryNever},
			{"ParserError", ParserError("test"), CategoryParser, SeverityError, RetryNever},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryNever},
			{"IndexError", IndexError("test"), CategoryIndex, SeverityError, RetryNever},
			{"RuntimeError", RuntimeError("test"), CategoryRuntime, SeverityFatal, RetryNever},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				assert.Equal(t, tt.category, err.Category())
				assert.Equal(t, tt.severity, err.Severity())
				assert.Equal(t, tt.retry, err.RetryStrategy())
			})
		}
	})
}

func TestErrorContextMerge(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	v1, _ := merged.GetString("key1")
	v2, _ := merged.GetString("key2")
	shared, _ := merged.GetString("shared")
	assert.Equal(t, "value1", v1)
	assert.Equal(t, "value2", v2)
	assert.Equal(t, "overridden", shared)

	var nilCtx ErrorContext
	assert.Equal(t, ctx2, nilCtx.Merge(ctx2))
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"filesystem", FileSystemError("mkdir").Fatal().Build(), 11},
		{"wrapped filesystem", fmt.Errorf("run: %w", FileSystemError("mkdir").Build()), 11},
		{"runtime", RuntimeError("boom").Build(), 12},
		{"unclassified", stderrors.New("unknown"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, stderr bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.stderr = &stderr
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(FileSystemError("cannot create output sub-directory").
		Fatal().
		WithContext("subdir", "widgets").
		Build())

	assert.Equal(t, 11, code)
	assert.Contains(t, stderr.String(), "cannot create output sub-directory")
	assert.Contains(t, logs.String(), "subdir=widgets")

	adapter.HandleError(InternalError("nil tree").Build())
	assert.Contains(t, stderr.String(), "use -v for details")
}
