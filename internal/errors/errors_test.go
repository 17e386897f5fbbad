package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrNetwork,
		ErrParse,
		ErrTimeout,
		ErrBuffer,
		ErrRender,
		ErrRuntime,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Alert target 'errors' is not a series of chart 'api'",
			suggestion: "Add a series named 'errors' or fix the alert target",
		},
		{
			name:       "network error",
			code:       ErrNetwork,
			message:    "Prometheus query failed",
			suggestion: "Check that Prometheus is reachable",
		},
		{
			name:       "buffer error",
			code:       ErrBuffer,
			message:    "Sample value is NaN",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrParse, "unexpected result type %q", "histogram")
	assert.Equal(t, ErrParse, err.Code)
	assert.Equal(t, `unexpected result type "histogram"`, err.Message)
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "basic error formatting",
			err:           New(ErrConfig, "Invalid configuration", "Check chartty.yaml syntax"),
			expectedParts: []string{"✗", "Invalid configuration", "Check chartty.yaml syntax"},
		},
		{
			name:          "error without suggestion",
			err:           New(ErrRender, "Terminal too small", ""),
			expectedParts: []string{"Terminal too small"},
			notExpected:   []string{"\n\n  \n"},
		},
		{
			name:          "error with cause",
			err:           WrapWithCode(errors.New("connection refused"), ErrNetwork, "Query failed", "Is Prometheus running?"),
			expectedParts: []string{"Query failed", "connection refused", "Is Prometheus running?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()

			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part)
			}
		})
	}
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("dial tcp 127.0.0.1:9090: connect: connection refused"),
		ErrNetwork,
		"Prometheus query failed for series 'load'",
		"Check the series source URL",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "✗"))
	assert.Contains(t, lines[0], "series 'load'")
}

func TestWrap(t *testing.T) {
	t.Run("plain cause defaults to runtime", func(t *testing.T) {
		cause := errors.New("boom")
		wrapped := Wrap(cause, "Engine failed")

		assert.Equal(t, ErrRuntime, wrapped.Code)
		assert.Equal(t, "Engine failed", wrapped.Message)
		assert.Equal(t, cause, wrapped.Cause)
	})

	t.Run("structured cause keeps its code", func(t *testing.T) {
		cause := New(ErrTimeout, "fetch timed out", "")
		wrapped := Wrap(cause, "Series 'cpu' tick failed")

		assert.Equal(t, ErrTimeout, wrapped.Code)
	})
}

func TestErrorsIsAndAs(t *testing.T) {
	wrapped := WrapWithCode(context.DeadlineExceeded, ErrTimeout, "fetch timed out", "")

	assert.True(t, errors.Is(wrapped, context.DeadlineExceeded))
	assert.Equal(t, context.DeadlineExceeded, wrapped.Unwrap())

	var chErr *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &chErr))
	assert.Equal(t, ErrTimeout, chErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrNetwork))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
	assert.True(t, IsCode(fmt.Errorf("wrapped: %w", err), ErrConfig))
}

func TestIsFetch(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "network", err: New(ErrNetwork, "x", ""), want: true},
		{name: "parse", err: New(ErrParse, "x", ""), want: true},
		{name: "timeout", err: New(ErrTimeout, "x", ""), want: true},
		{name: "config", err: New(ErrConfig, "x", ""), want: false},
		{name: "buffer", err: New(ErrBuffer, "x", ""), want: false},
		{name: "plain", err: errors.New("x"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFetch(tt.err))
		})
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))
	assert.Equal(t, "plain", Summary(errors.New("plain")))
	assert.Equal(t, "Query failed", Summary(New(ErrNetwork, "Query failed", "retry later")))
	assert.Equal(t,
		"Query failed: connection refused",
		Summary(WrapWithCode(errors.New("connection refused"), ErrNetwork, "Query failed", "retry later")),
	)
}
