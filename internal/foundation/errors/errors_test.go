package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			Fatal().
			WithContext("file", "duly-noted.json").
			Build()

		require.Equal(t, CategoryConfig, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())
		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		require.Equal(t, "duly-noted.json", file)
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading: %w", ParseError("internal references missing").Build())

		require.True(t, IsClassified(err))
		require.True(t, HasCategory(err, CategoryParse))
		require.Equal(t, CategoryParse, GetCategory(err))
		require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	})

	t.Run("Unwrap exposes cause", func(t *testing.T) {
		cause := stderrors.New("disk full")
		err := WrapError(cause, CategoryFileSystem, "cannot write output").Build()
		require.ErrorIs(t, err, cause)
		require.Contains(t, err.Error(), "disk full")
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := ConfigError("bad").Build()
		derived := base.WithContext("key", "value")
		_, ok := base.Context().Get("key")
		require.False(t, ok)
		v, ok := derived.Context().GetString("key")
		require.True(t, ok)
		require.Equal(t, "value", v)
	})
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{stderrors.New("x"), 1},
		{ValidationError("strict").Build(), 2},
		{ConfigError("cfg").Build(), 7},
		{ParseError("cache").Build(), 11},
		{FileSystemError("fs").Build(), 11},
		{InternalError("bug").Build(), 10},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, a.ExitCodeFor(tc.err), "%v", tc.err)
	}
}

func TestCLIErrorAdapter_Handle(t *testing.T) {
	var logs, out bytes.Buffer
	a := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	a.out = &out

	code := a.Handle(ConfigError("anchorRegExp has no capture group").Build())
	require.Equal(t, 7, code)
	require.Equal(t, "Error: anchorRegExp has no capture group\n", out.String())
	require.Contains(t, logs.String(), "category=config")
}

func TestHTTPErrorAdapter_WriteError(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	a.WriteError(rec, ParseError("build failed").WithContext("file", "a.ts").Build())

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.JSONEq(t, `{"error":"build failed","category":"parse","details":{"file":"a.ts"}}`, rec.Body.String())
}
