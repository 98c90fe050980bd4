package utils

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_errors "github.com/mathieulrl/world-chat-sub000/internal/errors"
)

type testBody struct {
	Name string `validate:"required" json:"name"`
}

func reader(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func TestDecodeValidate(t *testing.T) {
	var body testBody
	require.NoError(t, DecodeValidate(reader(`{"name":"x"}`), &body))
	assert.Equal(t, "x", body.Name)
}

func TestDecodeValidateBadJSON(t *testing.T) {
	var body testBody
	err := DecodeValidate(reader(`{`), &body)
	var withStatus *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &withStatus)
	assert.Equal(t, http.StatusBadRequest, withStatus.StatusCode)
}

func TestDecodeValidateMissingField(t *testing.T) {
	var body testBody
	err := DecodeValidate(reader(`{}`), &body)
	var withStatus *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &withStatus)
	assert.Equal(t, http.StatusBadRequest, withStatus.StatusCode)
}

func TestWriteErrorAndStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			"explicit status",
			&internal_errors.ErrorWithStatusCode{Message: "nope", StatusCode: http.StatusForbidden},
			http.StatusForbidden,
		},
		{"write rejected", internal_errors.ErrWriteRejected, http.StatusUnprocessableEntity},
		{
			// Rejection identity survives the index-failed wrap: clients must
			// not retry a reverted write as if the backend were down.
			"index failed by rejection",
			fmt.Errorf("%w: %w", internal_errors.ErrIndexWriteFailed, internal_errors.ErrWriteRejected),
			http.StatusUnprocessableEntity,
		},
		{
			"index failed by transport",
			fmt.Errorf("%w: %w", internal_errors.ErrIndexWriteFailed, internal_errors.ErrWriteUnavailable),
			http.StatusBadGateway,
		},
		{"content write failed", internal_errors.ErrContentWriteFailed, http.StatusBadGateway},
		{"storage unavailable", internal_errors.ErrStorageUnavailable, http.StatusBadGateway},
		{"read unavailable", internal_errors.ErrReadUnavailable, http.StatusBadGateway},
		{"not found", internal_errors.ErrNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteErrorAndStatusCode(w, tt.err)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestWriteErrorAndStatusCodeHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrorAndStatusCode(w, errors.New("db password is hunter2"))
	assert.NotContains(t, w.Body.String(), "hunter2")
}
