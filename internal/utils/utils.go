package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	internal_errors "github.com/mathieulrl/world-chat-sub000/internal/errors"
	"github.com/mathieulrl/world-chat-sub000/shared/logger"
)

// DecodeValidate parses a JSON request body and checks required fields.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return &internal_errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		return &internal_errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: http.StatusBadRequest}
	}
	return nil
}

// WriteErrorAndStatusCode maps core errors onto HTTP responses. The dual
// write's failure modes keep their identity so clients can tell a rejected
// send from an unreachable backend.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var withStatus *internal_errors.ErrorWithStatusCode
	if errors.As(err, &withStatus) {
		http.Error(w, withStatus.Message, withStatus.StatusCode)
		return
	}

	switch {
	case errors.Is(err, internal_errors.ErrWriteRejected):
		// Signer declined or contract reverted: retrying as-is will not help.
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, internal_errors.ErrContentWriteFailed),
		errors.Is(err, internal_errors.ErrIndexWriteFailed),
		errors.Is(err, internal_errors.ErrStorageUnavailable),
		errors.Is(err, internal_errors.ErrWriteUnavailable),
		errors.Is(err, internal_errors.ErrReadUnavailable):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, internal_errors.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		logger.Log.Error("unhandled error", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
