package httputil

import (
	"encoding/json"
	"net/http"

	verrors "github.com/matzehuels/vibegraph/pkg/errors"
)

// ErrorBody is the payload of an error response.
type ErrorBody struct {
	Code    verrors.Code `json:"code"`
	Message string       `json:"message"`
}

// ErrorResponse is the envelope of every error response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteBytes writes a raw body with the given content type.
func WriteBytes(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// WriteError writes err as an error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := verrors.GetCode(err)
	msg := verrors.UserMessage(err)
	if code == "" {
		code, msg = verrors.ErrCodeInternal, "internal error"
	}
	WriteJSON(w, verrors.HTTPStatus(code), ErrorResponse{Error: ErrorBody{Code: code, Message: msg}})
}
