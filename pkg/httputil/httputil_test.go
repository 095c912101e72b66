package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	verrors "github.com/matzehuels/vibegraph/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   verrors.Code
		wantMsg    string
	}{
		{
			name:       "coded",
			err:        verrors.New(verrors.ErrCodeSessionNotFound, "session %q not found", "abc"),
			wantStatus: http.StatusNotFound,
			wantCode:   verrors.ErrCodeSessionNotFound,
			wantMsg:    `session "abc" not found`,
		},
		{
			name:       "wrapped",
			err:        fmt.Errorf("build: %w", verrors.New(verrors.ErrCodeDanglingReference, "missing artist")),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   verrors.ErrCodeDanglingReference,
			wantMsg:    "missing artist",
		},
		{
			name:       "plain",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   verrors.ErrCodeInternal,
			wantMsg:    "internal error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.wantCode || body.Error.Message != tt.wantMsg {
				t.Errorf("body = %+v", body.Error)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"ok"}` {
		t.Errorf("body = %s", got)
	}
}

type pinRequest struct {
	NodeID string  `json:"nodeId" validate:"required"`
	Mode   string  `json:"mode" validate:"omitempty,oneof=vibe artist"`
	Zoom   float64 `json:"zoom" validate:"gte=0"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"nodeId":"song-a","mode":"artist"}`, ""},
		{"missing field", `{"mode":"vibe"}`, "nodeId is required"},
		{"empty body", ``, "nodeId is required"},
		{"bad enum", `{"nodeId":"x","mode":"grid"}`, "mode must be one of: vibe artist"},
		{"negative", `{"nodeId":"x","zoom":-1}`, "zoom must be at least 0"},
		{"unknown field", `{"nodeId":"x","color":"red"}`, "malformed request body"},
		{"malformed", `{"nodeId":`, "malformed request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var req pinRequest
			err := Decode(httptest.NewRecorder(), r, &req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if req.NodeID != "song-a" || req.Mode != "artist" {
					t.Errorf("decoded %+v", req)
				}
				return
			}
			if !verrors.Is(err, verrors.ErrCodeInvalidInput) {
				t.Fatalf("err = %v, want INVALID_INPUT", err)
			}
			if msg := verrors.UserMessage(err); msg != tt.wantErr {
				t.Errorf("message = %q, want %q", msg, tt.wantErr)
			}
		})
	}
}
