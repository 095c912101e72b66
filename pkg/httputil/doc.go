// Package httputil provides the request and response helpers of the
// vibegraph HTTP API.
//
// # Responses
//
// [WriteJSON] writes a JSON body with a status code. [WriteError] turns any
// error into the API error envelope:
//
//	{"error": {"code": "SESSION_NOT_FOUND", "message": "session \"abc\" not found"}}
//
// The status is derived from the error code with errors.HTTPStatus. Errors
// without a code are reported as INTERNAL_ERROR and their message is not
// exposed.
//
// # Requests
//
// [Decode] reads a JSON body into a request struct and validates it with
// go-playground/validator struct tags:
//
//	type modeRequest struct {
//	    Mode string `json:"mode" validate:"required,oneof=vibe artist"`
//	}
//
//	var req modeRequest
//	if err := httputil.Decode(w, r, &req); err != nil {
//	    httputil.WriteError(w, err)
//	    return
//	}
//
// Decode and validation failures are INVALID_INPUT errors.
package httputil
