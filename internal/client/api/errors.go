package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dimasprakoso/siakad-cli/internal/common"
)

// ErrTransport marks network-level failures (DNS, refused connections,
// timeouts). Match with errors.Is.
var ErrTransport = errors.New("transport error")

// Error is the uniform shape of a non-2xx backend response. Callers branch
// on StatusCode and display Message; they never see the transport library's
// own error types.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Is maps well-known status codes onto the shared sentinels, so callers can
// use errors.Is(err, common.ErrNotFound) without reaching for StatusCode.
func (e *Error) Is(target error) bool {
	switch target {
	case common.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case common.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case common.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	}
	return false
}

// AsError extracts an *Error from err, if one is present in the chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 or 403 backend response,
// i.e. a signal that the current session is no longer valid for the call.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsError(err)
	return ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// errorPayload covers the message shapes the backend emits: a plain string
// or a list of validation messages.
type errorPayload struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

// normalizeError turns a non-2xx response body into *Error. An unparsable
// body falls back to the HTTP status text.
func normalizeError(statusCode int, body []byte) *Error {
	e := &Error{StatusCode: statusCode, Message: http.StatusText(statusCode)}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}

	if len(payload.Message) > 0 {
		var single string
		if err := json.Unmarshal(payload.Message, &single); err == nil && single != "" {
			e.Message = single
			return e
		}
		var many []string
		if err := json.Unmarshal(payload.Message, &many); err == nil && len(many) > 0 {
			e.Message = strings.Join(many, "; ")
			return e
		}
	}
	if payload.Error != "" {
		e.Message = payload.Error
	}
	return e
}
