package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrTransport = errors.New("request could not be completed")
	ErrDecode    = errors.New("response could not be decoded")
	ErrTooLarge  = errors.New("response too large")
)

// APIError is a non-2xx response
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unauthorized reports a 401 or 403, meaning the stored session is unusable
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// newAPIError prefers the JSON message/error fields and falls back to the
// raw body, then to the status text
func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{Status: resp.Status, RequestID: resp.RequestID}

	if resp.IsJSON() {
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(resp.Body, &body); err == nil {
			apiErr.Code = body.Error
			apiErr.Message = body.Message
			if apiErr.Message == "" {
				apiErr.Message = body.Error
			}
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(resp.Body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.Status)
	}
	return apiErr
}
