package httpclient

import (
	"errors"
	"fmt"
)

// APIError is returned for any non-2xx remote response. It keeps the raw
// status and body so callers can log exactly what the remote said.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote api returned status %d: %s", e.StatusCode, e.Body)
}

// NewAPIError builds an APIError from a raw response.
func NewAPIError(resp *BaseResponse) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
	}
}

// AsAPIError unwraps err into an *APIError if it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
