package apiclient

import "errors"

// Sentinel kinds for API client errors.
var (
	// ErrRequestFailed matches every *RequestError.
	ErrRequestFailed = errors.New("request failed")
	// ErrNoContent is returned by Success.Decode when the body held no JSON.
	ErrNoContent = errors.New("response has no JSON content")
)

// RequestError is the single error kind produced for non-2xx responses.
type RequestError struct {
	Status  int
	Message string
}

// Error returns the human-readable message chosen for the response.
func (e *RequestError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrRequestFailed) true.
func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }
