package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Result is either a Success or a Failure. Consume it with a type switch.
type Result interface {
	StatusCode() int
	result()
}

// Success is a 2xx response. Value is the parsed JSON body, or nil when the
// body was empty or not JSON.
type Success struct {
	Status int
	Value  any
	Raw    []byte
}

// Failure is a response outside 2xx.
type Failure struct {
	Status  int
	Message string
	Value   any
	Raw     []byte
}

func (s Success) StatusCode() int { return s.Status }
func (f Failure) StatusCode() int { return f.Status }
func (Success) result()           {}
func (Failure) result()           {}

// Decode unmarshals the body into v.
func (s Success) Decode(v any) error {
	if s.Value == nil {
		return ErrNoContent
	}
	if err := json.Unmarshal(s.Raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Err converts the failure into a *RequestError.
func (f Failure) Err() error {
	return &RequestError{Status: f.Status, Message: f.Message}
}

// response is the parsed form of one HTTP exchange. It lives only for the
// duration of a call.
type response struct {
	ok     bool
	status int
	data   any
	text   string
	reason string
}

func parseResponse(status int, statusLine string, body []byte) response {
	r := response{
		ok:     status >= 200 && status <= 299,
		status: status,
		text:   string(body),
		reason: reasonPhrase(status, statusLine),
	}
	if len(body) > 0 {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			r.data = v
		}
	}
	return r
}

func (r response) toResult(raw []byte) Result {
	if r.ok {
		return Success{Status: r.status, Value: r.data, Raw: raw}
	}
	return Failure{Status: r.status, Message: r.failureMessage(), Value: r.data, Raw: raw}
}

// failureMessage picks the body's "message" field, then the raw text, then
// the reason phrase.
func (r response) failureMessage() string {
	if obj, ok := r.data.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if r.text != "" {
		return r.text
	}
	return r.reason
}

func reasonPhrase(status int, statusLine string) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	if text := strings.TrimSpace(strings.TrimPrefix(statusLine, strconv.Itoa(status))); text != "" {
		return text
	}
	return "HTTP " + strconv.Itoa(status)
}
