package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrAuth           = errors.New("authentication failed")
	ErrToken          = errors.New("invalid or expired token")
	ErrNetwork        = errors.New("network unavailable")
	ErrBackend        = errors.New("backend error")
	ErrSessionExpired = errors.New("session expired")
)

const (
	NetworkErrorMessage  = "Network error. Please check your connection and try again."
	FallbackErrorMessage = "Something went wrong. Please try again."
)

// Error is the single error type returned by the API client and the
// services built on it. Kind is one of the sentinel errors above, Message is
// ready for display.
type Error struct {
	Kind    error
	Status  int
	Message string
	Err     error

	// Authenticated is set when the failed request carried a bearer token.
	Authenticated bool
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return FallbackErrorMessage
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error's Kind. A 401 on a request that carried a token also
// matches ErrSessionExpired.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if target == e.Kind {
		return true
	}
	return target == ErrSessionExpired && e.Status == 401 && e.Authenticated
}

// NewError builds an *Error of the given kind with a display message.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Message returns the display message of err. Errors that did not come from
// this package fall back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// ErrorMessage normalizes a backend error body into one display string.
//
// A detail list (request validation errors) is rendered as "field: msg" items
// joined with ", ", where field is the location without its leading segment.
// A string detail is used as is, an object detail contributes its msg or
// message field. A top-level message is used last.
func ErrorMessage(body []byte) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return FallbackErrorMessage
	}

	if msg, ok := detailMessage(envelope.Detail); ok {
		return msg
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return FallbackErrorMessage
}

func detailMessage(raw json.RawMessage) (string, bool) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return "", false
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, detailItem(item))
		}
		return strings.Join(parts, ", "), true
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '{':
		var obj struct {
			Msg     string `json:"msg"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", false
		}
		switch {
		case obj.Msg != "":
			return obj.Msg, true
		case obj.Message != "":
			return obj.Message, true
		default:
			return string(compact(raw)), true
		}
	}
	return "", false
}

func detailItem(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var item struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &item); err != nil || item.Msg == "" {
		return string(compact(raw))
	}

	field := make([]string, 0, len(item.Loc))
	for i, seg := range item.Loc {
		if i == 0 {
			continue
		}
		field = append(field, locSegment(seg))
	}
	if len(field) == 0 {
		return item.Msg
	}
	return strings.Join(field, ".") + ": " + item.Msg
}

func locSegment(seg any) string {
	switch v := seg.(type) {
	case string:
		return v
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func compact(raw json.RawMessage) []byte {
	var b bytes.Buffer
	if err := json.Compact(&b, raw); err != nil {
		return raw
	}
	return b.Bytes()
}
