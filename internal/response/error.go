package response

import (
	"errors"
	"fmt"
)

// Error is the typed failure returned by the quiz service client.
type Error struct {
	Code      ErrCode
	Status    int    // HTTP status, 0 when no response was received
	Message   string // service-provided message, or GetMessage(Code)
	RequestID string
	Err       error // underlying cause, if any
}

// NewError builds an Error whose message defaults to the generic text for code.
func NewError(code ErrCode, status int, message string, cause error) *Error {
	if message == "" {
		message = GetMessage(code)
	}
	return &Error{Code: code, Status: status, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on the code: errors.Is(err, &Error{Code: ErrNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the ErrCode carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// MessageOf returns the user-facing message of err, or fallback when err
// carries no service-provided text.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Code == ErrService && e.Message != "" {
		return e.Message
	}
	return fallback
}
