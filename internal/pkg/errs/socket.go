/*
Package errs provides custom error types and application-level error code constants.

This file defines the three socket-level failure kinds of the chat client:
ConnectionError (fatal to the session), SendError (logged, non-fatal) and
DecodeError (dropped silently by the session reducer).
*/
package errs

import (
	"errors"
	"fmt"
)

// ConnectionError reports that the transport could not be established or was lost.
type ConnectionError struct {
	Code int
	URL  string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection %s: %s: %v", e.URL, Message(e.Code), e.Err)
	}
	return fmt.Sprintf("connection %s: %s", e.URL, Message(e.Code))
}

func (e *ConnectionError) Unwrap() error  { return e.Err }
func (e *ConnectionError) ErrorCode() int { return e.Code }

// SendError reports that an outbound frame was not handed to the transport.
type SendError struct {
	Code int
	Err  error
}

func (e *SendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("send: %s: %v", Message(e.Code), e.Err)
	}
	return "send: " + Message(e.Code)
}

func (e *SendError) Unwrap() error  { return e.Err }
func (e *SendError) ErrorCode() int { return e.Code }

// DecodeError reports a frame that is not interpretable under the wire protocol.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
	}
	return "decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error  { return e.Err }
func (e *DecodeError) ErrorCode() int { return ErrDecodeFailed }

// NewConnectionError builds a ConnectionError for url with the given code.
func NewConnectionError(code int, url string, err error) *ConnectionError {
	return &ConnectionError{Code: code, URL: url, Err: err}
}

// NewSendError builds a SendError with the given code.
func NewSendError(code int, err error) *SendError {
	return &SendError{Code: code, Err: err}
}

// NewDecodeError builds a DecodeError. Formatting arguments apply to reason.
func NewDecodeError(err error, reason string, args ...any) *DecodeError {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	return &DecodeError{Reason: reason, Err: err}
}

// IsConnection reports whether err is or wraps a *ConnectionError.
func IsConnection(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}

// IsSend reports whether err is or wraps a *SendError.
func IsSend(err error) bool {
	var target *SendError
	return errors.As(err, &target)
}

// IsDecode reports whether err is or wraps a *DecodeError.
func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}
