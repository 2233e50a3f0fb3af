/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
inspector HTTP responses and the messages attached to socket-level errors.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: Inspector Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 4xxx: Connection and Session Errors
	ErrConnectionFailed: {Code: ErrConnectionFailed, Message: "Could not connect to the chat server.", Status: http.StatusBadGateway},
	ErrConnectionClosed: {Code: ErrConnectionClosed, Message: "Connection to the chat server is closed.", Status: http.StatusServiceUnavailable},
	ErrSendQueueFull:    {Code: ErrSendQueueFull, Message: "Too many pending messages. Please try again.", Status: http.StatusServiceUnavailable},
	ErrSendFailed:       {Code: ErrSendFailed, Message: "Message could not be sent.", Status: http.StatusBadGateway},
	ErrDecodeFailed:     {Code: ErrDecodeFailed, Message: "Received an unreadable frame."},
	ErrMessageTooLong:   {Code: ErrMessageTooLong, Message: "Message is too long.", Status: http.StatusRequestEntityTooLarge},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
