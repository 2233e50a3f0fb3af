/*
Package errs provides custom error types and application-level error code constants.

These error codes identify the failures the chat client can run into, both on the
socket (connect, send, decode) and on the local state inspector HTTP surface.
*/
package errs

// 1xxx: Inspector Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the inspector limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 4xxx: Connection and Session Errors
const (
	// ErrConnectionFailed indicates the websocket to the chat server could not be established.
	ErrConnectionFailed = 4001

	// ErrConnectionClosed indicates the connection is closed and can no longer carry frames.
	ErrConnectionClosed = 4002

	// ErrSendQueueFull indicates the outbound queue is saturated and the frame was dropped.
	ErrSendQueueFull = 4003

	// ErrSendFailed indicates the transport rejected an outbound write.
	ErrSendFailed = 4004

	// ErrDecodeFailed indicates an inbound frame was not interpretable under the wire protocol.
	ErrDecodeFailed = 4101

	// ErrMessageTooLong indicates a submitted message exceeded the maximum frame size.
	ErrMessageTooLong = 4201
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general internal error.
	ErrUnknown = 5000
)
