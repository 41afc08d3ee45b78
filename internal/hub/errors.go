package hub

import "errors"

// Domain-specific errors for hub session operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnectionFailed is returned when the WebSocket dial fails.
	ErrConnectionFailed = errors.New("hub: connection failed")

	// ErrAuthFailed is returned when the authentication handshake does not
	// end in auth_ok. This covers auth_invalid as well as any unexpected
	// frame received during the handshake.
	ErrAuthFailed = errors.New("hub: authentication failed")

	// ErrTimeout is returned when a command receives no matching response
	// within the configured command timeout.
	ErrTimeout = errors.New("hub: command timed out")

	// ErrConnectionClosed is returned when the connection has been closed,
	// locally or by the hub, and no further commands can be sent.
	ErrConnectionClosed = errors.New("hub: connection closed")

	// ErrProtocol is returned when the hub sends a frame that does not
	// match any recognised shape.
	ErrProtocol = errors.New("hub: unexpected message from hub")
)
