// Package chat implements the session-and-routing core of the relay: the
// per-connection protocol handler, the per-user mailbox, and the directory
// actor that owns the registry of connected users.
package chat

import "context"

// Conn abstracts a bidirectional line stream for both TCP and WebSocket.
// This interface isolates transport details from chat logic; listener setup,
// TLS material, and keepalive tuning all live outside this package.
type Conn interface {
	// ReadLine reads the next input line, without its trailing newline.
	// Returns io.EOF when the connection is closed.
	ReadLine(ctx context.Context) (string, error)

	// WriteLine sends a single protocol line, appending the newline.
	WriteLine(ctx context.Context, line string) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the remote address for logging.
	RemoteAddr() string
}
