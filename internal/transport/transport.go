// internal/transport/transport.go
package transport

import (
	"errors"
	"time"
)

// Sentinel failures the connection layer dispatches on.
var (
	// ErrNoData means nothing arrived within the read timeout. Not a fault.
	ErrNoData = errors.New("transport: no data")

	// ErrBusy means another process holds the device.
	ErrBusy = errors.New("transport: device busy")

	// ErrNotFound means the device path does not exist.
	ErrNotFound = errors.New("transport: device not found")

	// ErrClosed means the device went away mid-session.
	ErrClosed = errors.New("transport: closed")
)

// Port is one open serial line as the bridge sees it.
// A Port is not safe for concurrent use; the read loop owns it exclusively.
type Port interface {
	// ReadLine returns one newline-delimited line without its terminator.
	// Returns ErrNoData when no complete line arrived within the timeout.
	ReadLine() (string, error)

	// Write sends raw bytes to the device.
	Write(p []byte) (int, error)

	// Check is a non-blocking liveness probe of the underlying device.
	Check() error

	// Drain discards input buffered before the current session.
	Drain() error

	Close() error
}

// Opener creates ports. The locator and the connection manager share one.
type Opener interface {
	Open(path string, baud int, timeout time.Duration) (Port, error)
}
