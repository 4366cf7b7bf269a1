// internal/status/snapshot.go
package status

// ConnState is the connection lifecycle state of the bridge.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateDegraded
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Snapshot represents exactly what observers are allowed to see.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	State             ConnState `json:"-"`
	StateName         string    `json:"state"`
	Endpoint          string    `json:"endpoint"`
	ReconnectAttempts int       `json:"reconnect_attempts"`
	Patient           int       `json:"patient"`
	Records           int       `json:"records"`
	UploadEnabled     bool      `json:"upload_enabled"`
	LastLine          string    `json:"last_line,omitempty"`
}
