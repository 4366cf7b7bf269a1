// internal/conn/manager.go
package conn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/health-bridge/internal/locator"
	"github.com/tamzrod/health-bridge/internal/status"
	"github.com/tamzrod/health-bridge/internal/transport"
)

// ErrNoDeviceFound means discovery produced no endpoint that survived a probe.
var ErrNoDeviceFound = errors.New("conn: no device found")

// Locator abstracts endpoint discovery. The manager depends on paths only.
type Locator interface {
	Discover() []locator.Candidate
	Probe(path string) bool
}

// Config is the minimal runtime config the manager needs.
type Config struct {
	Pinned       string // optional fixed device path; "" means discover
	Baud         int
	ReadTimeout  time.Duration
	PollInterval time.Duration

	Connect   RetryPolicy // full discover-and-connect cycle
	Reconnect RetryPolicy // supervised loop reconnect bound + backoff
}

// Manager owns the lifecycle of the active transport connection.
//
// All transport I/O happens on the goroutine running Run; operator paths
// interact through Request, which posts a command honored on the next tick.
type Manager struct {
	cfg     Config
	opener  transport.Opener
	locator Locator
	tracker *status.Tracker
	log     *zap.SugaredLogger

	cmdCh chan Command

	// Loop-goroutine state. Not guarded; single owner.
	pinned   string
	endpoint string
	port     transport.Port
}

func NewManager(cfg Config, opener transport.Opener, loc Locator, tracker *status.Tracker, log *zap.SugaredLogger) *Manager {
	return &Manager{
		cfg:     cfg,
		opener:  opener,
		locator: loc,
		tracker: tracker,
		log:     log,
		cmdCh:   make(chan Command, 8),
		pinned:  cfg.Pinned,
	}
}

// Connect establishes a transport, retrying the full discover-and-connect
// cycle up to the configured bound with a fixed delay between attempts.
// A busy endpoint clears the pin so the next attempt re-discovers.
func (m *Manager) Connect(ctx context.Context) (string, error) {
	m.setState(status.StateConnecting)

	attempts := m.cfg.Connect.Attempts
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			m.setState(status.StateDisconnected)
			return "", err
		}

		path := m.pinned
		if path == "" {
			m.log.Infof("attempt %d/%d: scanning for devices", attempt, attempts)
			path = m.selectEndpoint()
			if path == "" {
				lastErr = ErrNoDeviceFound
				m.log.Warnf("no working device found (attempt %d/%d)", attempt, attempts)
				if attempt < attempts {
					_ = m.cfg.Connect.Wait(ctx)
				}
				continue
			}
			m.log.Infof("selected device %s", path)
		}

		port, err := m.opener.Open(path, m.cfg.Baud, m.cfg.ReadTimeout)
		if err != nil {
			lastErr = err
			if errors.Is(err, transport.ErrBusy) {
				m.log.Warnf("%s is busy (attempt %d/%d)", path, attempt, attempts)
				// Re-discover next time; the busy holder may own only this alias.
				m.pinned = ""
				if attempt < attempts {
					_ = m.cfg.Connect.Wait(ctx)
				}
				continue
			}
			m.setState(status.StateDisconnected)
			return "", fmt.Errorf("connect: %w", err)
		}

		if err := port.Drain(); err != nil {
			m.log.Warnf("drain after connect: %v", err)
		}

		m.port = port
		m.endpoint = path
		m.tracker.SetEndpoint(path)
		m.setState(status.StateConnected)
		m.log.Infof("connected to %s", path)
		return path, nil
	}

	m.setState(status.StateDisconnected)
	return "", fmt.Errorf("connect: %d attempts exhausted: %w", attempts, lastErr)
}

// selectEndpoint returns the first discovered candidate that passes a probe.
func (m *Manager) selectEndpoint() string {
	for _, c := range m.locator.Discover() {
		if m.locator.Probe(c.Path) {
			return c.Path
		}
	}
	return ""
}

// HealthCheck probes the live connection without blocking.
// Any transport-level failure transitions to Degraded and returns false.
func (m *Manager) HealthCheck() bool {
	if m.port == nil {
		return false
	}
	if err := m.port.Check(); err != nil {
		m.log.Warnf("connection lost: %v", err)
		m.setState(status.StateDegraded)
		return false
	}
	return true
}

// Reconnect forces a disconnect, waits the connect delay, then connects.
func (m *Manager) Reconnect(ctx context.Context) (string, error) {
	m.Disconnect()
	if err := m.cfg.Connect.Wait(ctx); err != nil {
		return "", err
	}
	return m.Connect(ctx)
}

// Disconnect is idempotent; close errors are swallowed.
func (m *Manager) Disconnect() {
	if m.port != nil {
		_ = m.port.Close()
		m.port = nil
		m.log.Infof("disconnected from %s", m.endpoint)
	}
	m.setState(status.StateDisconnected)
}

// Send writes operator bytes to the device. A write failure degrades the
// connection; the supervised loop picks it up on its next tick.
func (m *Manager) Send(data []byte) error {
	if m.port == nil {
		return fmt.Errorf("send: %w", transport.ErrClosed)
	}
	if _, err := m.port.Write(data); err != nil {
		m.setState(status.StateDegraded)
		return fmt.Errorf("send: %w", err)
	}
	m.log.Infof("sent command %q", data)
	return nil
}

func (m *Manager) setState(s status.ConnState) {
	m.tracker.SetState(s)
}
