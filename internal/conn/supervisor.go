// internal/conn/supervisor.go
package conn

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tamzrod/health-bridge/internal/status"
	"github.com/tamzrod/health-bridge/internal/transport"
)

// Command is an operator request posted to the loop goroutine.
type Command int

const (
	// CommandReconnect forces a disconnect-and-connect cycle.
	CommandReconnect Command = iota

	// CommandReset clears the patient counter and signals the device.
	CommandReset
)

// Request posts an operator command; it is honored on the next loop tick.
// Never blocks the caller.
func (m *Manager) Request(cmd Command) {
	select {
	case m.cmdCh <- cmd:
	default:
		m.log.Warnf("command queue full, dropping %d", cmd)
	}
}

// Run is the supervised read loop. It polls the connection at a fixed short
// interval; an unhealthy connection gets a bounded burst of reconnect
// attempts followed by a longer backoff pause, and the cycle repeats for as
// long as the context lives. The loop never terminates on failure alone.
//
// onLine receives each decoded, trimmed line. onReset runs here, on the loop
// goroutine, so counter state stays single-writer.
func (m *Manager) Run(ctx context.Context, onLine func(string), onReset func()) {
	interval := m.cfg.PollInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	attempts := 0

	for {
		select {
		case <-ctx.Done():
			m.Disconnect()
			return

		case cmd := <-m.cmdCh:
			switch cmd {
			case CommandReconnect:
				if _, err := m.Reconnect(ctx); err != nil {
					m.log.Errorf("manual reconnect failed: %v", err)
				} else {
					attempts = 0
					m.tracker.SetReconnectAttempts(0)
				}
			case CommandReset:
				if onReset != nil {
					onReset()
				}
				if err := m.Send([]byte("R")); err != nil {
					m.log.Warnf("reset signal not delivered: %v", err)
				}
			}

		case <-ticker.C:
			if !m.HealthCheck() {
				if attempts < m.cfg.Reconnect.Attempts {
					attempts++
					m.tracker.SetReconnectAttempts(attempts)
					m.log.Warnf("reconnecting (%d/%d)", attempts, m.cfg.Reconnect.Attempts)
					if _, err := m.Reconnect(ctx); err != nil {
						m.log.Errorf("reconnect failed: %v", err)
					} else {
						attempts = 0
						m.tracker.SetReconnectAttempts(0)
					}
				} else {
					// Burst exhausted: pause, then start a fresh burst.
					m.log.Errorf("reconnect attempts exhausted, backing off %s", m.cfg.Reconnect.Delay)
					_ = m.cfg.Reconnect.Wait(ctx)
					attempts = 0
				}
				continue
			}

			attempts = 0
			m.readOnce(onLine)
		}
	}
}

// readOnce pulls at most one line off the transport and forwards it.
func (m *Manager) readOnce(onLine func(string)) {
	line, err := m.port.ReadLine()
	if err != nil {
		if errors.Is(err, transport.ErrNoData) {
			return
		}
		m.log.Warnf("serial read error: %v", err)
		m.setState(status.StateDegraded)
		return
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if !utf8.ValidString(line) {
		m.log.Warnf("could not decode serial data")
		return
	}

	m.log.Infof("recv %s", line)
	m.tracker.SetLastLine(line)
	if onLine != nil {
		onLine(line)
	}
}
