// internal/transport/serial.go
package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/goburrow/serial"
)

// SerialOpener opens real serial devices.
type SerialOpener struct{}

func (SerialOpener) Open(path string, baud int, timeout time.Duration) (Port, error) {
	p, err := serial.Open(&serial.Config{
		Address:  path,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  timeout,
	})
	if err != nil {
		return nil, classifyOpen(path, err)
	}
	return &serialPort{port: p, r: bufio.NewReader(p)}, nil
}

type serialPort struct {
	port serial.Port
	r    *bufio.Reader

	// partial holds bytes of a line whose terminator has not arrived yet.
	partial strings.Builder
}

func (p *serialPort) ReadLine() (string, error) {
	chunk, err := p.r.ReadString('\n')
	if err != nil {
		p.partial.WriteString(chunk)
		switch {
		case errors.Is(err, serial.ErrTimeout):
			return "", ErrNoData
		case errors.Is(err, io.EOF):
			return "", fmt.Errorf("read %w", ErrClosed)
		default:
			return "", fmt.Errorf("read: %v: %w", err, ErrClosed)
		}
	}

	line := p.partial.String() + chunk
	p.partial.Reset()
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *serialPort) Write(b []byte) (int, error) {
	n, err := p.port.Write(b)
	if err != nil {
		return n, fmt.Errorf("write: %v: %w", err, ErrClosed)
	}
	return n, nil
}

// Check issues a zero-length write so a vanished device surfaces immediately
// instead of on the next full read timeout.
func (p *serialPort) Check() error {
	if _, err := p.port.Write(nil); err != nil {
		return fmt.Errorf("check: %v: %w", err, ErrClosed)
	}
	return nil
}

// Drain discards everything already buffered so a new session does not replay
// stale data left over from a previous one.
func (p *serialPort) Drain() error {
	p.partial.Reset()
	if n := p.r.Buffered(); n > 0 {
		if _, err := p.r.Discard(n); err != nil {
			return err
		}
	}
	return nil
}

func (p *serialPort) Close() error {
	return p.port.Close()
}

func classifyOpen(path string, err error) error {
	switch {
	case errors.Is(err, syscall.EBUSY) || strings.Contains(err.Error(), "busy"):
		return fmt.Errorf("open %s: %w", path, ErrBusy)
	case errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOENT):
		return fmt.Errorf("open %s: %w", path, ErrNotFound)
	default:
		return fmt.Errorf("open %s: %w", path, err)
	}
}
