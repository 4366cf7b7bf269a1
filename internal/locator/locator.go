// internal/locator/locator.go
package locator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/health-bridge/internal/transport"
)

// Candidate is one possible device path found during a scan.
// Candidates are produced fresh on every Discover call and never persisted.
type Candidate struct {
	Path        string
	Description string
}

// usbPatterns are the device-name fragments USB-serial adapters show up under.
var usbPatterns = []string{"usbmodem", "usbserial", "ttyusb", "ttyacm"}

// Config is the minimal runtime config the locator needs.
type Config struct {
	DevDir  string // device namespace root; "" means /dev
	Baud    int
	Timeout time.Duration // probe open timeout
}

// Locator enumerates and probes candidate serial endpoints.
type Locator struct {
	cfg    Config
	opener transport.Opener
	log    *zap.SugaredLogger
}

func New(cfg Config, opener transport.Opener, log *zap.SugaredLogger) *Locator {
	if cfg.DevDir == "" {
		cfg.DevDir = "/dev"
	}
	return &Locator{cfg: cfg, opener: opener, log: log}
}

// Discover rescans the device namespace and returns candidates in discovery
// order. For every match it also synthesizes the sibling under the alternate
// cu./tty. naming convention, deduplicated so each physical device appears at
// most once per alias.
func (l *Locator) Discover() []Candidate {
	entries, err := os.ReadDir(l.cfg.DevDir)
	if err != nil {
		l.log.Warnf("device scan failed: %v", err)
		return nil
	}

	var matched []string
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		for _, pat := range usbPatterns {
			if strings.Contains(name, pat) {
				matched = append(matched, e.Name())
				break
			}
		}
	}

	var ordered []string
	for _, name := range matched {
		ordered = append(ordered, name)
		if sibling, ok := aliasSibling(name); ok {
			ordered = append(ordered, sibling)
		}
	}

	seen := make(map[string]bool, len(ordered))
	var out []Candidate
	for _, name := range ordered {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Candidate{
			Path:        filepath.Join(l.cfg.DevDir, name),
			Description: "usb serial device",
		})
		l.log.Infof("found %s", filepath.Join(l.cfg.DevDir, name))
	}
	return out
}

// aliasSibling derives the other half of a cu./tty. alias pair.
func aliasSibling(name string) (string, bool) {
	switch {
	case strings.HasPrefix(name, "cu."):
		return "tty." + strings.TrimPrefix(name, "cu."), true
	case strings.HasPrefix(name, "tty."):
		return "cu." + strings.TrimPrefix(name, "tty."), true
	}
	return "", false
}

// Probe opens the endpoint with a short timeout and immediately closes it.
// It never fails the caller; busy is only distinguished in the log.
func (l *Locator) Probe(path string) bool {
	port, err := l.opener.Open(path, l.cfg.Baud, l.cfg.Timeout)
	if err != nil {
		if errors.Is(err, transport.ErrBusy) {
			l.log.Warnf("%s is busy", path)
		} else {
			l.log.Warnf("%s failed probe: %v", path, err)
		}
		return false
	}
	_ = port.Close()
	return true
}
