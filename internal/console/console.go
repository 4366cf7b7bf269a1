// internal/console/console.go
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/tamzrod/health-bridge/internal/status"
)

// Bridge is what the console needs from the running bridge. Every method is
// safe to call from the console goroutine: mutations cross to the read loop
// as posted requests, reads come from the shared snapshot.
type Bridge interface {
	RequestReconnect()
	RequestReset()
	Snapshot() status.Snapshot
	ToggleUpload() bool
}

// Console is the interactive operator command loop.
type Console struct {
	in     io.Reader
	out    io.Writer
	bridge Bridge
	log    *zap.SugaredLogger
}

func New(in io.Reader, out io.Writer, bridge Bridge, log *zap.SugaredLogger) *Console {
	return &Console{in: in, out: out, bridge: bridge, log: log}
}

// Run reads one token per line until EOF, Q, or context cancellation.
// stop is invoked on Q to shut the whole bridge down.
func (c *Console) Run(ctx context.Context, stop func()) {
	c.printHelp()

	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}

		cmd := strings.ToUpper(strings.TrimSpace(sc.Text()))
		switch cmd {
		case "":
			continue

		case "Q":
			fmt.Fprintln(c.out, "exiting")
			stop()
			return

		case "R":
			c.bridge.RequestReset()
			fmt.Fprintln(c.out, "patient counter reset to 0")

		case "RECONNECT":
			c.bridge.RequestReconnect()
			fmt.Fprintln(c.out, "reconnect requested")

		case "STATUS":
			snap := c.bridge.Snapshot()
			fmt.Fprintf(c.out, "connection: %s (%s)\n", snap.State, snap.Endpoint)
			fmt.Fprintf(c.out, "patient: %d  records: %d\n", snap.Patient, snap.Records)
			fmt.Fprintf(c.out, "thingspeak: %s\n", onOff(snap.UploadEnabled))

		case "THINGSPEAK":
			on := c.bridge.ToggleUpload()
			fmt.Fprintf(c.out, "thingspeak upload %s\n", onOff(on))

		case "HELP":
			c.printHelp()

		default:
			fmt.Fprintln(c.out, "unknown command, type HELP for options")
		}
	}

	if err := sc.Err(); err != nil {
		c.log.Warnf("console input error: %v", err)
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "commands:")
	fmt.Fprintln(c.out, "  R          reset patient counter")
	fmt.Fprintln(c.out, "  Q          quit")
	fmt.Fprintln(c.out, "  RECONNECT  force reconnection")
	fmt.Fprintln(c.out, "  STATUS     show connection status")
	fmt.Fprintln(c.out, "  THINGSPEAK toggle upload")
	fmt.Fprintln(c.out, "  HELP       show this help")
}

func onOff(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
