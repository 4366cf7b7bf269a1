// internal/console/console_test.go
package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tamzrod/health-bridge/internal/status"
)

// ---- fake bridge ----

type fakeBridge struct {
	reconnects int
	resets     int
	toggles    int
	uploadOn   bool
	snap       status.Snapshot
}

func (f *fakeBridge) RequestReconnect() { f.reconnects++ }
func (f *fakeBridge) RequestReset()     { f.resets++ }

func (f *fakeBridge) Snapshot() status.Snapshot { return f.snap }

func (f *fakeBridge) ToggleUpload() bool {
	f.toggles++
	f.uploadOn = !f.uploadOn
	return f.uploadOn
}

func runScript(t *testing.T, bridge *fakeBridge, script string) (string, bool) {
	t.Helper()
	var out bytes.Buffer
	stopped := false
	c := New(strings.NewReader(script), &out, bridge, zap.NewNop().Sugar())
	c.Run(context.Background(), func() { stopped = true })
	return out.String(), stopped
}

// ---- tests ----

func TestRun_QuitStopsBridge(t *testing.T) {
	_, stopped := runScript(t, &fakeBridge{}, "Q\n")
	if !stopped {
		t.Fatalf("Q must invoke stop")
	}
}

func TestRun_CommandsAreCaseInsensitive(t *testing.T) {
	b := &fakeBridge{}
	_, _ = runScript(t, b, "reconnect\nr\nthingspeak\nq\n")

	if b.reconnects != 1 {
		t.Fatalf("reconnects: got %d want 1", b.reconnects)
	}
	if b.resets != 1 {
		t.Fatalf("resets: got %d want 1", b.resets)
	}
	if b.toggles != 1 {
		t.Fatalf("toggles: got %d want 1", b.toggles)
	}
}

func TestRun_StatusPrintsSnapshot(t *testing.T) {
	b := &fakeBridge{snap: status.Snapshot{
		State:         status.StateConnected,
		Endpoint:      "/dev/ttyACM0",
		Patient:       2,
		Records:       9,
		UploadEnabled: true,
	}}
	out, _ := runScript(t, b, "STATUS\nQ\n")

	for _, want := range []string{"connected", "/dev/ttyACM0", "patient: 2", "records: 9", "enabled"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_UnknownCommandPrintsHint(t *testing.T) {
	out, _ := runScript(t, &fakeBridge{}, "WHAT\nQ\n")
	if !strings.Contains(out, "unknown command") {
		t.Fatalf("expected usage hint, got:\n%s", out)
	}
}

func TestRun_EOFExitsWithoutStop(t *testing.T) {
	_, stopped := runScript(t, &fakeBridge{}, "STATUS\n")
	if stopped {
		t.Fatalf("EOF should not invoke stop")
	}
}

func TestRun_BlankLinesIgnored(t *testing.T) {
	b := &fakeBridge{}
	out, _ := runScript(t, b, "\n\nQ\n")
	if strings.Contains(out, "unknown command") {
		t.Fatalf("blank lines must not trigger the hint:\n%s", out)
	}
}
