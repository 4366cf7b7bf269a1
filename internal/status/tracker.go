// internal/status/tracker.go
package status

import "sync"

// Tracker holds the live bridge snapshot.
// The read loop is the only writer of connection fields; the console and the
// HTTP surface read concurrently, so access is serialized here.
type Tracker struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewTracker() *Tracker {
	return &Tracker{
		snap: Snapshot{State: StateDisconnected},
	}
}

// Get returns a copy of the current snapshot.
func (t *Tracker) Get() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.snap
	s.StateName = s.State.String()
	return s
}

func (t *Tracker) SetState(s ConnState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.State = s
}

func (t *Tracker) SetEndpoint(ep string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Endpoint = ep
}

func (t *Tracker) SetReconnectAttempts(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.ReconnectAttempts = n
}

func (t *Tracker) SetPatient(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Patient = n
}

func (t *Tracker) SetUploadEnabled(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.UploadEnabled = on
}

// RecordFlushed notes one more persisted record and the line that produced it.
func (t *Tracker) RecordFlushed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Records++
}

func (t *Tracker) SetLastLine(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.LastLine = line
}
