// internal/assembler/assembler.go
package assembler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/health-bridge/internal/status"
)

// TimeLayout is the timestamp format used in the store and on the wire to
// the telemetry sink.
const TimeLayout = "2006-01-02 15:04:05"

// Record is an immutable snapshot of one completed patient measurement.
type Record struct {
	Patient   int
	Timestamp time.Time
	BPM       int
	Reading   int
}

// Store is the durable append-only record log.
type Store interface {
	Append(rec Record) error
}

// Sink receives a best-effort copy of every record.
type Sink interface {
	Upload(ctx context.Context, rec Record) error
}

// Assembler accumulates partial patient records from protocol lines and
// flushes a completed record once both measurements are present.
//
// Not safe for concurrent use: HandleLine and ResetCounter must run on the
// read-loop goroutine only.
type Assembler struct {
	store   Store
	sink    Sink
	tracker *status.Tracker
	log     *zap.SugaredLogger
	now     func() time.Time

	patient int
	bpm     *int
	reading *int
}

// New creates an assembler resuming from startPatient (the last persisted
// patient number, or 0 for a fresh log).
func New(store Store, sink Sink, tracker *status.Tracker, log *zap.SugaredLogger, startPatient int) *Assembler {
	a := &Assembler{
		store:   store,
		sink:    sink,
		tracker: tracker,
		log:     log,
		now:     time.Now,
		patient: startPatient,
	}
	tracker.SetPatient(startPatient)
	return a
}

// HandleLine parses one protocol line and advances the pending record.
// Malformed lines are logged and dropped; nothing here is fatal.
func (a *Assembler) HandleLine(line string) {
	parsed, err := ParseLine(line)
	if err != nil {
		a.log.Warnf("could not parse numeric value from %q: %v", line, err)
		return
	}

	switch l := parsed.(type) {
	case DetectLine:
		// A device-side counter reset or duplicate detection must not move
		// the sequence backwards; bump instead.
		if l.Patient <= a.patient {
			a.patient++
		} else {
			a.patient = l.Patient
		}
		a.tracker.SetPatient(a.patient)
		a.log.Infof("patient %d detected", a.patient)

	case HeartbeatLine:
		v := l.Reading
		a.reading = &v
		a.log.Infof("heartbeat reading: %d", v)

	case BpmLine:
		v := l.Value
		a.bpm = &v
		a.log.Infof("bpm: %d", v)
		a.flushIfComplete()

	case Unrecognized:
		// Visible in the raw log stream only.
	}
}

// flushIfComplete finalizes the pending record once both fields are set.
// The store append is authoritative and happens before the sink offer; a
// sink failure never invalidates the local write. Pending fields clear
// unconditionally so a store failure cannot replay stale data.
func (a *Assembler) flushIfComplete() {
	if a.bpm == nil || a.reading == nil {
		return
	}

	rec := Record{
		Patient:   a.patient,
		Timestamp: a.now(),
		BPM:       *a.bpm,
		Reading:   *a.reading,
	}

	if err := a.store.Append(rec); err != nil {
		a.log.Errorf("store append failed (patient=%d): %v", rec.Patient, err)
	} else {
		a.log.Infof("saved patient %d | bpm=%d | reading=%d", rec.Patient, rec.BPM, rec.Reading)
		a.tracker.RecordFlushed()
	}

	if a.sink != nil {
		if err := a.sink.Upload(context.Background(), rec); err != nil {
			a.log.Warnf("upload failed, data saved locally (patient=%d): %v", rec.Patient, err)
		}
	}

	a.bpm = nil
	a.reading = nil
}

// ResetCounter sets the patient sequence back to 0 (operator R command).
func (a *Assembler) ResetCounter() {
	a.patient = 0
	a.tracker.SetPatient(0)
	a.log.Infof("patient counter reset to 0")
}

// Patient returns the current patient sequence number.
func (a *Assembler) Patient() int {
	return a.patient
}

// Pending reports whether either measurement of the current record is set.
func (a *Assembler) Pending() bool {
	return a.bpm != nil || a.reading != nil
}
