// internal/store/csv.go
package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/tamzrod/health-bridge/internal/assembler"
)

var header = []string{"Patient_Number", "Timestamp", "BPM", "Heartbeat_Reading"}

// CSV is the append-only record log. A session resumes an existing file and
// seeds the patient counter from its last row; a missing file is created
// with a header row.
type CSV struct {
	mu sync.Mutex

	path        string
	f           *os.File
	w           *csv.Writer
	lastPatient int
}

// Open opens or creates the log at path.
func Open(path string) (*CSV, error) {
	s := &CSV{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		s.lastPatient = seedFrom(raw)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("store: open %s: %w", path, err)
		}
		s.f = f

	case os.IsNotExist(err):
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return nil, fmt.Errorf("store: create %s: %w", path, err)
		}
		s.f = f
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("store: write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("store: write header: %w", err)
		}

	default:
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	s.w = csv.NewWriter(s.f)
	return s, nil
}

// seedFrom extracts the patient number of the last data row, 0 if none.
func seedFrom(raw []byte) int {
	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil || len(rows) < 2 {
		return 0
	}
	last := rows[len(rows)-1]
	if len(last) == 0 {
		return 0
	}
	n, err := strconv.Atoi(last[0])
	if err != nil {
		return 0
	}
	return n
}

// LastPatient returns the patient number seeded from the existing log.
func (s *CSV) LastPatient() int {
	return s.lastPatient
}

// Append writes one record row and flushes it to disk.
func (s *CSV) Append(rec assembler.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := []string{
		strconv.Itoa(rec.Patient),
		rec.Timestamp.Format(assembler.TimeLayout),
		strconv.Itoa(rec.BPM),
		strconv.Itoa(rec.Reading),
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("store: append: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("store: append: %w", err)
	}
	return nil
}

func (s *CSV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w.Flush()
	return s.f.Close()
}
