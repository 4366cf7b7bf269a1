// internal/store/csv_test.go
package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tamzrod/health-bridge/internal/assembler"
)

func testRecord(patient, bpm, reading int) assembler.Record {
	return assembler.Record{
		Patient:   patient,
		Timestamp: time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC),
		BPM:       bpm,
		Reading:   reading,
	}
}

func TestOpen_CreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health_data_current.csv")

	s, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 0, s.LastPatient())
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, []string{"Patient_Number", "Timestamp", "BPM", "Heartbeat_Reading"}, rows[0])
}

func TestAppendAndReopen_SeedsCounterFromLastRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health_data_current.csv")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(testRecord(1, 72, 512)))
	require.NoError(t, s.Append(testRecord(2, 75, 520)))
	require.NoError(t, s.Append(testRecord(7, 80, 530)))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	require.Equal(t, 7, s2.LastPatient())
}

func TestAppend_RowFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(testRecord(3, 68, 498)))
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"3", "2026-08-31 09:30:00", "68", "498"}, rows[1])
}

func TestOpen_HeaderOnlyFileSeedsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	require.Equal(t, 0, s2.LastPatient())
}

func TestOpen_GarbageLastRowSeedsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.csv")
	content := "Patient_Number,Timestamp,BPM,Heartbeat_Reading\nnot-a-number,x,y,z\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.Equal(t, 0, s.LastPatient())
}

func TestAppend_ResumedFileKeepsExistingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.csv")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(testRecord(1, 70, 500)))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Append(testRecord(2, 71, 501)))
	require.NoError(t, s2.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 data rows
}
