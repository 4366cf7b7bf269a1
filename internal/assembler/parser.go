// internal/assembler/parser.go
package assembler

import (
	"fmt"
	"strconv"
	"strings"
)

// Line is one parsed protocol line.
// Exactly the variants the wire protocol defines; anything else is
// Unrecognized and flows through untouched.
type Line interface {
	line()
}

// DetectLine reports a detected patient with a device-side queue id.
type DetectLine struct {
	Patient int
}

// HeartbeatLine carries one raw sensor reading.
type HeartbeatLine struct {
	Reading int
}

// BpmLine carries one computed heart-rate value.
type BpmLine struct {
	Value int
}

// Unrecognized is any line the protocol does not define.
type Unrecognized struct {
	Raw string
}

func (DetectLine) line()    {}
func (HeartbeatLine) line() {}
func (BpmLine) line()       {}
func (Unrecognized) line()  {}

// ParseLine splits on the first ':' and extracts the typed payload.
//
// DETECT expects a Queue=<n> sub-field; trailing comma-separated fields are
// ignored. HEARTBEAT and BPM take their Reading=/Value= sub-field when
// present, else the whole payload. A non-integer payload is an error; lines
// without ':' or with an unknown key are Unrecognized, not errors.
func ParseLine(s string) (Line, error) {
	key, value, found := strings.Cut(s, ":")
	if !found {
		return Unrecognized{Raw: s}, nil
	}

	switch key {
	case "DETECT":
		_, rest, found := strings.Cut(value, "Queue=")
		if !found {
			return Unrecognized{Raw: s}, nil
		}
		field, _, _ := strings.Cut(rest, ",")
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("detect: bad queue id %q", field)
		}
		return DetectLine{Patient: n}, nil

	case "HEARTBEAT":
		n, err := intField(value, "Reading=")
		if err != nil {
			return nil, fmt.Errorf("heartbeat: %w", err)
		}
		return HeartbeatLine{Reading: n}, nil

	case "BPM":
		n, err := intField(value, "Value=")
		if err != nil {
			return nil, fmt.Errorf("bpm: %w", err)
		}
		return BpmLine{Value: n}, nil

	default:
		return Unrecognized{Raw: s}, nil
	}
}

// intField strips an optional <prefix> marker and parses the remainder.
func intField(value, prefix string) (int, error) {
	value = strings.Replace(value, prefix, "", 1)
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("bad value %q", value)
	}
	return n, nil
}
