package activity

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFile is returned when a file cannot be read as an activity recording
var ErrInvalidFile = errors.New("invalid activity file")

// ErrMissingData is returned when a readable file lacks heart rate data
var ErrMissingData = errors.New("missing heart rate data")

// Sample is a single heart rate reading from an activity recording
type Sample struct {
	Timestamp time.Time
	HeartRate *int // bpm, nil if the record carried no reading
}

// Metadata describes a recorded activity
type Metadata struct {
	StartTime       time.Time
	DurationSeconds float64
	Sport           string
	SubSport        string
	SizeBytes       int64
}

// ActivityName combines sport and sub-sport, e.g. "Running - Treadmill"
func (m Metadata) ActivityName() string {
	if m.SubSport != "" && m.SubSport != unknownSport && m.SubSport != m.Sport {
		return m.Sport + " - " + m.SubSport
	}
	return m.Sport
}

// FormatDuration formats the duration as "1h 5m", "45m" or "30s"
func (m Metadata) FormatDuration() string {
	secs := int(m.DurationSeconds)
	if secs <= 0 {
		return "0s"
	}
	h := secs / 3600
	mins := (secs % 3600) / 60
	switch {
	case h > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", h, mins)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case mins > 0:
		return fmt.Sprintf("%dm", mins)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
