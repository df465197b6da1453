package activity

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/tormoder/fit"
)

const unknownSport = "Unknown"

// Recording is the decoded content of one activity file
type Recording struct {
	Samples  []Sample
	Metadata Metadata
}

// FITReader reads Garmin FIT activity files
type FITReader struct{}

// NewFITReader creates a FIT file reader
func NewFITReader() *FITReader {
	return &FITReader{}
}

// Read decodes the FIT file at path into heart rate samples and metadata.
// Any failure to open or decode the file wraps ErrInvalidFile.
func (r *FITReader) Read(path string) (Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: reading %s: %v", ErrInvalidFile, path, err)
	}

	rec, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Recording{}, fmt.Errorf("%s: %w", path, err)
	}
	rec.Metadata.SizeBytes = int64(len(data))
	return rec, nil
}

// ReadMetadata decodes only what is needed to describe the file
func (r *FITReader) ReadMetadata(path string) (Metadata, error) {
	rec, err := r.Read(path)
	if err != nil {
		return Metadata{}, err
	}
	return rec.Metadata, nil
}

// Decode parses a FIT activity stream. Samples are returned in timestamp order.
func Decode(rd io.Reader) (Recording, error) {
	decoded, err := fit.Decode(rd)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: decoding FIT data: %v", ErrInvalidFile, err)
	}

	af, err := decoded.Activity()
	if err != nil {
		return Recording{}, fmt.Errorf("%w: not an activity file: %v", ErrInvalidFile, err)
	}

	samples := extractSamples(af.Records)
	return Recording{
		Samples:  samples,
		Metadata: extractMetadata(af, samples),
	}, nil
}

// extractSamples skips records without a usable timestamp.
// A heart rate of 0 or 0xFF (FIT invalid) becomes a nil reading.
func extractSamples(records []*fit.RecordMsg) []Sample {
	samples := make([]Sample, 0, len(records))
	for _, rr := range records {
		if rr == nil || !validTime(rr.Timestamp) {
			continue
		}
		s := Sample{Timestamp: rr.Timestamp}
		if rr.HeartRate != 0 && rr.HeartRate != math.MaxUint8 {
			hr := int(rr.HeartRate)
			s.HeartRate = &hr
		}
		samples = append(samples, s)
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
	return samples
}

// extractMetadata prefers the first session message and falls back to
// record timestamps for start time and duration
func extractMetadata(af *fit.ActivityFile, samples []Sample) Metadata {
	md := Metadata{
		Sport:    unknownSport,
		SubSport: unknownSport,
	}

	if len(af.Sessions) > 0 && af.Sessions[0] != nil {
		s := af.Sessions[0]
		if validTime(s.StartTime) {
			md.StartTime = s.StartTime
		}
		if elapsed := s.GetTotalElapsedTimeScaled(); !math.IsNaN(elapsed) && elapsed > 0 {
			md.DurationSeconds = elapsed
		}
		md.Sport = sportName(s.Sport.String(), "Sport")
		md.SubSport = sportName(s.SubSport.String(), "SubSport")
	}

	if len(samples) > 0 {
		if md.StartTime.IsZero() {
			md.StartTime = samples[0].Timestamp
		}
		if md.DurationSeconds == 0 && len(samples) > 1 {
			md.DurationSeconds = samples[len(samples)-1].Timestamp.Sub(samples[0].Timestamp).Seconds()
		}
	}
	return md
}

// sportName turns enum names such as "SportTrailRunning" or "trail_running"
// into "Trail Running"
func sportName(raw, prefix string) string {
	name := strings.TrimPrefix(raw, prefix)
	if name == "" || strings.HasPrefix(name, "Invalid") || strings.Contains(name, "(") {
		return unknownSport
	}

	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToUpper(string(cur[0]))+string(cur[1:]))
			cur = cur[:0]
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == ' ':
			flush()
		case unicode.IsUpper(r) && len(cur) > 0:
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return strings.Join(words, " ")
}

func validTime(t time.Time) bool {
	return !t.IsZero() && !fit.IsBaseTime(t)
}
