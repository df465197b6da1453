package analysis

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"fit-calories/internal/activity"
)

// Data quality thresholds
const (
	DefaultMaxGap    = 60 * time.Minute
	LowHRWarning     = 40
	HighHRWarning    = 220
	WideRangeHR      = 150
	FlatLineReadings = 10
)

// Gap is a stretch without samples longer than the allowed maximum
type Gap struct {
	Start   time.Time
	End     time.Time
	Minutes float64
}

// FlatPeriod is a run of identical consecutive heart rate readings,
// usually a strap that lost contact
type FlatPeriod struct {
	HeartRate int
	Start     time.Time
	End       time.Time
	Count     int
}

// Quality describes the integrity of an activity's heart rate data
type Quality struct {
	DataPoints             int
	InvalidReadings        int
	DurationMinutes        float64
	AverageIntervalMinutes float64
	MinHR                  float64
	MaxHR                  float64
	AvgHR                  float64
	StdDevHR               float64
	LargeGaps              []Gap
	FlatPeriods            []FlatPeriod
	OutOfOrder             bool
	DuplicateTimestamps    bool
	Warnings               []string
}

// Score returns the share of samples carrying a valid reading
func (q Quality) Score() float64 {
	total := q.DataPoints + q.InvalidReadings
	if total == 0 {
		return 0
	}
	return float64(q.DataPoints) / float64(total)
}

// CheckQuality inspects samples in recorded order and reports gaps,
// flat lines and implausible heart rates. It never fails.
func CheckQuality(samples []activity.Sample, maxGap time.Duration) Quality {
	var q Quality

	seen := make(map[time.Time]struct{}, len(samples))
	for i, s := range samples {
		if i > 0 && s.Timestamp.Before(samples[i-1].Timestamp) {
			q.OutOfOrder = true
		}
		key := s.Timestamp.UTC()
		if _, dup := seen[key]; dup {
			q.DuplicateTimestamps = true
		}
		seen[key] = struct{}{}
	}

	var valid []activity.Sample
	for _, s := range sortedCopy(samples) {
		if validReading(s) {
			valid = append(valid, s)
		} else {
			q.InvalidReadings++
		}
	}
	q.DataPoints = len(valid)
	if q.OutOfOrder {
		q.Warnings = append(q.Warnings, "Heart rate data is not in chronological order")
	}
	if q.DuplicateTimestamps {
		q.Warnings = append(q.Warnings, "Heart rate data contains duplicate timestamps")
	}
	if len(valid) == 0 {
		return q
	}

	hrs := make([]float64, len(valid))
	for i, s := range valid {
		hrs[i] = float64(*s.HeartRate)
	}
	q.MinHR = floats.Min(hrs)
	q.MaxHR = floats.Max(hrs)
	q.AvgHR = stat.Mean(hrs, nil)
	if len(hrs) > 1 {
		q.StdDevHR = stat.StdDev(hrs, nil)
	}

	q.DurationMinutes = valid[len(valid)-1].Timestamp.Sub(valid[0].Timestamp).Minutes()
	if len(valid) > 1 {
		q.AverageIntervalMinutes = q.DurationMinutes / float64(len(valid)-1)
	}

	for i := 1; i < len(valid); i++ {
		gap := valid[i].Timestamp.Sub(valid[i-1].Timestamp)
		if gap > maxGap {
			q.LargeGaps = append(q.LargeGaps, Gap{
				Start:   valid[i-1].Timestamp,
				End:     valid[i].Timestamp,
				Minutes: gap.Minutes(),
			})
		}
	}
	q.FlatPeriods = flatPeriods(valid)

	if q.MinHR < LowHRWarning {
		q.Warnings = append(q.Warnings, fmt.Sprintf("Very low minimum heart rate: %.0f bpm", q.MinHR))
	}
	if q.MaxHR > HighHRWarning {
		q.Warnings = append(q.Warnings, fmt.Sprintf("Very high maximum heart rate: %.0f bpm", q.MaxHR))
	}
	if q.MaxHR-q.MinHR > WideRangeHR {
		q.Warnings = append(q.Warnings, fmt.Sprintf("Very large heart rate range: %.0f bpm", q.MaxHR-q.MinHR))
	}
	if len(q.LargeGaps) > 0 {
		q.Warnings = append(q.Warnings, fmt.Sprintf("Found %d large gaps (>%.0f min) in data", len(q.LargeGaps), maxGap.Minutes()))
	}
	if len(q.FlatPeriods) > 0 {
		q.Warnings = append(q.Warnings, fmt.Sprintf("Found %d potential flat-line periods", len(q.FlatPeriods)))
	}

	return q
}

// flatPeriods finds runs of at least FlatLineReadings identical readings
func flatPeriods(valid []activity.Sample) []FlatPeriod {
	var periods []FlatPeriod
	start := 0
	for i := 1; i <= len(valid); i++ {
		if i < len(valid) && *valid[i].HeartRate == *valid[start].HeartRate {
			continue
		}
		if n := i - start; n >= FlatLineReadings {
			periods = append(periods, FlatPeriod{
				HeartRate: *valid[start].HeartRate,
				Start:     valid[start].Timestamp,
				End:       valid[i-1].Timestamp,
				Count:     n,
			})
		}
		start = i
	}
	return periods
}
