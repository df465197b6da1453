package analysis

import (
	"fmt"

	"fit-calories/internal/activity"
	"fit-calories/internal/keytel"
)

// MinIntervalMinutes drops intervals shorter than about a second
const MinIntervalMinutes = 0.01

// IntegrateCalories sums calories over consecutive pairs of valid readings,
// using the pair's mean heart rate for the interval between them.
// Samples must be sorted by timestamp; non-increasing timestamps are skipped.
func IntegrateCalories(samples []activity.Sample, p Profile) (float64, error) {
	var total float64
	var prev *activity.Sample

	for i := range samples {
		curr := &samples[i]
		if !validReading(*curr) {
			continue
		}
		if prev == nil {
			prev = curr
			continue
		}

		minutes := curr.Timestamp.Sub(prev.Timestamp).Minutes()
		if minutes < MinIntervalMinutes {
			if minutes > 0 {
				prev = curr
			}
			continue
		}

		hr := float64(*prev.HeartRate+*curr.HeartRate) / 2
		kcal, err := keytel.CaloriesBurned(hr, minutes, p.WeightKg, p.AgeYears, p.Gender)
		if err != nil {
			return 0, fmt.Errorf("interval at %s: %w", curr.Timestamp.Format("15:04:05"), err)
		}
		total += kcal
		prev = curr
	}

	return total, nil
}
