package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"fit-calories/internal/activity"
	"fit-calories/internal/keytel"
)

// Profile holds the athlete values fed into the Keytel formula
type Profile struct {
	WeightKg float64
	AgeYears float64
	Gender   keytel.Gender
}

// NewProfile builds a validated profile from config values
func NewProfile(weightKg, ageYears float64, gender string) (Profile, error) {
	g, err := keytel.ParseGender(gender)
	if err != nil {
		return Profile{}, err
	}
	p := Profile{WeightKg: weightKg, AgeYears: ageYears, Gender: g}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks weight and age against their physiological bounds
func (p Profile) Validate() error {
	if _, err := keytel.ConstantsFor(p.Gender); err != nil {
		return err
	}
	if err := keytel.ValidateWeight(p.WeightKg); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if err := keytel.ValidateAge(p.AgeYears); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}

// Summary is the calorie estimate for one recorded activity
type Summary struct {
	AverageHeartRate   float64 // bpm, mean over valid readings
	DurationMinutes    float64 // first to last sample
	KcalPerMin         float64 // at AverageHeartRate
	EstimatedCalories  float64 // KcalPerMin * DurationMinutes
	IntegratedCalories float64 // sum over sample intervals
	SampleCount        int
	ValidReadings      int
	Quality            Quality
}

// Summarize reduces an activity's samples to an average heart rate and a
// calorie estimate over the activity duration.
// Returns activity.ErrMissingData when no sample carries a usable reading.
func Summarize(samples []activity.Sample, p Profile) (Summary, error) {
	if err := p.Validate(); err != nil {
		return Summary{}, err
	}
	if len(samples) == 0 {
		return Summary{}, fmt.Errorf("%w: no samples", activity.ErrMissingData)
	}

	sorted := sortedCopy(samples)
	hrs := validHeartRates(sorted)
	if len(hrs) == 0 {
		return Summary{}, fmt.Errorf("%w: none of %d samples has a heart rate reading", activity.ErrMissingData, len(samples))
	}

	avgHR := stat.Mean(hrs, nil)
	duration := sorted[len(sorted)-1].Timestamp.Sub(sorted[0].Timestamp).Minutes()

	kcal, err := keytel.KcalPerMin(avgHR, p.WeightKg, p.AgeYears, p.Gender)
	if err != nil {
		return Summary{}, fmt.Errorf("average heart rate: %w", err)
	}

	integrated, err := IntegrateCalories(sorted, p)
	if err != nil {
		return Summary{}, err
	}

	quality := CheckQuality(samples, DefaultMaxGap)
	if kcal < 0 {
		quality.Warnings = append(quality.Warnings,
			fmt.Sprintf("Formula yields negative energy at %.0f bpm", avgHR))
	}

	return Summary{
		AverageHeartRate:   avgHR,
		DurationMinutes:    duration,
		KcalPerMin:         kcal,
		EstimatedCalories:  kcal * duration,
		IntegratedCalories: integrated,
		SampleCount:        len(samples),
		ValidReadings:      len(hrs),
		Quality:            quality,
	}, nil
}

// validReading reports whether s carries a heart rate within (0, 250]
func validReading(s activity.Sample) bool {
	return s.HeartRate != nil && *s.HeartRate > 0 && float64(*s.HeartRate) <= keytel.MaxHeartRate
}

func validHeartRates(samples []activity.Sample) []float64 {
	hrs := make([]float64, 0, len(samples))
	for _, s := range samples {
		if validReading(s) {
			hrs = append(hrs, float64(*s.HeartRate))
		}
	}
	return hrs
}

func sortedCopy(samples []activity.Sample) []activity.Sample {
	out := make([]activity.Sample, len(samples))
	copy(out, samples)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
