package analysis

import (
	"fmt"
	"math"
	"sort"

	"fit-calories/internal/activity"
	"fit-calories/internal/keytel"
)

// DefaultIntensities are the lower bounds of the classic five training zones
var DefaultIntensities = []float64{0.5, 0.6, 0.7, 0.8, 0.9}

// HRZones represents athlete's heart rate reserve inputs
type HRZones struct {
	RestingHR float64
	MaxHR     float64
}

// NewHRZones uses maxHR when set, otherwise the Tanaka estimate for age
func NewHRZones(age, restingHR, maxHR float64) HRZones {
	if maxHR <= 0 {
		maxHR = TanakaMaxHR(age)
	}
	return HRZones{RestingHR: restingHR, MaxHR: maxHR}
}

// Reserve returns max HR minus resting HR
func (z HRZones) Reserve() float64 {
	return z.MaxHR - z.RestingHR
}

// TanakaMaxHR estimates max heart rate as 208 - 0.7 * age (Tanaka, Monahan & Seals)
func TanakaMaxHR(age float64) float64 {
	return 208 - 0.7*age
}

// Zone is a target heart rate band
type Zone struct {
	Label    string // e.g. "60%-70%"
	LowerPct float64
	UpperPct float64
	LowerHR  int
	UpperHR  int
}

// KarvonenZones computes target zones as resting + reserve * intensity.
// Intensities are lower bounds in [0, 1]; each zone runs to the next one and
// the last to 100%. maxHR of 0 means estimate from age.
func KarvonenZones(age, restingHR int, intensities []float64, maxHR int) ([]Zone, error) {
	if age <= 0 {
		return nil, fmt.Errorf("%w: age must be a positive integer, got %d", keytel.ErrValidation, age)
	}
	if restingHR <= 0 {
		return nil, fmt.Errorf("%w: resting heart rate must be a positive integer, got %d", keytel.ErrValidation, restingHR)
	}
	if maxHR < 0 {
		return nil, fmt.Errorf("%w: max heart rate, if provided, must be positive, got %d", keytel.ErrValidation, maxHR)
	}
	if len(intensities) == 0 {
		return nil, fmt.Errorf("%w: at least one intensity is required", keytel.ErrValidation)
	}

	uniq := make(map[float64]struct{}, len(intensities))
	sorted := make([]float64, 0, len(intensities))
	for _, in := range intensities {
		if math.IsNaN(in) || in < 0 || in > 1 {
			return nil, fmt.Errorf("%w: intensity must be between 0 and 1, got %v", keytel.ErrValidation, in)
		}
		if _, ok := uniq[in]; ok {
			continue
		}
		uniq[in] = struct{}{}
		sorted = append(sorted, in)
	}
	sort.Float64s(sorted)

	hz := NewHRZones(float64(age), float64(restingHR), float64(maxHR))
	hrr := hz.Reserve()
	if hrr < 0 {
		return nil, fmt.Errorf("%w: max heart rate %.0f is below resting heart rate %d", keytel.ErrValidation, hz.MaxHR, restingHR)
	}

	zones := make([]Zone, 0, len(sorted))
	for i, lo := range sorted {
		hi := 1.0
		if i < len(sorted)-1 {
			hi = sorted[i+1]
		}
		lower := int(math.Round(hrr*lo + hz.RestingHR))
		upper := int(math.Round(hrr*hi + hz.RestingHR))
		if lower > upper {
			lower, upper = upper, lower
		}
		zones = append(zones, Zone{
			Label:    fmt.Sprintf("%.0f%%-%.0f%%", lo*100, hi*100),
			LowerPct: lo,
			UpperPct: hi,
			LowerHR:  lower,
			UpperHR:  upper,
		})
	}
	return zones, nil
}

// ZoneFor returns the index of the zone containing hr, or -1
func ZoneFor(zones []Zone, hr float64) int {
	for i := len(zones) - 1; i >= 0; i-- {
		if hr >= float64(zones[i].LowerHR) && hr <= float64(zones[i].UpperHR) {
			return i
		}
	}
	return -1
}

// TimeInZones returns minutes per zone. Each interval between consecutive
// valid readings counts toward the zone of its mean heart rate; the extra
// final element collects time outside every zone.
func TimeInZones(samples []activity.Sample, zones []Zone) []float64 {
	minutes := make([]float64, len(zones)+1)
	var prev *activity.Sample
	sorted := sortedCopy(samples)
	for i := range sorted {
		curr := &sorted[i]
		if !validReading(*curr) {
			continue
		}
		if prev != nil {
			gap := curr.Timestamp.Sub(prev.Timestamp).Minutes()
			hr := float64(*prev.HeartRate+*curr.HeartRate) / 2
			idx := ZoneFor(zones, hr)
			if idx < 0 {
				idx = len(zones)
			}
			minutes[idx] += gap
		}
		prev = curr
	}
	return minutes
}
