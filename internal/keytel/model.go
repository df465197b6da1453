package keytel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is returned when a measurement, gender or request is malformed
var ErrValidation = errors.New("validation failed")

// ErrCalculation is returned when a solved value is undefined or out of range
var ErrCalculation = errors.New("calculation failed")

// Gender selects the regression constants
type Gender int

const (
	Male Gender = iota
	Female
)

// String returns the lowercase name used in config files
func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return fmt.Sprintf("Gender(%d)", int(g))
	}
}

// ParseGender matches "male" or "female", ignoring case and surrounding space
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return Male, nil
	case "female":
		return Female, nil
	}
	return 0, fmt.Errorf("%w: gender must be \"male\" or \"female\", got %q", ErrValidation, s)
}

// Constants holds one Keytel et al. coefficient set.
// Result is kJ/min until divided by Conversion.
type Constants struct {
	Base       float64
	HRCoef     float64
	WeightCoef float64
	AgeCoef    float64
	Conversion float64 // kJ per kcal, always > 0
}

var (
	maleConstants = Constants{
		Base:       -55.0969,
		HRCoef:     0.6309,
		WeightCoef: 0.1988,
		AgeCoef:    0.2017,
		Conversion: 4.184,
	}
	femaleConstants = Constants{
		Base:       -20.4022,
		HRCoef:     0.4472,
		WeightCoef: -0.1263,
		AgeCoef:    0.074,
		Conversion: 4.184,
	}
)

// ConstantsFor returns a copy of the coefficient set for g
func ConstantsFor(g Gender) (Constants, error) {
	switch g {
	case Male:
		return maleConstants, nil
	case Female:
		return femaleConstants, nil
	}
	return Constants{}, fmt.Errorf("%w: unknown gender %d", ErrValidation, int(g))
}

// eval is the affine Keytel formula without any validation
func (c Constants) eval(hr, weight, age float64) float64 {
	return (c.Base + c.HRCoef*hr + c.WeightCoef*weight + c.AgeCoef*age) / c.Conversion
}

// KcalPerMin estimates kilocalories burned per minute.
//
//	men:   (-55.0969 + 0.6309*hr + 0.1988*weight + 0.2017*age) / 4.184
//	women: (-20.4022 + 0.4472*hr - 0.1263*weight + 0.074*age) / 4.184
//
// All inputs must be within their physiological bounds.
func KcalPerMin(hr, weight, age float64, g Gender) (float64, error) {
	c, err := ConstantsFor(g)
	if err != nil {
		return 0, err
	}
	if err := ValidateHeartRate(hr); err != nil {
		return 0, err
	}
	if err := ValidateWeight(weight); err != nil {
		return 0, err
	}
	if err := ValidateAge(age); err != nil {
		return 0, err
	}
	return c.eval(hr, weight, age), nil
}

// CaloriesBurned estimates total kilocalories for an interval at a constant heart rate
func CaloriesBurned(hr, durationMinutes, weight, age float64, g Gender) (float64, error) {
	if durationMinutes < 0 {
		return 0, fmt.Errorf("%w: duration cannot be negative, got %v", ErrValidation, durationMinutes)
	}
	kcal, err := KcalPerMin(hr, weight, age, g)
	if err != nil {
		return 0, err
	}
	return kcal * durationMinutes, nil
}
