package keytel

import (
	"fmt"
	"math"
)

// Variable names one of the four quantities in the Keytel formula
type Variable int

const (
	HeartRate Variable = iota
	Weight
	Age
	KcalPerMinute
)

// Physiological ceilings
const (
	MaxHeartRate  = 250.0 // bpm
	MaxWeight     = 500.0 // kg
	MaxAge        = 130.0 // years
	MaxKcalPerMin = 100.0
)

// String returns the variable's display name
func (v Variable) String() string {
	switch v {
	case HeartRate:
		return "heart rate"
	case Weight:
		return "weight"
	case Age:
		return "age"
	case KcalPerMinute:
		return "kcal/min"
	default:
		return fmt.Sprintf("Variable(%d)", int(v))
	}
}

// Unit returns the variable's unit suffix
func (v Variable) Unit() string {
	switch v {
	case HeartRate:
		return "bpm"
	case Weight:
		return "kg"
	case Age:
		return "years"
	case KcalPerMinute:
		return "kcal/min"
	}
	return ""
}

// Measurement is a validated value for one variable
type Measurement struct {
	Variable Variable
	Value    float64
}

func (m Measurement) String() string {
	return fmt.Sprintf("%s: %.2f %s", m.Variable, m.Value, m.Variable.Unit())
}

// Validate checks the value against its variable's bound.
// kcal/min admits zero, every other variable must be strictly positive.
func (m Measurement) Validate() error {
	v := m.Value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number, got %v", ErrValidation, m.Variable, v)
	}

	var ceiling float64
	switch m.Variable {
	case HeartRate:
		ceiling = MaxHeartRate
	case Weight:
		ceiling = MaxWeight
	case Age:
		ceiling = MaxAge
	case KcalPerMinute:
		if v < 0 {
			return fmt.Errorf("%w: %s cannot be negative, got %v", ErrValidation, m.Variable, v)
		}
		if v > MaxKcalPerMin {
			return fmt.Errorf("%w: %s %v exceeds maximum (%v)", ErrValidation, m.Variable, v, MaxKcalPerMin)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown variable %d", ErrValidation, int(m.Variable))
	}

	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrValidation, m.Variable, v)
	}
	if v > ceiling {
		return fmt.Errorf("%w: %s %v exceeds maximum (%v %s)", ErrValidation, m.Variable, v, ceiling, m.Variable.Unit())
	}
	return nil
}

// ValidateHeartRate checks hr is in (0, 250]
func ValidateHeartRate(hr float64) error {
	return Measurement{Variable: HeartRate, Value: hr}.Validate()
}

// ValidateWeight checks weight is in (0, 500]
func ValidateWeight(weight float64) error {
	return Measurement{Variable: Weight, Value: weight}.Validate()
}

// ValidateAge checks age is in (0, 130]
func ValidateAge(age float64) error {
	return Measurement{Variable: Age, Value: age}.Validate()
}

// ValidateKcalPerMin checks kcal is in [0, 100]
func ValidateKcalPerMin(kcal float64) error {
	return Measurement{Variable: KcalPerMinute, Value: kcal}.Validate()
}
