package keytel

import (
	"fmt"
	"math"
)

// SolveRequest carries three known values and names the fourth.
// The unknown's field must be nil, the other three set.
type SolveRequest struct {
	Gender     Gender
	Unknown    Variable
	HeartRate  *float64
	Weight     *float64
	Age        *float64
	KcalPerMin *float64
}

// NewSolveRequest builds a request from optional values, inferring the unknown.
// Exactly one value must be nil.
func NewSolveRequest(g Gender, hr, weight, age, kcal *float64) (SolveRequest, error) {
	req := SolveRequest{Gender: g, HeartRate: hr, Weight: weight, Age: age, KcalPerMin: kcal}

	missing := 0
	for v, val := range req.values() {
		if val == nil {
			req.Unknown = Variable(v)
			missing++
		}
	}
	if missing != 1 {
		return SolveRequest{}, fmt.Errorf("%w: exactly one of heart rate, weight, age, kcal/min must be left blank, got %d blank", ErrValidation, missing)
	}
	return req, nil
}

// values is indexed by Variable
func (r SolveRequest) values() [4]*float64 {
	return [4]*float64{
		HeartRate:     r.HeartRate,
		Weight:        r.Weight,
		Age:           r.Age,
		KcalPerMinute: r.KcalPerMin,
	}
}

// known validates the shape of the request and every known value
func (r SolveRequest) known() error {
	if r.Unknown < HeartRate || r.Unknown > KcalPerMinute {
		return fmt.Errorf("%w: unknown variable %d", ErrValidation, int(r.Unknown))
	}
	for v, val := range r.values() {
		if Variable(v) == r.Unknown {
			if val != nil {
				return fmt.Errorf("%w: %s is marked unknown but a value was supplied", ErrValidation, r.Unknown)
			}
			continue
		}
		if val == nil {
			return fmt.Errorf("%w: %s is required to solve for %s", ErrValidation, Variable(v), r.Unknown)
		}
		if err := (Measurement{Variable: Variable(v), Value: *val}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Solve returns the value of the unknown variable such that the forward
// formula reproduces the three knowns.
func Solve(req SolveRequest) (Measurement, error) {
	c, err := ConstantsFor(req.Gender)
	if err != nil {
		return Measurement{}, err
	}
	if err := req.known(); err != nil {
		return Measurement{}, err
	}

	hr, w, a, kcal := deref(req.HeartRate), deref(req.Weight), deref(req.Age), deref(req.KcalPerMin)

	var v float64
	switch req.Unknown {
	case KcalPerMinute:
		v = c.eval(hr, w, a)
	case HeartRate:
		v = (kcal*c.Conversion - c.Base - c.WeightCoef*w - c.AgeCoef*a) / c.HRCoef
	case Weight:
		v = (kcal*c.Conversion - c.Base - c.HRCoef*hr - c.AgeCoef*a) / c.WeightCoef
	case Age:
		v = (kcal*c.Conversion - c.Base - c.HRCoef*hr - c.WeightCoef*w) / c.AgeCoef
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Measurement{}, fmt.Errorf("%w: %s is undefined for these inputs", ErrCalculation, req.Unknown)
	}

	m := Measurement{Variable: req.Unknown, Value: v}
	if err := m.Validate(); err != nil {
		return Measurement{}, fmt.Errorf("%w: solved %s is out of range: %v", ErrCalculation, req.Unknown, err)
	}
	return m, nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
