package tui

import (
	"errors"
	"math"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"fit-calories/internal/analysis"
	"fit-calories/internal/keytel"
)

func TestCalculatorSolve(t *testing.T) {
	m := NewCalculatorModel(analysis.Profile{WeightKg: 70, AgeYears: 30, Gender: keytel.Male})
	m.inputs[keytel.HeartRate].SetValue("120")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(CalculatorModel)

	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if m.result == nil || m.result.Variable != keytel.KcalPerMinute {
		t.Fatalf("result = %+v, want kcal/min", m.result)
	}
	if math.Abs(m.result.Value-9.6984) > 0.0001 {
		t.Errorf("kcal/min = %v, want ~9.6984", m.result.Value)
	}
}

func TestCalculatorSolve_TooManyBlanks(t *testing.T) {
	m := NewCalculatorModel(analysis.Profile{WeightKg: 70, AgeYears: 30, Gender: keytel.Male})
	m.inputs[keytel.Weight].SetValue("")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(CalculatorModel)

	if !errors.Is(m.err, keytel.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", m.err)
	}
}

func TestCalculatorGenderToggle(t *testing.T) {
	m := NewCalculatorModel(analysis.Profile{WeightKg: 70, AgeYears: 30, Gender: keytel.Male})
	m.inputs[keytel.HeartRate].SetValue("120")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	m = updated.(CalculatorModel)
	if m.gender != keytel.Female {
		t.Fatalf("gender = %v, want female", m.gender)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(CalculatorModel)
	if m.result == nil || math.Abs(m.result.Value-6.3673) > 0.0001 {
		t.Errorf("female kcal/min = %+v, want ~6.3673", m.result)
	}
}

func TestNumericInput(t *testing.T) {
	for _, ok := range []string{"", "12", "12.5", "."} {
		if err := numericInput(ok); err != nil {
			t.Errorf("numericInput(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"-1", "1.2.3", "abc"} {
		if numericInput(bad) == nil {
			t.Errorf("numericInput(%q) should fail", bad)
		}
	}
}
