package tui

import (
	"fmt"
	"strconv"
	"strings"

	"fit-calories/internal/analysis"
	"fit-calories/internal/keytel"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CalculatorModel solves the Keytel formula for whichever field is left blank
type CalculatorModel struct {
	inputs  [4]textinput.Model // indexed by keytel.Variable
	focus   int
	editing bool
	gender  keytel.Gender

	result *keytel.Measurement
	err    error
}

// NewCalculatorModel creates a calculator prefilled with the profile's weight and age
func NewCalculatorModel(profile analysis.Profile) CalculatorModel {
	m := CalculatorModel{gender: profile.Gender, editing: true}

	placeholders := [4]string{"bpm", "kg", "years", "kcal/min"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 8
		ti.Width = 12
		ti.Validate = numericInput
		m.inputs[i] = ti
	}
	m.inputs[keytel.Weight].SetValue(strconv.FormatFloat(profile.WeightKg, 'f', -1, 64))
	m.inputs[keytel.Age].SetValue(strconv.FormatFloat(profile.AgeYears, 'f', -1, 64))
	m.inputs[0].Focus()

	return m
}

// numericInput accepts partial decimal numbers while typing
func numericInput(s string) error {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return fmt.Errorf("not a number")
		}
	}
	if strings.Count(s, ".") > 1 {
		return fmt.Errorf("not a number")
	}
	return nil
}

// Editing reports whether a text field currently has focus
func (m CalculatorModel) Editing() bool {
	return m.editing
}

// Init initializes the calculator screen
func (m CalculatorModel) Init() tea.Cmd {
	if m.editing {
		return textinput.Blink
	}
	return nil
}

// Update handles messages
func (m CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			if m.editing {
				m.editing = false
				m.inputs[m.focus].Blur()
				return m, nil
			}
		case "e":
			if !m.editing {
				m.editing = true
				return m, m.inputs[m.focus].Focus()
			}
		case "tab", "down":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "j", "k":
			if !m.editing {
				if msg.String() == "j" {
					return m, m.moveFocus(1)
				}
				return m, m.moveFocus(-1)
			}
		case "ctrl+g", "g":
			if msg.String() == "ctrl+g" || !m.editing {
				m.toggleGender()
				return m, nil
			}
		case "ctrl+u", "c":
			if msg.String() == "ctrl+u" || !m.editing {
				m.inputs[m.focus].SetValue("")
				m.result, m.err = nil, nil
				return m, nil
			}
		case "enter":
			m.solve()
			return m, nil
		}
	}

	if !m.editing {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *CalculatorModel) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	if !m.editing {
		return nil
	}
	return m.inputs[m.focus].Focus()
}

func (m *CalculatorModel) toggleGender() {
	if m.gender == keytel.Male {
		m.gender = keytel.Female
	} else {
		m.gender = keytel.Male
	}
	m.result, m.err = nil, nil
}

// solve parses the fields and solves for the single blank one
func (m *CalculatorModel) solve() {
	m.result, m.err = nil, nil

	var values [4]*float64
	for i, in := range m.inputs {
		s := strings.TrimSpace(in.Value())
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			m.err = fmt.Errorf("%w: %s %q is not a number", keytel.ErrValidation, keytel.Variable(i), s)
			return
		}
		values[i] = &v
	}

	req, err := keytel.NewSolveRequest(m.gender, values[keytel.HeartRate], values[keytel.Weight], values[keytel.Age], values[keytel.KcalPerMinute])
	if err != nil {
		m.err = err
		return
	}
	res, err := keytel.Solve(req)
	if err != nil {
		m.err = err
		return
	}
	m.result = &res
}

// View renders the calculator
func (m CalculatorModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Keytel Calculator"))
	sections = append(sections, statusStyle.Render("  Leave exactly one field blank and press enter to solve for it."))
	sections = append(sections, "")

	for i, in := range m.inputs {
		label := keytel.Variable(i).String()
		line := "  " + metricLabelStyle.Render(label) + in.View()
		if i == m.focus && !m.editing {
			line = "> " + strings.TrimPrefix(line, "  ")
		}
		sections = append(sections, line)
	}
	sections = append(sections, "  "+RenderMetric("gender", m.gender.String(), ""))
	sections = append(sections, "")

	switch {
	case m.err != nil:
		sections = append(sections, cardStyle.BorderForeground(errorColor).Render(errorStyle.Render(m.err.Error())))
	case m.result != nil:
		sections = append(sections, cardStyle.Render(successStyle.Render(fmt.Sprintf("%s = %.2f %s", m.result.Variable, m.result.Value, m.result.Variable.Unit()))))
	}

	var help string
	if m.editing {
		help = "  tab: next field  enter: solve  ctrl+g: gender  ctrl+u: clear field  esc: stop editing"
	} else {
		help = "  e: edit  j/k: move  g: gender  c: clear field  enter: solve"
	}
	sections = append(sections, statusStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
