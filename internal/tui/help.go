package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	sections = append(sections, m.renderSection("Navigation", []keyHelp{
		{"1", "Files and batch results"},
		{"2", "Calculator"},
		{"3", "Heart rate zones"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	}))

	sections = append(sections, m.renderSection("Files", []keyHelp{
		{"r / enter", "Run batch over the files directory"},
		{"x", "Cancel a running batch"},
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"enter", "Open file detail"},
	}))

	sections = append(sections, m.renderSection("Calculator", []keyHelp{
		{"tab", "Next field"},
		{"enter", "Solve for the blank field"},
		{"ctrl+g", "Toggle gender"},
		{"esc", "Stop editing (enables navigation keys)"},
	}))

	sections = append(sections, m.renderSection("Zones", []keyHelp{
		{"+ / -", "Adjust resting heart rate"},
		{"[ / ]", "Adjust max heart rate"},
		{"t", "Estimate max heart rate from age"},
	}))

	sections = append(sections, m.renderFormulaHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderFormulaHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"Calories", "Keytel et al. (2005): kcal/min from heart rate, weight, age and gender, times duration."},
		{"Integrated", "Same formula applied to each interval between readings, then summed."},
		{"Zones", "Karvonen: resting HR + intensity x (max HR - resting HR)."},
		{"Data quality", "Share of samples with a plausible reading, plus gap and flat-line checks."},
	}

	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
