package tui

import (
	"fmt"
	"strings"

	"fit-calories/internal/analysis"
	"fit-calories/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ZonesModel shows Karvonen target zones and lets the resting and max heart
// rate be adjusted
type ZonesModel struct {
	age         int
	restingHR   int
	maxHR       int // 0 means Tanaka estimate
	intensities []float64
	defaults    config.ZonesConfig

	zones []analysis.Zone
	err   error
}

// NewZonesModel creates a zones model from the profile age and zone config
func NewZonesModel(profile analysis.Profile, cfg config.ZonesConfig) ZonesModel {
	m := ZonesModel{
		age:         int(profile.AgeYears),
		restingHR:   cfg.RestingHR,
		maxHR:       cfg.MaxHR,
		intensities: cfg.Intensities,
		defaults:    cfg,
	}
	m.compute()
	return m
}

func (m *ZonesModel) compute() {
	m.zones, m.err = analysis.KarvonenZones(m.age, m.restingHR, m.intensities, m.maxHR)
}

// Init initializes the zones screen
func (m ZonesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ZonesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "+", "=":
			m.restingHR++
		case "-":
			if m.restingHR > 1 {
				m.restingHR--
			}
		case "]":
			m.maxHR = m.effectiveMax() + 1
		case "[":
			if hi := m.effectiveMax(); hi > 1 {
				m.maxHR = hi - 1
			}
		case "t":
			m.maxHR = 0
		case "r":
			m.restingHR = m.defaults.RestingHR
			m.maxHR = m.defaults.MaxHR
		default:
			return m, nil
		}
		m.compute()
	}
	return m, nil
}

// effectiveMax is the max heart rate the zones were computed with
func (m ZonesModel) effectiveMax() int {
	if len(m.zones) > 0 {
		return m.zones[len(m.zones)-1].UpperHR
	}
	if m.maxHR > 0 {
		return m.maxHR
	}
	return int(analysis.TanakaMaxHR(float64(m.age)) + 0.5)
}

// View renders the zones screen
func (m ZonesModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Heart Rate Zones (Karvonen)"))

	source := "configured"
	if m.maxHR == 0 {
		source = "estimated 208 - 0.7 x age"
	}
	sections = append(sections, "  "+RenderMetric("Age", fmt.Sprintf("%d years", m.age), ""))
	sections = append(sections, "  "+RenderMetric("Resting HR", fmt.Sprintf("%d bpm", m.restingHR), ""))
	sections = append(sections, "  "+RenderMetric("Max HR", fmt.Sprintf("%d bpm", m.effectiveMax()), source))
	sections = append(sections, "  "+RenderMetric("HR reserve", fmt.Sprintf("%d bpm", m.effectiveMax()-m.restingHR), ""))
	sections = append(sections, "")

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	} else {
		sections = append(sections, m.renderTable())
	}

	help := statusStyle.Render("\n  +/-: resting HR  [/]: max HR  t: estimate max  r: reset to config")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ZonesModel) renderTable() string {
	var rows []string

	header := tableHeaderStyle.Render(fmt.Sprintf("  %-4s  %-10s  %14s", "Zone", "Intensity", "Heart rate"))
	rows = append(rows, header)

	for i, z := range m.zones {
		row := fmt.Sprintf("Z%-3d  %-10s  %6d-%3d bpm", i+1, z.Label, z.LowerHR, z.UpperHR)
		color := zoneColors[i%len(zoneColors)]
		rows = append(rows, tableRowStyle.Foreground(color).Render(row))
	}

	return strings.Join(rows, "\n")
}
