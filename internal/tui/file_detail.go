package tui

import (
	"fmt"
	"strings"

	"fit-calories/internal/activity"
	"fit-calories/internal/analysis"
	"fit-calories/internal/config"
	"fit-calories/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// FileDetailModel shows the summary, heart rate chart and zone distribution
// of one processed file
type FileDetailModel struct {
	reader   service.RecordingReader
	profile  analysis.Profile
	zonesCfg config.ZonesConfig
	result   service.FileResult

	samples  []activity.Sample
	zones    []analysis.Zone
	zonesErr error

	viewport viewport.Model
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewFileDetailModel creates a detail model for a successful batch result
func NewFileDetailModel(reader service.RecordingReader, profile analysis.Profile, zonesCfg config.ZonesConfig, result service.FileResult, width, height int) FileDetailModel {
	m := FileDetailModel{
		reader:   reader,
		profile:  profile,
		zonesCfg: zonesCfg,
		result:   result,
		loading:  true,
		width:    width,
		height:   height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// Init initializes the detail screen
func (m FileDetailModel) Init() tea.Cmd {
	return m.loadRecording
}

type recordingLoadedMsg struct {
	samples []activity.Sample
	err     error
}

// loadRecording re-reads the file for its sample series; the batch report
// only keeps summaries
func (m FileDetailModel) loadRecording() tea.Msg {
	rec, err := m.reader.Read(m.result.Path)
	if err != nil {
		return recordingLoadedMsg{err: err}
	}
	return recordingLoadedMsg{samples: rec.Samples}
}

// Update handles messages
func (m FileDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordingLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.samples = msg.samples
		m.zones, m.zonesErr = analysis.KarvonenZones(int(m.profile.AgeYears), m.zonesCfg.RestingHR, m.zonesCfg.Intensities, m.zonesCfg.MaxHR)
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if !m.loading {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadRecording
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail screen
func (m FileDetailModel) View() string {
	if m.loading {
		return "\n  Loading file..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to files  j/k or arrows: scroll  r: reload")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m FileDetailModel) renderContent() string {
	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderSummary())
	sections = append(sections, m.renderQuality())

	if data := heartRateSeries(m.samples); len(data) > 5 {
		sections = append(sections, m.renderHRChart(data))
	}

	sections = append(sections, m.renderZones())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m FileDetailModel) renderHeader() string {
	md := m.result.Metadata
	title := cardTitleStyle.Render(m.result.Name())

	date := "unknown start time"
	if !md.StartTime.IsZero() {
		date = md.StartTime.Local().Format("Monday, January 2, 2006 at 3:04 PM")
	}
	subtitle := lipgloss.NewStyle().Foreground(mutedColor).Render(date)

	stats := fmt.Sprintf("%s  •  %s  •  %s", md.ActivityName(), md.FormatDuration(), service.FormatSize(md.SizeBytes))
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	return lipgloss.JoinVertical(lipgloss.Left, "", title, subtitle, statsLine, "")
}

func (m FileDetailModel) renderSummary() string {
	var lines []string

	lines = append(lines, sectionStyle.Render("Summary"))

	s := m.result.Summary
	lines = append(lines, "  "+RenderMetric("Average HR", fmt.Sprintf("%.0f bpm", s.AverageHeartRate), ""))
	lines = append(lines, "  "+RenderMetric("Duration", service.FormatMinutes(s.DurationMinutes), ""))
	lines = append(lines, "  "+RenderMetric("Energy rate", fmt.Sprintf("%.2f kcal/min", s.KcalPerMin), ""))
	lines = append(lines, "  "+RenderMetric("Calories", fmt.Sprintf("%.0f kcal", s.EstimatedCalories), ""))
	lines = append(lines, "  "+RenderMetric("Integrated", fmt.Sprintf("%.0f kcal", s.IntegratedCalories), calorieDelta(s)))
	lines = append(lines, "  "+RenderMetric("Readings", fmt.Sprintf("%d of %d samples", s.ValidReadings, s.SampleCount), ""))

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// calorieDelta compares integrated to average-based calories, e.g. "+3.1%"
func calorieDelta(s analysis.Summary) string {
	if s.EstimatedCalories <= 0 {
		return ""
	}
	pct := (s.IntegratedCalories - s.EstimatedCalories) / s.EstimatedCalories * 100
	return fmt.Sprintf("%+.1f%%", pct)
}

func (m FileDetailModel) renderQuality() string {
	var lines []string

	q := m.result.Summary.Quality
	lines = append(lines, sectionStyle.Render(fmt.Sprintf("Data Quality (%.0f%% valid)", q.Score()*100)))
	lines = append(lines, fmt.Sprintf("  HR range:             %.0f-%.0f bpm (sd %.1f)", q.MinHR, q.MaxHR, q.StdDevHR))
	lines = append(lines, fmt.Sprintf("  Sample interval:      %.2f min", q.AverageIntervalMinutes))

	if len(q.Warnings) == 0 {
		lines = append(lines, successStyle.Render("  No issues found"))
	}
	for _, w := range q.Warnings {
		lines = append(lines, warningStyle.Render("  ! "+w))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m FileDetailModel) renderHRChart(data []float64) string {
	var lines []string

	lines = append(lines, sectionStyle.Render("Heart Rate Over Time (bpm)"))

	if len(data) > 60 {
		data = downsample(data, 60)
	}

	chart := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(50),
	)
	lines = append(lines, chart)

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m FileDetailModel) renderZones() string {
	var lines []string

	if m.zonesErr != nil {
		lines = append(lines, sectionStyle.Render("HR Zone Distribution"))
		lines = append(lines, errorStyle.Render(fmt.Sprintf("  %v", m.zonesErr)))
		return strings.Join(lines, "\n")
	}

	minutes := analysis.TimeInZones(m.samples, m.zones)
	var total float64
	for _, v := range minutes {
		total += v
	}

	maxHR := 0
	if len(m.zones) > 0 {
		maxHR = m.zones[len(m.zones)-1].UpperHR
	}
	lines = append(lines, sectionStyle.Render(fmt.Sprintf("HR Zone Distribution (resting %d, max %d)", m.zonesCfg.RestingHR, maxHR)))

	maxBarWidth := 30
	for i, z := range m.zones {
		pct := 0.0
		if total > 0 {
			pct = minutes[i] / total * 100
		}
		barWidth := int(pct / 100 * float64(maxBarWidth))
		if barWidth < 1 && minutes[i] > 0 {
			barWidth = 1
		}

		bar := strings.Repeat("█", barWidth)
		color := zoneColors[i%len(zoneColors)]

		label := fmt.Sprintf("  Z%d %-9s %3d-%3d ", i+1, z.Label, z.LowerHR, z.UpperHR)
		line := label + lipgloss.NewStyle().Foreground(color).Render(bar) +
			fmt.Sprintf(" %5.1f%% (%s)", pct, service.FormatMinutes(minutes[i]))
		lines = append(lines, line)
	}
	if outside := minutes[len(m.zones)]; outside > 0 {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("  %s outside all zones", service.FormatMinutes(outside))))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// heartRateSeries returns valid readings in time order
func heartRateSeries(samples []activity.Sample) []float64 {
	data := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.HeartRate != nil && *s.HeartRate > 0 {
			data = append(data, float64(*s.HeartRate))
		}
	}
	return data
}

// downsample averages data into targetLen buckets
func downsample(data []float64, targetLen int) []float64 {
	if len(data) <= targetLen {
		return data
	}

	result := make([]float64, targetLen)
	ratio := float64(len(data)) / float64(targetLen)

	for i := 0; i < targetLen; i++ {
		start := int(float64(i) * ratio)
		end := int(float64(i+1) * ratio)
		if end > len(data) {
			end = len(data)
		}

		sum := 0.0
		for j := start; j < end; j++ {
			sum += data[j]
		}
		if end > start {
			result[i] = sum / float64(end-start)
		}
	}

	return result
}
