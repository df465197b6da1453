package tui

import (
	"context"
	"fmt"
	"strings"

	"fit-calories/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// BatchModel is the files screen: runs a batch and lists its results
type BatchModel struct {
	batchService *service.BatchService
	dir          string
	pattern      string

	running  bool
	progress service.BatchProgress
	updates  <-chan service.BatchProgress
	done     <-chan *service.Report
	cancel   context.CancelFunc

	report   *service.Report
	err      error
	cursor   int
	offset   int
	pageSize int
}

// NewBatchModel creates a batch model for files in dir matching pattern
func NewBatchModel(bs *service.BatchService, dir, pattern string) BatchModel {
	return BatchModel{
		batchService: bs,
		dir:          dir,
		pattern:      pattern,
		pageSize:     15,
	}
}

// Init initializes the batch screen
func (m BatchModel) Init() tea.Cmd {
	return nil
}

// batchProgressMsg carries one progress update from a running batch
type batchProgressMsg service.BatchProgress

// BatchDoneMsg is sent when a batch run finishes
type BatchDoneMsg struct {
	Report *service.Report
}

func isBatchMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case batchProgressMsg, BatchDoneMsg:
		return true
	}
	return false
}

// waitForBatch delivers the next progress update, or the report once the
// progress channel is closed
func waitForBatch(updates <-chan service.BatchProgress, done <-chan *service.Report) tea.Cmd {
	return func() tea.Msg {
		if p, ok := <-updates; ok {
			return batchProgressMsg(p)
		}
		return BatchDoneMsg{Report: <-done}
	}
}

func (m BatchModel) start() (BatchModel, tea.Cmd) {
	paths, err := service.Discover(m.dir, m.pattern)
	if err != nil {
		m.err = err
		return m, nil
	}
	if len(paths) == 0 {
		m.err = fmt.Errorf("no files matching %q in %s", m.pattern, m.dir)
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan service.BatchProgress, 1)
	done := make(chan *service.Report, 1)
	go func() {
		done <- m.batchService.RunWithProgress(ctx, paths, updates)
	}()

	m.running = true
	m.err = nil
	m.report = nil
	m.cursor, m.offset = 0, 0
	m.progress = service.BatchProgress{Total: len(paths)}
	m.updates, m.done, m.cancel = updates, done, cancel
	return m, waitForBatch(updates, done)
}

// Update handles messages
func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case batchProgressMsg:
		m.progress = service.BatchProgress(msg)
		return m, waitForBatch(m.updates, m.done)

	case BatchDoneMsg:
		m.running = false
		m.report = msg.Report
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		return m, nil

	case tea.KeyMsg:
		if m.running {
			if msg.String() == "x" && m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		switch msg.String() {
		case "r", "b":
			return m.start()
		case "enter":
			if m.report == nil {
				return m.start()
			}
			if m.cursor >= len(m.report.Results) {
				return m, nil
			}
			res := m.report.Results[m.cursor]
			if res.OK() {
				return m, func() tea.Msg { return OpenFileDetailMsg{Result: res} }
			}
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.report != nil && m.cursor < len(m.report.Results)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.pageSize {
					m.offset = m.cursor - m.pageSize + 1
				}
			}
		}
	}
	return m, nil
}

// View renders the batch screen
func (m BatchModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Activity Files")
	sections = append(sections, title)
	sections = append(sections, statusStyle.Render(fmt.Sprintf("  %s/%s", m.dir, m.pattern)))

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 'r' to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.running {
		sections = append(sections, m.renderProgress())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.report == nil {
		sections = append(sections, m.renderStartPrompt())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, m.renderTable())
	if chart := m.renderChart(); chart != "" {
		sections = append(sections, chart)
	}
	if failures := m.renderFailures(); failures != "" {
		sections = append(sections, failures)
	}

	help := statusStyle.Render("\n  enter: view details  j/k: navigate  r: run again")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m BatchModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  This will estimate calories for every matching file:")
	lines = append(lines, "")
	lines = append(lines, "  1. Decode heart rate records")
	lines = append(lines, "  2. Average heart rate over the activity")
	lines = append(lines, "  3. Apply the Keytel formula for your profile")
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 'r' or Enter to start"))

	return strings.Join(lines, "\n")
}

func (m BatchModel) renderProgress() string {
	var lines []string

	p := m.progress
	pct := 0.0
	if p.Total > 0 {
		pct = float64(p.Completed) / float64(p.Total)
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("  Processing %d of %d files...", p.Completed, p.Total))
	lines = append(lines, "")
	lines = append(lines, "  "+RenderProgressBar(pct, 40))
	if p.Current != "" {
		lines = append(lines, statusStyle.Render("  "+p.Current))
	}
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 'x' to cancel"))

	return strings.Join(lines, "\n")
}

func (m BatchModel) renderTable() string {
	var rows []string

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-28s  %-20s  %9s  %6s  %8s  %8s",
		"File", "Activity", "Duration", "Avg HR", "kcal", "Size"))
	rows = append(rows, header)

	results := m.report.Results
	end := m.offset + m.pageSize
	if end > len(results) {
		end = len(results)
	}

	for i := m.offset; i < end; i++ {
		res := results[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		var row string
		if res.OK() {
			row = fmt.Sprintf("%s%-28s  %-20s  %9s  %6.0f  %8.1f  %8s",
				cursor,
				truncateName(res.Name(), 28),
				truncateName(res.Metadata.ActivityName(), 20),
				service.FormatMinutes(res.Summary.DurationMinutes),
				res.Summary.AverageHeartRate,
				res.Summary.EstimatedCalories,
				service.FormatSize(res.Metadata.SizeBytes),
			)
		} else {
			row = fmt.Sprintf("%s%-28s  %s", cursor, truncateName(res.Name(), 28), string(res.Category))
		}

		switch {
		case i == m.cursor:
			rows = append(rows, tableSelectedStyle.Render(row))
		case !res.OK():
			rows = append(rows, warningStyle.Render(tableRowStyle.Render(row)))
		default:
			rows = append(rows, tableRowStyle.Render(row))
		}
	}

	rows = append(rows, "")
	rows = append(rows, successStyle.Render("  "+m.report.Totals()))

	return strings.Join(rows, "\n")
}

func (m BatchModel) renderChart() string {
	var kcal []float64
	for _, res := range m.report.Successes() {
		kcal = append(kcal, res.Summary.EstimatedCalories)
		if len(kcal) == service.ChartMaxFiles {
			break
		}
	}
	if len(kcal) < 2 {
		return ""
	}

	var lines []string
	lines = append(lines, "")
	lines = append(lines, cardTitleStyle.Render("Calories per File"))
	lines = append(lines, asciigraph.Plot(kcal, asciigraph.Height(8), asciigraph.Width(50)))
	return strings.Join(lines, "\n")
}

func (m BatchModel) renderFailures() string {
	if m.report.Failed == 0 {
		return ""
	}

	counts := m.report.FailureCounts()
	var parts []string
	for _, c := range service.Categories {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", c, n))
		}
	}
	return "\n" + warningStyle.Render(fmt.Sprintf("  %d files failed (%s)", m.report.Failed, strings.Join(parts, ", ")))
}

// truncateName shortens s to max runes, marking the cut with "..."
func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
