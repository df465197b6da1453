package tui

import (
	"fit-calories/internal/analysis"
	"fit-calories/internal/config"
	"fit-calories/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenBatch Screen = iota
	ScreenDetail
	ScreenCalculator
	ScreenZones
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	batch      BatchModel
	detail     FileDetailModel
	calculator CalculatorModel
	zones      ZonesModel
	help       HelpModel

	// Services
	batchService *service.BatchService
	reader       service.RecordingReader
	cfg          *config.Config
	profile      analysis.Profile

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(cfg *config.Config, profile analysis.Profile, reader service.RecordingReader, batchService *service.BatchService) *App {
	return &App{
		screen:       ScreenBatch,
		batchService: batchService,
		reader:       reader,
		cfg:          cfg,
		profile:      profile,
		batch:        NewBatchModel(batchService, cfg.Files.Dir, cfg.Files.Pattern),
		calculator:   NewCalculatorModel(profile),
		zones:        NewZonesModel(profile, cfg.Zones),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.batch.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Global keybindings, unless a text field owns the keyboard
		if !(a.screen == ScreenCalculator && a.calculator.Editing()) {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				a.screen = ScreenBatch
				return a, nil
			case "2":
				a.screen = ScreenCalculator
				return a, a.calculator.Init()
			case "3":
				a.screen = ScreenZones
				return a, a.zones.Init()
			case "?":
				if a.screen != ScreenHelp {
					a.prevScreen = a.screen
				}
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				switch a.screen {
				case ScreenHelp:
					a.screen = a.prevScreen
					return a, nil
				case ScreenDetail:
					a.screen = ScreenBatch
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case OpenFileDetailMsg:
		a.screen = ScreenDetail
		a.detail = NewFileDetailModel(a.reader, a.profile, a.cfg.Zones, msg.Result, a.width, a.height)
		return a, a.detail.Init()

	case BatchDoneMsg:
		a.status = msg.Report.Totals()
	}

	// Delegate to current screen; batch also receives its background messages
	// while another screen is shown
	var cmd tea.Cmd
	switch a.screen {
	case ScreenBatch:
		var m tea.Model
		m, cmd = a.batch.Update(msg)
		a.batch = m.(BatchModel)
	case ScreenDetail:
		var m tea.Model
		m, cmd = a.detail.Update(msg)
		a.detail = m.(FileDetailModel)
	case ScreenCalculator:
		var m tea.Model
		m, cmd = a.calculator.Update(msg)
		a.calculator = m.(CalculatorModel)
	case ScreenZones:
		var m tea.Model
		m, cmd = a.zones.Update(msg)
		a.zones = m.(ZonesModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	if a.screen != ScreenBatch && isBatchMsg(msg) {
		var m tea.Model
		var bcmd tea.Cmd
		m, bcmd = a.batch.Update(msg)
		a.batch = m.(BatchModel)
		cmd = tea.Batch(cmd, bcmd)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenBatch:
		content = a.batch.View()
	case ScreenDetail:
		content = a.detail.View()
	case ScreenCalculator:
		content = a.calculator.View()
	case ScreenZones:
		content = a.zones.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("FIT Calorie Estimator")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Files", ScreenBatch},
		{"2", "Calculator", ScreenCalculator},
		{"3", "Zones", ScreenZones},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		active := a.screen == item.screen || (item.screen == ScreenBatch && a.screen == ScreenDetail)
		if active {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

// OpenFileDetailMsg asks the app to show one file's detail screen
type OpenFileDetailMsg struct {
	Result service.FileResult
}
