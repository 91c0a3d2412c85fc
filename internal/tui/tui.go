// Package tui provides a Bubble Tea terminal user interface for the fetch
// pipeline.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/handiism/mgnify-downloader/internal/config"
	"github.com/handiism/mgnify-downloader/internal/download"
	"github.com/handiism/mgnify-downloader/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2A9D8F")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

const (
	maxLogs     = 10
	eventBuffer = 256
)

var errCanceled = errors.New("cancelled by user")

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	inputErr error
	err      error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference and the events it reports
	manager *download.Manager
	events  chan download.ProgressEvent

	// Progress
	analyses      int
	doneAnalyses  int32
	receivedBytes int64
	files         int32
	summary       *download.Summary

	verbose bool

	width  int
	height int
}

const (
	inputPath = iota
	inputCodes
)

// NewModel creates a new TUI model that fetches with the given settings.
func NewModel(settings *config.Settings) Model {
	path := textinput.New()
	path.Placeholder = "analyses.txt"
	path.Focus()
	path.CharLimit = 500
	path.Width = 60

	codes := textinput.New()
	codes.Placeholder = "1 7 (empty for metadata only)"
	codes.CharLimit = 100
	codes.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#2A9D8F"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   []textinput.Model{path, codes},
		spinner:  sp,
		progress: prog,
		settings: settings,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan download.ProgressEvent, eventBuffer),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// ProgressMsg carries one event reported by the manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// InitDoneMsg is sent when the input file has been read.
	InitDoneMsg struct {
		Manager  *download.Manager
		Analyses int
		Err      error
	}

	// DownloadDoneMsg is sent when the run finishes.
	DownloadDoneMsg struct {
		Summary *download.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()

			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}

			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = errCanceled
			}

		case "tab", "shift+tab", "up", "down":
			if m.state == StateInput {
				m.inputs[m.focus].Blur()
				m.focus = (m.focus + 1) % len(m.inputs)
				cmds = append(cmds, m.inputs[m.focus].Focus())

				return m, tea.Batch(cmds...)
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.verbose = !m.verbose

				return m, nil
			}

		case "enter":
			if m.state == StateInput && m.inputs[inputPath].Value() != "" {
				labels, warnings, err := parseCodes(m.inputs[inputCodes].Value())
				if err != nil {
					m.inputErr = err

					return m, nil
				}

				m.inputErr = nil
				for _, w := range warnings {
					m.addLog(LogEntry{Message: w, Level: download.LevelWarning})
				}
				m.state = StateInitializing

				return m, tea.Batch(m.initializeDownload(labels), m.spinner.Tick)
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.analyses = 0
				m.doneAnalyses = 0
				m.receivedBytes = 0
				m.files = 0
				m.summary = nil
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.focus = inputPath
				m.inputs[inputCodes].Blur()
				cmds = append(cmds, m.inputs[inputPath].Focus())

				return m, tea.Batch(cmds...)
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())

		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.addLog(LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		}

		return m, tea.Batch(cmds...)

	case InitDoneMsg:
		if m.state != StateInitializing {
			return m, nil
		}

		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.manager = msg.Manager
			m.analyses = msg.Analyses
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.summary = msg.Summary
		m.refreshProgress()

		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCanceled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			m.refreshProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model) //nolint:forcetypeassert
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) refreshProgress() {
	if m.manager == nil {
		return
	}

	done, total, received, files := m.manager.GetProgress()
	m.doneAnalyses = done
	m.analyses = int(total)
	m.receivedBytes = received
	m.files = files
}

func (m Model) percent() float64 {
	if m.analyses == 0 {
		return 0
	}

	return float64(m.doneAnalyses) / float64(m.analyses)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent returns a command that delivers the next manager event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events

	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("MGnify Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Fetch metagenomic assembly analyses from MGnify"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Analysis id file:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[inputPath].View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Artifact codes:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[inputCodes].View())
	b.WriteString("\n\n")

	if m.inputErr != nil {
		b.WriteString(errorStyle.Render(m.inputErr.Error()))
		b.WriteString("\n\n")
	}

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+t)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(model.ArtifactHelp()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputRoot)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Reading analysis ids..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Analyses: %d/%d | Files: %d | Downloaded: %s",
		m.doneAnalyses,
		m.analyses,
		m.files,
		humanize.IBytes(uint64(m.receivedBytes)), //nolint:gosec
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	s := m.summary
	if s == nil {
		s = &download.Summary{}
	}

	box := boxStyle.Render(fmt.Sprintf(
		"Fetch complete\n\n"+
			"Analyses: %d fetched, %d failed\n"+
			"Studies: %d\n"+
			"Samples: %d\n"+
			"Artifacts: %d downloaded, %d failed\n"+
			"Size: %s",
		s.Analyses, s.Failed,
		s.Studies,
		s.Samples,
		s.Artifacts, s.ArtifactErrors,
		humanize.IBytes(uint64(s.Bytes)), //nolint:gosec
	))
	b.WriteString(box)
	b.WriteString("\n")

	if m.manager != nil && (s.Failed > 0 || s.ArtifactErrors > 0) {
		b.WriteString(warningStyle.Render("Failures are listed in " + m.manager.Layout().ErrorFile()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style

		prefix := "-"

		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "x"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "+"
		case download.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}

		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start | tab: next field | ctrl+t: verbose | esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new fetch | q: quit"
	}

	return ""
}

// addLog appends to the log pane, keeping the last maxLogs entries.
func (m *Model) addLog(entry LogEntry) {
	m.logs = append(m.logs, entry)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// parseCodes turns "1 7" or "1,7" into the selected artifact labels and any
// alias warnings.
func parseCodes(s string) (model.LabelSet, []string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	codes := make([]int, 0, len(fields))

	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid artifact code %q", f)
		}

		codes = append(codes, n)
	}

	return model.ParseArtifactCodes(codes)
}

// initializeDownload reads the input file and creates the manager.
func (m Model) initializeDownload(labels model.LabelSet) tea.Cmd {
	ctx, settings, events := m.ctx, m.settings, m.events
	path := m.inputs[inputPath].Value()

	return func() tea.Msg {
		manager := download.NewManager(settings, labels, func(event download.ProgressEvent) {
			select {
			case events <- event:
			default:
			}
		})

		if err := manager.Initialize(ctx, path); err != nil {
			return InitDoneMsg{Err: err}
		}

		return InitDoneMsg{Manager: manager, Analyses: len(manager.IDs())}
	}
}

// startDownload runs the fetch in the background.
func (m Model) startDownload() tea.Cmd {
	ctx, manager := m.ctx, m.manager

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Err: errors.New("no manager")}
		}

		summary, err := manager.StartDownloads(ctx)

		return DownloadDoneMsg{Summary: summary, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()

	return err
}
