package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/qodesmith/dl-yt-playlist/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunView ViewState = iota
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	engine       *tasks.Engine
	opts         tasks.SyncOptions
	view         ViewState
	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate
	done         chan syncCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.SyncResult
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.quit}}
}

type progressUpdateMsg tasks.ProgressUpdate

type syncCompleteMsg struct {
	result *tasks.SyncResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.Engine, opts tasks.SyncOptions) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title

	return &Model{
		ctx:     ctx,
		engine:  engine,
		opts:    opts,
		view:    RunView,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Result returns the completed run, once the program has quit.
func (m *Model) Result() (*tasks.SyncResult, error) {
	return m.result, m.err
}

// Init starts the sync in the background and begins polling for progress.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startSync())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	done := make(chan syncCompleteMsg, 1)

	go func() {
		result, err := m.engine.Sync(m.ctx, m.opts, m.progressChan)
		done <- syncCompleteMsg{result: result, err: err}
		close(m.progressChan)
	}()

	m.done = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Syncing playlist " + m.opts.PlaylistID)

	var phase string
	switch m.progress.Phase {
	case tasks.PhaseFetch:
		phase = "Fetching playlist pages..."
	case tasks.PhaseNormalize:
		phase = fmt.Sprintf("Normalizing %d items", m.progress.Total)
	case tasks.PhaseDetails:
		phase = fmt.Sprintf("Fetching details for %d videos", m.progress.Total)
	case tasks.PhaseReconcile:
		phase = fmt.Sprintf("Reconciling records (%d changed)", m.progress.Current)
	case tasks.PhaseDownload:
		phase = fmt.Sprintf("Downloading media for %d records", m.progress.Total)
	case tasks.PhasePersist:
		phase = "Writing metadata..."
	default:
		phase = "Starting..."
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	return fmt.Sprintf("%s\n%s %s\n\n%s", title, m.spinner.View(), phase, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Sync Complete")
	info := fmt.Sprintf(
		"\nRecords: %d\nUpdates: %d\nAudio: %d  Video: %d  Thumbnails: %d",
		len(m.result.Videos),
		m.result.UpdateCount,
		m.result.Counts.Audio,
		m.result.Counts.Video,
		m.result.Counts.Thumbnails,
	)

	var failures string
	if m.result.FailureTotal > 0 {
		failures = "\n\n" + styles.warn.Render(fmt.Sprintf("%d failures recorded; run the report command for details", m.result.FailureTotal))
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failures, helpView)
}
