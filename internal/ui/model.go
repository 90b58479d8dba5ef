package ui

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nzbpost/internal/config"
	"github.com/five82/nzbpost/internal/nzbgeek"
	"github.com/five82/nzbpost/internal/prefs"
	"github.com/five82/nzbpost/internal/state"
	"github.com/five82/nzbpost/internal/submit"
)

// BatchRunner runs one submission batch. *submit.Runner implements it.
type BatchRunner interface {
	Run(ctx context.Context, category string) (submit.Summary, error)
}

// LogTailer exposes today's batch log. *batchlog.Logger implements it.
type LogTailer interface {
	TodayPath() string
	Tail(day time.Time, maxLines int) ([]string, error)
}

type stage int

const (
	stageCategory stage = iota
	stageSubcategory
	stageConfirm
	stageRunning
	stageSummary
)

const (
	defaultPollTick = 150 * time.Millisecond
	summaryTail     = 8
	minEventsHeight = 5
)

// Model is the Bubble Tea model driving one interactive session.
type Model struct {
	ctx       context.Context
	runner    BatchRunner
	store     *state.Store
	logs      LogTailer
	cfg       config.Config
	prefsPath string
	pollTick  time.Duration

	theme Theme
	keys  keyMap

	width  int
	height int

	stage        stage
	selected     nzbgeek.Category
	category     string
	lastCategory string
	notice       string

	subInput textinput.Model
	spinner  spinner.Model
	events   viewport.Model

	snapshot state.Snapshot
	summary  submit.Summary
	batchErr error
	tail     []string

	interruptPending bool
	interrupted      bool
	quitting         bool
}

type tickMsg time.Time

type snapshotMsg state.Snapshot

type batchDoneMsg struct {
	summary submit.Summary
	err     error
}

type tailMsg struct {
	lines []string
	err   error
}

// New builds the model for opts.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	tick := opts.PollTick
	if tick <= 0 {
		tick = defaultPollTick
	}

	input := textinput.New()
	input.Placeholder = "e.g. 2040"
	input.CharLimit = 6
	input.Prompt = "> "

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:          ctx,
		runner:       opts.Runner,
		store:        store,
		logs:         opts.Logs,
		cfg:          opts.Config,
		prefsPath:    opts.PrefsPath,
		pollTick:     tick,
		theme:        GetTheme(opts.ThemeName),
		keys:         defaultKeys(),
		lastCategory: strings.TrimSpace(opts.LastCategory),
		subInput:     input,
		spinner:      spin,
		events:       viewport.New(80, 12),
	}
	m.spinner.Style = m.theme.Styles().AccentText
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeEvents()
		return m, nil

	case tickMsg:
		if m.stage != stageRunning {
			return m, nil
		}
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.pollTick))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.refreshEvents()
		return m, nil

	case batchDoneMsg:
		m.summary = msg.summary
		m.batchErr = msg.err
		m.snapshot = m.store.Snapshot()
		m.refreshEvents()
		m.stage = stageSummary
		if m.interruptPending {
			m.interrupted = true
			m.quitting = true
			return m, tea.Quit
		}
		return m, loadTailCmd(m.logs)

	case tailMsg:
		if msg.err != nil {
			log.Printf("read batch log: %v", msg.err)
		}
		m.tail = msg.lines
		return m, nil

	case spinner.TickMsg:
		if m.stage != stageRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.stage == stageSubcategory {
		var cmd tea.Cmd
		m.subInput, cmd = m.subInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Interrupt) {
		if m.stage == stageRunning {
			m.interruptPending = true
			m.notice = "Interrupt received, stopping after the current batch"
			return m, nil
		}
		m.interrupted = true
		m.quitting = true
		return m, tea.Quit
	}

	switch m.stage {
	case stageCategory:
		return m.handleCategoryKey(msg)
	case stageSubcategory:
		return m.handleSubcategoryKey(msg)
	case stageConfirm:
		return m.handleConfirmKey(msg)
	case stageRunning:
		var cmd tea.Cmd
		m.events, cmd = m.events.Update(msg)
		return m, cmd
	case stageSummary:
		return m.handleSummaryKey(msg)
	}
	return m, nil
}

func (m Model) handleCategoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Exit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Default):
		m.category = nzbgeek.DefaultCategory
		m.stage = stageConfirm
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if m.lastCategory == "" {
			m.notice = "No previous category, pick one from the list"
			return m, nil
		}
		m.category = m.lastCategory
		m.stage = stageConfirm
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = m.theme.Styles().AccentText
		m.savePrefs()
		return m, nil
	}

	if c, ok := nzbgeek.LookupCategory(msg.String()); ok {
		m.selected = c
		m.subInput.Reset()
		m.stage = stageSubcategory
		return m, m.subInput.Focus()
	}
	m.notice = "Invalid option! Choose a number from 0 to 9"
	return m, nil
}

func (m Model) handleSubcategoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.subInput.Blur()
		m.notice = ""
		m.stage = stageCategory
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		code, err := m.selected.WithSubcategory(m.subInput.Value())
		if err != nil {
			m.notice = "Subcategory must be a number, e.g. " + m.selected.Code[:1] + "040"
			return m, nil
		}
		m.subInput.Blur()
		m.notice = ""
		m.category = code
		m.stage = stageConfirm
		return m, nil
	}
	var cmd tea.Cmd
	m.subInput, cmd = m.subInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.stage = stageCategory
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		return m.startBatch()
	}
	return m, nil
}

func (m Model) handleSummaryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Again):
		m.notice = ""
		m.stage = stageCategory
		return m, nil
	case key.Matches(msg, m.keys.Exit):
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.events, cmd = m.events.Update(msg)
	return m, cmd
}

func (m Model) startBatch() (tea.Model, tea.Cmd) {
	m.lastCategory = m.category
	m.savePrefs()
	m.store.Reset()
	m.snapshot = state.Snapshot{}
	m.summary = submit.Summary{}
	m.batchErr = nil
	m.tail = nil
	m.notice = ""
	m.refreshEvents()
	m.stage = stageRunning
	return m, tea.Batch(
		runBatchCmd(m.ctx, m.runner, m.category),
		tickCmd(m.pollTick),
		m.spinner.Tick,
	)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Category: m.lastCategory, Theme: m.theme.Name}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

func (m *Model) resizeEvents() {
	w := m.width - 2
	if w < 20 {
		w = 20
	}
	h := m.height - 12
	if h < minEventsHeight {
		h = minEventsHeight
	}
	m.events.Width = w
	m.events.Height = h
}

func (m *Model) refreshEvents() {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.snapshot.Events))
	for _, e := range m.snapshot.Events {
		if line := formatEvent(e, styles); line != "" {
			lines = append(lines, line)
		}
	}
	m.events.SetContent(strings.Join(lines, "\n"))
	m.events.GotoBottom()
}

// Interrupted reports whether the session ended on an operator interrupt.
func (m Model) Interrupted() bool {
	return m.interrupted
}

func runBatchCmd(ctx context.Context, runner BatchRunner, category string) tea.Cmd {
	return func() tea.Msg {
		if runner == nil {
			return batchDoneMsg{}
		}
		sum, err := runner.Run(ctx, category)
		return batchDoneMsg{summary: sum, err: err}
	}
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadTailCmd(logs LogTailer) tea.Cmd {
	if logs == nil {
		return nil
	}
	return func() tea.Msg {
		lines, err := logs.Tail(time.Now(), summaryTail)
		return tailMsg{lines: lines, err: err}
	}
}
