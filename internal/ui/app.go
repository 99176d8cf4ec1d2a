package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/viewlog/internal/ingest"
	"github.com/five82/viewlog/internal/logging"
	"github.com/five82/viewlog/internal/prefs"
	"github.com/five82/viewlog/internal/session"
	"github.com/five82/viewlog/internal/state"
	logview "github.com/five82/viewlog/internal/viewport"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Events    *ingest.Inbox[session.Event]
	Endpoint  string
	SessionID string
	Window    time.Duration // zero uses ingest.DefaultWindow
	Capacity  int           // zero uses state.DefaultCapacity
	ThemeName string
	Saver     *prefs.Saver // nil disables theme persistence
	Logger    *log.Logger
}

// Model is the root application state for Bubble Tea. All session events,
// flush timers and key presses are handled in Update, so the buffer and the
// scroll state are only ever touched from the program's event loop.
type Model struct {
	ctx      context.Context
	events   *ingest.Inbox[session.Event]
	pipeline *ingest.Pipeline
	scroller *logview.Scroller
	control  *logview.Controller
	pane     viewport.Model
	keys     keyMap
	saver    *prefs.Saver
	logger   *log.Logger

	// Connection
	endpoint    string
	sessionID   string
	conn        session.State
	opens       int
	lastErr     error
	closeCode   int
	closeReason string

	// Data
	snapshot  state.Snapshot
	visible   []state.Entry
	armedGen  uint64
	lastFlush time.Time

	// UI
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	quitting bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("ui")
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	scroller := logview.NewScroller(logview.DefaultViewportHeight)
	pipeline := ingest.NewPipeline(opts.Window, opts.Capacity)

	return Model{
		ctx:       ctx,
		events:    opts.Events,
		pipeline:  pipeline,
		scroller:  scroller,
		control:   logview.New(scroller, logview.DefaultItemHeight, logview.DefaultViewportHeight),
		pane:      viewport.New(0, 0),
		keys:      DefaultKeyMap(),
		saver:     opts.Saver,
		logger:    logger,
		endpoint:  opts.Endpoint,
		sessionID: opts.SessionID,
		snapshot:  pipeline.Snapshot(),
		theme:     GetTheme(themeName),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitEventsCmd(m.ctx, m.events)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case eventsMsg:
		return m.handleEvents(msg)

	case eventsDoneMsg:
		return m, nil

	case flushMsg:
		if snap, changed := m.pipeline.Tick(msg.gen); changed {
			m.applySnapshot(snap)
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Connecting..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderLogs())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		// Drop pending lines before the session goes away.
		m.pipeline.Stop()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.saver != nil {
			m.saver.Schedule(prefs.Prefs{Theme: m.theme.Name})
		}
		m.refresh()

	case key.Matches(msg, m.keys.ToggleAutoscroll):
		on := m.control.ToggleAutoscroll()
		m.logger.Debug("autoscroll toggled", "on", on)
		m.refresh()

	case key.Matches(msg, m.keys.Up):
		m.scroll(func() { m.scroller.ScrollBy(-1) })
	case key.Matches(msg, m.keys.Down):
		m.scroll(func() { m.scroller.ScrollBy(1) })
	case key.Matches(msg, m.keys.Top):
		m.scroll(m.scroller.GotoTop)
	case key.Matches(msg, m.keys.Bottom):
		m.scroll(m.scroller.GotoBottom)
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(func() { m.scroller.PageBy(-1) })
	case key.Matches(msg, m.keys.PageDown):
		m.scroll(func() { m.scroller.PageBy(1) })
	case key.Matches(msg, m.keys.HalfPageUp):
		m.scroll(func() { m.scroller.PageBy(-0.5) })
	case key.Matches(msg, m.keys.HalfPageDown):
		m.scroll(func() { m.scroller.PageBy(0.5) })
	}

	return m, nil
}

// handleEvents applies a batch of session events in arrival order.
func (m Model) handleEvents(batch eventsMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, ev := range batch {
		switch ev.Kind {
		case session.EventMessage:
			if gen, arm := m.pipeline.Submit(ev.Text); arm {
				m.armedGen = gen
				cmds = append(cmds, flushCmd(m.pipeline.Window(), gen))
			}

		case session.EventState:
			m.conn = ev.State

		case session.EventOpen:
			m.opens++
			m.lastErr = nil
			m.closeCode, m.closeReason = 0, ""

		case session.EventError:
			m.lastErr = ev.Err
			m.logger.Warn("session error", "err", ev.Err)

		case session.EventClose:
			m.closeCode, m.closeReason = ev.Code, ev.Reason
			m.logger.Info("session closed by remote", "code", ev.Code, "reason", ev.Reason)
			// Nothing more is coming; show what is pending now.
			if snap, changed := m.pipeline.Drain(); changed {
				m.applySnapshot(snap)
			}
		}
	}
	cmds = append(cmds, waitEventsCmd(m.ctx, m.events))
	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.lastFlush = time.Now()
	m.refresh()
}

// refresh re-windows the buffer and redraws the pane content.
func (m *Model) refresh() {
	m.scroller.SetTotal(m.snapshot.Len())
	m.visible = m.control.Render(m.snapshot)
	m.pane.Style = NewBgStyle(m.theme.FocusBg).fill
	m.pane.SetContent(m.renderLogContent())
}

// scroll applies a manual scroll. Autoscroll is left as is: the next batch
// pins the view again when it is on.
func (m *Model) scroll(move func()) {
	m.scroller.SetTotal(m.snapshot.Len())
	move()
	m.refresh()
}

func (m *Model) resize() {
	rows := max(m.height-chromeRows, 1)
	m.pane.Width = max(m.width-2, 1)
	m.pane.Height = rows
	m.scroller.SetVisible(rows)
	m.control.SetViewportHeight(rows * logview.DefaultItemHeight)
	if m.control.Autoscroll() {
		m.scroller.SetTotal(m.snapshot.Len())
		m.scroller.GotoBottom()
	}
	m.refresh()
}

// Messages

type eventsMsg []session.Event

type eventsDoneMsg struct{}

type flushMsg struct{ gen uint64 }

// Commands

func waitEventsCmd(ctx context.Context, events *ingest.Inbox[session.Event]) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		batch, ok := events.Wait(ctx)
		if !ok {
			return eventsDoneMsg{}
		}
		return eventsMsg(batch)
	}
}

func flushCmd(window time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(window, func(time.Time) tea.Msg {
		return flushMsg{gen: gen}
	})
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
