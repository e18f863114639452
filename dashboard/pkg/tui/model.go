// Package tui is the interactive terminal front end: a profile picker, the
// dashboard card grid and the assistant chat panel.
package tui

import (
	"context"
	"strings"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/logging"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/notify"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/session"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/store"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/ui/cardgrid"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/ui/components"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Options wires the UI to the rest of the application.
type Options struct {
	Store     *store.LayoutStore
	Notifier  *notify.Notifier
	Assistant session.Assistant
	Logger    *zap.Logger
	Columns   int
	// Profile skips the picker when set.
	Profile layout.Profile
}

type screen int

const (
	screenPicker screen = iota
	screenDashboard
)

type focusArea int

const (
	focusInput focusArea = iota
	focusGrid
)

type chatEntry struct {
	fromUser bool
	text     string
}

// Messages. gen ties async results to the profile visit that started them so
// answers arriving after the user went back are dropped.
type (
	selectProfileMsg struct{ profile layout.Profile }
	cardSelectedMsg  struct{ title string }
	backMsg          struct{}
	closeChatMsg     struct{}
	replyMsg         struct {
		reply session.Reply
		err   error
		gen   int
	}
	layoutUpdateMsg struct {
		update notify.Update
		gen    int
	}
)

// listener bridges notifier callbacks into the bubbletea loop.
type listener struct {
	ch     chan notify.Update
	done   chan struct{}
	cancel func()
}

func newListener() *listener {
	return &listener{ch: make(chan notify.Update, 8), done: make(chan struct{})}
}

// push keeps the newest updates when the UI falls behind.
func (l *listener) push(u notify.Update) {
	for {
		select {
		case <-l.done:
			return
		case l.ch <- u:
			return
		default:
		}
		select {
		case <-l.ch:
		default:
		}
	}
}

func (l *listener) stop() {
	if l == nil {
		return
	}
	if l.cancel != nil {
		l.cancel()
	}
	close(l.done)
}

func waitForUpdate(l *listener, gen int) tea.Cmd {
	return func() tea.Msg {
		select {
		case u := <-l.ch:
			return layoutUpdateMsg{update: u, gen: gen}
		case <-l.done:
			return nil
		}
	}
}

// Model is the root bubbletea model.
type Model struct {
	opts    Options
	log     *zap.Logger
	ctx     context.Context
	initCmd tea.Cmd

	screen  screen
	focus   focusArea
	profile layout.Profile
	session *session.Session
	gen     int
	// sessions outlive profile visits so a request still running from an
	// earlier visit stays serialized with new ones.
	sessions map[layout.Profile]*session.Session

	pickerItems []*components.ListItem
	pickerIndex int

	grid       *cardgrid.Grid
	backBtn    *components.Button
	closeBtn   *components.Button
	dispatcher *components.ClickDispatcher

	chatOpen bool
	history  []chatEntry
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	pending  int
	showHelp bool

	listener *listener

	width, height int
}

// New builds the model. With opts.Profile set the dashboard opens directly.
func New(opts Options) Model {
	if opts.Columns < 1 {
		opts.Columns = 3
	}

	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.Prompt = "› "
	input.CharLimit = 500

	m := Model{
		opts:       opts,
		log:        logging.OrNop(opts.Logger).Named("tui"),
		ctx:        context.Background(),
		grid:       cardgrid.New(opts.Columns),
		dispatcher: components.NewClickDispatcher(),
		sessions:   make(map[layout.Profile]*session.Session),
		viewport:   viewport.New(76, 8),
		input:      input,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:       help.New(),
		width:      80,
		height:     24,
	}
	m.backBtn = components.NewButton("esc", "Back", func() tea.Cmd {
		return func() tea.Msg { return backMsg{} }
	})
	m.closeBtn = components.NewButton("c", "Close", func() tea.Cmd {
		return func() tea.Msg { return closeChatMsg{} }
	})

	for _, p := range layout.Profiles() {
		p := p
		persona := layout.PersonaFor(p)
		item := components.NewListItem(persona.Icon, profileLabel(p), persona.Title, func() tea.Cmd {
			return func() tea.Msg { return selectProfileMsg{profile: p} }
		})
		m.pickerItems = append(m.pickerItems, item)
	}

	if opts.Profile != "" {
		m.initCmd = m.enterProfile(opts.Profile)
	} else {
		m.showPicker()
	}
	m.resize()
	return m
}

func profileLabel(p layout.Profile) string {
	if p == layout.ProfileATS {
		return "ATS"
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initCmd)
}

// Profile is the profile being edited, empty on the picker.
func (m Model) Profile() layout.Profile {
	return m.profile
}

// Grid exposes the card grid, mostly for tests and the headless renderer.
func (m Model) Grid() *cardgrid.Grid {
	return m.grid
}

func (m *Model) showPicker() {
	m.screen = screenPicker
	m.profile = ""
	m.session = nil
	m.input.Blur()
	for i, item := range m.pickerItems {
		item.SetSelected(i == m.pickerIndex)
	}
	clickables := make([]components.Clickable, len(m.pickerItems))
	for i, item := range m.pickerItems {
		clickables[i] = item
	}
	m.dispatcher.Set(clickables...)
}

// enterProfile switches to the dashboard for p and starts listening for
// updates made elsewhere.
func (m *Model) enterProfile(p layout.Profile) tea.Cmd {
	m.stopListening()
	m.gen++
	m.pending = 0
	m.profile = p
	m.screen = screenDashboard
	m.session = m.sessionFor(p)

	m.grid = cardgrid.New(m.opts.Columns)
	m.grid.OnSelect = func(c *cardgrid.DashboardCard) tea.Cmd {
		title := c.Title
		return func() tea.Msg { return cardSelectedMsg{title: title} }
	}
	m.grid.Apply(m.session.Layout(m.ctx))

	m.history = []chatEntry{{text: m.session.Persona().Greeting()}}
	m.chatOpen = true
	m.focusInput()
	m.dispatcher.Set(m.backBtn, m.closeBtn)
	m.resize()
	m.refreshViewport()

	m.log.Info("opened dashboard", zap.String("profile", string(p)))

	if m.opts.Notifier == nil {
		return nil
	}
	l := newListener()
	l.cancel = m.opts.Notifier.Listen(p, l.push)
	m.listener = l
	return waitForUpdate(l, m.gen)
}

func (m *Model) sessionFor(p layout.Profile) *session.Session {
	if s, ok := m.sessions[p]; ok {
		return s
	}
	s := session.New(session.Options{
		Profile:   p,
		Store:     m.opts.Store,
		Notifier:  m.opts.Notifier,
		Assistant: m.opts.Assistant,
		Logger:    m.opts.Logger,
	})
	m.sessions[p] = s
	return s
}

func (m *Model) leaveProfile() {
	m.stopListening()
	m.gen++
	m.pending = 0
	m.showPicker()
}

func (m *Model) stopListening() {
	m.listener.stop()
	m.listener = nil
}

func (m *Model) focusInput() {
	m.focus = focusInput
	m.grid.SetFocusVisible(false)
	m.input.Focus()
}

func (m *Model) focusGrid() {
	m.focus = focusGrid
	m.grid.SetFocusVisible(true)
	m.input.Blur()
}

func (m *Model) resize() {
	w := m.width - 6
	if w < 20 {
		w = 20
	}
	m.viewport.Width = w
	h := m.height / 3
	if h < 4 {
		h = 4
	}
	m.viewport.Height = h
	m.input.Width = w - 4
	m.help.Width = m.width
	m.grid.SetSize(m.width, 0)
	m.refreshViewport()
}

func (m *Model) addUser(text string) {
	m.history = append(m.history, chatEntry{fromUser: true, text: text})
	m.refreshViewport()
}

func (m *Model) addBot(text string) {
	m.history = append(m.history, chatEntry{text: text})
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if m.screen != screenDashboard {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m *Model) send(text string) tea.Cmd {
	s, gen, ctx := m.session, m.gen, m.ctx
	return func() tea.Msg {
		reply, err := s.Handle(ctx, text)
		return replyMsg{reply: reply, err: err, gen: gen}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case selectProfileMsg:
		return m, m.enterProfile(msg.profile)

	case backMsg:
		m.leaveProfile()
		return m, nil

	case closeChatMsg:
		m.chatOpen = false
		m.focusGrid()
		return m, nil

	case cardSelectedMsg:
		m.chatOpen = true
		m.focusInput()
		if m.input.Value() == "" {
			m.input.SetValue(msg.title)
		} else {
			m.input.SetValue(strings.TrimRight(m.input.Value(), " ") + " " + msg.title)
		}
		m.input.CursorEnd()
		return m, nil

	case replyMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if m.pending > 0 {
			m.pending--
		}
		if msg.reply.Ignored {
			return m, nil
		}
		if msg.reply.Text != "" {
			m.addBot(msg.reply.Text)
		}
		if msg.reply.Changed {
			m.grid.Apply(msg.reply.Layout)
		}
		if msg.err != nil {
			m.log.Error("chat request failed", zap.Error(msg.err))
			m.addBot("⚠ " + msg.err.Error())
		}
		return m, nil

	case layoutUpdateMsg:
		if msg.gen != m.gen || m.listener == nil {
			return m, nil
		}
		m.log.Debug("applying layout from another view", zap.Int64("timestamp", msg.update.Timestamp))
		m.grid.Apply(msg.update.Layout)
		return m, waitForUpdate(m.listener, m.gen)

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.screen == screenDashboard && m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.screen == screenDashboard && m.chatOpen && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown) {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if cmd := m.dispatcher.HandleMouse(msg); cmd != nil {
		return m, cmd
	}
	if m.screen == screenDashboard {
		_, cmd := m.grid.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.stopListening()
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.screen == screenPicker {
		return m.pickerKey(msg)
	}
	return m.dashboardKey(msg)
}

func (m Model) pickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.pickerIndex > 0 {
			m.pickerIndex--
		}
	case "down", "j":
		if m.pickerIndex < len(m.pickerItems)-1 {
			m.pickerIndex++
		}
	case "enter", " ":
		return m, m.enterProfile(layout.Profiles()[m.pickerIndex])
	case "?":
		m.showHelp = true
	case "q", "esc":
		return m, tea.Quit
	}
	for i, item := range m.pickerItems {
		item.SetSelected(i == m.pickerIndex)
	}
	return m, nil
}

func (m Model) dashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveProfile()
		return m, nil
	case "tab":
		if m.focus == focusInput {
			m.focusGrid()
		} else {
			m.chatOpen = true
			m.focusInput()
		}
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.focus == focusInput {
		if msg.Type == tea.KeyEnter {
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.addUser(text)
			m.pending++
			cmds := []tea.Cmd{m.send(text)}
			if m.pending == 1 {
				cmds = append(cmds, m.spinner.Tick)
			}
			return m, tea.Batch(cmds...)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "?":
		m.showHelp = true
		return m, nil
	case "q":
		m.stopListening()
		return m, tea.Quit
	case "c":
		if m.chatOpen {
			m.chatOpen = false
		} else {
			m.chatOpen = true
			m.focusInput()
		}
		return m, nil
	}

	_, cmd := m.grid.Update(msg)
	return m, cmd
}
