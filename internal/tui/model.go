package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"typewriter-cli/internal/config"
	"typewriter-cli/internal/editor"
	"typewriter-cli/internal/events"
	"typewriter-cli/internal/features"
	"typewriter-cli/internal/history"
	"typewriter-cli/internal/logger"
	"typewriter-cli/internal/tui/render"
	"typewriter-cli/internal/tui/slash"
	"typewriter-cli/internal/typewriter"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const cursorGlyph = "▌"

// Options 描述 TUI 依赖的引擎、编辑器与样式。
type Options struct {
	Engine *typewriter.Engine
	Editor *editor.Editor
	Bus    *events.Bus
	Style  config.Style
	// History 持久化提交过的行；为 nil 或 history 特性关闭时只保留本次会话。
	History *history.Store
	// Features 覆盖 features.Specs 中的默认开关。
	Features map[string]bool
	// Copy 默认写入系统剪贴板。
	Copy   func(text string) error
	Clock  func() time.Time
	Logger *logger.LogEntry
}

type frameMsg struct {
	Frame events.Frame
}

type busClosedMsg struct{}

type Model struct {
	input    textinput.Model
	viewport render.HighPerformanceViewport
	slash    *slash.State
	history  lineHistory
	status   *StatusIndicatorWidget
	spin     spinner.Model

	engine *typewriter.Engine
	editor *editor.Editor
	sub    <-chan events.Frame
	copy   func(string) error
	log    *logger.LogEntry
	store  *history.Store

	style      config.Style
	paneStyle  lipgloss.Style
	cursor     bool
	statusLine bool
	state      typewriter.State
	notice     string
	err        error
	width      int
	height     int
}

func New(opts Options) *Model {
	ti := textinput.New()
	ti.Placeholder = "new line text, or /command"
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.Focus()

	style := opts.Style
	if style.Cols <= 0 {
		style.Cols = config.Default().Style.Cols
	}
	if style.Rows <= 0 {
		style.Rows = config.Default().Style.Rows
	}
	if style.Padding < 0 {
		style.Padding = 0
	}

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(style.Foreground))

	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("tui")
	}

	m := &Model{
		input:      ti,
		viewport:   render.NewHighPerformanceViewport(style.Cols, style.Rows),
		slash:      slash.NewState(slash.Options{MaxLines: 6}),
		status:     NewStatusIndicatorWidget(StatusIndicatorOptions{State: StatusIdle, Clock: opts.Clock}),
		spin:       spin,
		engine:     opts.Engine,
		editor:     opts.Editor,
		copy:       copyFn,
		log:        log,
		style:      style,
		cursor:     features.Resolve(features.Cursor, opts.Features),
		statusLine: features.Resolve(features.StatusLine, opts.Features),
		paneStyle: lipgloss.NewStyle().
			Background(lipgloss.Color(style.Background)).
			Foreground(lipgloss.Color(style.Foreground)).
			Padding(style.Padding),
	}
	if opts.History != nil && features.Resolve(features.History, opts.Features) {
		m.store = opts.History
		texts, err := m.store.Load(0)
		if err != nil {
			m.log.Warnf("failed to load history (%s): %v", m.store.Path, err)
		}
		for _, text := range texts {
			m.history.Add(text)
		}
	}
	if opts.Bus != nil {
		m.sub = opts.Bus.Subscribe()
	}
	if m.engine != nil {
		m.applyState(m.engine.State())
	}
	m.resize(0, 0)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listenFrames(), m.spin.Tick, textinput.Blink)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case frameMsg:
		if m.engine == nil || msg.Frame.EngineID == m.engine.ID() {
			m.applyState(msg.Frame.State)
		}
		return m, m.listenFrames()
	case busClosedMsg:
		m.sub = nil
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.MouseMsg:
		return m, m.viewport.HandleUpdate(msg)
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.slash.SyncInput(slash.Input{Value: m.input.Value(), CursorColumn: m.input.Position()})
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit, true
	}
	if action, handled := m.slash.HandleKey(key); handled {
		return m.applySlashAction(action), true
	}
	switch key {
	case "ctrl+p":
		m.toggleRunning()
		return nil, true
	case "ctrl+y":
		m.copyShown()
		return nil, true
	case "pgup", "pgdown":
		return m.viewport.HandleUpdate(msg), true
	case "up":
		if text, ok := m.history.Prev(m.input.Value()); ok {
			m.setInput(text)
		}
		return nil, true
	case "down":
		if text, ok := m.history.Next(); ok {
			m.setInput(text)
		}
		return nil, true
	case "enter":
		return m.submit(m.input.Value()), true
	}
	return nil, false
}

func (m *Model) submit(value string) tea.Cmd {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	m.history.Add(value)
	m.persist(value)
	m.setInput("")
	if strings.HasPrefix(value, "/") {
		return m.applySlashAction(m.slash.ResolveSubmit(value))
	}
	if m.editor != nil && m.editor.AddLine(value) {
		m.notice = ""
		m.err = nil
	}
	return nil
}

func (m *Model) persist(value string) {
	if m.store == nil {
		return
	}
	id := ""
	if m.engine != nil {
		id = m.engine.ID()
	}
	if err := m.store.Append(id, value); err != nil {
		m.log.Warnf("failed to append history: %v", err)
	}
}

func (m *Model) applySlashAction(action slash.Action) tea.Cmd {
	switch action.Kind {
	case slash.ActionInsert:
		m.setInput(action.NewValue)
	case slash.ActionClose:
		m.setInput("")
	case slash.ActionError:
		m.err = errors.New(action.Message)
		m.setInput("")
	case slash.ActionSubmitCommand:
		m.setInput("")
		return m.runCommand(action.Command, action.Args)
	}
	return nil
}

func (m *Model) runCommand(cmd slash.Command, args string) tea.Cmd {
	m.notice = ""
	m.err = nil
	switch cmd {
	case slash.CommandPause:
		m.setRunning(false)
	case slash.CommandResume:
		m.setRunning(true)
	case slash.CommandToggle:
		m.toggleRunning()
	case slash.CommandSpeed, slash.CommandLineDelay:
		m.updateDelay(cmd, args)
	case slash.CommandClear:
		if m.editor != nil {
			m.editor.Clear()
		}
		m.notice = "cleared"
	case slash.CommandCopy:
		m.copyShown()
	case slash.CommandStatus:
		m.notice = m.describe()
	case slash.CommandQuit:
		return tea.Quit
	}
	m.log.WithField("command", string(cmd)).Debug("slash command")
	return nil
}

func (m *Model) updateDelay(cmd slash.Command, args string) {
	if m.engine == nil {
		return
	}
	ms, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		m.err = fmt.Errorf("/%s expects milliseconds, got %q", cmd, args)
		return
	}
	cfg := m.engine.Config()
	d := time.Duration(ms) * time.Millisecond
	if cmd == slash.CommandSpeed {
		cfg.DelayPerCharacter = d
	} else {
		cfg.DelayBetweenLines = d
	}
	if err := m.engine.SetConfig(cfg); err != nil {
		m.err = err
		return
	}
	m.notice = fmt.Sprintf("%s set to %v", cmd, d)
}

func (m *Model) toggleRunning() {
	if m.editor == nil {
		return
	}
	m.editor.ToggleRunning()
	m.refreshStatus()
}

func (m *Model) setRunning(running bool) {
	if m.editor == nil {
		return
	}
	m.editor.SetRunning(running)
	m.refreshStatus()
}

func (m *Model) copyShown() {
	if err := m.copy(m.state.Shown); err != nil {
		m.err = fmt.Errorf("copy: %w", err)
		return
	}
	m.notice = fmt.Sprintf("copied %d characters", utf8.RuneCountInString(m.state.Shown))
}

func (m *Model) describe() string {
	if m.engine == nil {
		return ""
	}
	cfg := m.engine.Config()
	return fmt.Sprintf("engine %s • %v/char • %v/line • %s",
		shortID(m.engine.ID()), cfg.DelayPerCharacter, cfg.DelayBetweenLines, m.status.State())
}

func (m *Model) setInput(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.slash.SyncInput(slash.Input{Value: value, CursorColumn: utf8.RuneCountInString(value)})
}

func (m *Model) applyState(st typewriter.State) {
	m.state = st
	m.refreshStatus()
	m.refreshViewport()
}

func (m *Model) refreshStatus() {
	shown := utf8.RuneCountInString(m.state.Shown)
	m.status.SetProgress(shown, shown+utf8.RuneCountInString(m.state.Pending))
	switch {
	case m.state.Pending == "":
		m.status.SetState(StatusIdle)
	case m.editor != nil && !m.editor.Running(), m.editor == nil && !m.state.Running:
		m.status.SetState(StatusPaused)
	default:
		m.status.SetState(StatusTyping)
	}
}

func (m *Model) refreshViewport() {
	text := m.state.Shown
	if m.cursor && m.state.Running {
		text += cursorGlyph
	}
	m.viewport.SetText(text)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	pad := m.style.Padding
	cols := m.style.Cols
	if width > 0 && width-2*pad < cols {
		cols = max(10, width-2*pad)
	}
	rows := m.style.Rows
	// 输入框、状态行与提示行各占一行
	reserved := 2
	if m.statusLine {
		reserved++
	}
	if height > 0 && height-reserved-2*pad < rows {
		rows = max(1, height-reserved-2*pad)
	}
	m.viewport.Resize(cols, rows)
	m.input.Width = max(10, cols+2*pad-lipgloss.Width(m.input.Prompt)-1)
	m.refreshViewport()
}

func (m *Model) listenFrames() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		f, ok := <-sub
		if !ok {
			return busClosedMsg{}
		}
		return frameMsg{Frame: f}
	}
}

func (m *Model) View() string {
	paneWidth := m.viewport.Width + 2*m.style.Padding
	pane := m.paneStyle.
		Width(paneWidth).
		Height(m.viewport.Height + 2*m.style.Padding).
		Render(m.viewport.View())

	parts := []string{pane}
	if m.statusLine {
		parts = append(parts, m.status.Render(paneWidth, m.spin.View()))
	}
	if popup := m.slash.View(paneWidth); popup != "" {
		parts = append(parts, popup)
	}
	parts = append(parts, m.input.View(), m.footer(paneWidth))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) footer(width int) string {
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))
	var text string
	switch {
	case m.err != nil:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Render(truncateToWidth("error: "+m.err.Error(), width))
	case m.notice != "":
		text = m.notice
	default:
		text = "Enter add line • Ctrl+P pause/resume • Ctrl+Y copy • / commands • Ctrl+C quit"
	}
	return faint.Render(truncateToWidth(text, width))
}

// Lines 返回编辑器中的全部文本。
func (m *Model) Lines() string {
	if m.editor == nil {
		return m.state.Shown + m.state.Pending
	}
	return m.editor.Lines()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
