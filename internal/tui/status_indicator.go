package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// StatusIndicatorState 枚举了状态行可显示的所有状态。
type StatusIndicatorState int

const (
	// StatusTyping 表示正在逐字输出，计时器持续累加。
	StatusTyping StatusIndicatorState = iota
	// StatusPaused 表示用户暂停，仍有待输出的字符。
	StatusPaused
	// StatusIdle 表示已全部输出，等待新行。
	StatusIdle
)

func (s StatusIndicatorState) String() string {
	switch s {
	case StatusTyping:
		return "typing"
	case StatusPaused:
		return "paused"
	case StatusIdle:
		return "idle"
	default:
		return "unknown"
	}
}

func (s StatusIndicatorState) defaultHeader() string {
	switch s {
	case StatusTyping:
		return "Typing"
	case StatusPaused:
		return "Paused"
	default:
		return "Done"
	}
}

func (s StatusIndicatorState) tracksElapsed() bool {
	return s == StatusTyping
}

func (s StatusIndicatorState) valid() bool {
	return s >= StatusTyping && s <= StatusIdle
}

// StatusIndicatorOptions 控制状态行的初始化行为。
type StatusIndicatorOptions struct {
	State StatusIndicatorState
	Clock func() time.Time
}

// StatusIndicatorWidget 渲染状态行：spinner + 标题 + 进度 + 计时。
type StatusIndicatorWidget struct {
	header string
	state  StatusIndicatorState

	shown int
	total int

	elapsedRunning time.Duration
	lastResumeAt   time.Time
	paused         bool

	clock func() time.Time
}

// NewStatusIndicatorWidget 构造状态行，默认处于 Typing。
func NewStatusIndicatorWidget(opts StatusIndicatorOptions) *StatusIndicatorWidget {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	state := opts.State
	if !state.valid() {
		state = StatusTyping
	}
	w := &StatusIndicatorWidget{
		header:       state.defaultHeader(),
		state:        state,
		clock:        clock,
		lastResumeAt: clock(),
	}
	if !state.tracksElapsed() {
		w.paused = true
	}
	return w
}

// State 返回当前状态。
func (w *StatusIndicatorWidget) State() StatusIndicatorState {
	return w.state
}

// SetState 更新状态并根据状态是否计时自动处理计时器。
func (w *StatusIndicatorWidget) SetState(state StatusIndicatorState) {
	if w == nil || !state.valid() {
		return
	}
	now := w.clock()
	if state.tracksElapsed() && w.paused {
		w.resumeTimerAt(now)
	} else if !state.tracksElapsed() && !w.paused {
		w.pauseTimerAt(now)
	}
	w.state = state
	w.header = state.defaultHeader()
}

// SetProgress 记录已显示字符数与总字符数。
func (w *StatusIndicatorWidget) SetProgress(shown, total int) {
	if w == nil {
		return
	}
	w.shown = shown
	w.total = total
}

// ElapsedSeconds 返回累计输出秒数。
func (w *StatusIndicatorWidget) ElapsedSeconds() uint64 {
	if w == nil {
		return 0
	}
	return w.elapsedSecondsAt(w.clock())
}

// Render 绘制状态行并裁剪到 width 列。
func (w *StatusIndicatorWidget) Render(width int, spin string) string {
	if w == nil || width <= 0 {
		return ""
	}
	now := w.clock()
	spans := []span{{Text: w.spinnerFrame(spin)}}
	if w.header != "" {
		spans = append(spans, span{Text: " "}, span{Text: w.header})
	}
	hint := fmt.Sprintf("(%d/%d • %s)", w.shown, w.total, fmtElapsedCompact(w.elapsedSecondsAt(now)))
	spans = append(spans, span{Text: " "}, span{
		Text:  hint,
		Style: lipgloss.NewStyle().Faint(true),
	})

	var b strings.Builder
	for _, sp := range clampSpans(spans, width) {
		b.WriteString(sp.Style.Render(sp.Text))
	}
	return b.String()
}

func (w *StatusIndicatorWidget) pauseTimerAt(now time.Time) {
	if w.paused {
		return
	}
	w.elapsedRunning += now.Sub(w.lastResumeAt)
	w.paused = true
}

func (w *StatusIndicatorWidget) resumeTimerAt(now time.Time) {
	if !w.paused {
		return
	}
	w.lastResumeAt = now
	w.paused = false
}

func (w *StatusIndicatorWidget) elapsedSecondsAt(now time.Time) uint64 {
	elapsed := w.elapsedRunning
	if !w.paused {
		elapsed += now.Sub(w.lastResumeAt)
	}
	return uint64(elapsed.Seconds())
}

func (w *StatusIndicatorWidget) spinnerFrame(spin string) string {
	switch w.state {
	case StatusPaused:
		return "||"
	case StatusIdle:
		return "•"
	}
	if spin != "" {
		return spin
	}
	return "•"
}

// fmtElapsedCompact 将秒数格式化为友好字符串。
func fmtElapsedCompact(elapsedSecs uint64) string {
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		return fmt.Sprintf("%dm %02ds", elapsedSecs/60, elapsedSecs%60)
	default:
		return fmt.Sprintf("%dh %02dm %02ds", elapsedSecs/3600, (elapsedSecs%3600)/60, elapsedSecs%60)
	}
}

type span struct {
	Text  string
	Style lipgloss.Style
}

func clampSpans(spans []span, width int) []span {
	if width <= 0 {
		return nil
	}
	remaining := width
	out := make([]span, 0, len(spans))
	for _, sp := range spans {
		if remaining <= 0 {
			break
		}
		tw := runewidth.StringWidth(sp.Text)
		if tw <= remaining {
			out = append(out, sp)
			remaining -= tw
			continue
		}
		text := truncateToWidth(sp.Text, remaining)
		if text != "" {
			sp.Text = text
			out = append(out, sp)
			remaining = 0
		}
	}
	return out
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	w := 0
	out := make([]rune, 0, len(text))
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out)
}
