package render

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// HighPerformanceViewport 包装 bubbles viewport，内容未变化时跳过重绘，
// 追加内容时保持贴底。
type HighPerformanceViewport struct {
	viewport.Model
	lastLines []string
}

// NewHighPerformanceViewport 创建视口。
func NewHighPerformanceViewport(width, height int) HighPerformanceViewport {
	vp := viewport.New(width, height)
	return HighPerformanceViewport{Model: vp}
}

// Resize 更新宽高；宽度变化时丢弃缓存，由调用方重新 SetText。
func (v *HighPerformanceViewport) Resize(width, height int) {
	if v == nil {
		return
	}
	if v.Width != width {
		v.Invalidate()
	}
	v.Width = width
	v.Height = height
}

// HandleUpdate 代理 bubbles 的 Update，保持内部状态。
func (v *HighPerformanceViewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	if v == nil {
		return nil
	}
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}

// SetText 按当前宽度换行后更新内容。
func (v *HighPerformanceViewport) SetText(text string) {
	v.SetLines(WrapText(text, v.Width))
}

// SetLines 更新内容；更新前在底部则更新后仍停在底部。
func (v *HighPerformanceViewport) SetLines(lines []string) {
	if v == nil {
		return
	}
	if v.lastLines != nil && slices.Equal(lines, v.lastLines) {
		return
	}
	stickToBottom := v.lastLines == nil || v.AtBottom()
	v.lastLines = append([]string{}, lines...)

	v.SetContent(strings.Join(lines, "\n"))
	if stickToBottom {
		v.GotoBottom()
	}
}

// Invalidate 清空已缓存的行，强制下次更新全量设置内容。
func (v *HighPerformanceViewport) Invalidate() {
	if v == nil {
		return
	}
	v.lastLines = nil
}
