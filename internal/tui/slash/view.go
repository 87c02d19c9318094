package slash

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	minPopupWidth = 24
	argsHint      = " <ms>"
	noMatches     = "no matching command"
)

var (
	nameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C4A1FF"))
	hintStyle      = lipgloss.NewStyle().Faint(true)
	descStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EBCB8B"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#2F2A3D"))
)

// View 渲染弹窗：每条命令占一行，超过 maxLines 时围绕选中项滚动。
func (s *State) View(width int) string {
	if s == nil || !s.open {
		return ""
	}
	if width < minPopupWidth {
		width = minPopupWidth
	}
	box := lipgloss.NewStyle().Width(width)
	if len(s.matches) == 0 {
		return box.Render(descStyle.Render(noMatches))
	}

	nameWidth := s.nameColumnWidth(width)
	descWidth := width - nameWidth - 2
	start, end := window(len(s.matches), s.maxLines, s.selected)

	rows := make([]string, 0, end-start+1)
	for idx := start; idx < end; idx++ {
		m := s.matches[idx]
		desc := m.item.Description
		if desc == "" {
			desc = "-"
		}
		row := fmt.Sprintf("%s  %s",
			lipgloss.NewStyle().Width(nameWidth).Render(renderName(m, nameWidth)),
			descStyle.Render(runewidth.Truncate(desc, descWidth, "…")))
		if idx == s.selected {
			row = selectedStyle.Render(row)
		}
		rows = append(rows, row)
	}
	if hidden := len(s.matches) - (end - start); hidden > 0 {
		rows = append(rows, hintStyle.Render(fmt.Sprintf("%d more", hidden)))
	}
	return box.Render(strings.Join(rows, "\n"))
}

// nameColumnWidth 取最长命令名（含参数提示），并至少给描述留 8 列。
func (s *State) nameColumnWidth(width int) int {
	widest := 0
	for _, m := range s.matches {
		w := runewidth.StringWidth(m.item.DisplayName())
		if m.item.TakesArgs {
			w += len(argsHint)
		}
		widest = max(widest, w)
	}
	return min(widest, width-10)
}

// window 返回包含 selected 的 [start, end)，长度不超过 limit。
func window(total, limit, selected int) (int, int) {
	if limit <= 0 || total <= limit {
		return 0, total
	}
	start := 0
	if selected >= limit {
		start = selected - limit + 1
	}
	return start, start + limit
}

func renderName(m match, width int) string {
	name := m.item.DisplayName()
	marked := make(map[int]bool, len(m.highlights))
	for _, idx := range m.highlights {
		// 下标落在 token 上，展示名多一个前导 /
		marked[idx+1] = true
	}
	var b strings.Builder
	used := 0
	for i, r := range []rune(name) {
		rw := runewidth.RuneWidth(r)
		if used+rw > width {
			break
		}
		used += rw
		if marked[i] {
			b.WriteString(highlightStyle.Render(string(r)))
			continue
		}
		b.WriteString(nameStyle.Render(string(r)))
	}
	if m.item.TakesArgs && used+len(argsHint) <= width {
		b.WriteString(hintStyle.Render(argsHint))
	}
	return b.String()
}
