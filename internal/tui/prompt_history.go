package tui

import "strings"

// lineHistory 记录已提交的行与命令，供上下箭头回填输入框。
// cursor == len(entries) 表示未在浏览历史。
type lineHistory struct {
	entries []string
	cursor  int
	draft   string
}

func (h *lineHistory) Add(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if n := len(h.entries); n == 0 || h.entries[n-1] != text {
		h.entries = append(h.entries, text)
	}
	h.cursor = len(h.entries)
	h.draft = ""
}

// Prev 回到上一条；第一次调用时保存当前草稿。
func (h *lineHistory) Prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == len(h.entries) {
		h.draft = current
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next 前进一条；越过最新一条时恢复草稿。
func (h *lineHistory) Next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.cursor], true
}
