package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapText 按显示宽度硬换行；保留原有空白，宽字符不会被拆开。
func WrapText(text string, width int) []string {
	raw := strings.Split(text, "\n")
	if width <= 0 {
		return raw
	}
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, wrapLine(line, width)...)
	}
	return lines
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	out := []string{}
	var current strings.Builder
	w := 0
	for _, r := range line {
		rw := runewidth.RuneWidth(r)
		if w+rw > width && current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
			w = 0
		}
		current.WriteRune(r)
		w += rw
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}
