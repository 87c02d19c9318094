package tui

import (
	"errors"

	"typewriter-cli/internal/features"

	tea "github.com/charmbracelet/bubbletea"
)

// Result 返回 TUI 退出时的必要信息。
type Result struct {
	Lines string
}

// Run 封装 Bubble Tea 入口，阻塞到用户退出。
func Run(opts Options) (Result, error) {
	programOptions := []tea.ProgramOption{}
	if features.Resolve(features.Mouse, opts.Features) {
		programOptions = append(programOptions, tea.WithMouseCellMotion())
	}
	if features.Resolve(features.AltScreen, opts.Features) {
		programOptions = append(programOptions, tea.WithAltScreen())
	}
	program := tea.NewProgram(New(opts), programOptions...)
	m, err := program.Run()
	if err != nil {
		return Result{}, err
	}
	tuiModel, ok := m.(*Model)
	if !ok {
		return Result{}, errors.New("unexpected tui model")
	}
	return Result{Lines: tuiModel.Lines()}, nil
}
