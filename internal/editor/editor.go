// Package editor keeps the line buffer and desired run state behind an
// interactive typewriter session.
package editor

import (
	"strings"
	"sync"
)

// Target is the part of *typewriter.Engine the editor drives.
type Target interface {
	SetTargetText(text string)
	Reset(text string)
	SetRunning(running bool)
}

// Options configures change notifications. Callbacks run after the editor
// lock is released.
type Options struct {
	Running          bool
	OnLinesChanged   func(lines string)
	OnRunningChanged func(running bool)
}

// Editor owns the full text and whether the user wants typing to run. The
// engine may finish a run on its own; the desired state stays set so that
// lines added later keep typing.
type Editor struct {
	target Target
	opts   Options

	mu      sync.Mutex
	lines   string
	running bool
}

func New(target Target, lines string, opts Options) *Editor {
	return &Editor{
		target:  target,
		opts:    opts,
		lines:   lines,
		running: opts.Running,
	}
}

func (ed *Editor) Lines() string {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.lines
}

func (ed *Editor) Running() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.running
}

// AddLine appends text as a new line. Blank input is ignored and reported as
// false.
func (ed *Editor) AddLine(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	ed.mu.Lock()
	if ed.lines == "" {
		ed.lines = text
	} else {
		ed.lines += "\n" + text
	}
	lines, running := ed.lines, ed.running
	ed.mu.Unlock()

	ed.target.SetTargetText(lines)
	if running {
		ed.target.SetRunning(true)
	}
	ed.linesChanged(lines)
	return true
}

// SetLines replaces the buffer from outside, e.g. a file reload. The engine
// decides whether the new text continues what is already shown.
func (ed *Editor) SetLines(lines string) {
	ed.mu.Lock()
	if lines == ed.lines {
		ed.mu.Unlock()
		return
	}
	ed.lines = lines
	running := ed.running
	ed.mu.Unlock()

	ed.target.SetTargetText(lines)
	if running {
		ed.target.SetRunning(true)
	}
	ed.linesChanged(lines)
}

// Clear empties the buffer and the shown text.
func (ed *Editor) Clear() {
	ed.mu.Lock()
	ed.lines = ""
	ed.mu.Unlock()

	ed.target.Reset("")
	ed.linesChanged("")
}

// ToggleRunning flips the desired run state and returns the new value.
func (ed *Editor) ToggleRunning() bool {
	ed.mu.Lock()
	running := !ed.running
	ed.mu.Unlock()
	ed.SetRunning(running)
	return running
}

func (ed *Editor) SetRunning(running bool) {
	ed.mu.Lock()
	if ed.running == running {
		ed.mu.Unlock()
		return
	}
	ed.running = running
	ed.mu.Unlock()

	ed.target.SetRunning(running)
	if ed.opts.OnRunningChanged != nil {
		ed.opts.OnRunningChanged(running)
	}
}

func (ed *Editor) linesChanged(lines string) {
	if ed.opts.OnLinesChanged != nil {
		ed.opts.OnLinesChanged(lines)
	}
}
