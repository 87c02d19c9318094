// Package render writes engine emissions to a plain output stream.
package render

import (
	"context"
	"io"
	"strings"
	"sync"

	"typewriter-cli/internal/typewriter"
)

// StreamWriter turns full-state emissions into incremental writes. When the
// shown value extends what was already written only the new tail is
// written; otherwise the writer starts a fresh line and writes the whole
// value.
type StreamWriter struct {
	mu      sync.Mutex
	w       io.Writer
	written string
	err     error
}

func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// Emit has the typewriter.Options.OnEmit signature.
func (s *StreamWriter) Emit(st typewriter.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil || st.Shown == s.written {
		return
	}
	var out string
	if strings.HasPrefix(st.Shown, s.written) {
		out = st.Shown[len(s.written):]
	} else {
		out = "\n" + st.Shown
	}
	if _, err := io.WriteString(s.w, out); err != nil {
		s.err = err
		return
	}
	s.written = st.Shown
}

// Written returns everything written for the current value.
func (s *StreamWriter) Written() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Err reports the first write error.
func (s *StreamWriter) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Play types text to w and blocks until it is fully revealed or ctx is done.
func Play(ctx context.Context, cfg typewriter.Config, text string, w io.Writer, opts typewriter.Options) (typewriter.State, error) {
	sw := NewStreamWriter(w)
	done := make(chan struct{})
	var once sync.Once
	next := opts.OnEmit
	opts.Running = true
	opts.OnEmit = func(st typewriter.State) {
		sw.Emit(st)
		if next != nil {
			next(st)
		}
		if st.Done() {
			once.Do(func() { close(done) })
		}
	}
	e, err := typewriter.New(cfg, text, opts)
	if err != nil {
		return typewriter.State{}, err
	}
	defer e.Close()
	e.Start(ctx)

	select {
	case <-done:
	case <-ctx.Done():
		return e.State(), ctx.Err()
	}
	return e.State(), sw.Err()
}
