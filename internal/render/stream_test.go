package render

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"typewriter-cli/internal/typewriter"
)

func TestStreamWriterWritesDeltas(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStreamWriter(&buf)
	for _, shown := range []string{"H", "He", "He", "Hel", "Hello"} {
		sw.Emit(typewriter.State{Shown: shown, Running: true})
	}
	if got := buf.String(); got != "Hello" {
		t.Fatalf("output = %q, want %q", got, "Hello")
	}
}

func TestStreamWriterReplaceStartsNewLine(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStreamWriter(&buf)
	sw.Emit(typewriter.State{Shown: "Hello"})
	sw.Emit(typewriter.State{Shown: ""})
	sw.Emit(typewriter.State{Shown: "G"})
	if got, want := buf.String(), "Hello\nG"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if sw.Written() != "G" {
		t.Fatalf("Written() = %q", sw.Written())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestStreamWriterKeepsFirstError(t *testing.T) {
	sw := NewStreamWriter(failingWriter{})
	sw.Emit(typewriter.State{Shown: "a"})
	sw.Emit(typewriter.State{Shown: "ab"})
	if sw.Err() == nil {
		t.Fatalf("Err() = nil, want write error")
	}
}

func TestPlay(t *testing.T) {
	cases := []struct {
		name string
		cfg  typewriter.Config
		text string
		want string
	}{
		{"lines", typewriter.Config{DelayPerCharacter: time.Millisecond, DelayBetweenLines: time.Millisecond}, "ab\ncd", "ab\ncd"},
		{"prompt", typewriter.Config{DelayPerCharacter: time.Millisecond, InitialShown: "$ "}, "ls", "$ ls"},
		{"empty", typewriter.Config{}, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			var buf bytes.Buffer
			st, err := Play(ctx, tc.cfg, tc.text, &buf, typewriter.Options{})
			if err != nil {
				t.Fatalf("Play: %v", err)
			}
			if st.Shown != tc.want || !st.Done() {
				t.Fatalf("final state = %+v", st)
			}
			if buf.String() != tc.want {
				t.Fatalf("output = %q, want %q", buf.String(), tc.want)
			}
		})
	}
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var buf bytes.Buffer
	st, err := Play(ctx, typewriter.Config{DelayPerCharacter: time.Hour}, "slow", &buf, typewriter.Options{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Play error = %v, want deadline exceeded", err)
	}
	if st.Done() {
		t.Fatalf("state should still have pending text: %+v", st)
	}
}

func TestPlayRejectsNegativeDelay(t *testing.T) {
	_, err := Play(context.Background(), typewriter.Config{DelayPerCharacter: -time.Second}, "x", &bytes.Buffer{}, typewriter.Options{})
	if !errors.Is(err, typewriter.ErrNegativeDelay) {
		t.Fatalf("Play error = %v, want ErrNegativeDelay", err)
	}
}
