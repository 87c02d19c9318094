package editor

import (
	"context"
	"reflect"
	"testing"
	"time"

	"typewriter-cli/internal/typewriter"
)

type call struct {
	op  string
	arg string
}

type fakeTarget struct {
	calls []call
}

func (f *fakeTarget) SetTargetText(text string) { f.calls = append(f.calls, call{"target", text}) }
func (f *fakeTarget) Reset(text string)         { f.calls = append(f.calls, call{"reset", text}) }
func (f *fakeTarget) SetRunning(running bool) {
	arg := "false"
	if running {
		arg = "true"
	}
	f.calls = append(f.calls, call{"running", arg})
}

func TestAddLine(t *testing.T) {
	cases := []struct {
		name      string
		initial   string
		running   bool
		add       []string
		wantLines string
		wantCalls []call
	}{
		{
			name:      "first line has no separator",
			add:       []string{"ls"},
			running:   true,
			wantLines: "ls",
			wantCalls: []call{{"target", "ls"}, {"running", "true"}},
		},
		{
			name:      "appends with newline",
			initial:   "a",
			add:       []string{"b", "c"},
			running:   true,
			wantLines: "a\nb\nc",
			wantCalls: []call{{"target", "a\nb"}, {"running", "true"}, {"target", "a\nb\nc"}, {"running", "true"}},
		},
		{
			name:      "paused does not re-arm",
			initial:   "a",
			add:       []string{"b"},
			wantLines: "a\nb",
			wantCalls: []call{{"target", "a\nb"}},
		},
		{
			name:      "blank input ignored",
			initial:   "a",
			add:       []string{"", "   "},
			running:   true,
			wantLines: "a",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := &fakeTarget{}
			var notified []string
			ed := New(target, tc.initial, Options{
				Running:        tc.running,
				OnLinesChanged: func(lines string) { notified = append(notified, lines) },
			})
			for _, text := range tc.add {
				ed.AddLine(text)
			}
			if got := ed.Lines(); got != tc.wantLines {
				t.Fatalf("Lines() = %q, want %q", got, tc.wantLines)
			}
			if !reflect.DeepEqual(target.calls, tc.wantCalls) {
				t.Fatalf("calls = %+v, want %+v", target.calls, tc.wantCalls)
			}
			if len(tc.wantCalls) > 0 && notified[len(notified)-1] != tc.wantLines {
				t.Fatalf("OnLinesChanged last = %q, want %q", notified[len(notified)-1], tc.wantLines)
			}
		})
	}
}

func TestToggleRunning(t *testing.T) {
	target := &fakeTarget{}
	var states []bool
	ed := New(target, "x", Options{
		Running:          true,
		OnRunningChanged: func(running bool) { states = append(states, running) },
	})
	if ed.ToggleRunning() {
		t.Fatalf("first toggle should pause")
	}
	if !ed.ToggleRunning() {
		t.Fatalf("second toggle should resume")
	}
	ed.SetRunning(true)
	want := []call{{"running", "false"}, {"running", "true"}}
	if !reflect.DeepEqual(target.calls, want) {
		t.Fatalf("calls = %+v, want %+v", target.calls, want)
	}
	if !reflect.DeepEqual(states, []bool{false, true}) {
		t.Fatalf("OnRunningChanged = %v", states)
	}
}

func TestSetLinesAndClear(t *testing.T) {
	target := &fakeTarget{}
	ed := New(target, "a", Options{})
	ed.SetLines("a")
	ed.SetLines("a\nb")
	ed.Clear()
	want := []call{{"target", "a\nb"}, {"reset", ""}}
	if !reflect.DeepEqual(target.calls, want) {
		t.Fatalf("calls = %+v, want %+v", target.calls, want)
	}
	if ed.Lines() != "" {
		t.Fatalf("Lines() after Clear = %q", ed.Lines())
	}
}

func waitShown(t *testing.T, e *typewriter.Engine, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if st := e.State(); st.Shown == want && st.Pending == "" {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("shown = %q, want %q", e.State().Shown, want)
}

func TestAddLineAfterCompletedRunKeepsTyping(t *testing.T) {
	e, err := typewriter.New(typewriter.Config{DelayPerCharacter: time.Millisecond}, "hi", typewriter.Options{Running: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()
	e.Start(context.Background())
	ed := New(e, "hi", Options{Running: true})

	waitShown(t, e, "hi")
	if e.State().Running {
		t.Fatalf("engine should have completed its run")
	}
	ed.AddLine("there")
	waitShown(t, e, "hi\nthere")

	ed.Clear()
	if st := e.State(); st.Shown != "" || st.Pending != "" {
		t.Fatalf("state after Clear = %+v", st)
	}
}
