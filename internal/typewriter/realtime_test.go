package typewriter

import (
	"context"
	"sync"
	"testing"
	"time"

	"typewriter-cli/internal/logger"
)

type timedEmission struct {
	state State
	at    time.Time
}

type timedRecorder struct {
	mu    sync.Mutex
	items []timedEmission
	done  chan struct{}
	once  sync.Once
}

func newTimedRecorder() *timedRecorder {
	return &timedRecorder{done: make(chan struct{})}
}

func (r *timedRecorder) emit(s State) {
	r.mu.Lock()
	r.items = append(r.items, timedEmission{state: s, at: time.Now()})
	r.mu.Unlock()
	if s.Done() {
		r.once.Do(func() { close(r.done) })
	}
}

func (r *timedRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *timedRecorder) snapshot() []timedEmission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]timedEmission(nil), r.items...)
}

func TestEngineRealClockLineDelay(t *testing.T) {
	rec := newTimedRecorder()
	e, err := New(Config{DelayPerCharacter: 5 * time.Millisecond, DelayBetweenLines: 25 * time.Millisecond}, "ab\ncd", Options{
		Running: true,
		OnEmit:  rec.emit,
		Logger:  logger.Discard(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()
	e.Start(context.Background())

	select {
	case <-rec.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not complete, state %+v", e.State())
	}

	var newlineAt, nextAt time.Time
	for _, item := range rec.snapshot() {
		switch item.state.Shown {
		case "ab\n":
			newlineAt = item.at
		case "ab\nc":
			if nextAt.IsZero() {
				nextAt = item.at
			}
		}
	}
	if newlineAt.IsZero() || nextAt.IsZero() {
		t.Fatalf("missing reveal emissions: %+v", rec.snapshot())
	}
	if gap := nextAt.Sub(newlineAt); gap < 25*time.Millisecond {
		t.Fatalf("gap after newline = %v, want >= 25ms", gap)
	}
	if st := e.State(); st.Shown != "ab\ncd" || st.Running {
		t.Fatalf("final state = %+v", st)
	}
}

func TestEngineRealClockTeardownSilences(t *testing.T) {
	rec := newTimedRecorder()
	e, err := New(Config{DelayPerCharacter: 5 * time.Millisecond}, "a long enough line to be interrupted", Options{
		Running: true,
		OnEmit:  rec.emit,
		Logger:  logger.Discard(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Start(context.Background())

	deadline := time.Now().Add(5 * time.Second)
	for rec.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("no emission before deadline")
		}
		time.Sleep(time.Millisecond)
	}
	e.Close()
	after := rec.count()

	time.Sleep(30 * time.Millisecond)
	if got := rec.count(); got != after {
		t.Fatalf("emissions after teardown = %d, want 0", got-after)
	}
}

func TestEngineRealClockPauseSilences(t *testing.T) {
	rec := newTimedRecorder()
	e, err := New(Config{DelayPerCharacter: 2 * time.Millisecond}, "abcdefghijklmnopqrstuvwxyz", Options{
		Running: true,
		OnEmit:  rec.emit,
		Logger:  logger.Discard(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()
	e.Start(context.Background())
	time.Sleep(6 * time.Millisecond)

	e.SetRunning(false)
	after := rec.count()
	paused := e.State()
	time.Sleep(20 * time.Millisecond)
	if got := rec.count(); got != after {
		t.Fatalf("emissions after pause = %d, want 0", got-after)
	}
	if st := e.State(); st != paused {
		t.Fatalf("state changed while paused: %+v -> %+v", paused, st)
	}

	e.SetRunning(true)
	select {
	case <-rec.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("resumed run did not complete, state %+v", e.State())
	}
	if st := e.State(); st.Shown != "abcdefghijklmnopqrstuvwxyz" {
		t.Fatalf("shown = %q", st.Shown)
	}
}

func TestEngineContextCancelClosesEngine(t *testing.T) {
	rec := newTimedRecorder()
	e, err := New(Config{DelayPerCharacter: time.Millisecond}, "abcdefghijklmnopqrstuvwxyz", Options{
		Running: true,
		OnEmit:  rec.emit,
		Logger:  logger.Discard(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.Start(ctx)
	cancel()

	deadline := time.Now().Add(5 * time.Second)
	for e.SetConfig(Config{DelayPerCharacter: time.Millisecond}) == nil {
		if time.Now().After(deadline) {
			t.Fatalf("engine not closed after context cancel")
		}
		time.Sleep(time.Millisecond)
	}
	after := rec.count()
	time.Sleep(10 * time.Millisecond)
	if got := rec.count(); got != after {
		t.Fatalf("emissions after cancel = %d", got-after)
	}
}

func TestEngineZeroDelayConcurrentAppends(t *testing.T) {
	rec := newTimedRecorder()
	e, err := New(Config{}, "", Options{OnEmit: rec.emit, Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()
	e.Start(context.Background())

	text := ""
	for i := 0; i < 20; i++ {
		text += "line\n"
		e.SetTargetText(text)
		e.SetRunning(true)
	}
	deadline := time.Now().Add(5 * time.Second)
	for e.State().Shown != text {
		if time.Now().After(deadline) {
			t.Fatalf("shown = %q, want %q", e.State().Shown, text)
		}
		time.Sleep(time.Millisecond)
	}
	for i, item := range rec.snapshot() {
		if len(item.state.Shown) > len(text) || text[:len(item.state.Shown)] != item.state.Shown {
			t.Fatalf("emission %d %q is not a prefix of %q", i, item.state.Shown, text)
		}
	}
}
