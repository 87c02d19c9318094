// Package typewriter reveals a target text one character at a time on a timer.
//
// An Engine owns the shown/pending split of the text and a single timer
// handle. Inbound calls (SetTargetText, SetRunning, SetConfig, Close) and timer
// callbacks are serialised on one mutex, so every mutation happens on one
// logical timeline and every emission observes the state in mutation order.
package typewriter

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"typewriter-cli/internal/logger"

	"github.com/google/uuid"
)

// State is a snapshot of the render state.
type State struct {
	Shown   string
	Pending string
	Running bool
}

// Done reports whether the run finished: nothing pending and not running.
func (s State) Done() bool {
	return !s.Running && s.Pending == ""
}

// Options configures a new Engine.
type Options struct {
	// ID names the engine in logs and frames; a random UUID when empty.
	ID string
	// Running is the initial run state. Scheduling begins on Start.
	Running bool
	// OnEmit receives the state after every mutation of Shown or Running. It is
	// called synchronously while the engine is locked and must not call back
	// into the same engine.
	OnEmit func(State)
	// Clock defaults to SystemClock.
	Clock Clock
	// Logger defaults to logger.Named("typewriter").
	Logger *logger.LogEntry
}

// Engine is the typewriter state machine. The zero value is not usable; call New.
type Engine struct {
	id     string
	clock  Clock
	onEmit func(State)
	log    *logger.LogEntry

	mu       sync.Mutex
	cfg      Config
	shown    strings.Builder
	shownLen int
	pending  string
	running  bool
	closed   bool
	started  bool

	// timer is the only outstanding handle; gen invalidates callbacks of
	// handles that were replaced or cancelled but already fired.
	timer     Timer
	gen       uint64
	stopWatch func() bool
}

// New constructs an engine with shown = cfg.InitialShown and pending = target.
// No timer is armed until Start.
func New(cfg Config, target string, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("typewriter")
	}
	e := &Engine{
		id:      id,
		clock:   clock,
		onEmit:  opts.OnEmit,
		log:     log.WithField(logger.EngineField, id),
		cfg:     cfg,
		pending: target,
		running: opts.Running,
	}
	e.resetShownLocked(cfg.InitialShown)
	return e, nil
}

// ID returns the engine instance id.
func (e *Engine) ID() string {
	return e.id
}

// Start runs the first scheduling step and ties the engine lifetime to ctx:
// when ctx is done the engine is closed. Only the first call has an effect.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.started {
		return
	}
	e.started = true
	if ctx != nil {
		e.stopWatch = context.AfterFunc(ctx, e.Close)
	}
	e.log.WithField("pending", utf8.RuneCountInString(e.pending)).
		WithField("running", e.running).
		Debug("engine started")
	if e.timer == nil {
		e.stepLocked()
	}
}

// State returns the current snapshot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Config returns the current timing parameters.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetTargetText reconciles the render state against a new target. When text
// continues the shown prefix, shown is kept and the remainder becomes pending.
// When nothing is pending and text is no longer than shown there is nothing to
// reveal and the call is a no-op. Otherwise shown resets to InitialShown and
// the whole text is pending. The run state is not changed.
func (e *Engine) SetTargetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	switch {
	case isBeingAppended(e.shown.String(), text):
		e.pending = skipRunes(text, e.shownLen)
		return
	case e.pending == "" && utf8.RuneCountInString(text) <= e.shownLen:
		return
	}
	e.log.WithField("target", utf8.RuneCountInString(text)).Debug("target replaced")
	e.resetShownLocked(e.cfg.InitialShown)
	e.pending = text
	e.emitLocked()
}

// Reset replaces the target unconditionally: shown returns to InitialShown and
// text becomes pending. The run state is not changed.
func (e *Engine) Reset(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.log.WithField("target", utf8.RuneCountInString(text)).Debug("target reset")
	e.resetShownLocked(e.cfg.InitialShown)
	e.pending = text
	e.emitLocked()
}

// SetTargetLines sets the target to lines joined with "\n".
func (e *Engine) SetTargetLines(lines []string) {
	e.SetTargetText(strings.Join(lines, "\n"))
}

// SetRunning pauses or resumes the run. Pausing cancels the outstanding timer
// before it returns. Resuming with nothing pending leaves the engine stopped.
func (e *Engine) SetRunning(running bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.running == running {
		return
	}
	if !running {
		e.cancelTimerLocked()
		e.running = false
		e.log.WithField("pending", utf8.RuneCountInString(e.pending)).Debug("run paused")
		e.emitLocked()
		return
	}
	if e.pending == "" {
		return
	}
	e.running = true
	e.log.WithField("pending", utf8.RuneCountInString(e.pending)).Debug("run resumed")
	e.emitLocked()
	e.stepLocked()
}

// SetConfig replaces the timing parameters. An already armed timer keeps its
// delay; the new values apply from the next scheduled step.
func (e *Engine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.cfg = cfg
	e.log.WithField("per_char", cfg.DelayPerCharacter).
		WithField("between_lines", cfg.DelayBetweenLines).
		Debug("config replaced")
	return nil
}

// Close cancels any outstanding timer. After Close no emission happens and
// inbound calls are ignored. Close is idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cancelTimerLocked()
	e.running = false
	stop := e.stopWatch
	e.stopWatch = nil
	e.mu.Unlock()

	if stop != nil {
		stop()
	}
	e.log.Debug("engine closed")
}

// stepLocked is the scheduling step: it always clears a leftover handle, then
// either completes the run or arms the next reveal.
func (e *Engine) stepLocked() {
	e.cancelTimerLocked()
	if !e.running {
		return
	}
	if e.pending == "" {
		e.running = false
		e.log.WithField("shown", e.shownLen).Debug("run completed")
		e.emitLocked()
		return
	}
	e.armLocked(e.cfg.DelayPerCharacter, e.revealLocked)
}

func (e *Engine) revealLocked() {
	if !e.running {
		return
	}
	if e.pending == "" {
		e.stepLocked()
		return
	}
	r, size := utf8.DecodeRuneInString(e.pending)
	e.shown.WriteString(e.pending[:size])
	e.pending = e.pending[size:]
	e.shownLen++
	e.emitLocked()

	if r == '\n' && e.cfg.DelayBetweenLines > 0 {
		e.armLocked(e.cfg.DelayBetweenLines, e.stepLocked)
		return
	}
	e.stepLocked()
}

// armLocked replaces the outstanding timer with one that runs fire under the
// engine lock, unless the handle has been superseded by then.
func (e *Engine) armLocked(d time.Duration, fire func()) {
	e.cancelTimerLocked()
	gen := e.gen
	e.timer = e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || gen != e.gen || e.timer == nil {
			return
		}
		e.timer = nil
		fire()
	})
}

func (e *Engine) cancelTimerLocked() {
	e.gen++
	if e.timer == nil {
		return
	}
	e.timer.Stop()
	e.timer = nil
}

func (e *Engine) resetShownLocked(initial string) {
	e.shown.Reset()
	e.shown.WriteString(initial)
	e.shownLen = utf8.RuneCountInString(initial)
}

func (e *Engine) snapshotLocked() State {
	return State{
		Shown:   e.shown.String(),
		Pending: e.pending,
		Running: e.running,
	}
}

func (e *Engine) emitLocked() {
	if e.onEmit == nil {
		return
	}
	e.onEmit(e.snapshotLocked())
}
