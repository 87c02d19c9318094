package typewriter

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultDelayPerCharacter is the pause before each revealed character.
	DefaultDelayPerCharacter = 50 * time.Millisecond
	// DefaultDelayBetweenLines is the extra pause after a revealed newline.
	DefaultDelayBetweenLines = 250 * time.Millisecond
)

var (
	// ErrNegativeDelay reports a delay below zero. Delays are never clamped.
	ErrNegativeDelay = errors.New("negative delay")
	// ErrClosed is returned by operations that report errors once the engine is torn down.
	ErrClosed = errors.New("typewriter engine closed")
)

// Config holds the timing parameters of an engine. It is replaced as a whole
// through SetConfig.
type Config struct {
	// DelayPerCharacter is waited before every reveal step.
	DelayPerCharacter time.Duration
	// DelayBetweenLines is waited after revealing '\n'; zero disables it.
	DelayBetweenLines time.Duration
	// InitialShown is what the shown text resets to when the target is replaced.
	InitialShown string
}

// DefaultConfig returns the timing used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DelayPerCharacter: DefaultDelayPerCharacter,
		DelayBetweenLines: DefaultDelayBetweenLines,
	}
}

// Validate rejects negative delays.
func (c Config) Validate() error {
	if c.DelayPerCharacter < 0 {
		return fmt.Errorf("delay per character %v: %w", c.DelayPerCharacter, ErrNegativeDelay)
	}
	if c.DelayBetweenLines < 0 {
		return fmt.Errorf("delay between lines %v: %w", c.DelayBetweenLines, ErrNegativeDelay)
	}
	return nil
}
