package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
)

// Command runs a shell command under a pseudo terminal and reports the
// accumulated output after every read. Each reported text extends the
// previous one, so feeding it to SetTargetText always appends.
type Command struct {
	Shell   string
	Workdir string
	// OnOutput receives the full output seen so far.
	OnOutput func(text string)
}

// Run executes command and blocks until it exits or ctx is cancelled. The
// returned text is the complete normalised output.
func (c Command) Run(ctx context.Context, command string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("empty command")
	}
	shell := c.Shell
	if shell == "" {
		shell = "bash"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	if c.Workdir != "" {
		cmd.Dir = c.Workdir
	}
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return "", fmt.Errorf("failed to start pty: %w", err)
	}
	defer ptmx.Close()

	acc := &accumulator{onOutput: c.OnOutput}
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(acc, ptmx)
		close(done)
	}()

	err = cmd.Wait()
	ptmx.Close()
	<-done
	out := acc.final()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		return out, fmt.Errorf("command failed: %w", err)
	}
	return out, nil
}

// ExitCode extracts the process exit code from a Run error, or -1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

type accumulator struct {
	mu       sync.Mutex
	raw      strings.Builder
	last     string
	onOutput func(string)
}

func (a *accumulator) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.raw.Write(p)
	text := Normalize(a.raw.String())
	// a trailing '\r' may be the first half of a CRLF split across reads
	text = strings.TrimSuffix(text, "\r")
	if text != a.last {
		a.last = text
		if a.onOutput != nil {
			a.onOutput(text)
		}
	}
	return len(p), nil
}

func (a *accumulator) final() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	text := Normalize(a.raw.String())
	if text != a.last {
		a.last = text
		if a.onOutput != nil {
			a.onOutput(text)
		}
	}
	return text
}
