// Package deps runs the configured dependency installer for the target
// environment.
package deps

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// InstallError reports a failed installer invocation with enough context to
// diagnose it: the command, its exit code and the tail of its output.
type InstallError struct {
	Command  string
	ExitCode int
	Output   string
	Cause    error
}

func (e *InstallError) Error() string {
	msg := fmt.Sprintf("dependency install %q failed (exit %d)", e.Command, e.ExitCode)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *InstallError) Unwrap() error {
	return e.Cause
}

// Installer invokes an external package manager non-interactively.
type Installer struct {
	// Command is the argv-style installer invocation.
	Command []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Stdout receives the installer's combined output as it is produced.
	// nil discards it.
	Stdout io.Writer
}

// outputTailLines bounds how much installer output is carried in an error.
const outputTailLines = 20

// Install runs the installer command to completion. The command is expected
// to be idempotent (package managers resolve an already-satisfied manifest to
// a no-op), which keeps whole-sequence reruns safe.
func (i *Installer) Install(ctx context.Context) error {
	if len(i.Command) == 0 {
		return fmt.Errorf("no install command configured")
	}

	cmd := exec.CommandContext(ctx, i.Command[0], i.Command[1:]...)
	cmd.Dir = i.Dir
	cmd.Stdin = nil // non-interactive; a prompting installer must fail, not hang

	var tail tailBuffer
	if i.Stdout != nil {
		cmd.Stdout = io.MultiWriter(i.Stdout, &tail)
		cmd.Stderr = io.MultiWriter(i.Stdout, &tail)
	} else {
		cmd.Stdout = &tail
		cmd.Stderr = &tail
	}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return &InstallError{
			Command:  strings.Join(i.Command, " "),
			ExitCode: exitCode,
			Output:   tail.Tail(outputTailLines),
			Cause:    err,
		}
	}
	return nil
}

// tailBuffer keeps all written bytes and can return the last n lines.
type tailBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Write(p)
}

// Tail returns the last n non-empty lines, joined by newlines.
func (t *tailBuffer) Tail(n int) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := strings.Split(strings.TrimRight(t.buf.String(), "\n"), "\n")
	kept := make([]string, 0, n)
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}
