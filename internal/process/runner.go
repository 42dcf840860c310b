// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package process runs a single command through a fixed interpreter,
// capturing the combined output stream and enforcing a timeout.
package process

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "toolbelt/internal/errors"
)

// DefaultTimeout applies when a request carries no positive timeout.
const DefaultTimeout = 30 * time.Second

// MaxTimeout caps request timeouts.
const MaxTimeout = 24 * time.Hour

// outputGrace bounds how long output is still collected after the
// interpreter exits while a background descendant keeps the pipe open.
const outputGrace = 250 * time.Millisecond

// Interpreter is the fixed program a command string is handed to.
type Interpreter struct {
	Name string
	Path string
	Args []string
}

var (
	Bash       = Interpreter{Name: "bash", Path: "/bin/bash", Args: []string{"-c"}}
	PowerShell = Interpreter{Name: "powershell", Path: "powershell.exe", Args: []string{"-NonInteractive", "-NoProfile", "-Command"}}
)

// Request describes one command invocation.
type Request struct {
	Command          string
	WorkingDirectory string
	TimeoutSeconds   int
}

// Outcome is the result of a finished or killed process. ExitCode is -1 when
// the process was killed.
type Outcome struct {
	Command  string
	ExitCode int
	Output   string
	TimedOut bool
	Duration time.Duration
}

// Runner launches commands for one interpreter. The zero Timeout means DefaultTimeout.
type Runner struct {
	Interpreter Interpreter
	Timeout     time.Duration
	Logger      zerolog.Logger
}

// NewRunner returns a runner with logging disabled.
func NewRunner(interp Interpreter, timeout time.Duration) *Runner {
	return &Runner{Interpreter: interp, Timeout: timeout, Logger: zerolog.Nop()}
}

// EffectiveTimeout resolves a request timeout in seconds to a duration.
func (r *Runner) EffectiveTimeout(seconds int) time.Duration {
	if seconds > 0 {
		if seconds >= int(MaxTimeout/time.Second) {
			return MaxTimeout
		}
		return time.Duration(seconds) * time.Second
	}
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

// Run starts the command and blocks until it exits, the timeout elapses or ctx
// is cancelled. A timeout is reported through Outcome.TimedOut, not as an error.
func (r *Runner) Run(ctx context.Context, req Request) (Outcome, error) {
	outcome := Outcome{Command: req.Command, ExitCode: -1}
	timeout := r.EffectiveTimeout(req.TimeoutSeconds)

	args := append(append([]string{}, r.Interpreter.Args...), req.Command)
	cmd := exec.Command(r.Interpreter.Path, args...)
	if dir := strings.TrimSpace(req.WorkingDirectory); dir != "" {
		cmd.Dir = dir
	}
	configureProcAttr(cmd)

	output := &lineCollector{}
	cmd.Stdout = output
	cmd.Stderr = output
	cmd.WaitDelay = outputGrace

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return outcome, r.launchError(err)
	}
	r.Logger.Debug().
		Str("interpreter", r.Interpreter.Name).
		Int("pid", cmd.Process.Pid).
		Dur("timeout", timeout).
		Msg("process started")

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		outcome.Duration = time.Since(start)
		outcome.Output = output.String()
		var exitErr *exec.ExitError
		if err != nil && !stderrors.As(err, &exitErr) && !stderrors.Is(err, exec.ErrWaitDelay) {
			return outcome, apperrors.Wrap(apperrors.CodeIO, "IO error", err)
		}
		outcome.ExitCode = cmd.ProcessState.ExitCode()
		r.Logger.Debug().Int("exit_code", outcome.ExitCode).Dur("duration", outcome.Duration).Msg("process exited")
		return outcome, nil

	case <-timer.C:
		r.terminate(cmd, done)
		outcome.Output = output.String()
		outcome.Duration = time.Since(start)
		outcome.TimedOut = true
		r.Logger.Warn().Dur("timeout", timeout).Msg("process timed out and was killed")
		return outcome, nil

	case <-ctx.Done():
		r.terminate(cmd, done)
		outcome.Output = output.String()
		outcome.Duration = time.Since(start)
		r.Logger.Warn().Err(ctx.Err()).Msg("process interrupted")
		return outcome, apperrors.Wrap(apperrors.CodeInterrupted, "Execution interrupted", ctx.Err())
	}
}

// terminate kills the process group and waits for cmd.Wait to return. The
// wait delay closes the pipe if a detached descendant still holds it.
func (r *Runner) terminate(cmd *exec.Cmd, done <-chan error) {
	if err := killProcessTree(cmd); err != nil {
		r.Logger.Error().Err(err).Msg("failed to kill process")
	}
	<-done
}

func (r *Runner) launchError(err error) error {
	if stderrors.Is(err, exec.ErrNotFound) {
		return apperrors.Newf(apperrors.CodeIO,
			"IO error: '%s' not found. Ensure %s is installed and in the system's PATH.",
			r.Interpreter.Path, displayName(r.Interpreter))
	}
	return apperrors.Wrap(apperrors.CodeIO, "IO error", err)
}

func displayName(interp Interpreter) string {
	if interp.Name == PowerShell.Name {
		return "PowerShell"
	}
	return interp.Name
}

// lineCollector receives the merged stdout and stderr of one process.
type lineCollector struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *lineCollector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// String returns the collected lines joined by newlines, without terminators.
func (c *lineCollector) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(readLines(bytes.NewReader(c.buf.Bytes())), "\n")
}

// readLines drains r, dropping line terminators.
func readLines(r io.Reader) []string {
	var lines []string
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			return lines
		}
	}
}

func (o Outcome) String() string {
	if o.TimedOut {
		return fmt.Sprintf("%q timed out after %s", o.Command, o.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("%q exited with code %d", o.Command, o.ExitCode)
}
