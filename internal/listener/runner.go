package listener

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/queueworks/qlisten/internal/core"
)

// RunResult describes how one worker run ended. Abnormal endings (non-zero
// exit, timeout kill) are results, not errors; only a launch that never
// happened is an error.
type RunResult struct {
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Runner executes one worker run to completion, streaming output to the
// sink while the process runs.
type Runner interface {
	Run(ctx context.Context, spec ProcessSpec, sink OutputSink) (RunResult, error)
}

// ExecRunner runs the worker via os/exec.
type ExecRunner struct{}

// NewExecRunner creates the production runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// waitDelay bounds Wait when a killed worker's orphaned child keeps an
// inherited output pipe open after the worker itself has exited.
const waitDelay = 5 * time.Second

// Run launches the process described by spec and blocks until it exits,
// is killed by the timeout, or is killed externally.
//
// Output is delivered through line-splitting writers on cmd.Stdout and
// cmd.Stderr, fed by exec's own copy goroutines. Wait joins those
// goroutines before returning, so every byte the worker wrote reaches the
// sink even when it arrives in the same instant the process exits.
func (r *ExecRunner) Run(ctx context.Context, spec ProcessSpec, sink OutputSink) (RunResult, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	// #nosec G204 -- path and args come from the validated config
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	cmd.WaitDelay = waitDelay

	var stdoutW, stderrW *lineWriter
	if sink != nil {
		stdoutW = &lineWriter{stream: StreamStdout, sink: sink}
		stderrW = &lineWriter{stream: StreamStderr, sink: sink}
		cmd.Stdout = stdoutW
		cmd.Stderr = stderrW
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return RunResult{}, core.ErrSpawn("starting worker", err)
	}

	waitErr := cmd.Wait()
	if stdoutW != nil {
		stdoutW.flush()
		stderrW.flush()
	}

	res := RunResult{Duration: time.Since(start)}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		// Timeout kill: abnormal but non-fatal, the loop proceeds to the
		// memory check as normal.
		res.TimedOut = true
		res.ExitCode = -1
		return res, nil
	}

	if waitErr != nil {
		if errors.Is(waitErr, exec.ErrWaitDelay) {
			// The worker exited cleanly but an inherited pipe stayed open
			// past the delay; the forced close is not a run failure.
			return res, nil
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			// Non-zero exit or external kill: this run ended, nothing more.
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, core.ErrInternal("waiting for worker", waitErr)
	}

	return res, nil
}

// lineWriter splits a byte stream into lines and hands each one to the
// sink. exec writes to it from a single copy goroutine per stream, so no
// locking is needed; flush delivers a trailing unterminated line once the
// stream is done.
type lineWriter struct {
	stream Stream
	sink   OutputSink
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			return len(p), nil
		}
		line := w.buf[:i]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		w.sink.Receive(w.stream, string(line))
		w.buf = w.buf[i+1:]
	}
}

func (w *lineWriter) flush() {
	if len(w.buf) == 0 {
		return
	}
	w.sink.Receive(w.stream, string(w.buf))
	w.buf = nil
}
