// Package listener supervises a queue worker subprocess: it builds the
// worker invocation once, runs it to completion in a loop, streams its
// output to a sink, and stops the whole program when the supervisor's own
// memory crosses the configured ceiling.
package listener

import (
	"time"

	"github.com/queueworks/qlisten/internal/core"
)

// Options are the per-listen run options. They are read once when Listen
// starts and never mutated; a fresh Options value is supplied per call.
type Options struct {
	// Environment is the deployment environment tag, empty when unset.
	Environment string
	// Delay is the number of seconds before a failed item is retried.
	Delay int
	// Memory is the supervisor memory ceiling in megabytes. Reaching it
	// stops the listen loop after the current run completes.
	Memory int
	// Sleep is the number of seconds the worker waits when the queue is
	// empty.
	Sleep int
	// MaxTries is the number of attempts before an item is marked failed;
	// zero means unlimited.
	MaxTries int
	// Timeout is the maximum number of seconds a single worker run may
	// take before it is killed; zero disables the limit.
	Timeout int
}

// Validate checks the option domains. The command builder is total over
// validated options.
func (o Options) Validate() error {
	if o.Memory <= 0 {
		return core.ErrValidation("BAD_MEMORY", "memory must be greater than zero")
	}
	if o.Delay < 0 {
		return core.ErrValidation("BAD_DELAY", "delay must not be negative")
	}
	if o.Sleep < 0 {
		return core.ErrValidation("BAD_SLEEP", "sleep must not be negative")
	}
	if o.MaxTries < 0 {
		return core.ErrValidation("BAD_TRIES", "tries must not be negative")
	}
	if o.Timeout < 0 {
		return core.ErrValidation("BAD_TIMEOUT", "timeout must not be negative")
	}
	return nil
}

// ProcessSpec is the resolved, ready-to-launch description of one worker
// run. It is derived once per Listen call and reused unchanged across every
// loop iteration; only process identity changes per run.
type ProcessSpec struct {
	// Path is the worker executable.
	Path string
	// Args is the ordered, escaped argument list, excluding Path itself.
	Args []string
	// Dir is the working directory applied to every launch.
	Dir string
	// Env is an overlay appended to the inherited environment.
	Env []string
	// Timeout kills the run when it elapses; zero means no limit.
	Timeout time.Duration
}
