package listener

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/queueworks/qlisten/internal/diagnostics"
	"github.com/queueworks/qlisten/internal/logging"
)

// ErrMemoryLimitReached is the sentinel returned by Listen when the memory
// ceiling stopped the loop. The production exit func terminates the process
// before the sentinel is observed; tests inject a no-op exit and assert on
// it instead.
var ErrMemoryLimitReached = errors.New("listener: memory limit reached")

// Listener owns the run loop: build the worker invocation once, run it to
// completion over and over, and stop the whole program when the supervisor
// memory ceiling is reached.
type Listener struct {
	builder *CommandBuilder
	runner  Runner
	logger  *logging.Logger
	sink    OutputSink

	memoryMB func() (float64, error)
	exit     func(code int)

	started time.Time
}

// Option configures a Listener.
type Option func(*Listener)

// WithRunner overrides the production runner.
func WithRunner(r Runner) Option {
	return func(l *Listener) { l.runner = r }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Listener) { l.logger = logger }
}

// WithMemoryProbe overrides the supervisor memory measurement.
func WithMemoryProbe(probe func() (float64, error)) Option {
	return func(l *Listener) { l.memoryMB = probe }
}

// WithExitFunc overrides the process-termination action taken when the
// memory ceiling is reached. The default is os.Exit.
func WithExitFunc(exit func(code int)) Option {
	return func(l *Listener) { l.exit = exit }
}

// New creates a Listener around the given command builder.
func New(builder *CommandBuilder, opts ...Option) *Listener {
	l := &Listener{
		builder:  builder,
		runner:   NewExecRunner(),
		logger:   logging.NewNop(),
		memoryMB: diagnostics.ProcessMemoryMB,
		exit:     os.Exit,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetOutputSink registers the sink that receives worker output lines,
// replacing any previous one. Set it once, before Listen; it is read
// without locking while the loop runs. A nil sink discards output.
func (l *Listener) SetOutputSink(sink OutputSink) {
	l.sink = sink
}

// Listen builds the worker invocation once and runs it forever.
//
// The loop only ends two ways: a launch failure, which is returned rather
// than retried, or the memory ceiling, which logs a deliberate-shutdown
// message and terminates the whole program so an external process manager
// can restart it. Abnormal worker exits and timeout kills keep the loop
// going.
func (l *Listener) Listen(connection, queue string, opts Options) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	spec := l.builder.Build(connection, queue, opts)
	log := l.logger.WithConnection(connection).WithQueue(queue)
	l.started = time.Now()

	log.Info("listener started",
		"binary", spec.Path,
		"memory_limit_mb", opts.Memory,
		"timeout_s", opts.Timeout,
	)

	shouldStop := false
	for !shouldStop {
		if err := l.runOnce(log, spec); err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		shouldStop = l.memoryExceeded(log, opts.Memory)
	}

	// Deliberate shutdown, not a crash: the external process manager is
	// expected to start a fresh supervisor.
	snap := diagnostics.TakeSnapshot(l.started)
	log.Info("memory limit reached, stopping",
		"resident_mb", snap.ResidentMB,
		"limit_mb", opts.Memory,
		"uptime", snap.Uptime,
	)
	l.exit(0)
	return ErrMemoryLimitReached
}

// runOnce executes one complete launch-to-exit worker lifecycle.
func (l *Listener) runOnce(log *logging.Logger, spec ProcessSpec) error {
	runLog := log.WithRun(uuid.NewString())

	res, err := l.runner.Run(context.Background(), spec, l.sink)
	if err != nil {
		// Launch failures are fatal: retrying one would loop forever
		// consuming resources.
		return err
	}

	switch {
	case res.TimedOut:
		runLog.Warn("worker run killed by timeout", "duration", res.Duration)
	case res.ExitCode != 0:
		runLog.Warn("worker run exited abnormally", "exit_code", res.ExitCode, "duration", res.Duration)
	default:
		runLog.Debug("worker run finished", "duration", res.Duration)
	}
	return nil
}

// memoryExceeded compares the supervisor's own resident memory against the
// ceiling. A failed probe keeps the loop running; stopping on a probe error
// would turn a metrics hiccup into downtime.
func (l *Listener) memoryExceeded(log *logging.Logger, limitMB int) bool {
	usage, err := l.memoryMB()
	if err != nil {
		log.Warn("memory probe failed", "error", err)
		return false
	}
	return usage >= float64(limitMB)
}
