package listener

import (
	"strconv"
	"time"

	"github.com/queueworks/qlisten/internal/shellarg"
)

// CommandBuilder turns a connection name, queue name, and run options into
// a shell-safe worker invocation. It performs no I/O and never fails for
// validated options.
type CommandBuilder struct {
	binary     string
	subcommand string
	dir        string
	escape     shellarg.Escaper
}

// NewCommandBuilder creates a builder for the given worker executable.
// The escaping strategy defaults to the one for the current platform.
func NewCommandBuilder(binary, subcommand, dir string) *CommandBuilder {
	return &CommandBuilder{
		binary:     binary,
		subcommand: subcommand,
		dir:        dir,
		escape:     shellarg.Default(),
	}
}

// WithEscaper overrides the escaping strategy. Used by tests to pin the
// output to one platform's rules regardless of the host.
func (b *CommandBuilder) WithEscaper(esc shellarg.Escaper) *CommandBuilder {
	b.escape = esc
	return b
}

// Build produces the ProcessSpec for one queue item execution.
//
// Argument order is fixed:
//
//	<binary> <subcommand> [--env=<env>] --once --queue=<queue>
//	--delay=<delay> --memory=<memory> --sleep=<sleep> --tries=<tries>
//	<connection>
//
// --once bounds each supervised run to at most one job, which is what lets
// the supervisor apply the memory check between items. String values pass
// through the escaper; integers are rendered directly since they cannot
// carry shell metacharacters.
func (b *CommandBuilder) Build(connection, queue string, opts Options) ProcessSpec {
	args := make([]string, 0, 9)
	args = append(args, b.subcommand)
	if opts.Environment != "" {
		args = append(args, "--env="+b.escape(opts.Environment))
	}
	args = append(args,
		"--once",
		"--queue="+b.escape(queue),
		"--delay="+strconv.Itoa(opts.Delay),
		"--memory="+strconv.Itoa(opts.Memory),
		"--sleep="+strconv.Itoa(opts.Sleep),
		"--tries="+strconv.Itoa(opts.MaxTries),
		b.escape(connection),
	)

	return ProcessSpec{
		Path:    b.binary,
		Args:    args,
		Dir:     b.dir,
		Timeout: time.Duration(opts.Timeout) * time.Second,
	}
}
