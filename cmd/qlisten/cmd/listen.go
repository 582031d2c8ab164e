package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/queueworks/qlisten/internal/listener"
)

var listenCmd = &cobra.Command{
	Use:   "listen [connection]",
	Short: "Run the queue worker in a restart loop",
	Long: `listen launches the configured worker with --once semantics over and
over: each run drains at most one queue item, then the supervisor checks its
own resident memory against the ceiling and either loops or exits.

Worker output is forwarded line by line to this process's stdout and stderr.
When the memory ceiling is reached the process exits 0 deliberately; rely on
your process manager (systemd, supervisord) to start a fresh one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runListen,
}

func init() {
	rootCmd.AddCommand(listenCmd)

	f := listenCmd.Flags()
	f.String("queue", "", "queue to drain (default from config)")
	f.String("env", "", "deployment environment tag passed to the worker")
	f.Int("delay", 0, "seconds before a failed item is retried")
	f.Int("memory", 0, "supervisor memory ceiling in megabytes")
	f.Int("sleep", 0, "seconds the worker waits when the queue is empty")
	f.Int("tries", 0, "attempts before an item is marked failed (0 = unlimited)")
	f.Int("timeout", 0, "seconds a single run may take before being killed (0 = none)")
}

func runListen(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	connection := cfg.Defaults.Connection
	if len(args) > 0 {
		connection = args[0]
	}

	queue := cfg.Defaults.Queue
	opts := listener.Options{
		Environment: cfg.Environment,
		Delay:       cfg.Defaults.Delay,
		Memory:      cfg.Defaults.Memory,
		Sleep:       cfg.Defaults.Sleep,
		MaxTries:    cfg.Defaults.Tries,
		Timeout:     cfg.Defaults.Timeout,
	}

	flags := cmd.Flags()
	if flags.Changed("queue") {
		queue, _ = flags.GetString("queue")
	}
	if flags.Changed("env") {
		opts.Environment, _ = flags.GetString("env")
	}
	if flags.Changed("delay") {
		opts.Delay, _ = flags.GetInt("delay")
	}
	if flags.Changed("memory") {
		opts.Memory, _ = flags.GetInt("memory")
	}
	if flags.Changed("sleep") {
		opts.Sleep, _ = flags.GetInt("sleep")
	}
	if flags.Changed("tries") {
		opts.MaxTries, _ = flags.GetInt("tries")
	}
	if flags.Changed("timeout") {
		opts.Timeout, _ = flags.GetInt("timeout")
	}

	builder := listener.NewCommandBuilder(cfg.Worker.Binary, cfg.Worker.Subcommand, cfg.Worker.Dir)
	l := listener.New(builder, listener.WithLogger(logger))
	l.SetOutputSink(listener.SinkFunc(func(stream listener.Stream, line string) {
		if stream == listener.StreamStderr {
			fmt.Fprintln(os.Stderr, line)
			return
		}
		fmt.Fprintln(os.Stdout, line)
	}))

	err := l.Listen(connection, queue, opts)
	if errors.Is(err, listener.ErrMemoryLimitReached) {
		// Listen already logged the deliberate shutdown and called the
		// exit func; this path only exists for injected exit funcs.
		return nil
	}
	return err
}
