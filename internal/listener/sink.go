package listener

// Stream identifies which output stream of the worker a line came from.
type Stream int

const (
	StreamStdout Stream = iota
	StreamStderr
)

func (s Stream) String() string {
	if s == StreamStderr {
		return "stderr"
	}
	return "stdout"
}

// OutputSink receives worker output one line at a time, in emission order
// per stream. Interleaving between stdout and stderr is best-effort, and
// Receive may be called from two goroutines at once, one per stream.
type OutputSink interface {
	Receive(stream Stream, line string)
}

// SinkFunc adapts a function to the OutputSink interface.
type SinkFunc func(stream Stream, line string)

// Receive implements OutputSink.
func (f SinkFunc) Receive(stream Stream, line string) {
	f(stream, line)
}
