package listener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineWriter_SplitsAcrossWriteBoundaries(t *testing.T) {
	sink := &captureSink{}
	w := &lineWriter{stream: StreamStdout, sink: sink}

	for _, chunk := range []string{"he", "llo\nwor", "ld\ntail"} {
		n, err := w.Write([]byte(chunk))
		require.NoError(t, err)
		assert.Equal(t, len(chunk), n)
	}
	w.flush()

	assert.Equal(t, []capturedLine{
		{StreamStdout, "hello"},
		{StreamStdout, "world"},
		{StreamStdout, "tail"},
	}, sink.got)
}

func TestLineWriter_TrimsCarriageReturns(t *testing.T) {
	sink := &captureSink{}
	w := &lineWriter{stream: StreamStderr, sink: sink}

	_, err := w.Write([]byte("warn: retry\r\nfatal\r\n"))
	require.NoError(t, err)

	assert.Equal(t, []capturedLine{
		{StreamStderr, "warn: retry"},
		{StreamStderr, "fatal"},
	}, sink.got)
}

func TestLineWriter_HandlesLinesLargerThanAnyWrite(t *testing.T) {
	sink := &captureSink{}
	w := &lineWriter{stream: StreamStdout, sink: sink}

	long := make([]byte, 4*1024*1024)
	for i := range long {
		long[i] = 'x'
	}
	for i := 0; i < len(long); i += 64 * 1024 {
		_, err := w.Write(long[i : i+64*1024])
		require.NoError(t, err)
	}
	_, err := w.Write([]byte("\nnext\n"))
	require.NoError(t, err)

	require.Len(t, sink.got, 2)
	assert.Equal(t, string(long), sink.got[0].line)
	assert.Equal(t, "next", sink.got[1].line)
}
