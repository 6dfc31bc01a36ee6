package forward

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/serbridge/pkg/wire"
)

type readStep struct {
	data string
	err  error
}

// scriptedReader replays one step per Read.
type scriptedReader struct {
	steps []readStep
}

func (r *scriptedReader) Read(b []byte) (int, error) {
	if len(r.steps) == 0 {
		return 0, io.EOF
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	return copy(b, step.data), step.err
}

// endlessReader never produces a line terminator.
type endlessReader struct{}

func (endlessReader) Read(b []byte) (int, error) {
	for n := range b {
		b[n] = 'x'
	}
	return len(b), nil
}

func TestLineReader(t *testing.T) {
	errFraming := errors.New("framing error")
	tests := []struct {
		name  string
		input io.Reader
		lines []string
		err   error
	}{
		{
			name:  "lines",
			input: strings.NewReader("a\nb\r\n\nc"),
			lines: []string{"a\n", "b\r\n", "\n", "c"},
			err:   io.EOF,
		},
		{
			name:  "empty",
			input: strings.NewReader(""),
			err:   io.EOF,
		},
		{
			name: "partial line with error",
			input: &scriptedReader{steps: []readStep{
				{data: "abc", err: errFraming},
				{data: "def\n"},
			}},
			lines: []string{"abc"},
			err:   errFraming,
		},
		{
			name: "error after line",
			input: &scriptedReader{steps: []readStep{
				{data: "ok\n"},
				{err: errFraming},
				{data: "late\n"},
			}},
			lines: []string{"ok\n"},
			err:   errFraming,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := NewLineReader(test.input)
			for _, expected := range test.lines {
				line, err := r.ReadLine()
				require.NoError(t, err)
				require.Equal(t, expected, string(line))
			}
			for i := 0; i < 2; i++ {
				line, err := r.ReadLine()
				require.Nil(t, line)
				require.ErrorIs(t, err, test.err)
			}
			require.NoError(t, r.Close())
		})
	}
}

func TestLineReaderLimit(t *testing.T) {
	r := NewLineReader(endlessReader{})
	line, err := r.ReadLine()
	require.NoError(t, err)
	require.Greater(t, len(line), wire.MaxPayloadSize)
	_, err = wire.Encode(line, 9600)
	require.ErrorIs(t, err, wire.ErrPayloadTooLarge)

	r = NewLineReader(strings.NewReader(strings.Repeat("y", 10) + "\n"))
	r.MaxLineSize = 4
	line, err = r.ReadLine()
	require.NoError(t, err)
	require.Equal(t, 11, len(line), "buffered lines are not split")
}

func TestForwarderStopsOnEndlessLine(t *testing.T) {
	sender := newRecordingSender()
	f := &Forwarder{
		Source:   NewLineReader(endlessReader{}),
		Settings: NewConfig("127.0.0.1", 9600),
		Sender:   sender,
	}
	errCh := runAsync(context.Background(), f)
	require.ErrorIs(t, waitErr(t, errCh), wire.ErrPayloadTooLarge)
	require.Empty(t, sender.packets())
}

func TestLineReaderTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()

	r := NewLineReader(tty)
	_, err = ptmx.Write([]byte("$GPGGA,1\n"))
	require.NoError(t, err)
	line, err := r.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "$GPGGA,1\n", string(line))

	require.NoError(t, r.Close())
	_, err = r.ReadLine()
	require.Error(t, err)
}
