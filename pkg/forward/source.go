package forward

import (
	"bufio"
	"io"

	"github.com/robotalks/serbridge/pkg/wire"
)

// LineSource produces raw lines. ReadLine blocks until a line is available.
type LineSource interface {
	ReadLine() ([]byte, error)
}

// LineReader is a LineSource over a byte stream. Lines keep their
// terminator. A line cut short by a read error (io.EOF included) is
// returned first, the error on the next call and every call after.
// A line growing past MaxLineSize is returned as soon as it does, so the
// encoder rejects it without waiting for a terminator.
type LineReader struct {
	MaxLineSize int

	r      *bufio.Reader
	closer io.Closer
	err    error
}

// NewLineReader creates a LineReader. If r is an io.Closer, Close closes it.
func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{MaxLineSize: wire.MaxPayloadSize, r: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		lr.closer = c
	}
	return lr
}

// ReadLine implements LineSource.
func (r *LineReader) ReadLine() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	var line []byte
	for {
		frag, err := r.r.ReadSlice('\n')
		line = append(line, frag...)
		switch {
		case err == nil:
			return line, nil
		case err == bufio.ErrBufferFull:
			if r.MaxLineSize > 0 && len(line) > r.MaxLineSize {
				return line, nil
			}
			continue
		}
		r.err = err
		if len(line) > 0 {
			return line, nil
		}
		return nil, err
	}
}

// Close implements io.Closer.
func (r *LineReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
