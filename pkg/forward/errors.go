package forward

import (
	"errors"
	"fmt"

	"github.com/robotalks/serbridge/pkg/wire"
)

var (
	// ErrInvalidConfiguration indicates the baud rate was unresolved when a
	// line had to be forwarded.
	ErrInvalidConfiguration = fmt.Errorf("invalid configuration: %w", wire.ErrInvalidBaudRate)
	// ErrNoHost indicates an empty destination host.
	ErrNoHost = errors.New("no destination host")
)

// ReadError wraps a failure reading from the line source, io.EOF included.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// SendError wraps a failure delivering a datagram. It never ends a session.
type SendError struct {
	Host string
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send to %q failed: %v", e.Host, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
