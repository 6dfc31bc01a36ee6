package sh

import "errors"

var (
	// ErrNotOpen indicates no serial port is open.
	ErrNotOpen = errors.New("serial port not open")
	// ErrForwarding indicates the operation is not allowed while forwarding.
	ErrForwarding = errors.New("forwarding in progress")
	// ErrNotForwarding indicates no forwarding session is running.
	ErrNotForwarding = errors.New("not forwarding")
	// ErrNoHost indicates the destination host is not set.
	ErrNoHost = errors.New("destination host not set")
)
