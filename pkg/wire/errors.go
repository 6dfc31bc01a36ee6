package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a packet can't be built from the given fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPayloadTooLarge indicates the payload doesn't fit the 16-bit length field.
	ErrPayloadTooLarge = fmt.Errorf("%w: payload larger than %d bytes", ErrInvalidInput, MaxPayloadSize)
	// ErrInvalidBaudRate indicates the baud rate is zero.
	ErrInvalidBaudRate = fmt.Errorf("%w: baud rate must be positive", ErrInvalidInput)

	// ErrBadSignature indicates the datagram doesn't start with the sync bytes.
	ErrBadSignature = errors.New("bad signature")
	// ErrTruncated indicates the datagram is shorter than the fixed overhead.
	ErrTruncated = errors.New("truncated packet")
	// ErrLengthMismatch indicates the length field disagrees with the datagram size.
	ErrLengthMismatch = errors.New("length mismatch")
)

// ChecksumError is returned by Decode when the checksum doesn't match.
type ChecksumError struct {
	Want [2]byte
	Got  [2]byte
}

// Error implements error.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: got %02x %02x, want %02x %02x",
		e.Got[0], e.Got[1], e.Want[0], e.Want[1])
}
