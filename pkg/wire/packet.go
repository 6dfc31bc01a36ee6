package wire

import (
	"encoding/binary"
	"io"
)

// Sync bytes leading every packet.
const (
	Sync1 byte = 0xb5
	Sync2 byte = 0x62
)

// Layout constants.
const (
	HeaderSize     = 8 // sync(2) + length(2) + baud rate(4)
	TrailerSize    = 2 // ck_a + ck_b
	Overhead       = HeaderSize + TrailerSize
	MaxPayloadSize = 0xffff

	// DefaultPort is the UDP port packets are sent to.
	DefaultPort = 9000
)

// Packet is a single serial line tagged with the baud rate it was read at.
type Packet struct {
	BaudRate uint32
	Payload  []byte
}

// Validate checks the packet can be encoded.
func (p *Packet) Validate() error {
	if len(p.Payload) > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	if p.BaudRate == 0 {
		return ErrInvalidBaudRate
	}
	return nil
}

// Len returns the encoded size.
func (p *Packet) Len() int {
	return Overhead + len(p.Payload)
}

// Bytes returns encoded bytes for sending.
// The packet must be valid, see Validate.
func (p *Packet) Bytes() []byte {
	b := make([]byte, p.Len())
	b[0], b[1] = Sync1, Sync2
	binary.LittleEndian.PutUint16(b[2:4], uint16(len(p.Payload)))
	binary.LittleEndian.PutUint32(b[4:8], p.BaudRate)
	n := HeaderSize + copy(b[HeaderSize:], p.Payload)
	b[n], b[n+1] = Checksum(b[2:n])
	return b
}

// WriteTo writes encoded bytes in a single Write so a datagram
// oriented writer emits exactly one datagram.
func (p *Packet) WriteTo(w io.Writer) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	n, err := w.Write(p.Bytes())
	return int64(n), err
}

// Encode builds the datagram for payload read at baudRate.
func Encode(payload []byte, baudRate uint32) ([]byte, error) {
	pkt := &Packet{BaudRate: baudRate, Payload: payload}
	if err := pkt.Validate(); err != nil {
		return nil, err
	}
	return pkt.Bytes(), nil
}

// Decode parses a whole datagram. The returned payload is a copy.
func Decode(b []byte) (*Packet, error) {
	if len(b) < Overhead {
		return nil, ErrTruncated
	}
	if b[0] != Sync1 || b[1] != Sync2 {
		return nil, ErrBadSignature
	}
	size := int(binary.LittleEndian.Uint16(b[2:4]))
	if len(b) != Overhead+size {
		return nil, ErrLengthMismatch
	}
	end := HeaderSize + size
	if a, c := Checksum(b[2:end]); a != b[end] || c != b[end+1] {
		return nil, &ChecksumError{Want: [2]byte{a, c}, Got: [2]byte{b[end], b[end+1]}}
	}
	pkt := &Packet{
		BaudRate: binary.LittleEndian.Uint32(b[4:8]),
		Payload:  make([]byte, size),
	}
	copy(pkt.Payload, b[HeaderSize:end])
	return pkt, nil
}
