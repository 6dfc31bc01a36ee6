package serialport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.bug.st/serial"
)

// DefaultBaudRate is used when Options.BaudRate is unset.
const DefaultBaudRate = 9600

// UnknownBaudRate is the selection meaning the rate is not known.
const UnknownBaudRate = "unknown"

// StandardBaudRates are the selectable rates, UnknownBaudRate first.
var StandardBaudRates = []string{
	UnknownBaudRate,
	"1200", "2400", "4800", "9600", "19200", "38400", "57600", "115200", "230400",
}

// ErrUnknownBaudRate is returned when the baud rate selection is "unknown".
var ErrUnknownBaudRate = errors.New("baud rate unknown")

// ParseBaudRate parses a baud rate selection for opening a port.
// Unlike forwarding, an unknown rate is refused.
func ParseBaudRate(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, UnknownBaudRate) {
		return 0, ErrUnknownBaudRate
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid baud rate %q", s)
	}
	return v, nil
}

// Options are the serial line parameters.
type Options struct {
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
}

// Normalize validates the options and fills in 8N1 at DefaultBaudRate.
func (o Options) Normalize() (Options, error) {
	opts := o
	if opts.BaudRate <= 0 {
		opts.BaudRate = DefaultBaudRate
	}
	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}
	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: must be 1 or 2", opts.StopBits)
	}
	switch strings.ToUpper(strings.TrimSpace(opts.Parity)) {
	case "", "N", "NONE":
		opts.Parity = "N"
	case "E", "EVEN":
		opts.Parity = "E"
	case "O", "ODD":
		opts.Parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E or O", o.Parity)
	}
	return opts, nil
}

// Mode converts the options to a serial.Mode.
func (o Options) Mode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}
	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}
	return mode, nil
}

// String formats the options like "9600 8N1".
func (o Options) String() string {
	return fmt.Sprintf("%d %d%s%d", o.BaudRate, o.DataBits, o.Parity, o.StopBits)
}
