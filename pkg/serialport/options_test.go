package serialport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Options
		out  Options
		err  bool
	}{
		{"defaults", Options{}, Options{BaudRate: 9600, DataBits: 8, StopBits: 1, Parity: "N"}, false},
		{"even", Options{BaudRate: 115200, DataBits: 7, StopBits: 2, Parity: "even"}, Options{BaudRate: 115200, DataBits: 7, StopBits: 2, Parity: "E"}, false},
		{"odd", Options{Parity: " o "}, Options{BaudRate: 9600, DataBits: 8, StopBits: 1, Parity: "O"}, false},
		{"data bits", Options{DataBits: 9}, Options{}, true},
		{"stop bits", Options{StopBits: 3}, Options{}, true},
		{"parity", Options{Parity: "mark"}, Options{}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opts, err := test.in.Normalize()
			if test.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.out, opts)
		})
	}
}

func TestMode(t *testing.T) {
	mode, err := Options{BaudRate: 57600, StopBits: 2, Parity: "E"}.Mode()
	require.NoError(t, err)
	require.Equal(t, &serial.Mode{
		BaudRate: 57600,
		DataBits: 8,
		StopBits: serial.TwoStopBits,
		Parity:   serial.EvenParity,
	}, mode)

	mode, err = Options{BaudRate: 9600}.Mode()
	require.NoError(t, err)
	require.Equal(t, serial.OneStopBit, mode.StopBits)
	require.Equal(t, serial.NoParity, mode.Parity)

	_, err = Options{DataBits: 4}.Mode()
	require.Error(t, err)
}

func TestParseBaudRate(t *testing.T) {
	v, err := ParseBaudRate("115200")
	require.NoError(t, err)
	require.Equal(t, 115200, v)

	_, err = ParseBaudRate("unknown")
	require.ErrorIs(t, err, ErrUnknownBaudRate)
	_, err = ParseBaudRate("")
	require.ErrorIs(t, err, ErrUnknownBaudRate)
	_, err = ParseBaudRate("0")
	require.Error(t, err)
	_, err = ParseBaudRate("fast")
	require.Error(t, err)

	require.Equal(t, UnknownBaudRate, StandardBaudRates[0])
	for _, s := range StandardBaudRates[1:] {
		_, err := ParseBaudRate(s)
		require.NoError(t, err, s)
	}
}

func TestPortInfo(t *testing.T) {
	usb := portInfo(&enumerator.PortDetails{
		Name:         "/dev/ttyUSB0",
		IsUSB:        true,
		VID:          "0403",
		PID:          "6001",
		SerialNumber: "A50285BI",
		Product:      "FT232R USB UART",
	})
	require.Equal(t, PortInfo{
		Device:      "/dev/ttyUSB0",
		Description: "FT232R USB UART",
		HardwareID:  "USB VID:PID=0403:6001 SER=A50285BI",
	}, usb)
	require.Equal(t, "/dev/ttyUSB0 - FT232R USB UART [USB VID:PID=0403:6001 SER=A50285BI]", usb.String())

	plain := portInfo(&enumerator.PortDetails{Name: "/dev/ttyS0"})
	require.Equal(t, "/dev/ttyS0", plain.String())
}
