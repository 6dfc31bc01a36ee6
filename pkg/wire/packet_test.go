package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		name     string
		payload  []byte
		baudRate uint32
		expect   []byte
	}{
		{
			"single byte",
			[]byte("A"), 9600,
			[]byte{0xb5, 0x62, 0x01, 0x00, 0x80, 0x25, 0x00, 0x00, 0x41, 0xe7, 0x5c},
		},
		{
			"empty payload",
			nil, 115200,
			[]byte{0xb5, 0x62, 0x00, 0x00, 0x00, 0xc2, 0x01, 0x00, 0xc3, 0x48},
		},
		{
			"line with terminator",
			[]byte("ok\r\n"), 1,
			[]byte{0xb5, 0x62, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00, 'o', 'k', '\r', '\n', 0xf6, 0x51},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Encode(tc.payload, tc.baudRate)
			require.NoError(t, err)
			require.Equal(t, tc.expect, b)
			require.Len(t, b, Overhead+len(tc.payload))

			pkt := &Packet{BaudRate: tc.baudRate, Payload: tc.payload}
			var buf bytes.Buffer
			n, err := pkt.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, int64(len(tc.expect)), n)
			require.Equal(t, tc.expect, buf.Bytes())
		})
	}
}

func TestEncodeLength(t *testing.T) {
	for _, size := range []int{0, 1, 7, 255, 256, 1500, MaxPayloadSize} {
		b, err := Encode(make([]byte, size), 9600)
		require.NoError(t, err)
		require.Len(t, b, 10+size)
		require.Equal(t, byte(size), b[2])
		require.Equal(t, byte(size>>8), b[3])
	}
}

func TestEncodeIdempotent(t *testing.T) {
	payload := []byte("$GPGGA,123519,4807.038,N,01131.000,E*47\r\n")
	b1, err := Encode(payload, 4800)
	require.NoError(t, err)
	b2, err := Encode(payload, 4800)
	require.NoError(t, err)
	require.Equal(t, b1, b2)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(make([]byte, MaxPayloadSize+1), 9600)
	require.ErrorIs(t, err, ErrPayloadTooLarge)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Encode([]byte("A"), 0)
	require.ErrorIs(t, err, ErrInvalidBaudRate)
	require.ErrorIs(t, err, ErrInvalidInput)

	var buf bytes.Buffer
	n, err := (&Packet{Payload: []byte("A")}).WriteTo(&buf)
	require.ErrorIs(t, err, ErrInvalidBaudRate)
	require.Zero(t, n)
	require.Zero(t, buf.Len())
}

func TestDecode(t *testing.T) {
	valid, err := Encode([]byte("hello\n"), 57600)
	require.NoError(t, err)

	pkt, err := Decode(valid)
	require.NoError(t, err)
	if diff := cmp.Diff(&Packet{BaudRate: 57600, Payload: []byte("hello\n")}, pkt); diff != "" {
		t.Fatalf("decoded packet mismatch (-want +got):\n%s", diff)
	}

	corrupt := func(fn func(b []byte) []byte) []byte {
		b := append([]byte(nil), valid...)
		return fn(b)
	}

	testCases := []struct {
		name string
		data []byte
		err  error
	}{
		{"empty", nil, ErrTruncated},
		{"header only", valid[:HeaderSize], ErrTruncated},
		{"bad sync", corrupt(func(b []byte) []byte { b[0], b[1] = Sync2, Sync1; return b }), ErrBadSignature},
		{"short", valid[:len(valid)-1], ErrLengthMismatch},
		{"long", append(append([]byte(nil), valid...), 0), ErrLengthMismatch},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			require.ErrorIs(t, err, tc.err)
		})
	}

	t.Run("checksum", func(t *testing.T) {
		b := corrupt(func(b []byte) []byte { b[HeaderSize] ^= 0x20; return b })
		_, err := Decode(b)
		var ckErr *ChecksumError
		require.True(t, errors.As(err, &ckErr))
		require.Equal(t, [2]byte{valid[len(valid)-2], valid[len(valid)-1]}, ckErr.Got)
		require.NotEqual(t, ckErr.Want, ckErr.Got)
	})

	t.Run("payload is copied", func(t *testing.T) {
		b := corrupt(func(b []byte) []byte { return b })
		pkt, err := Decode(b)
		require.NoError(t, err)
		b[HeaderSize] = 'X'
		require.Equal(t, []byte("hello\n"), pkt.Payload)
	})
}
