package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/serbridge/pkg/forward"
)

func TestReportEncodeDecode(t *testing.T) {
	r := (&Report{
		BridgeID:  "b1",
		SessionID: "s1",
		State:     StateRunning,
		Device:    "/dev/ttyUSB0",
	}).SetSettings(forward.Settings{Host: "10.0.0.5", BaudRate: 115200}).
		SetStats(forward.StatsSnapshot{LinesRead: 3, PacketsSent: 2, BytesSent: 40, SendFailures: 1, LastError: "x"}).
		Stamp(time.Unix(1, 500*int64(time.Millisecond)))
	require.Equal(t, int64(1500), r.Timestamp)

	b, err := r.Encode()
	require.NoError(t, err)
	decoded, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, r, decoded)
	require.Contains(t, decoded.String(), `host:"10.0.0.5"`)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	require.NoError(t, p.Publish(&Report{}))
	require.NoError(t, p.Close())
}
