// Package status describes the state of a bridge for remote observers.
package status

import (
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/serbridge/pkg/forward"
)

// States of a bridge.
const (
	StateIdle    = "idle"
	StateRunning = "running"
	StateStopped = "stopped"
	StateFailed  = "failed"
)

// Report is the status of one bridge.
type Report struct {
	BridgeID     string `protobuf:"bytes,1,opt,name=bridge_id,proto3" json:"bridge_id,omitempty"`
	SessionID    string `protobuf:"bytes,2,opt,name=session_id,proto3" json:"session_id,omitempty"`
	State        string `protobuf:"bytes,3,opt,name=state,proto3" json:"state,omitempty"`
	Device       string `protobuf:"bytes,4,opt,name=device,proto3" json:"device,omitempty"`
	Host         string `protobuf:"bytes,5,opt,name=host,proto3" json:"host,omitempty"`
	BaudRate     uint32 `protobuf:"varint,6,opt,name=baud_rate,proto3" json:"baud_rate,omitempty"`
	LinesRead    uint64 `protobuf:"varint,7,opt,name=lines_read,proto3" json:"lines_read,omitempty"`
	PacketsSent  uint64 `protobuf:"varint,8,opt,name=packets_sent,proto3" json:"packets_sent,omitempty"`
	BytesSent    uint64 `protobuf:"varint,9,opt,name=bytes_sent,proto3" json:"bytes_sent,omitempty"`
	SendFailures uint64 `protobuf:"varint,10,opt,name=send_failures,proto3" json:"send_failures,omitempty"`
	LastError    string `protobuf:"bytes,11,opt,name=last_error,proto3" json:"last_error,omitempty"`
	Timestamp    int64  `protobuf:"varint,12,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Report) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Report) Reset() { *m = Report{} }

// String implements proto.Message.
func (m *Report) String() string { return proto.CompactTextString(m) }

// SetSettings records the forwarding settings.
func (m *Report) SetSettings(s forward.Settings) *Report {
	m.Host, m.BaudRate = s.Host, s.BaudRate
	return m
}

// SetStats records session counters.
func (m *Report) SetStats(s forward.StatsSnapshot) *Report {
	m.LinesRead = s.LinesRead
	m.PacketsSent = s.PacketsSent
	m.BytesSent = s.BytesSent
	m.SendFailures = s.SendFailures
	m.LastError = s.LastError
	return m
}

// Stamp sets Timestamp in unix milliseconds.
func (m *Report) Stamp(t time.Time) *Report {
	m.Timestamp = t.UnixNano() / int64(time.Millisecond)
	return m
}

// Encode serializes the report.
func (m *Report) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// Decode parses a serialized report.
func Decode(b []byte) (*Report, error) {
	m := &Report{}
	if err := proto.Unmarshal(b, m); err != nil {
		return nil, err
	}
	return m, nil
}
