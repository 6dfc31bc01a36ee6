package forward

import (
	"sync"
	"sync/atomic"
)

// Stats counts session activity.
type Stats struct {
	linesRead    atomic.Uint64
	packetsSent  atomic.Uint64
	bytesSent    atomic.Uint64
	sendFailures atomic.Uint64

	lock    sync.Mutex
	lastErr error
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	LinesRead    uint64
	PacketsSent  uint64
	BytesSent    uint64
	SendFailures uint64
	LastError    string
}

func (s *Stats) lineRead() {
	s.linesRead.Add(1)
}

func (s *Stats) packetSent(n int) {
	s.packetsSent.Add(1)
	s.bytesSent.Add(uint64(n))
}

func (s *Stats) sendFailed(err error) {
	s.sendFailures.Add(1)
	s.setErr(err)
}

func (s *Stats) setErr(err error) {
	s.lock.Lock()
	s.lastErr = err
	s.lock.Unlock()
}

// Snapshot copies the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		LinesRead:    s.linesRead.Load(),
		PacketsSent:  s.packetsSent.Load(),
		BytesSent:    s.bytesSent.Load(),
		SendFailures: s.sendFailures.Load(),
	}
	s.lock.Lock()
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	s.lock.Unlock()
	return snap
}
