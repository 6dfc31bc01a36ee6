// Package monitor receives bridge datagrams and decodes them.
package monitor

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	"github.com/golang/glog"

	fx "github.com/robotalks/serbridge/pkg/framework"
	"github.com/robotalks/serbridge/pkg/wire"
)

// Handler is called for each valid packet.
type Handler func(from net.Addr, p *wire.Packet)

// Counters of received datagrams.
type Counters struct {
	Good uint64
	Bad  uint64
}

// Monitor listens for datagrams on a UDP address.
type Monitor struct {
	Addr    string
	Handler Handler

	conn net.PacketConn
	good atomic.Uint64
	bad  atomic.Uint64
}

// New creates a Monitor bound to addr, e.g. ":9000".
func New(addr string, handler Handler) (*Monitor, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, err
	}
	return &Monitor{Addr: addr, Handler: handler, conn: conn}, nil
}

// Name implements framework.Named.
func (m *Monitor) Name() string {
	return "monitor"
}

// LocalAddr returns the bound address.
func (m *Monitor) LocalAddr() net.Addr {
	return m.conn.LocalAddr()
}

// Counters returns the received counters.
func (m *Monitor) Counters() Counters {
	return Counters{Good: m.good.Load(), Bad: m.bad.Load()}
}

// Run implements framework.Runnable. The socket is closed on return.
func (m *Monitor) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, m.conn, m.receive)
}

func (m *Monitor) receive() error {
	buf := make([]byte, wire.Overhead+wire.MaxPayloadSize)
	for {
		n, from, err := m.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		p, err := wire.Decode(buf[:n])
		if err != nil {
			m.bad.Add(1)
			glog.Warningf("%s: bad datagram (%d bytes): %v", from, n, err)
			continue
		}
		m.good.Add(1)
		if m.Handler != nil {
			m.Handler(from, p)
		}
	}
}

// LogPacket is a Handler logging packets.
func LogPacket(from net.Addr, p *wire.Packet) {
	glog.Infof("%s @%d: %q", from, p.BaudRate, p.Payload)
}
