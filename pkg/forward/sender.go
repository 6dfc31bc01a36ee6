package forward

import (
	"net"
	"strconv"
)

// Sender delivers datagrams.
type Sender interface {
	SendTo(host string, port int, b []byte) error
	Close() error
}

// UDPSender sends from a single unconnected UDP socket. The host is resolved
// on every send as it may change between lines.
type UDPSender struct {
	conn net.PacketConn
}

// NewUDPSender opens the socket.
func NewUDPSender() (*UDPSender, error) {
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, err
	}
	return &UDPSender{conn: conn}, nil
}

// SendTo implements Sender.
func (s *UDPSender) SendTo(host string, port int, b []byte) error {
	if host == "" {
		return ErrNoHost
	}
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return err
	}
	_, err = s.conn.WriteTo(b, addr)
	return err
}

// LocalAddr returns the local address of the socket.
func (s *UDPSender) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Close implements Sender.
func (s *UDPSender) Close() error {
	return s.conn.Close()
}
