// Package ping checks reachability of the destination host with one ICMP echo.
package ping

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const protocolICMP = 1

// DefaultTimeout bounds a single Ping.
const DefaultTimeout = 3 * time.Second

// ErrNoReply is returned when no matching echo reply arrived in time.
var ErrNoReply = errors.New("no echo reply")

// listen prefers an unprivileged datagram socket and falls back to a raw one.
func listen() (*icmp.PacketConn, bool, error) {
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err == nil {
		return conn, true, nil
	}
	glog.V(3).Infof("unprivileged icmp unavailable: %v", err)
	conn, err = icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return nil, false, err
	}
	return conn, false, nil
}

// Ping sends one echo request to host and returns the round trip time.
func Ping(ctx context.Context, host string, timeout time.Duration) (time.Duration, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return 0, err
	}
	var ip net.IP
	for _, addr := range ips {
		if v4 := addr.IP.To4(); v4 != nil {
			ip = v4
			break
		}
	}
	if ip == nil {
		return 0, fmt.Errorf("%s: no IPv4 address", host)
	}

	conn, unprivileged, err := listen()
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var dst net.Addr = &net.IPAddr{IP: ip}
	if unprivileged {
		dst = &net.UDPAddr{IP: ip}
	}
	seq := rand.Intn(1 << 16)
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Body: &icmp.Echo{
			ID:   os.Getpid() & 0xffff,
			Seq:  seq,
			Data: []byte("serbridge"),
		},
	}
	b, err := msg.Marshal(nil)
	if err != nil {
		return 0, err
	}

	deadline, _ := ctx.Deadline()
	conn.SetDeadline(deadline)
	start := time.Now()
	if _, err := conn.WriteTo(b, dst); err != nil {
		return 0, err
	}

	buf := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return 0, ErrNoReply
			}
			return 0, err
		}
		reply, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil {
			continue
		}
		if reply.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		echo, ok := reply.Body.(*icmp.Echo)
		if !ok || echo.Seq != seq {
			continue
		}
		rtt := time.Since(start)
		glog.V(2).Infof("echo reply from %s: %v", peer, rtt)
		return rtt, nil
	}
}
