package forward

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/serbridge/pkg/wire"
)

// DefaultInterval is the idle pause after each forwarded line.
const DefaultInterval = 250 * time.Millisecond

// Forwarder reads lines from Source and sends each one as a framed datagram
// to the host and baud rate currently provided by Settings.
type Forwarder struct {
	Source   LineSource
	Settings SettingsProvider
	// Sender defaults to a UDPSender owned by Run.
	Sender Sender
	// Port defaults to wire.DefaultPort.
	Port int
	// Interval is the idle pause after each line. Zero selects
	// DefaultInterval, a negative value disables the pause.
	Interval time.Duration
	// OnStop, if set, is called exactly once when Run returns.
	OnStop func(error)
	// Debug logs every forwarded line.
	Debug bool
	Stats *Stats
}

type lineResult struct {
	line []byte
	err  error
}

func (f *Forwarder) port() int {
	if f.Port > 0 {
		return f.Port
	}
	return wire.DefaultPort
}

func (f *Forwarder) interval() time.Duration {
	if f.Interval == 0 {
		return DefaultInterval
	}
	return f.Interval
}

// readLines reads one line per request so nothing is consumed from the
// source beyond what the loop asks for.
func (f *Forwarder) readLines(ctx context.Context, reqCh <-chan struct{}, lineCh chan<- lineResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-reqCh:
		}
		line, err := f.Source.ReadLine()
		select {
		case lineCh <- lineResult{line: line, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// Run forwards lines until ctx is cancelled or a fatal error happens.
// Cancellation returns nil. Send failures are logged and counted but never
// end the loop. The source is closed on return if it is an io.Closer.
func (f *Forwarder) Run(ctx context.Context) (err error) {
	if f.Stats == nil {
		f.Stats = &Stats{}
	}
	if f.OnStop != nil {
		defer func() { f.OnStop(err) }()
	}
	if closer, ok := f.Source.(io.Closer); ok {
		defer closer.Close()
	}

	sender := f.Sender
	if sender == nil {
		udp, e := NewUDPSender()
		if e != nil {
			return fmt.Errorf("open udp socket: %w", e)
		}
		defer udp.Close()
		sender = udp
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reqCh := make(chan struct{}, 1)
	lineCh := make(chan lineResult)
	go f.readLines(ctx, reqCh, lineCh)

	port, interval := f.port(), f.interval()
	for {
		if ctx.Err() != nil {
			return nil
		}
		reqCh <- struct{}{}
		var res lineResult
		select {
		case <-ctx.Done():
			return nil
		case res = <-lineCh:
		}
		if ctx.Err() != nil {
			return nil
		}
		if res.err != nil {
			err = &ReadError{Err: res.err}
			f.Stats.setErr(err)
			return err
		}
		f.Stats.lineRead()

		settings := f.Settings.Settings()
		if !settings.Resolved() {
			f.Stats.setErr(ErrInvalidConfiguration)
			return ErrInvalidConfiguration
		}
		buf, e := wire.Encode(res.line, settings.BaudRate)
		if errors.Is(e, wire.ErrInvalidBaudRate) {
			e = ErrInvalidConfiguration
		}
		if e != nil {
			f.Stats.setErr(e)
			return e
		}
		if f.Debug {
			glog.Infof("line %q -> %s:%d @%d", res.line, settings.Host, port, settings.BaudRate)
		} else {
			glog.V(2).Infof("line %q -> %s:%d @%d", res.line, settings.Host, port, settings.BaudRate)
		}
		if e := sender.SendTo(settings.Host, port, buf); e != nil {
			sendErr := &SendError{Host: settings.Host, Err: e}
			f.Stats.sendFailed(sendErr)
			glog.Warning(sendErr)
		} else {
			f.Stats.packetSent(len(buf))
		}

		if interval > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}
}
