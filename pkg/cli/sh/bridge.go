package sh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/robotalks/serbridge/pkg/env"
	fx "github.com/robotalks/serbridge/pkg/framework"
	"github.com/robotalks/serbridge/pkg/forward"
	"github.com/robotalks/serbridge/pkg/serialport"
	"github.com/robotalks/serbridge/pkg/status"
)

// DefaultStatusInterval is how often a running session publishes status.
const DefaultStatusInterval = 5 * time.Second

// Port is the part of a serial port the bridge uses.
type Port interface {
	io.ReadWriteCloser
	SetMode(*serial.Mode) error
}

// OpenFunc opens a serial port.
type OpenFunc func(device string, opts serialport.Options) (Port, error)

func openSerial(device string, opts serialport.Options) (Port, error) {
	return serialport.Open(device, opts)
}

// Bridge holds the serial port, the forwarding settings and the session.
type Bridge struct {
	Config    *env.Config
	Settings  *forward.Config
	Publisher status.Publisher
	Open      OpenFunc
	// OnSessionEnd is called once for every session when it ends.
	OnSessionEnd   func(sess *forward.Session, err error)
	StatusInterval time.Duration

	lock    sync.Mutex
	device  string
	port    Port
	opts    serialport.Options
	session *forward.Session
	last    *forward.Session
	seq     uint64

	pubLock sync.Mutex
	pubSeq  uint64
}

// NewBridge creates a Bridge from conf.
func NewBridge(conf *env.Config) *Bridge {
	return &Bridge{
		Config:         conf,
		Settings:       conf.Settings(),
		Publisher:      status.Nop{},
		Open:           openSerial,
		StatusInterval: DefaultStatusInterval,
	}
}

// OpenPort opens device at baud. An unknown baud rate is refused.
// A previously opened port is closed.
func (b *Bridge) OpenPort(device, baud string) error {
	rate, err := serialport.ParseBaudRate(baud)
	if err != nil {
		return err
	}
	opts, err := serialport.Options{BaudRate: rate}.Normalize()
	if err != nil {
		return err
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	if b.session != nil {
		return ErrForwarding
	}
	port, err := b.Open(device, opts)
	if err != nil {
		return err
	}
	if b.port != nil {
		b.port.Close()
	}
	b.device, b.port, b.opts = device, port, opts
	b.Settings.SetBaudRateValue(uint32(rate))
	glog.Infof("opened %s %s", device, opts)
	return nil
}

// ClosePort closes the serial port.
func (b *Bridge) ClosePort() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.session != nil {
		return ErrForwarding
	}
	if b.port == nil {
		return ErrNotOpen
	}
	err := b.port.Close()
	b.port = nil
	glog.Infof("closed %s", b.device)
	return err
}

// SetBaudRate changes the baud rate used by forwarding, effective from the
// next line. "unknown" makes a running session stop at its next line.
// Invalid rates are refused and leave the settings unchanged. An open port
// is reconfigured only while no session owns it.
func (b *Bridge) SetBaudRate(baud string) error {
	rate, err := serialport.ParseBaudRate(baud)
	if errors.Is(err, serialport.ErrUnknownBaudRate) {
		b.Settings.SetBaudRateValue(0)
		return nil
	}
	if err != nil {
		return err
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.port != nil && b.session == nil {
		opts := b.opts
		opts.BaudRate = rate
		mode, err := opts.Mode()
		if err != nil {
			return err
		}
		if err := b.port.SetMode(mode); err != nil {
			return fmt.Errorf("reconfigure %s: %w", b.device, err)
		}
		b.opts = opts
	}
	b.Settings.SetBaudRateValue(uint32(rate))
	return nil
}

// SetHost changes the destination host, effective from the next line.
func (b *Bridge) SetHost(host string) {
	b.Settings.SetHost(host)
}

// Connect starts forwarding from the open port. The session owns the port
// and closes it when it ends.
func (b *Bridge) Connect(ctx context.Context) (*forward.Session, error) {
	b.lock.Lock()
	var err error
	switch {
	case b.session != nil:
		err = ErrForwarding
	case b.port == nil:
		err = ErrNotOpen
	case b.Settings.Settings().Host == "":
		err = ErrNoHost
	}
	if err != nil {
		b.lock.Unlock()
		return nil, err
	}
	sess := forward.Start(ctx, &forward.Forwarder{
		Source:   forward.NewLineReader(b.port),
		Settings: b.Settings,
		Port:     b.Config.Port,
		Interval: b.Config.Interval,
		Debug:    b.Config.Debug,
	})
	b.session, b.last = sess, sess
	go b.watch(sess)
	report, seq := b.snapshotLocked()
	b.lock.Unlock()
	b.publishReport(report, seq)
	return sess, nil
}

// Disconnect stops forwarding and waits for the session to end.
func (b *Bridge) Disconnect() error {
	b.lock.Lock()
	sess := b.session
	b.lock.Unlock()
	if sess == nil {
		return ErrNotForwarding
	}
	err := sess.Close()
	b.ended(sess)
	return err
}

// Session returns the running session, nil if not forwarding.
func (b *Bridge) Session() *forward.Session {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.session
}

// Device returns the device name and whether the port is open.
func (b *Bridge) Device() (string, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.device, b.port != nil
}

// Prompt reflects the state of the bridge.
func (b *Bridge) Prompt() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	switch {
	case b.session != nil:
		return fmt.Sprintf("[%s => %s] > ", b.device, b.Settings.Settings().Host)
	case b.port != nil:
		return fmt.Sprintf("[%s] > ", b.device)
	default:
		return "[none] > "
	}
}

// Report builds the current status.
func (b *Bridge) Report() *status.Report {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.reportLocked()
}

func (b *Bridge) reportLocked() *status.Report {
	r := &status.Report{
		BridgeID: b.Config.ID(),
		State:    status.StateIdle,
		Device:   b.device,
	}
	r.SetSettings(b.Settings.Settings()).Stamp(time.Now())
	if sess := b.last; sess != nil {
		r.SessionID = sess.ID
		r.SetStats(sess.Stats())
		switch {
		case sess.Running():
			r.State = status.StateRunning
		case sess.Err() != nil:
			r.State = status.StateFailed
			r.LastError = sess.Err().Error()
		default:
			r.State = status.StateStopped
		}
	}
	return r
}

// snapshotLocked builds a report numbered in state change order.
func (b *Bridge) snapshotLocked() (*status.Report, uint64) {
	b.seq++
	return b.reportLocked(), b.seq
}

func (b *Bridge) snapshot() (*status.Report, uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.snapshotLocked()
}

// publishReport must be called without holding lock as publishing may block
// on the broker. A report older than the last published one is dropped.
func (b *Bridge) publishReport(r *status.Report, seq uint64) {
	b.pubLock.Lock()
	defer b.pubLock.Unlock()
	if seq <= b.pubSeq {
		return
	}
	b.pubSeq = seq
	if err := b.Publisher.Publish(r); err != nil {
		glog.Warningf("publish status: %v", err)
	}
}

// ended clears the session if it is still the current one and publishes
// the final status.
func (b *Bridge) ended(sess *forward.Session) {
	b.lock.Lock()
	if b.session != sess {
		b.lock.Unlock()
		return
	}
	b.session, b.port = nil, nil
	report, seq := b.snapshotLocked()
	b.lock.Unlock()
	b.publishReport(report, seq)
}

func (b *Bridge) watch(sess *forward.Session) {
	interval := b.StatusInterval
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.publishReport(b.snapshot())
		case <-sess.Done():
			b.ended(sess)
			if b.OnSessionEnd != nil {
				b.OnSessionEnd(sess, sess.Err())
			}
			return
		}
	}
}

// Close stops forwarding, closes the port and the publisher.
func (b *Bridge) Close() error {
	var errs fx.AggregatedError
	if sess := b.Session(); sess != nil {
		errs.Add(b.Disconnect())
	}
	b.lock.Lock()
	if b.port != nil {
		errs.Add(b.port.Close())
		b.port = nil
	}
	b.lock.Unlock()
	errs.Add(b.Publisher.Close())
	return errs.Aggregate()
}
