package forward

import (
	"context"
	"errors"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// Session runs a Forwarder in the background.
type Session struct {
	ID string

	fwd    *Forwarder
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start launches the forwarding loop. The session ends when Stop is called,
// ctx is cancelled or the loop fails.
func Start(ctx context.Context, fwd *Forwarder) *Session {
	if fwd.Stats == nil {
		fwd.Stats = &Stats{}
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:     uuid.NewString(),
		fwd:    fwd,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	glog.Infof("session %s started", s.ID)
	go s.run(ctx)
	return s
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.cancel()
	s.err = s.fwd.Run(ctx)
	switch {
	case s.err == nil:
		glog.Infof("session %s stopped", s.ID)
	case errors.Is(s.err, ErrInvalidConfiguration):
		glog.Errorf("session %s stopped: %v", s.ID, s.err)
	default:
		glog.Errorf("session %s failed: %v", s.ID, s.err)
	}
}

// Stop requests the session to stop. It does not wait.
func (s *Session) Stop() {
	s.cancel()
}

// Close stops the session and waits for it.
func (s *Session) Close() error {
	s.Stop()
	return s.Wait()
}

// Wait blocks until the session ends and returns its error.
func (s *Session) Wait() error {
	<-s.done
	return s.err
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the reason the session ended, nil while running or after a
// requested stop.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Running reports whether the session has not ended yet.
func (s *Session) Running() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() StatsSnapshot {
	return s.fwd.Stats.Snapshot()
}
