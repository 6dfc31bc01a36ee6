package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Runner.Wait when a second stop signal arrives.
var ErrForcedExit = errors.New("forced exit")

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name used in logs.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

type runResult struct {
	name string
	err  error
}

// Runner runs Runnables sharing one context. The first Runnable failing
// stops the others. Runnables ending with nil or context.Canceled are
// clean stops and never reported by Wait.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc

	count       int
	resultCh    chan runResult
	forcedCh    chan struct{}
	stopSignals func()
}

// NewRunner creates a runner under ctx.
func NewRunner(ctx context.Context) *Runner {
	ctx, cancel := context.WithCancel(ctx)
	return &Runner{
		ctx:         ctx,
		cancel:      cancel,
		resultCh:    make(chan runResult),
		forcedCh:    make(chan struct{}),
		stopSignals: func() {},
	}
}

// Context is the context passed to Runnables.
func (r *Runner) Context() context.Context {
	return r.ctx
}

// HandleSignals stops the Runnables on SIGINT/SIGTERM. A second signal
// makes Wait return ErrForcedExit without waiting. Signals are released
// when Wait returns.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	doneCh := make(chan struct{})
	r.stopSignals = func() {
		signal.Stop(sigCh)
		close(doneCh)
	}
	go func() {
		select {
		case sig := <-sigCh:
			glog.Infof("%v: stop requested", sig)
			r.cancel()
		case <-doneCh:
			return
		}
		select {
		case <-sigCh:
			glog.Error("stop requested again, force exit")
			close(r.forcedCh)
		case <-doneCh:
		}
	}()
	return r
}

// Go starts Runnables.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, runnable := range runnables {
		name := fmt.Sprintf("runnable#%d", r.count)
		if named, ok := runnable.(Named); ok {
			name = named.Name()
		}
		r.count++
		go func(runnable Runnable, name string) {
			glog.V(4).Infof("%s started", name)
			r.resultCh <- runResult{name: name, err: runnable.Run(r.ctx)}
		}(runnable, name)
	}
	return r
}

// Stop requests all Runnables to stop.
func (r *Runner) Stop() {
	r.cancel()
}

// Wait waits until all Runnables stop and aggregates their failures.
func (r *Runner) Wait() error {
	defer r.stopSignals()
	defer r.cancel()
	var errs AggregatedError
	for n := 0; n < r.count; n++ {
		select {
		case <-r.forcedCh:
			return ErrForcedExit
		case res := <-r.resultCh:
			if res.err == nil || errors.Is(res.err, context.Canceled) {
				glog.V(4).Infof("%s stopped", res.name)
				continue
			}
			glog.Errorf("%s failed: %v", res.name, res.err)
			errs.Add(fmt.Errorf("%s: %w", res.name, res.err))
			r.cancel()
		}
	}
	return errs.Aggregate()
}

// RunWithContextCloser runs fn which doesn't accept a context. When ctx is
// done, closer is closed to make fn return and ctx.Err() is returned.
// closer is closed exactly once in either case.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case err := <-errCh:
		closer.Close()
		return err
	case <-ctx.Done():
		closer.Close()
		<-errCh
		return ctx.Err()
	}
}
