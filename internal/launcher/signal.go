package launcher

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Signals trapped for the lifetime of a run.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// Relay routes termination signals for one run. Before a child is attached
// a signal cancels the run's context so resolution and staging unwind
// through their normal cleanup; while a child runs the signal is passed to
// it instead and the parent keeps waiting.
//
// A nil *Relay is valid and does nothing.
type Relay struct {
	cancel context.CancelFunc

	mu       sync.Mutex
	child    *os.Process
	received os.Signal

	ch   chan os.Signal
	done chan struct{}
	once sync.Once
}

// NewRelay returns a relay and a context that it cancels. Call Listen to
// start trapping process signals and Stop when the run is over.
func NewRelay(parent context.Context) (context.Context, *Relay) {
	ctx, cancel := context.WithCancel(parent)
	return ctx, &Relay{cancel: cancel, done: make(chan struct{})}
}

// Listen traps Signals until Stop is called.
func (r *Relay) Listen() {
	r.ch = make(chan os.Signal, 4)
	signal.Notify(r.ch, Signals...)

	go func() {
		for {
			select {
			case sig := <-r.ch:
				r.Forward(sig)
			case <-r.done:
				return
			}
		}
	}()
}

// Forward delivers sig to the attached child, or cancels the run if no
// child is running.
func (r *Relay) Forward(sig os.Signal) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.received = sig
	if r.child != nil {
		_ = r.child.Signal(sig)
		return
	}
	r.cancel()
}

// Received returns the last signal seen, or nil.
func (r *Relay) Received() os.Signal {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.received
}

// Stop restores default signal handling and cancels the context.
func (r *Relay) Stop() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		if r.ch != nil {
			signal.Stop(r.ch)
		}
		close(r.done)
		r.cancel()
	})
}

// attach routes later signals to p. A signal that arrived between the
// caller's last context check and the spawn is delivered immediately.
func (r *Relay) attach(p *os.Process) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.child = p
	if r.received != nil {
		_ = p.Signal(r.received)
	}
}

func (r *Relay) detach() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.child = nil
}
