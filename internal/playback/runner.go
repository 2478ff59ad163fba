package playback

import (
	"context"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// ErrStopped is returned by Do once the runner has exited.
var ErrStopped = errors.New("playback runner stopped")

// Runner is the single execution context of an Orchestrator. It runs
// submitted commands and session events one at a time, and publishes a
// Status after each.
type Runner struct {
	orch   *Orchestrator
	cmds   chan command
	done   chan struct{}
	status atomic.Pointer[Status]
}

// command is a unit of work; reply, if set, receives its error once the
// resulting Status is published.
type command struct {
	run   func() error
	reply chan<- error
}

// NewRunner creates the runner for o. Run must be called exactly once.
func NewRunner(o *Orchestrator) *Runner {
	r := &Runner{
		orch: o,
		cmds: make(chan command),
		done: make(chan struct{}),
	}
	o.post = r.post
	st := o.Status()
	r.status.Store(&st)
	return r
}

// Run processes commands and session events until ctx is done, then closes
// the orchestrator.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	defer r.orch.Close()

	events := r.orch.session.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-r.cmds:
			err := cmd.run()
			r.publish()
			if cmd.reply != nil {
				cmd.reply <- err
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			r.orch.HandleEvent(ev)
			r.publish()
		}
	}
}

func (r *Runner) publish() {
	st := r.orch.publish()
	r.status.Store(&st)
}

// Do runs fn on the execution context and returns its error. It must not be
// called from fn itself or from a Listener.
func (r *Runner) Do(ctx context.Context, fn func(*Orchestrator) error) error {
	errc := make(chan error, 1)
	cmd := command{run: func() error { return fn(r.orch) }, reply: errc}
	select {
	case r.cmds <- cmd:
	case <-r.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) post(ctx context.Context, fn func()) {
	select {
	case r.cmds <- command{run: func() error { fn(); return nil }}:
	case <-r.done:
	case <-ctx.Done():
	}
}

// Status returns the state published after the last command or event. It is
// safe to call from any goroutine.
func (r *Runner) Status() Status {
	return *r.status.Load()
}
