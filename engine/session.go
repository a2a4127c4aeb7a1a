package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/katalvlaran/pcfgguess/generator"
	"github.com/katalvlaran/pcfgguess/logging"
	"github.com/katalvlaran/pcfgguess/pqueue"
	"github.com/katalvlaran/pcfgguess/preterm"
)

// Handler consumes one popped pre-terminal: the materializer expands it
// to guesses, the precompute encoder serializes it.
type Handler interface {
	Handle(pt preterm.PreTerminal) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(pt preterm.PreTerminal) error

// Handle invokes f.
func (f HandlerFunc) Handle(pt preterm.PreTerminal) error { return f(pt) }

// Checkpointer persists the probability of the most recent pop so a
// crashed run can resume. A checkpoint failure is logged, never fatal.
type Checkpointer interface {
	Update(probability float64) error
}

// defaultCheckpointInterval matches the original cadence of one recovery
// rewrite per hundred pops.
const defaultCheckpointInterval = 100

// Option customizes a Session.
type Option func(*Session)

// WithLogger wires a logger; defaults to logging.Nop.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithCheckpointer wires recovery-file persistence.
func WithCheckpointer(c Checkpointer) Option {
	return func(s *Session) { s.checkpointer = c }
}

// WithMaxPreTerminals stops the run after n pops; 0 (the default) runs
// to exhaustion.
func WithMaxPreTerminals(n uint64) Option {
	return func(s *Session) { s.maxPreTerminals = n }
}

// WithCheckpointInterval overrides how many pops elapse between recovery
// rewrites. Panics on n == 0.
func WithCheckpointInterval(n uint64) Option {
	if n == 0 {
		panic("engine: WithCheckpointInterval requires n >= 1")
	}
	return func(s *Session) { s.checkpointEvery = n }
}

// Session is the single-writer state of one guessing run. The main loop
// (Run) owns the queue exclusively; Snapshot is the only concurrent
// entry point and touches nothing the loop mutates unguarded.
type Session struct {
	q       *pqueue.Queue
	heads   []preterm.PreTerminal
	handler Handler

	log             logging.Logger
	checkpointer    Checkpointer
	maxPreTerminals uint64
	checkpointEvery uint64

	mu         sync.Mutex
	current    preterm.PreTerminal
	hasCurrent bool
	popped     uint64
}

// New assembles a Session over a seeded queue. heads are the base
// structures' head-state pre-terminals, used by the rebuild pass when
// the queue drains.
func New(q *pqueue.Queue, heads []preterm.PreTerminal, handler Handler, opts ...Option) *Session {
	s := &Session{
		q:               q,
		heads:           heads,
		handler:         handler,
		log:             logging.Nop{},
		checkpointEvery: defaultCheckpointInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status is a point-in-time view of the run for status reporting.
type Status struct {
	State              pqueue.State
	QueueLen           int
	Popped             uint64
	Floor              float64
	CurrentProbability float64
	CurrentFingerprint string
}

// Snapshot returns the current run state. Safe to call from a signal or
// timer goroutine while Run is between pops.
func (s *Session) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		State:    s.q.State(),
		QueueLen: s.q.Len(),
		Popped:   s.popped,
		Floor:    s.q.Floor(),
	}
	if s.hasCurrent {
		st.CurrentProbability = s.current.Joint
		st.CurrentFingerprint = s.current.Fingerprint()
	}
	return st
}

// Checkpoint writes the current probability to the recovery file, if one
// is wired. Safe between pops, like Snapshot.
func (s *Session) Checkpoint() error {
	s.mu.Lock()
	pt, ok := s.current, s.hasCurrent
	s.mu.Unlock()
	if !ok || s.checkpointer == nil {
		return nil
	}
	return s.checkpointer.Update(pt.Joint)
}

func (s *Session) setCurrent(pt preterm.PreTerminal) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = pt
	s.hasCurrent = true
	s.popped++
	return s.popped
}

// Run drives the pop/handle/push loop until the queue exhausts, the
// pre-terminal cap is hit, or ctx is cancelled. Cancellation is
// cooperative: the in-flight pre-terminal is finished, the checkpoint
// flushed, and Run returns nil.
func (s *Session) Run(ctx context.Context) error {
	s.q.SetState(pqueue.Draining)

	for s.q.Len() > 0 {
		if ctx.Err() != nil {
			if err := s.Checkpoint(); err != nil {
				s.log.Warn("final checkpoint failed", "err", err.Error())
			}
			s.log.Info("run cancelled", "popped", s.popped)
			return nil
		}

		pt, err := s.q.Pop()
		if err != nil {
			return err
		}
		if pt.Joint < s.q.Floor() {
			return fmt.Errorf("%w: popped %g below floor %g", pqueue.ErrProbabilityViolation, pt.Joint, s.q.Floor())
		}

		popped := s.setCurrent(pt)
		if s.checkpointer != nil && popped%s.checkpointEvery == 0 {
			if err := s.checkpointer.Update(pt.Joint); err != nil {
				s.log.Warn("checkpoint update failed", "err", err.Error())
			}
		}

		if err := s.handler.Handle(pt); err != nil {
			return err
		}

		if s.maxPreTerminals > 0 && popped >= s.maxPreTerminals {
			s.log.Info("pre-terminal cap reached", "popped", popped)
			return nil
		}

		if err := generator.PushChildren(s.q, pt); err != nil {
			return err
		}

		if s.q.Len() == 0 {
			s.q.SetState(pqueue.Rebuilding)
			maxFloor := s.q.Floor()
			s.q.SetFloor(0)
			if err := generator.Rebuild(s.q, s.heads, maxFloor); err != nil {
				return err
			}
			if s.q.Len() == 0 {
				s.log.Info("queue exhausted", "popped", s.popped, "maxFloor", maxFloor)
				break
			}
			s.q.SetState(pqueue.Draining)
		}
	}

	s.q.SetState(pqueue.Exhausted)
	return nil
}
