package pqueue

import (
	"container/heap"

	"github.com/katalvlaran/pcfgguess/preterm"
)

// item wraps a preterm.PreTerminal with an insertion sequence number so
// that equal-probability items pop in FIFO (insertion) order.
type item struct {
	pt  preterm.PreTerminal
	seq uint64
}

// innerHeap is a max-heap of *item ordered by descending joint
// probability, ties broken by ascending insertion sequence. It implements
// container/heap.Interface; Queue is the public wrapper that enforces the
// cap/floor/state invariants around it.
type innerHeap []*item

func (h innerHeap) Len() int { return len(h) }

func (h innerHeap) Less(i, j int) bool {
	if h[i].pt.Joint != h[j].pt.Joint {
		return h[i].pt.Joint > h[j].pt.Joint
	}
	return h[i].seq < h[j].seq
}

func (h innerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push is called by container/heap.Push; x must be *item.
func (h *innerHeap) Push(x interface{}) { *h = append(*h, x.(*item)) }

// Pop is called by container/heap.Pop; returns the last slice element.
func (h *innerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Queue is the bounded max-heap priority queue of pre-terminals. The zero
// value is not usable; construct with New.
type Queue struct {
	h     innerHeap
	cap   int // <=0 means unbounded
	floor float64
	state State
	nextSeq uint64
}

// New creates an empty Queue with the given cap (<=0 for unbounded) in the
// Seeded state.
func New(cap int) *Queue {
	q := &Queue{cap: cap, state: Seeded}
	heap.Init(&q.h)
	return q
}

// Len returns the current number of items in the queue.
func (q *Queue) Len() int { return q.h.Len() }

// Floor returns the current probability floor: no item below it may be
// enqueued.
func (q *Queue) Floor() float64 { return q.floor }

// SetFloor forcibly sets the floor. Used by a rebuild pass, which lowers
// the floor to 0 before re-walking base structures; a subsequent Trim may
// raise it again.
func (q *Queue) SetFloor(f float64) { q.floor = f }

// State returns the current lifecycle state.
func (q *Queue) State() State { return q.state }

// SetState transitions the queue to s. The queue does not itself validate
// transition legality; the main loop (package engine) drives the state
// machine and is the single writer.
func (q *Queue) SetState(s State) { q.state = s }

// Push inserts pt if its joint probability is >= the current floor,
// returning whether it was inserted. A joint probability <= 0 or > 1 is a
// fatal ErrProbabilityViolation regardless of floor. If the push makes the
// queue reach its cap, Trim runs automatically.
func (q *Queue) Push(pt preterm.PreTerminal) (inserted bool, err error) {
	if pt.Joint <= 0 || pt.Joint > 1 {
		return false, ErrProbabilityViolation
	}
	if pt.Joint < q.floor {
		return false, nil
	}
	heap.Push(&q.h, &item{pt: pt, seq: q.nextSeq})
	q.nextSeq++
	if q.cap > 0 && q.h.Len() >= q.cap {
		if err := q.Trim(); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Clear removes every item, leaving cap, floor, and state untouched. A
// restore pass clears before re-walking base structures so stale seeds
// never mix with the rebuilt window.
func (q *Queue) Clear() {
	for i := range q.h {
		q.h[i] = nil
	}
	q.h = q.h[:0]
}

// Pop removes and returns the highest-probability pre-terminal.
func (q *Queue) Pop() (preterm.PreTerminal, error) {
	if q.h.Len() == 0 {
		return preterm.PreTerminal{}, ErrEmpty
	}
	it := heap.Pop(&q.h).(*item)
	return it.pt, nil
}

// Peek returns the highest-probability pre-terminal without removing it.
func (q *Queue) Peek() (preterm.PreTerminal, bool) {
	if q.h.Len() == 0 {
		return preterm.PreTerminal{}, false
	}
	return q.h[0].pt, true
}

// Snapshot returns every pre-terminal currently in the queue, for
// diagnostics and rebuild-idempotence tests. The returned slice is a
// copy; mutating it does not affect the queue.
func (q *Queue) Snapshot() []preterm.PreTerminal {
	out := make([]preterm.PreTerminal, len(q.h))
	for i, it := range q.h {
		out[i] = it.pt
	}
	return out
}
