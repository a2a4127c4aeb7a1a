package pqueue

import (
	"container/heap"
	"sort"
)

// Trim reduces the queue to its retained working set: when the queue is
// at or above cap, it keeps only the top ⌊cap/2⌋ items by probability,
// except that any item whose
// probability equals that of the last retained item is also kept — ties
// are never split across the retain/discard boundary. The probability of
// the first item actually discarded becomes the new Floor.
//
// If every item ties at the boundary probability, nothing is discarded and
// the floor is left unchanged (there is no "first discarded item").
func (q *Queue) Trim() error {
	if q.cap <= 0 || q.h.Len() < q.cap {
		return ErrNotFull
	}

	sorted := make([]*item, len(q.h))
	copy(sorted, q.h)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].pt.Joint != sorted[j].pt.Joint {
			return sorted[i].pt.Joint > sorted[j].pt.Joint
		}
		return sorted[i].seq < sorted[j].seq
	})

	keep := q.cap / 2
	if keep == 0 {
		keep = 1
	}
	if keep > len(sorted) {
		keep = len(sorted)
	}

	boundary := sorted[keep-1].pt.Joint
	j := keep
	for j < len(sorted) && sorted[j].pt.Joint == boundary {
		j++
	}

	retained := sorted[:j]
	if j < len(sorted) {
		q.floor = sorted[j].pt.Joint
	}

	q.h = make(innerHeap, len(retained))
	copy(q.h, retained)
	heap.Init(&q.h)
	return nil
}
