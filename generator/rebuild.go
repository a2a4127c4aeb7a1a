package generator

import (
	"fmt"

	"github.com/katalvlaran/pcfgguess/preterm"
	"github.com/katalvlaran/pcfgguess/pqueue"
)

// Rebuild re-walks every base structure in heads (each a pre-terminal
// with every slot at its chain head) and inserts into q every pre-
// terminal whose joint probability falls in (q.Floor(), maxFloor] and
// has no surviving real parent above maxFloor. Callers normally
// q.SetFloor(0) before calling Rebuild, passing the queue's floor from
// just before it drained as maxFloor, then let q's own cap-triggered Trim
// re-establish a floor as entries accumulate.
func Rebuild(q *pqueue.Queue, heads []preterm.PreTerminal, maxFloor float64) error {
	// Items already in the queue are never re-inserted: a rebuild against
	// an already-valid heap state with the same window is a no-op.
	existing := make(map[string]struct{}, q.Len())
	for _, pt := range q.Snapshot() {
		existing[memberKey(pt)] = struct{}{}
	}
	for _, head := range heads {
		if err := rebuildOne(q, head, maxFloor, existing); err != nil {
			return err
		}
	}
	return nil
}

// memberKey identifies a queue member: the slot tuple plus the base
// probability, so structures that happen to share a slot tuple are still
// told apart.
func memberKey(pt preterm.PreTerminal) string {
	return fmt.Sprintf("%s@%g", pt.Fingerprint(), pt.BaseProbability)
}

// rebuildFrame mirrors one activation of the recursive per-position walk:
// the position it iterates, the node currently being tried there, the
// product of the base probability and every probability fixed at a
// lower position index, and whether node is still the first value tried
// at this position (no sibling below it has been tried yet).
type rebuildFrame struct {
	pos         int
	node        preterm.SlotRef
	prefix      float64
	firstAndOut bool
}

// rebuildOne walks one base structure with an explicit stack standing in
// for the call stack of a recursive per-position descent: pos 0 tries
// every node in its chain (outermost), and for each one descends into
// pos+1, and so on down to the last position (the leaf), where a
// candidate is actually tested against the probability window and
// pushed. The "returnValue" a recursive call would hand back to its
// caller is threaded here as pendingReturn:
//
//   - 1 means "nothing below q.Floor() remains reachable from this
//     subtree" — if the frame that receives it was itself trying its own
//     first (highest-probability) node, that news cascades to its own
//     caller unchanged (there is even less reason for the caller to keep
//     trying lower nodes); otherwise the frame stops its own loop but
//     reports 0, since it already found something of interest before
//     this point.
//   - 0 means "keep going" — the frame advances its own node and tries
//     again.
func rebuildOne(q *pqueue.Queue, head preterm.PreTerminal, maxFloor float64, existing map[string]struct{}) error {
	size := head.Arity()
	current := make([]preterm.SlotRef, size)

	stack := []*rebuildFrame{{pos: 0, node: head.Slots[0], prefix: head.BaseProbability, firstAndOut: true}}
	pendingReturn := -1 // -1: no pending child result; visit top fresh.

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if pendingReturn != -1 {
			r := pendingReturn
			pendingReturn = -1
			if r == 1 {
				stack = stack[:len(stack)-1]
				if top.firstAndOut {
					pendingReturn = 1
				} else {
					pendingReturn = 0
				}
				continue
			}
			// r == 0: advance this frame's node and keep looping.
			next, ok := top.node.Next()
			if !ok {
				stack = stack[:len(stack)-1]
				if top.firstAndOut {
					pendingReturn = 1
				} else {
					pendingReturn = 0
				}
				continue
			}
			top.node = next
			top.firstAndOut = false
			current[top.pos] = top.node
			stack = append(stack, &rebuildFrame{
				pos:         top.pos + 1,
				node:        head.Slots[top.pos+1],
				prefix:      top.prefix * top.node.Probability(),
				firstAndOut: true,
			})
			continue
		}

		current[top.pos] = top.node
		curProbability := top.prefix * top.node.Probability()

		if top.pos == size-1 {
			switch {
			case curProbability < q.Floor():
				stack = stack[:len(stack)-1]
				if top.firstAndOut {
					pendingReturn = 1
				} else {
					pendingReturn = 0
				}
			case curProbability <= maxFloor:
				if isOnlyChild(current, head.BaseProbability, maxFloor) {
					pt, err := preterm.New(head.BaseProbability, append([]preterm.SlotRef(nil), current...))
					if err != nil {
						return err
					}
					if _, dup := existing[memberKey(pt)]; !dup {
						if _, err := q.Push(pt); err != nil {
							return err
						}
					}
				}
				stack = stack[:len(stack)-1]
				if top.firstAndOut {
					pendingReturn = 1
				} else {
					pendingReturn = 0
				}
			default: // curProbability > maxFloor: try the next (lower) node here.
				next, ok := top.node.Next()
				if !ok {
					stack = stack[:len(stack)-1]
					if top.firstAndOut {
						pendingReturn = 1
					} else {
						pendingReturn = 0
					}
					continue
				}
				top.node = next
				top.firstAndOut = false
			}
			continue
		}

		// Non-leaf: descend into pos+1 with this node fixed.
		stack = append(stack, &rebuildFrame{
			pos:         top.pos + 1,
			node:        head.Slots[top.pos+1],
			prefix:      curProbability,
			firstAndOut: true,
		})
	}
	return nil
}

// isOnlyChild reports whether every slot of current, other than the last
// (the leaf position the caller just fixed), has no real parent above
// maxProbLimit — meaning current has no existing queue member able to
// reach it by advancing a single slot, and must be inserted directly. The
// leaf slot's own parent is never checked: by construction of the walk,
// the node that was tried immediately before current's leaf value (if
// any) already had a probability exceeding maxProbLimit, so that
// alternate parent can never disqualify current.
func isOnlyChild(current []preterm.SlotRef, baseProbability, maxProbLimit float64) bool {
	size := len(current)
	for i := 0; i < size-1; i++ {
		_, prevProb, hasPrev := current[i].Prev()
		var parentProb float64
		if !hasPrev {
			parentProb = 1
		} else {
			parentProb = baseProbability
			for j, s := range current {
				if j == i {
					parentProb *= prevProb
				} else {
					parentProb *= s.Probability()
				}
			}
		}
		if parentProb <= maxProbLimit {
			return false
		}
	}
	return true
}
