package generator

import (
	"github.com/katalvlaran/pcfgguess/preterm"
	"github.com/katalvlaran/pcfgguess/pqueue"
)

// PushChildren enumerates parent's neighbors, one per slot that has a
// lower-probability successor, and pushes onto q each one for which
// parent is the designated (lowest-probability) parent. Candidates below
// q.Floor() are dropped without a designated-parent check, matching the
// floor-then-ownership order of the original push loop.
func PushChildren(q *pqueue.Queue, parent preterm.PreTerminal) error {
	dadProb := parent.Joint
	for i, slot := range parent.Slots {
		next, ok := slot.Next()
		if !ok {
			continue
		}
		child := parent.WithSlot(i, next)
		if child.Joint < q.Floor() {
			continue
		}
		if !isDesignatedParent(child, i, dadProb) {
			continue
		}
		if _, err := q.Push(child); err != nil {
			return err
		}
	}
	return nil
}

// isDesignatedParent reports whether the parent that advanced slot
// parentAxis to reach child (itself at joint probability dadProb) is
// child's lowest-probability parent.
//
// Every slot other than parentAxis names an alternate potential parent:
// the pre-terminal obtained by stepping that slot back toward its
// chain's head instead. If that alternate parent's joint probability is
// lower than dadProb, it pops later and will push child itself — parent
// must defer. If it ties, the parent reached via the higher slot index
// is the designated one (an arbitrary but consistent tiebreak). A slot
// already at its chain head has no real alternate parent; it is treated
// as having a hypothetical parent of probability 1, which can never
// disqualify parent.
func isDesignatedParent(child preterm.PreTerminal, parentAxis int, dadProb float64) bool {
	for k := range child.Slots {
		if k == parentAxis {
			continue
		}
		_, prevProb, hasPrev := child.Slots[k].Prev()
		var altProb float64
		if !hasPrev {
			altProb = 1
		} else {
			altProb = child.BaseProbability
			for j, s := range child.Slots {
				if j == k {
					altProb *= prevProb
				} else {
					altProb *= s.Probability()
				}
			}
		}
		switch {
		case altProb == dadProb:
			if k > parentAxis {
				return false
			}
		case altProb < dadProb:
			return false
		}
	}
	return true
}
