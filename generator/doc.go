// Package generator advances pre-terminals through the grammar's DAG.
//
// PushChildren implements the pop-time expansion step: given the
// pre-terminal a pqueue.Queue just popped, it enumerates one candidate
// child per slot (that slot stepped to its chain's next, lower-
// probability node) and pushes each child exactly once, even though a
// child with more than one slot may be reachable by stepping any of
// several different slots. Uniqueness is enforced by a designated-parent
// rule: a child is only pushed by whichever of its real parents has the
// lowest joint probability, since that parent is guaranteed to be the
// last one popped among them.
//
// Rebuild implements the second way pre-terminals enter the queue: after
// the queue drains below its floor, every base structure is re-walked
// from its chain heads to find the pre-terminals inside the probability
// window the floor just vacated, inserting only the ones with no
// surviving parent above the window (their real parents, if any, are
// also being regenerated by this same walk). The walk is written
// iteratively with an explicit stack rather than recursively, since base
// structures can have enough slots and chain depth to risk a deep
// native call stack.
package generator
