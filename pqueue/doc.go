// Package pqueue implements the bounded-memory max-heap priority queue of
// pre-terminals that drives the guess order, along with its trim/rebuild-
// floor bookkeeping and its four-state lifecycle (Seeded, Draining,
// Rebuilding, Exhausted).
//
// The queue itself does not know how to enumerate children or re-walk base
// structures — that is package generator's job. pqueue only guarantees:
// pop always returns the current maximum, no item below Floor() is ever
// retained, and Trim preserves exact top-k-with-ties semantics.
package pqueue
