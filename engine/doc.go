// Package engine owns the main guessing loop: the explicit Session value
// that ties the priority queue, the deadbeat-dad generator, and a per-pop
// handler (materializer or precompute sink) together, drives the queue's
// lifecycle state machine, and exposes a read-only snapshot for status
// reporting between pops.
package engine
