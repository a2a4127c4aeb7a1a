// Package precompute implements the binary pre-terminal wire format that
// splits the priority-queue work from Cartesian expansion: a producer
// serializes each popped pre-terminal as a one-byte arity followed by a
// fixed 3-byte record per slot, and a consumer reattaches chain pointers
// from the record's rainbow (category, length, index) triple.
package precompute
