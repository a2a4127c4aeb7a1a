// Package preterm defines the pre-terminal: one concrete choice of
// terminal-chain node per slot of a base structure, plus its cached joint
// probability.
//
// A pre-terminal holds references, not ownership, into the immutable
// terminal chains built by package terminal: a preterm.SlotRef is a chain
// pointer plus an integer node index rather than a raw node pointer, so
// that advancing a slot never aliases memory the priority queue also
// touches.
package preterm
