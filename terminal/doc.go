// Package terminal builds and stores the per-length, probability-descending
// replacement chains that a PCFG grammar binds its symbols to.
//
// A chain is the set of equal-probability replacement groups for one
// (symbol kind, length) pair, e.g. all 4-letter dictionary words, laid out
// in strictly non-increasing probability order. Chains are built once at
// load time from terminal-table rows and user wordlists and are never
// mutated afterward; the priority queue and generator only ever read them.
//
// Chains are stored as a contiguous []Node with integer next/prev indices
// (-1 meaning "no such neighbor") rather than pointers, so that a
// preterm.SlotRef{Chain, Index} can reference a node without holding an
// alias into memory the heap also touches — see DESIGN.md's Design-Notes
// entry on this choice.
package terminal
