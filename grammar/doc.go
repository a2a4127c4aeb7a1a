// Package grammar parses base-structure rows ("L3D2S1\t0.0123...") into
// BaseStructure values, binds each run to a terminal chain, and seeds a
// pqueue.Queue with the resulting pre-terminals.
//
// Capitalization coupling: for every alphabetic (dictionary) run, the
// loader prepends that run's capitalization chain as its own slot ahead
// of the dictionary slot. The two remain independently-advancing slots in
// the generator's traversal, each free to move on its own axis; package
// materializer is what collapses the pair back into one rendering unit.
package grammar
