// Package materializer expands popped pre-terminals into concrete guess
// strings: the Cartesian product of each slot's replacement group, with
// capitalization masks applied to their following dictionary word and
// brute-force slots enumerated in canonical charset order, skipping
// strings already covered by a literal node of the same chain.
package materializer
