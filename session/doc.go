// Package session handles crash-recovery persistence: the text recovery
// file recording the loaded rules, wordlists, and the probability of the
// last checkpointed pre-terminal, plus the restore pass that re-seeds the
// priority queue from that probability after a crash or clean stop.
package session
