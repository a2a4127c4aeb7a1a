// Package postag is the passphrase variant of the guess engine: base
// structures are sequences of part-of-speech tags (Brown corpus style)
// instead of L/D/S/K symbol runs, each tag bound to a word chain for its
// grammatical category. The priority queue, deadbeat-dad generator, and
// materializer are reused unchanged; only the taxonomy and grammar
// loading differ.
package postag
