// Package pcfgguess is a password-guess generator driven by a trained
// Probabilistic Context-Free Grammar (PCFG).
//
// Given a trained grammar (base structures and terminal probability tables)
// plus user wordlists, it emits candidate passwords in strictly decreasing
// probability order for consumption by an external cracking engine.
//
// 🚀 What's inside?
//
//	A pure-Go engine that brings together:
//		• Terminal tables: per-length probability-descending replacement chains
//		• Grammar loading: base-structure parsing and chain binding
//		• A bounded-memory priority queue over pre-terminals
//		• The deadbeat-dad generator: exactly-once child enumeration over an
//		  implicit DAG of pre-terminals
//		• A guess materializer: pre-terminal → concrete password strings
//		• A precompute/consume split for separating queue work from
//		  Cartesian expansion
//
// Under the hood, everything is organized under focused subpackages:
//
//	terminal/      — chain construction, wordlist ingestion, brute-force charsets
//	grammar/       — base-structure parsing, run-length grouping, chain binding
//	preterm/       — the pre-terminal tuple type and its invariants
//	pqueue/        — the max-heap priority queue, trim and floor bookkeeping, state machine
//	generator/     — the deadbeat-dad child-enumeration rule and the post-drain rebuild walk
//	materializer/  — Cartesian expansion into guess strings
//	precompute/    — the binary pre-terminal wire record
//	honeyword/     — decoy-password sampling from the trained grammar
//	postag/        — the passphrase (part-of-speech) grammar variant
//	session/       — recovery-file persistence and checkpointing
//	config/        — process configuration
//	engine/        — the explicit Session value tying every package together
//	cmd/pcfgguess/ — the command-line entry point
//
// Next up: client/server precompute streaming, OMEN-style Markov fallback,
// and beyond. See DESIGN.md for the grounding behind every package.
package pcfgguess
