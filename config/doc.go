// Package config holds the typed process configuration for a guessing
// run: where the trained rules live, which wordlists to merge, the heap
// cap, and the output mode. Values come from a YAML file merged over
// defaults, with CLI flags applied on top by the command layer.
package config
