// Package honeyword generates decoy passwords by sampling the trained
// grammar instead of enumerating it: a base structure is drawn at random
// weighted by its prior, then each symbol run draws a replacement
// weighted by its chain probability (capitalization masks applied to
// dictionary words as in normal guessing). Candidates are rejected and
// resampled until they meet a minimum complexity requirement, so the
// decoys are plausible alongside real user passwords.
package honeyword
