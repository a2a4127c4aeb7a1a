package terminal

import (
	"bufio"
	"io"
	"strings"
)

// MaxWordLength is the maximum word length accepted from a user wordlist.
const MaxWordLength = 18

// WordlistFilter controls which dictionary words are rejected on ingest:
// an optional upper-case, special-character, or digit exclusion applied
// per word during ingest.
type WordlistFilter struct {
	RemoveUpper   bool
	RemoveSpecial bool
	RemoveDigits  bool
}

// accepts reports whether word passes the configured filters and the
// fixed MaxWordLength bound.
func (f WordlistFilter) accepts(word string) bool {
	if len(word) == 0 || len(word) > MaxWordLength {
		return false
	}
	for _, r := range word {
		switch {
		case f.RemoveUpper && r >= 'A' && r <= 'Z':
			return false
		case f.RemoveDigits && r >= '0' && r <= '9':
			return false
		case f.RemoveSpecial && !isAlnum(r):
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// ReadWordlist reads one word per line from r, stripping a trailing CR
// (for CRLF inputs) and applying filter.
func ReadWordlist(r io.Reader, filter WordlistFilter) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if filter.accepts(line) {
			words = append(words, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// WordlistSource names one user wordlist and its raw (pre-renormalization)
// prior weight, matching the recovery file's `<dict-path>\n<prior>` pairs.
type WordlistSource struct {
	Path  string
	Prior float64
	Words []string
}

// MergeDictionaries builds dictionary-chain rows from multiple wordlists:
// per-wordlist priors are renormalized so they sum to 1, then each word's
// probability is (renormalized prior of its source) / (count of
// equal-length words from that source). Returns rows grouped by word
// length, ready for BuildChain.
func MergeDictionaries(sources []WordlistSource) map[int][]Row {
	rows := make(map[int][]Row)
	if len(sources) == 0 {
		return rows
	}

	var priorSum float64
	for _, s := range sources {
		priorSum += s.Prior
	}
	if priorSum == 0 {
		return rows
	}

	for _, s := range sources {
		renorm := s.Prior / priorSum
		countByLen := make(map[int]int)
		for _, w := range s.Words {
			countByLen[len(w)]++
		}
		for _, w := range s.Words {
			n := countByLen[len(w)]
			if n == 0 {
				continue
			}
			rows[len(w)] = append(rows[len(w)], Row{
				Replacement: w,
				Probability: renorm / float64(n),
			})
		}
	}
	return rows
}
