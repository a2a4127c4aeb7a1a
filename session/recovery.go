package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Version is the recovery-file format version this package reads and
// writes. Files below MinVersion are rejected on load.
const (
	Version    = "1.75"
	MinVersion = 1.74
)

// endOfDictionaries separates the wordlist block from the restore
// probability.
const endOfDictionaries = "---End_of_Dictionaries---"

// Sentinel errors for the session package.
var (
	// ErrMalformed indicates a recovery file that does not follow the
	// expected line structure.
	ErrMalformed = errors.New("session: malformed recovery file")

	// ErrUnsupportedVersion indicates a recovery file written by a format
	// version this package no longer reads.
	ErrUnsupportedVersion = errors.New("session: recovery file version no longer supported")
)

// Dictionary records one loaded user wordlist and its prior weight, as
// persisted in the recovery file.
type Dictionary struct {
	Path  string
	Prior float64
}

// Recovery is the full persisted state of a cracking session: everything
// needed to reload the same grammar and wordlists and resume from the
// last checkpointed probability.
type Recovery struct {
	Rules          string
	KeepUpper      bool
	KeepSpecial    bool
	KeepDigits     bool
	PrecomputeMode int
	Dictionaries   []Dictionary

	// RestoreProbability is the joint probability of the last
	// checkpointed pre-terminal; the restore pass re-seeds the queue
	// from just above it.
	RestoreProbability float64
}

// DefaultName generates a fresh session name for runs that did not name
// one; the short unique suffix keeps concurrent unnamed sessions from
// clobbering each other's recovery files.
func DefaultName() string {
	return "session-" + uuid.NewString()[:8]
}

func boolTag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// marshalHeader renders everything above the restore probability. The
// probability itself is written separately so the checkpointer can
// rewrite it in place (see Checkpointer.Update).
func (r Recovery) marshalHeader() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Version:\t%s\n", Version)
	fmt.Fprintf(&b, "Rules:\t%s\n", r.Rules)
	fmt.Fprintf(&b, "KeepUpper:\t%s\n", boolTag(r.KeepUpper))
	fmt.Fprintf(&b, "KeepSpecial:\t%s\n", boolTag(r.KeepSpecial))
	fmt.Fprintf(&b, "KeepDigits:\t%s\n", boolTag(r.KeepDigits))
	fmt.Fprintf(&b, "PreComputeMode:\t%d\n", r.PrecomputeMode)
	for _, d := range r.Dictionaries {
		fmt.Fprintf(&b, "%s\n%s\n", d.Path, formatProbability(d.Prior))
	}
	b.WriteString(endOfDictionaries + "\n")
	return []byte(b.String())
}

// formatProbability renders p at fixed precision so every probability in
// [0,1] occupies the same byte width, which is what makes the in-place
// checkpoint rewrite safe.
func formatProbability(p float64) string {
	return strconv.FormatFloat(p, 'f', 16, 64)
}

// headerField splits a "Tag:\t<value>" line, verifying the tag.
func headerField(line, tag string) (string, error) {
	fields := strings.SplitN(line, "\t", 2)
	if len(fields) != 2 || fields[0] != tag+":" {
		return "", fmt.Errorf("%w: expected %q line, got %q", ErrMalformed, tag, line)
	}
	return fields[1], nil
}

func parseBoolTag(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("%w: expected 0 or 1, got %q", ErrMalformed, s)
	}
}

// Parse reads a recovery file from r.
func Parse(r io.Reader) (Recovery, error) {
	var rec Recovery
	scanner := bufio.NewScanner(r)

	next := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: unexpected end of file", ErrMalformed)
		}
		return strings.TrimSuffix(scanner.Text(), "\r"), nil
	}

	line, err := next()
	if err != nil {
		return rec, err
	}
	versionStr, err := headerField(line, "Version")
	if err != nil {
		return rec, err
	}
	version, err := strconv.ParseFloat(versionStr, 64)
	if err != nil {
		return rec, fmt.Errorf("%w: bad version %q", ErrMalformed, versionStr)
	}
	if version < MinVersion {
		return rec, fmt.Errorf("%w: version %s", ErrUnsupportedVersion, versionStr)
	}

	if line, err = next(); err != nil {
		return rec, err
	}
	if rec.Rules, err = headerField(line, "Rules"); err != nil {
		return rec, err
	}
	if rec.Rules == "" {
		return rec, fmt.Errorf("%w: empty rules name", ErrMalformed)
	}

	boolTags := []struct {
		tag string
		dst *bool
	}{
		{"KeepUpper", &rec.KeepUpper},
		{"KeepSpecial", &rec.KeepSpecial},
		{"KeepDigits", &rec.KeepDigits},
	}
	for _, bt := range boolTags {
		if line, err = next(); err != nil {
			return rec, err
		}
		value, err := headerField(line, bt.tag)
		if err != nil {
			return rec, err
		}
		if *bt.dst, err = parseBoolTag(value); err != nil {
			return rec, err
		}
	}

	if line, err = next(); err != nil {
		return rec, err
	}
	modeStr, err := headerField(line, "PreComputeMode")
	if err != nil {
		return rec, err
	}
	rec.PrecomputeMode, err = strconv.Atoi(modeStr)
	if err != nil || rec.PrecomputeMode < 0 || rec.PrecomputeMode > 2 {
		return rec, fmt.Errorf("%w: bad precompute mode %q", ErrMalformed, modeStr)
	}

	for {
		if line, err = next(); err != nil {
			return rec, err
		}
		if line == endOfDictionaries {
			break
		}
		priorLine, err := next()
		if err != nil {
			return rec, err
		}
		prior, err := strconv.ParseFloat(priorLine, 64)
		if err != nil || prior <= 0 || prior > 1 {
			return rec, fmt.Errorf("%w: bad dictionary prior %q", ErrMalformed, priorLine)
		}
		rec.Dictionaries = append(rec.Dictionaries, Dictionary{Path: line, Prior: prior})
	}

	if line, err = next(); err != nil {
		return rec, err
	}
	rec.RestoreProbability, err = strconv.ParseFloat(line, 64)
	if err != nil || rec.RestoreProbability < 0 || rec.RestoreProbability > 1 {
		return rec, fmt.Errorf("%w: bad restore probability %q", ErrMalformed, line)
	}
	return rec, nil
}
