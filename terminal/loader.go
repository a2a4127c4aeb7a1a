package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var lengthFileRE = regexp.MustCompile(`^(\d+)\.txt$`)

// ParseRows reads `<replacement>\t<probability>` lines from r in the
// terminal-table format.
func ParseRows(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected <replacement>\\t<probability>", ErrBadProbability, lineNo)
		}
		prob, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadProbability, lineNo, err)
		}
		rows = append(rows, Row{Replacement: fields[0], Probability: prob})
	}
	return rows, scanner.Err()
}

// ParseNotFound reads `<length>\t<probability>` smoothing rows from a
// NotFound.txt file.
func ParseNotFound(r io.Reader) (map[int]float64, error) {
	out := make(map[int]float64)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: NotFound.txt line %d", ErrBadProbability, lineNo)
		}
		length, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: NotFound.txt line %d: %v", ErrBadProbability, lineNo, err)
		}
		prob, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: NotFound.txt line %d: %v", ErrBadProbability, lineNo, err)
		}
		out[length] = prob
	}
	return out, scanner.Err()
}

// bruteCharsetForKind chooses which brute-force alphabet smooths an
// unseen length for a given symbol kind.
func bruteCharsetForKind(kind Kind) BruteCharset {
	switch kind {
	case KindDigit:
		return CharsetDigit
	case KindSpecial, KindKeyboard:
		return CharsetSpecial
	default:
		return CharsetAlpha
	}
}

// LoadKindDir loads every `<length>.txt` file in dir into a chain of the
// given kind, then applies `NotFound.txt` smoothing for any length it
// names that has no corresponding file: a single brute-force node at the
// NotFound probability covers that length.
func LoadKindDir(dir string, kind Kind) (map[int]*Chain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	chains := make(map[int]*Chain)
	for _, e := range entries {
		m := lengthFileRE.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		length, _ := strconv.Atoi(m[1])
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		rows, err := ParseRows(f)
		closeErr := f.Close()
		if err != nil {
			return nil, fmt.Errorf("terminal: %s: %w", e.Name(), err)
		}
		if closeErr != nil {
			return nil, closeErr
		}
		chain, err := BuildChain(kind, length, rows)
		if err != nil {
			return nil, fmt.Errorf("terminal: %s: %w", e.Name(), err)
		}
		chains[length] = chain
	}

	notFoundPath := filepath.Join(dir, "NotFound.txt")
	if f, err := os.Open(notFoundPath); err == nil {
		notFound, perr := ParseNotFound(f)
		_ = f.Close()
		if perr != nil {
			return nil, fmt.Errorf("terminal: NotFound.txt: %w", perr)
		}
		for length, prob := range notFound {
			if _, exists := chains[length]; exists {
				continue
			}
			charset := bruteCharsetForKind(kind)
			chain := &Chain{Kind: kind, Length: length}
			if err := chain.AppendNode(NewBruteForceNode(charset, length, prob)); err != nil {
				return nil, err
			}
			chains[length] = chain
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return chains, nil
}

// LoadDir builds a full Table from a terminal-tables root directory, whose
// subdirectories are named "dictionary", "digit", "special", "keyboard",
// and "capmask": one directory per symbol kind.
func LoadDir(root string) (*Table, error) {
	dirs := map[string]Kind{
		"dictionary": KindDictionary,
		"digit":      KindDigit,
		"special":    KindSpecial,
		"keyboard":   KindKeyboard,
		"capmask":    KindCapMask,
	}

	t := NewTable(nil)
	for name, kind := range dirs {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		chains, err := LoadKindDir(path, kind)
		if err != nil {
			return nil, err
		}
		for _, c := range chains {
			t.Put(c)
		}
	}
	return t, nil
}
