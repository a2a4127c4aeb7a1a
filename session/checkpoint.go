package session

import (
	"fmt"
	"os"
	"sync"

	"github.com/katalvlaran/pcfgguess/generator"
	"github.com/katalvlaran/pcfgguess/pqueue"
	"github.com/katalvlaran/pcfgguess/preterm"
)

// Checkpointer rewrites the restore probability of an open recovery file
// in place as the run advances. It is safe to call Update from a signal
// path while the main loop is between pops.
type Checkpointer struct {
	mu     sync.Mutex
	f      *os.File
	offset int64
}

// Create writes rec to path and returns a Checkpointer positioned at the
// restore-probability field. The file stays open until Close.
func Create(path string, rec Recovery) (*Checkpointer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	header := rec.marshalHeader()
	if _, err := f.Write(header); err != nil {
		_ = f.Close()
		return nil, err
	}
	offset := int64(len(header))
	if _, err := f.WriteString(formatProbability(rec.RestoreProbability) + "\n"); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Checkpointer{f: f, offset: offset}, nil
}

// Update rewrites the restore probability in place. formatProbability's
// fixed width guarantees the new value exactly overwrites the old one.
func (c *Checkpointer) Update(probability float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.f.WriteAt([]byte(formatProbability(probability)), c.offset); err != nil {
		return fmt.Errorf("session: checkpoint update: %w", err)
	}
	return nil
}

// Close syncs and closes the underlying recovery file.
func (c *Checkpointer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.f.Sync(); err != nil {
		_ = c.f.Close()
		return err
	}
	return c.f.Close()
}

// Load reads the recovery file at path.
func Load(path string) (Recovery, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recovery{}, err
	}
	defer f.Close()
	return Parse(f)
}

// restoreEpsilon nudges the restore point so the pre-terminal that was
// being processed at checkpoint time is generated again rather than
// skipped; emitting a handful of duplicate guesses beats losing one.
const restoreEpsilon = 1e-16

// RestoreHeap re-seeds q from the base-structure head states so that the
// run resumes just above restorePoint: the queue is cleared, the floor
// dropped to 0, and the rebuild walk admits every pre-terminal whose
// probability falls at or below the restore point and that has no parent
// there.
func RestoreHeap(q *pqueue.Queue, heads []preterm.PreTerminal, restorePoint float64) error {
	q.Clear()
	q.SetFloor(0)
	return generator.Rebuild(q, heads, restorePoint+restoreEpsilon)
}
