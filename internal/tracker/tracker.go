// Package tracker detects records that more than one split reader emitted.
//
// A record is identified by its key (the stream offset just past its end tag),
// which is unique within a stream. The fingerprint is kept so that a reported
// duplicate can be told apart from a key collision between different payloads.
package tracker

import (
	"fmt"
	"sync"

	"github.com/arloliu/tagsplit/errs"
)

type entry struct {
	fingerprint uint64
	owner       int
}

// Tracker records which split emitted each record key. It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	entries map[int64]entry
	dupes   int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		entries: make(map[int64]entry),
	}
}

// Track registers a record emitted by the split with index owner.
//
// It returns an error wrapping errs.ErrDuplicateRecord if the key was already
// registered, whether by the same split or another one.
func (t *Tracker) Track(key int64, fingerprint uint64, owner int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, exists := t.entries[key]; exists {
		t.dupes++
		if prev.fingerprint != fingerprint {
			return fmt.Errorf("%w: key %d from split %d and split %d with different payloads",
				errs.ErrDuplicateRecord, key, prev.owner, owner)
		}

		return fmt.Errorf("%w: key %d from split %d and split %d", errs.ErrDuplicateRecord, key, prev.owner, owner)
	}

	t.entries[key] = entry{fingerprint: fingerprint, owner: owner}

	return nil
}

// Len returns the number of distinct keys tracked.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}

// Duplicates returns how many Track calls were rejected.
func (t *Tracker) Duplicates() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.dupes
}
