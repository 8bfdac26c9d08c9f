package notification

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryJournal is an in-memory implementation of the Journal interface.
// Suitable for development and testing.
type MemoryJournal struct {
	deliveries []Delivery
	mu         sync.RWMutex
}

// NewMemoryJournal creates an empty in-memory delivery journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Record(ctx context.Context, d Delivery) error {
	if err := normalize(&d); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.deliveries = append(j.deliveries, d)
	return nil
}

func (j *MemoryJournal) List(ctx context.Context, opts ListOptions) ([]Delivery, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var filtered []Delivery
	for _, d := range j.deliveries {
		if opts.matches(d) {
			filtered = append(filtered, d)
		}
	}

	// Newest first; insertion order breaks ties so same-timestamp events
	// keep a stable relative order.
	sort.SliceStable(filtered, func(i, k int) bool {
		return filtered[i].At.After(filtered[k].At)
	})

	start := opts.Offset
	if start > len(filtered) {
		return []Delivery{}, nil
	}

	end := start + opts.Limit
	if opts.Limit == 0 || end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], nil
}

func (j *MemoryJournal) Count(ctx context.Context, outcome Outcome) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if outcome == "" {
		return len(j.deliveries), nil
	}

	count := 0
	for _, d := range j.deliveries {
		if d.Outcome == outcome {
			count++
		}
	}

	return count, nil
}

func (j *MemoryJournal) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	kept := j.deliveries[:0]
	removed := 0
	for _, d := range j.deliveries {
		if d.At.Before(olderThan) {
			removed++
			continue
		}
		kept = append(kept, d)
	}

	j.deliveries = kept
	return removed, nil
}
