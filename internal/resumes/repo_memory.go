package resumes

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Insert appends rec.
func (r *MemoryRepo) Insert(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(rec); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, rec)
	return nil
}

// Records returns a copy of everything inserted into collection, oldest first.
func (r *MemoryRepo) Records(collection string) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, len(r.data))
	for _, rec := range r.data {
		if rec.Collection == collection {
			out = append(out, rec)
		}
	}
	return out
}

var _ Repo = (*MemoryRepo)(nil)
