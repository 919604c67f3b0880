package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Lakshita2255/Voter-auth-project/models"
)

// MemoryDirectory keeps voters in process memory. Used for demos and tests.
type MemoryDirectory struct {
	mu     sync.RWMutex
	voters map[string]*models.VoterRecord
	order  []string
}

func NewMemoryDirectory(voters ...models.VoterRecord) *MemoryDirectory {
	d := &MemoryDirectory{voters: make(map[string]*models.VoterRecord)}
	for _, v := range voters {
		// Seed records are generated, so a duplicate id is a programming error
		if err := d.Insert(v); err != nil {
			panic(err)
		}
	}
	return d
}

// Insert adds a voter. IDs must be unique.
func (d *MemoryDirectory) Insert(v models.VoterRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if v.ID == "" {
		return fmt.Errorf("voter id is required")
	}
	if _, ok := d.voters[v.ID]; ok {
		return fmt.Errorf("voter %s already exists", v.ID)
	}
	c := v.Clone()
	d.voters[v.ID] = &c
	d.order = append(d.order, v.ID)
	return nil
}

func (d *MemoryDirectory) Find(ctx context.Context, voterID, nationalID, phone string) ([]models.VoterRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []models.VoterRecord
	for _, id := range d.order {
		v := d.voters[id]
		if v.VoterID == voterID && v.NationalID == nationalID && v.Phone == phone {
			out = append(out, v.Clone())
		}
	}
	return out, nil
}

func (d *MemoryDirectory) GetByID(ctx context.Context, id string) (models.VoterRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.VoterRecord{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.voters[id]
	if !ok {
		return models.VoterRecord{}, ErrNotFound
	}
	return v.Clone(), nil
}

func (d *MemoryDirectory) UpdateByID(ctx context.Context, id string, patch models.VoterPatch) (models.VoterRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.VoterRecord{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	v, ok := d.voters[id]
	if !ok {
		return models.VoterRecord{}, ErrNotFound
	}

	// Merge into a copy so a rejected patch leaves the record untouched
	next := v.Clone()
	if err := applyPatch(&next, patch); err != nil {
		return models.VoterRecord{}, err
	}
	d.voters[id] = &next
	return next.Clone(), nil
}

// List returns up to limit voters in insertion order. limit <= 0 means all.
func (d *MemoryDirectory) List(ctx context.Context, limit int) ([]models.VoterRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	n := len(d.order)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.VoterRecord, 0, n)
	for _, id := range d.order[:n] {
		out = append(out, d.voters[id].Clone())
	}
	return out, nil
}

func (d *MemoryDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.voters)
}
