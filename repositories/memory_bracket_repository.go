package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/bracket-engine/models"
)

// memoryBracketRepository keeps brackets in process memory. It is used when
// no DATABASE_URL is configured and in tests.
type memoryBracketRepository struct {
	mu       sync.RWMutex
	brackets map[string]*models.Bracket
}

func NewMemoryBracketRepository() BracketRepository {
	return &memoryBracketRepository{brackets: make(map[string]*models.Bracket)}
}

func (r *memoryBracketRepository) Create(_ context.Context, b *models.Bracket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.brackets[b.ID]; ok {
		return ErrBracketIDConflict
	}
	if b.Version == 0 {
		b.Version = 1
	}
	r.brackets[b.ID] = b.Clone()
	return nil
}

func (r *memoryBracketRepository) GetByID(_ context.Context, id string) (*models.Bracket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.brackets[id]
	if !ok {
		return nil, ErrBracketNotFound
	}
	return b.Clone(), nil
}

func (r *memoryBracketRepository) Update(_ context.Context, b *models.Bracket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.brackets[b.ID]
	if !ok {
		return ErrBracketNotFound
	}
	if stored.Version != b.Version {
		return ErrBracketVersionConflict
	}
	b.Version++
	b.ArchivedAt = nil
	r.brackets[b.ID] = b.Clone()
	return nil
}

func (r *memoryBracketRepository) ListConcludedUnarchived(_ context.Context, limit int) ([]*models.Bracket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Bracket
	for _, b := range r.brackets {
		if b.Concluded && b.ArchivedAt == nil {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryBracketRepository) MarkArchived(_ context.Context, id string, version int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.brackets[id]
	if !ok {
		return ErrBracketNotFound
	}
	if b.Version != version {
		return ErrBracketVersionConflict
	}
	archived := b.Clone()
	archived.ArchivedAt = &at
	r.brackets[id] = archived
	return nil
}
