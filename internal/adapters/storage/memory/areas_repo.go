package memory

import (
	"context"
	"strings"
	"sync"

	"animal-chip-tracker/internal/domain/areas"
	"animal-chip-tracker/pkg/apperr"
)

type areasRepo struct {
	mu   sync.RWMutex
	byID map[string]areas.Area
}

func NewAreasRepo() areas.Repository {
	return &areasRepo{byID: make(map[string]areas.Area)}
}

func (r *areasRepo) Create(ctx context.Context, a areas.Area) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; exists {
		return apperr.Conflict("area with id %s already exists", a.ID)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *areasRepo) GetByID(ctx context.Context, id string) (areas.Area, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return areas.Area{}, apperr.NotFound("area with id %s was not found", id)
	}
	return a, nil
}

func (r *areasRepo) GetByName(ctx context.Context, name string) (areas.Area, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return areas.Area{}, apperr.NotFound("area %q was not found", name)
}

func (r *areasRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("area with id %s was not found", id)
	}
	delete(r.byID, id)
	return nil
}
