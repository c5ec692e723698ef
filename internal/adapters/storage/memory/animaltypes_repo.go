package memory

import (
	"context"
	"strings"
	"sync"

	"animal-chip-tracker/internal/domain/animaltypes"
	"animal-chip-tracker/pkg/apperr"
)

type animalTypesRepo struct {
	mu   sync.RWMutex
	byID map[string]animaltypes.AnimalType
}

func NewAnimalTypesRepo() animaltypes.Repository {
	return &animalTypesRepo{byID: make(map[string]animaltypes.AnimalType)}
}

func (r *animalTypesRepo) Create(ctx context.Context, t animaltypes.AnimalType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[t.ID]; exists {
		return apperr.Conflict("animal type with id %s already exists", t.ID)
	}
	r.byID[t.ID] = t
	return nil
}

func (r *animalTypesRepo) GetByID(ctx context.Context, id string) (animaltypes.AnimalType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return animaltypes.AnimalType{}, apperr.NotFound("animal type with id %s was not found", id)
	}
	return t, nil
}

func (r *animalTypesRepo) GetByName(ctx context.Context, name string) (animaltypes.AnimalType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.byID {
		if strings.EqualFold(t.Type, name) {
			return t, nil
		}
	}
	return animaltypes.AnimalType{}, apperr.NotFound("animal type %q was not found", name)
}

func (r *animalTypesRepo) Update(ctx context.Context, t animaltypes.AnimalType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; !ok {
		return apperr.NotFound("animal type with id %s was not found", t.ID)
	}
	r.byID[t.ID] = t
	return nil
}

func (r *animalTypesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("animal type with id %s was not found", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *animalTypesRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]
	return ok, nil
}
