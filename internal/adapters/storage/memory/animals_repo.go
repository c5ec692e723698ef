package memory

import (
	"context"
	"sort"
	"sync"

	"animal-chip-tracker/internal/domain/animals"
	"animal-chip-tracker/pkg/apperr"
)

type animalsRepo struct {
	mu   sync.RWMutex
	byID map[string]animals.Animal
}

func NewAnimalsRepo() animals.Repository {
	return &animalsRepo{byID: make(map[string]animals.Animal)}
}

func (r *animalsRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; exists {
		return apperr.Conflict("animal with id %s already exists", a.ID)
	}
	a.Version = 1
	r.byID[a.ID] = clone(a)
	return nil
}

func (r *animalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, apperr.NotFound("animal with id %s was not found", id)
	}
	return clone(a), nil
}

func (r *animalsRepo) Search(ctx context.Context, f animals.Filter) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if f.MinChippingTime != nil && a.ChippingTime.Before(*f.MinChippingTime) {
			continue
		}
		if f.MaxChippingTime != nil && a.ChippingTime.After(*f.MaxChippingTime) {
			continue
		}
		if f.ChipperID != "" && a.ChipperID != f.ChipperID {
			continue
		}
		if f.ChippingLocationID != "" && a.ChippingLocationID != f.ChippingLocationID {
			continue
		}
		if f.LifeStatus != nil && a.LifeStatus != *f.LifeStatus {
			continue
		}
		if f.Gender != nil && a.Gender != *f.Gender {
			continue
		}
		matched = append(matched, clone(a))
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return page(matched, f.From, f.Size), nil
}

// Save es compare-and-swap sobre Version bajo el lock: la implementación
// in-memory de la misma concurrencia optimista que aplica el adapter de
// postgres.
func (r *animalsRepo) Save(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[a.ID]
	if !ok {
		return apperr.NotFound("animal with id %s was not found", a.ID)
	}
	if current.Version != a.Version {
		return apperr.Conflict("animal with id %s was modified concurrently", a.ID)
	}

	a.Version++
	r.byID[a.ID] = clone(a)
	return nil
}

func (r *animalsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("animal with id %s was not found", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *animalsRepo) ListVisits(ctx context.Context, animalID string, f animals.VisitFilter) ([]animals.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[animalID]
	if !ok {
		return nil, apperr.NotFound("animal with id %s was not found", animalID)
	}

	matched := make([]animals.Visit, 0, len(a.Visits))
	for _, v := range a.Visits {
		if f.MinVisitedAt != nil && v.VisitedAt.Before(*f.MinVisitedAt) {
			continue
		}
		if f.MaxVisitedAt != nil && v.VisitedAt.After(*f.MaxVisitedAt) {
			continue
		}
		matched = append(matched, v)
	}

	// a.Visits ya está ordenada por visited_at
	return page(matched, f.From, f.Size), nil
}

func (r *animalsRepo) AnyChippedAt(ctx context.Context, locationID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.ChippingLocationID == locationID {
			return true, nil
		}
	}
	return false, nil
}

func (r *animalsRepo) AnyVisitAt(ctx context.Context, locationID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		for _, v := range a.Visits {
			if v.LocationID == locationID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *animalsRepo) AnyWithType(ctx context.Context, typeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		for _, id := range a.TypeIDs {
			if id == typeID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *animalsRepo) AnyChippedBy(ctx context.Context, accountID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.ChipperID == accountID {
			return true, nil
		}
	}
	return false, nil
}

// clone copia los slices para que el caller mute su valor sin tocar el
// estado guardado hasta el próximo Save.
func clone(a animals.Animal) animals.Animal {
	a.TypeIDs = append([]string{}, a.TypeIDs...)
	a.Visits = append([]animals.Visit{}, a.Visits...)
	if a.DeathTime != nil {
		t := *a.DeathTime
		a.DeathTime = &t
	}
	return a
}
