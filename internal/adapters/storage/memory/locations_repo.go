package memory

import (
	"context"
	"sort"
	"sync"

	"animal-chip-tracker/internal/domain/locations"
	"animal-chip-tracker/pkg/apperr"
)

type locationsRepo struct {
	mu   sync.RWMutex
	byID map[string]locations.Location
}

func NewLocationsRepo() locations.Repository {
	return &locationsRepo{byID: make(map[string]locations.Location)}
}

func (r *locationsRepo) Create(ctx context.Context, l locations.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[l.ID]; exists {
		return apperr.Conflict("location with id %s already exists", l.ID)
	}
	r.byID[l.ID] = l
	return nil
}

func (r *locationsRepo) GetByID(ctx context.Context, id string) (locations.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return locations.Location{}, apperr.NotFound("location with id %s was not found", id)
	}
	return l, nil
}

func (r *locationsRepo) List(ctx context.Context, ids []string) ([]locations.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []locations.Location
	if len(ids) == 0 {
		for _, l := range r.byID {
			out = append(out, l)
		}
	} else {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			if l, ok := r.byID[id]; ok {
				out = append(out, l)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *locationsRepo) Update(ctx context.Context, l locations.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[l.ID]; !ok {
		return apperr.NotFound("location with id %s was not found", l.ID)
	}
	r.byID[l.ID] = l
	return nil
}

func (r *locationsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("location with id %s was not found", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *locationsRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]
	return ok, nil
}

func (r *locationsRepo) AnyWithin(ctx context.Context, lon, lat, meters float64, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.byID {
		if l.ID == excludeID {
			continue
		}
		if locations.DistanceMeters(lon, lat, l.Longitude, l.Latitude) < meters {
			return true, nil
		}
	}
	return false, nil
}
