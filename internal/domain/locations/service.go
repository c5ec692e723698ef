package locations

import (
	"context"
	"strings"

	"animal-chip-tracker/pkg/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	animals AnimalRefs

	// distancia (metros) bajo la cual dos puntos cuentan como el mismo
	minDistance float64
}

func NewService(repo Repository, animals AnimalRefs, minDistanceMeters float64) *Service {
	return &Service{
		repo:        repo,
		animals:     animals,
		minDistance: minDistanceMeters,
	}
}

func (s *Service) Create(ctx context.Context, lon, lat float64) (Location, error) {
	taken, err := s.repo.AnyWithin(ctx, lon, lat, s.minDistance, "")
	if err != nil {
		return Location{}, err
	}
	if taken {
		return Location{}, apperr.Conflict("location with the same coordinates already exists")
	}

	l := Location{
		ID:        uuid.NewString(),
		Longitude: lon,
		Latitude:  lat,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return Location{}, err
	}
	return l, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Location, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Location{}, apperr.NotFound("location was not found")
	}
	return s.repo.GetByID(ctx, id)
}

// List lee puntos en lote; sin ids devuelve todos.
func (s *Service) List(ctx context.Context, ids []string) ([]Location, error) {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, apperr.Validation("ids must not contain blank entries")
		}
		clean = append(clean, id)
	}
	return s.repo.List(ctx, clean)
}

func (s *Service) Update(ctx context.Context, id string, lon, lat float64) (Location, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Location{}, err
	}

	taken, err := s.repo.AnyWithin(ctx, lon, lat, s.minDistance, l.ID)
	if err != nil {
		return Location{}, err
	}
	if taken {
		return Location{}, apperr.Conflict("location with the same coordinates already exists")
	}

	l.Longitude = lon
	l.Latitude = lat

	if err := s.repo.Update(ctx, l); err != nil {
		return Location{}, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	chipped, err := s.animals.AnyChippedAt(ctx, id)
	if err != nil {
		return err
	}
	if chipped {
		return apperr.Validation("there are animals chipped in location with id %s", id)
	}

	visited, err := s.animals.AnyVisitAt(ctx, id)
	if err != nil {
		return err
	}
	if visited {
		return apperr.Validation("there are location visits related to location with id %s", id)
	}

	return s.repo.Delete(ctx, id)
}
