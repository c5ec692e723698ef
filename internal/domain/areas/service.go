package areas

import (
	"context"
	"strings"

	"animal-chip-tracker/pkg/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, name string, points []Point) (Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Area{}, apperr.Validation("area name must not be empty")
	}
	if err := validateRing(points); err != nil {
		return Area{}, err
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return Area{}, apperr.Conflict("area %q already exists", name)
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return Area{}, err
	}

	a := Area{ID: uuid.NewString(), Name: name, Points: points}
	if err := s.repo.Create(ctx, a); err != nil {
		return Area{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Area, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Area{}, apperr.NotFound("area was not found")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateRing(points []Point) error {
	if len(points) < 3 {
		return apperr.Validation("area geometry needs at least 3 points")
	}
	for _, p := range points {
		if p.Longitude < -180 || p.Longitude > 180 || p.Latitude < -90 || p.Latitude > 90 {
			return apperr.Validation("area geometry has a point out of range")
		}
	}
	for i := 1; i < len(points); i++ {
		if points[i] == points[i-1] {
			return apperr.Validation("area geometry has repeated consecutive points")
		}
	}
	// el anillo se guarda abierto; un último punto igual al primero es el
	// mismo vértice duplicado
	if points[0] == points[len(points)-1] {
		return apperr.Validation("area geometry must not repeat the first point")
	}
	return nil
}
