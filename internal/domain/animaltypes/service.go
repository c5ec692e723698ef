package animaltypes

import (
	"context"
	"strings"

	"animal-chip-tracker/pkg/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	animals AnimalRefs
}

func NewService(repo Repository, animals AnimalRefs) *Service {
	return &Service{repo: repo, animals: animals}
}

func (s *Service) Create(ctx context.Context, name string) (AnimalType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return AnimalType{}, apperr.Validation("type must not be empty")
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return AnimalType{}, apperr.Conflict("animal type %q already exists", name)
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return AnimalType{}, err
	}

	t := AnimalType{ID: uuid.NewString(), Type: name}
	if err := s.repo.Create(ctx, t); err != nil {
		return AnimalType{}, err
	}
	return t, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (AnimalType, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return AnimalType{}, apperr.NotFound("animal type was not found")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id, name string) (AnimalType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return AnimalType{}, apperr.Validation("type must not be empty")
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return AnimalType{}, err
	}

	if other, err := s.repo.GetByName(ctx, name); err == nil && other.ID != t.ID {
		return AnimalType{}, apperr.Conflict("animal type %q already exists", name)
	} else if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return AnimalType{}, err
	}

	t.Type = name
	if err := s.repo.Update(ctx, t); err != nil {
		return AnimalType{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	used, err := s.animals.AnyWithType(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return apperr.Validation("there are animals with type id %s", id)
	}

	return s.repo.Delete(ctx, id)
}
