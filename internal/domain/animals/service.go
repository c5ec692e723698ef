package animals

import (
	"context"
	"time"

	"animal-chip-tracker/pkg/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo      Repository
	locations LocationStore
	types     TypeStore
	accounts  AccountStore
	now       func() time.Time
}

func NewService(repo Repository, locations LocationStore, types TypeStore, accounts AccountStore) *Service {
	return &Service{
		repo:      repo,
		locations: locations,
		types:     types,
		accounts:  accounts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type CreateInput struct {
	TypeIDs            []string
	Weight             float64
	Length             float64
	Height             float64
	Gender             Gender
	ChipperID          string
	ChippingLocationID string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Animal, error) {
	if len(in.TypeIDs) == 0 {
		return Animal{}, apperr.Validation("animal must have at least one type")
	}
	if in.Weight <= 0 || in.Length <= 0 || in.Height <= 0 {
		return Animal{}, apperr.Validation("weight, length and height must be greater than zero")
	}

	missing := 0
	for _, typeID := range dedup(in.TypeIDs) {
		ok, err := s.types.Exists(ctx, typeID)
		if err != nil {
			return Animal{}, err
		}
		if !ok {
			missing++
		}
	}
	if missing > 0 {
		return Animal{}, apperr.NotFound("%d animal types were not found", missing)
	}

	if ok, err := s.accounts.Exists(ctx, in.ChipperID); err != nil {
		return Animal{}, err
	} else if !ok {
		return Animal{}, apperr.NotFound("account with id %s was not found", in.ChipperID)
	}

	if ok, err := s.locations.Exists(ctx, in.ChippingLocationID); err != nil {
		return Animal{}, err
	} else if !ok {
		return Animal{}, apperr.NotFound("location with id %s was not found", in.ChippingLocationID)
	}

	a := Animal{
		ID:                 uuid.NewString(),
		Weight:             in.Weight,
		Length:             in.Length,
		Height:             in.Height,
		Gender:             in.Gender,
		LifeStatus:         LifeStatusAlive,
		ChippingTime:       s.now(),
		ChipperID:          in.ChipperID,
		ChippingLocationID: in.ChippingLocationID,
		TypeIDs:            dedup(in.TypeIDs),
		Visits:             []Visit{},
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, f Filter) ([]Animal, error) {
	if f.Size <= 0 {
		f.Size = 10
	}
	return s.repo.Search(ctx, f)
}

type UpdateInput struct {
	Weight             *float64
	Length             *float64
	Height             *float64
	Gender             *Gender
	LifeStatus         *LifeStatus
	ChipperID          *string
	ChippingLocationID *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Animal, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}

	if in.ChipperID != nil && *in.ChipperID != a.ChipperID {
		if ok, err := s.accounts.Exists(ctx, *in.ChipperID); err != nil {
			return Animal{}, err
		} else if !ok {
			return Animal{}, apperr.NotFound("account with id %s was not found", *in.ChipperID)
		}
		a.ChipperID = *in.ChipperID
	}

	if in.ChippingLocationID != nil && *in.ChippingLocationID != a.ChippingLocationID {
		// La nueva chipping location pasa a ser el predecesor de la primera
		// visita: no puede coincidir con ella. Contra la última no hay
		// restricción.
		if len(a.Visits) > 0 && a.Visits[0].LocationID == *in.ChippingLocationID {
			return Animal{}, apperr.Validation(
				"the animal's first visited location has the same id as the new chipping location")
		}
		if ok, err := s.locations.Exists(ctx, *in.ChippingLocationID); err != nil {
			return Animal{}, err
		} else if !ok {
			return Animal{}, apperr.NotFound("location with id %s was not found", *in.ChippingLocationID)
		}
		a.ChippingLocationID = *in.ChippingLocationID
	}

	if in.Weight != nil {
		if *in.Weight <= 0 {
			return Animal{}, apperr.Validation("weight must be greater than zero")
		}
		a.Weight = *in.Weight
	}
	if in.Length != nil {
		if *in.Length <= 0 {
			return Animal{}, apperr.Validation("length must be greater than zero")
		}
		a.Length = *in.Length
	}
	if in.Height != nil {
		if *in.Height <= 0 {
			return Animal{}, apperr.Validation("height must be greater than zero")
		}
		a.Height = *in.Height
	}
	if in.Gender != nil {
		a.Gender = *in.Gender
	}

	if in.LifeStatus != nil {
		if err := s.applyLifeStatus(&a, *in.LifeStatus); err != nil {
			return Animal{}, err
		}
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// applyLifeStatus es la tabla de transición completa. ALIVE→ALIVE limpia
// death_time (camino idempotente), DEAD→DEAD lo preserva, y un animal
// muerto no revive.
func (s *Service) applyLifeStatus(a *Animal, next LifeStatus) error {
	switch {
	case a.LifeStatus == LifeStatusAlive && next == LifeStatusAlive:
		a.DeathTime = nil
	case a.LifeStatus == LifeStatusAlive && next == LifeStatusDead:
		t := s.now()
		a.LifeStatus = LifeStatusDead
		a.DeathTime = &t
	case a.LifeStatus == LifeStatusDead && next == LifeStatusDead:
		// death_time intacto
	default:
		return apperr.Validation("animal can not be resurrected")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if len(a.Visits) > 0 {
		return apperr.Validation("animal with id %s left the chipping location", id)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) AddType(ctx context.Context, animalID, typeID string) (Animal, error) {
	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return Animal{}, err
	}

	if a.hasType(typeID) {
		return Animal{}, apperr.Conflict("animal already has type with id %s", typeID)
	}
	if ok, err := s.types.Exists(ctx, typeID); err != nil {
		return Animal{}, err
	} else if !ok {
		return Animal{}, apperr.NotFound("animal type with id %s was not found", typeID)
	}

	a.TypeIDs = append(a.TypeIDs, typeID)

	if err := s.repo.Save(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) RemoveType(ctx context.Context, animalID, typeID string) (Animal, error) {
	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return Animal{}, err
	}

	if !a.hasType(typeID) {
		return Animal{}, apperr.NotFound("animal does not have type with id %s", typeID)
	}
	if len(a.TypeIDs) == 1 {
		return Animal{}, apperr.Validation("animal must have at least one type")
	}

	a.TypeIDs = remove(a.TypeIDs, typeID)

	if err := s.repo.Save(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// ReplaceType saca oldTypeID y agrega newTypeID en una sola operación.
func (s *Service) ReplaceType(ctx context.Context, animalID, oldTypeID, newTypeID string) (Animal, error) {
	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return Animal{}, err
	}

	if !a.hasType(oldTypeID) {
		return Animal{}, apperr.NotFound("animal does not have type with id %s", oldTypeID)
	}
	if a.hasType(newTypeID) {
		return Animal{}, apperr.Conflict("animal already has type with id %s", newTypeID)
	}
	if ok, err := s.types.Exists(ctx, newTypeID); err != nil {
		return Animal{}, err
	} else if !ok {
		return Animal{}, apperr.NotFound("animal type with id %s was not found", newTypeID)
	}

	for i, id := range a.TypeIDs {
		if id == oldTypeID {
			a.TypeIDs[i] = newTypeID
			break
		}
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// AddVisit registra una visita nueva al final de la secuencia, estampada
// "ahora". Las precondiciones del motor (vivo, no repetir la location
// actual) corren antes que el chequeo de existencia de la location, igual
// que el resto del pipeline de mutación.
func (s *Service) AddVisit(ctx context.Context, animalID, locationID string) (Visit, error) {
	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return Visit{}, err
	}

	v, err := a.AppendVisit(uuid.NewString(), locationID, s.now())
	if err != nil {
		return Visit{}, err
	}

	if ok, err := s.locations.Exists(ctx, locationID); err != nil {
		return Visit{}, err
	} else if !ok {
		return Visit{}, apperr.NotFound("location with id %s was not found", locationID)
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return Visit{}, err
	}
	return v, nil
}

func (s *Service) UpdateVisit(ctx context.Context, animalID, visitID, locationID string) (Visit, error) {
	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return Visit{}, err
	}

	v, err := a.UpdateVisit(visitID, locationID)
	if err != nil {
		return Visit{}, err
	}

	if ok, err := s.locations.Exists(ctx, locationID); err != nil {
		return Visit{}, err
	} else if !ok {
		return Visit{}, apperr.NotFound("location with id %s was not found", locationID)
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return Visit{}, err
	}
	return v, nil
}

func (s *Service) DeleteVisit(ctx context.Context, animalID, visitID string) error {
	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return err
	}

	if err := a.DeleteVisit(visitID); err != nil {
		return err
	}

	return s.repo.Save(ctx, a)
}

func (s *Service) ListVisits(ctx context.Context, animalID string, f VisitFilter) ([]Visit, error) {
	if _, err := s.repo.GetByID(ctx, animalID); err != nil {
		return nil, err
	}
	if f.Size <= 0 {
		f.Size = 10
	}
	return s.repo.ListVisits(ctx, animalID, f)
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
