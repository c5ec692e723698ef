package areas

import (
	"context"
	"strings"
	"testing"

	"animal-chip-tracker/pkg/apperr"
)

type fakeRepo struct {
	byID map[string]Area
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]Area)}
}

func (r *fakeRepo) Create(_ context.Context, a Area) error {
	r.byID[a.ID] = a
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Area, error) {
	a, ok := r.byID[id]
	if !ok {
		return Area{}, apperr.NotFound("area with id %s was not found", id)
	}
	return a, nil
}

func (r *fakeRepo) GetByName(_ context.Context, name string) (Area, error) {
	for _, a := range r.byID {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return Area{}, apperr.NotFound("area %q was not found", name)
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("area with id %s was not found", id)
	}
	delete(r.byID, id)
	return nil
}

func triangle() []Point {
	return []Point{
		{Longitude: 10, Latitude: 10},
		{Longitude: 20, Latitude: 10},
		{Longitude: 20, Latitude: 20},
	}
}

func TestCreate_ValidRing(t *testing.T) {
	svc := NewService(newFakeRepo())

	a, err := svc.Create(context.Background(), " north reserve ", triangle())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Name != "north reserve" {
		t.Fatalf("expected trimmed name, got %q", a.Name)
	}
	if len(a.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(a.Points))
	}
}

func TestCreate_DuplicateNameConflicts(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "north reserve", triangle()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := svc.Create(ctx, "North Reserve", triangle())
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got: %v", err)
	}
}

func TestCreate_RingValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		points []Point
	}{
		{"too few points", triangle()[:2]},
		{"out of range longitude", []Point{
			{Longitude: 200, Latitude: 10},
			{Longitude: 20, Latitude: 10},
			{Longitude: 20, Latitude: 20},
		}},
		{"repeated consecutive points", []Point{
			{Longitude: 10, Latitude: 10},
			{Longitude: 10, Latitude: 10},
			{Longitude: 20, Latitude: 20},
		}},
		{"closed ring", []Point{
			{Longitude: 10, Latitude: 10},
			{Longitude: 20, Latitude: 10},
			{Longitude: 20, Latitude: 20},
			{Longitude: 10, Latitude: 10},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "area-"+tc.name, tc.points)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got: %v", err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	a, err := svc.Create(ctx, "north reserve", triangle())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, a.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
}
