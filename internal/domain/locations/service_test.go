package locations

import (
	"context"
	"sort"
	"testing"

	"animal-chip-tracker/pkg/apperr"
)

type fakeRepo struct {
	byID map[string]Location
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]Location)}
}

func (r *fakeRepo) Create(_ context.Context, l Location) error {
	r.byID[l.ID] = l
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Location, error) {
	l, ok := r.byID[id]
	if !ok {
		return Location{}, apperr.NotFound("location with id %s was not found", id)
	}
	return l, nil
}

func (r *fakeRepo) List(_ context.Context, ids []string) ([]Location, error) {
	var out []Location
	if len(ids) == 0 {
		for _, l := range r.byID {
			out = append(out, l)
		}
	} else {
		for _, id := range ids {
			if l, ok := r.byID[id]; ok {
				out = append(out, l)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, l Location) error {
	if _, ok := r.byID[l.ID]; !ok {
		return apperr.NotFound("location with id %s was not found", l.ID)
	}
	r.byID[l.ID] = l
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("location with id %s was not found", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeRepo) AnyWithin(_ context.Context, lon, lat, meters float64, excludeID string) (bool, error) {
	for _, l := range r.byID {
		if l.ID == excludeID {
			continue
		}
		if DistanceMeters(l.Longitude, l.Latitude, lon, lat) < meters {
			return true, nil
		}
	}
	return false, nil
}

type fakeAnimalRefs struct {
	chippedAt map[string]bool
	visitedAt map[string]bool
}

func (f *fakeAnimalRefs) AnyChippedAt(_ context.Context, locationID string) (bool, error) {
	return f.chippedAt[locationID], nil
}

func (f *fakeAnimalRefs) AnyVisitAt(_ context.Context, locationID string) (bool, error) {
	return f.visitedAt[locationID], nil
}

func newTestService() (*Service, *fakeAnimalRefs) {
	refs := &fakeAnimalRefs{chippedAt: map[string]bool{}, visitedAt: map[string]bool{}}
	return NewService(newFakeRepo(), refs, 30), refs
}

func TestCreate_RejectsNearbyPoint(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, 30.0, 60.0); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// ~11 metros al norte, dentro del umbral de 30
	_, err := svc.Create(ctx, 30.0, 60.0001)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got: %v", err)
	}

	// bien lejos
	if _, err := svc.Create(ctx, 31.0, 61.0); err != nil {
		t.Fatalf("Create far point: %v", err)
	}
}

func TestUpdate_ExcludesSelfFromProximityCheck(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	l, err := svc.Create(ctx, 30.0, 60.0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// mover el punto unos metros no choca consigo mismo
	got, err := svc.Update(ctx, l.ID, 30.0, 60.00005)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Latitude != 60.00005 {
		t.Fatalf("unexpected latitude: %v", got.Latitude)
	}
}

func TestUpdate_RejectsMovingOntoAnotherPoint(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, 30.0, 60.0); err != nil {
		t.Fatalf("Create: %v", err)
	}
	l, err := svc.Create(ctx, 31.0, 61.0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(ctx, l.ID, 30.0, 60.0)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got: %v", err)
	}
}

func TestList_FiltersByIDsAndRejectsBlanks(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, 30.0, 60.0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := svc.Create(ctx, 31.0, 61.0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := svc.List(ctx, nil)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(all))
	}
	ids := map[string]bool{all[0].ID: true, all[1].ID: true}
	if !ids[a.ID] || !ids[b.ID] {
		t.Fatalf("missing created locations in %+v", all)
	}

	// ids desconocidos no aparecen, sin error
	got, err := svc.List(ctx, []string{a.ID, "no-such-id"})
	if err != nil {
		t.Fatalf("List by ids: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("unexpected result: %+v", got)
	}

	if _, err := svc.List(ctx, []string{"  "}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for blank id, got: %v", err)
	}
}

func TestDelete_BlockedWhileReferenced(t *testing.T) {
	svc, refs := newTestService()
	ctx := context.Background()

	l, err := svc.Create(ctx, 30.0, 60.0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	refs.chippedAt[l.ID] = true
	if err := svc.Delete(ctx, l.ID); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for chipped-at, got: %v", err)
	}

	refs.chippedAt[l.ID] = false
	refs.visitedAt[l.ID] = true
	if err := svc.Delete(ctx, l.ID); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for visits, got: %v", err)
	}

	refs.visitedAt[l.ID] = false
	if err := svc.Delete(ctx, l.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestDistanceMeters_KnownValues(t *testing.T) {
	// un grado de latitud son ~111 km
	d := DistanceMeters(0, 0, 0, 1)
	if d < 110_000 || d > 112_000 {
		t.Fatalf("unexpected distance: %v", d)
	}

	if DistanceMeters(30, 60, 30, 60) != 0 {
		t.Fatalf("expected zero distance for identical points")
	}
}
