package animals

import (
	"testing"
	"time"

	"animal-chip-tracker/pkg/apperr"
)

func baseAnimal() Animal {
	return Animal{
		ID:                 "a1",
		LifeStatus:         LifeStatusAlive,
		ChippingLocationID: "chip",
		Visits:             []Visit{},
	}
}

func at(minutes int) time.Time {
	return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func mustAppend(t *testing.T, a *Animal, id, loc string, minutes int) {
	t.Helper()
	if _, err := a.AppendVisit(id, loc, at(minutes)); err != nil {
		t.Fatalf("AppendVisit(%s, %s): %v", id, loc, err)
	}
}

func locationSeq(a *Animal) []string {
	out := make([]string, 0, len(a.Visits))
	for _, v := range a.Visits {
		out = append(out, v.LocationID)
	}
	return out
}

func TestAppendVisit_FirstVisitSameAsChipping(t *testing.T) {
	a := baseAnimal()

	_, err := a.AppendVisit("v1", "chip", at(0))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got: %v", err)
	}
	if len(a.Visits) != 0 {
		t.Fatalf("expected no visits, got %d", len(a.Visits))
	}
}

func TestAppendVisit_RejectsOnlyCurrentLocation(t *testing.T) {
	a := baseAnimal()
	mustAppend(t, &a, "v1", "L2", 0)
	mustAppend(t, &a, "v2", "L3", 10)

	// repetir el final actual falla
	if _, err := a.AppendVisit("v3", "L3", at(20)); err == nil {
		t.Fatalf("expected error appending current location")
	}

	// volver a una location anterior no consecutiva es válido
	mustAppend(t, &a, "v3", "L2", 20)
	mustAppend(t, &a, "v4", "chip", 30)

	want := []string{"L2", "L3", "L2", "chip"}
	got := locationSeq(&a)
	if len(got) != len(want) {
		t.Fatalf("expected %d visits, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visit %d: expected %s got %s", i, want[i], got[i])
		}
	}
}

func TestAppendVisit_DeadAnimal(t *testing.T) {
	a := baseAnimal()
	a.LifeStatus = LifeStatusDead

	_, err := a.AppendVisit("v1", "L2", at(0))
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "animal is dead" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestUpdateVisit_NotFound(t *testing.T) {
	a := baseAnimal()
	mustAppend(t, &a, "v1", "L2", 0)

	_, err := a.UpdateVisit("nope", "L3")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func TestUpdateVisit_RejectsSelfPrevAndNext(t *testing.T) {
	a := baseAnimal()
	mustAppend(t, &a, "v1", "L2", 0)
	mustAppend(t, &a, "v2", "L3", 10)
	mustAppend(t, &a, "v3", "L4", 20)

	cases := []struct {
		name    string
		visitID string
		locID   string
		wantMsg string
	}{
		{"same location", "v2", "L3", "location visit with id v2 has the same location id"},
		{"collides with previous", "v2", "L2", "the previous location visit has the same location id"},
		{"collides with next", "v2", "L4", "the next location visit has the same location id"},
		{"first collides with chipping", "v1", "chip", "the previous location visit has the same location id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.UpdateVisit(tc.visitID, tc.locID)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got: %v", err)
			}
			if err.Error() != tc.wantMsg {
				t.Fatalf("expected %q got %q", tc.wantMsg, err.Error())
			}
		})
	}

	// la secuencia no cambió
	want := []string{"L2", "L3", "L4"}
	for i, loc := range locationSeq(&a) {
		if loc != want[i] {
			t.Fatalf("sequence mutated at %d: %s", i, loc)
		}
	}
}

func TestUpdateVisit_ValidChange(t *testing.T) {
	a := baseAnimal()
	mustAppend(t, &a, "v1", "L2", 0)
	mustAppend(t, &a, "v2", "L3", 10)
	mustAppend(t, &a, "v3", "L4", 20)

	v, err := a.UpdateVisit("v2", "L5")
	if err != nil {
		t.Fatalf("UpdateVisit: %v", err)
	}
	if v.LocationID != "L5" {
		t.Fatalf("expected L5, got %s", v.LocationID)
	}
	if a.Visits[1].LocationID != "L5" {
		t.Fatalf("sequence not updated")
	}
}

func TestDeleteVisit_NotFound(t *testing.T) {
	a := baseAnimal()

	err := a.DeleteVisit("nope")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func TestDeleteVisit_Simple(t *testing.T) {
	a := baseAnimal()
	mustAppend(t, &a, "v1", "L2", 0)
	mustAppend(t, &a, "v2", "L3", 10)

	if err := a.DeleteVisit("v2"); err != nil {
		t.Fatalf("DeleteVisit: %v", err)
	}
	if len(a.Visits) != 1 || a.Visits[0].ID != "v1" {
		t.Fatalf("unexpected visits after delete: %+v", a.Visits)
	}
}

func TestDeleteVisit_CollapsesSingleNeighbor(t *testing.T) {
	// [chip] L2 L3 L2: borrar L3 dejaría L2 L2, el segundo L2 también cae
	a := baseAnimal()
	mustAppend(t, &a, "v1", "L2", 0)
	mustAppend(t, &a, "v2", "L3", 10)
	mustAppend(t, &a, "v3", "L2", 20)

	if err := a.DeleteVisit("v2"); err != nil {
		t.Fatalf("DeleteVisit: %v", err)
	}
	if len(a.Visits) != 1 || a.Visits[0].ID != "v1" {
		t.Fatalf("expected only v1 to survive, got: %+v", a.Visits)
	}
}

func TestDeleteVisit_FirstCollapsesAgainstChipping(t *testing.T) {
	// [chip] L2 chip: borrar L2 dejaría chip chip, la visita a chip cae
	a := baseAnimal()
	mustAppend(t, &a, "v1", "L2", 0)
	mustAppend(t, &a, "v2", "chip", 10)

	if err := a.DeleteVisit("v1"); err != nil {
		t.Fatalf("DeleteVisit: %v", err)
	}
	if len(a.Visits) != 0 {
		t.Fatalf("expected empty sequence, got: %+v", a.Visits)
	}
}

func TestDeleteVisit_CollapseNeverCascades(t *testing.T) {
	// [chip] L2 L3 L2 L3: borrar v2 (L3) colapsa v3 (L2) pero v4 (L3)
	// queda aunque ahora siga a L2
	a := baseAnimal()
	mustAppend(t, &a, "v1", "L2", 0)
	mustAppend(t, &a, "v2", "L3", 10)
	mustAppend(t, &a, "v3", "L2", 20)
	mustAppend(t, &a, "v4", "L3", 30)

	if err := a.DeleteVisit("v2"); err != nil {
		t.Fatalf("DeleteVisit: %v", err)
	}

	want := []string{"L2", "L3"}
	got := locationSeq(&a)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v got %v", want, got)
	}
}

func TestDeleteVisit_LastVisitNoCollapse(t *testing.T) {
	a := baseAnimal()
	mustAppend(t, &a, "v1", "L2", 0)
	mustAppend(t, &a, "v2", "L3", 10)

	if err := a.DeleteVisit("v2"); err != nil {
		t.Fatalf("DeleteVisit: %v", err)
	}
	if len(a.Visits) != 1 {
		t.Fatalf("expected one visit, got %d", len(a.Visits))
	}
}
