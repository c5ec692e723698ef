package animals

import (
	"time"

	"animal-chip-tracker/pkg/apperr"
)

// Motor de la secuencia de visitas. Trabaja sobre la lista materializada y
// ordenada por tiempo del animal, con la chipping location como predecesor
// lógico del primer elemento. Invariante central: dos elementos consecutivos
// de [chipping_location] + visitas nunca repiten location.
//
// Las mutaciones operan sobre el valor Animal cargado; nada toca el store
// hasta que el caller hace Save, así un precondición fallida no deja
// escrituras parciales.

// lastLocationID es el final actual de la secuencia: la última visita, o la
// chipping location si el animal nunca salió.
func (a *Animal) lastLocationID() string {
	if len(a.Visits) == 0 {
		return a.ChippingLocationID
	}
	return a.Visits[len(a.Visits)-1].LocationID
}

func (a *Animal) visitIndex(visitID string) (int, bool) {
	for i, v := range a.Visits {
		if v.ID == visitID {
			return i, true
		}
	}
	return 0, false
}

// prevLocationID es la location del vecino anterior por tiempo estricto
// (visited_at menor), o la chipping location si no hay ninguno.
func (a *Animal) prevLocationID(target Visit) string {
	prev := a.ChippingLocationID
	for _, v := range a.Visits {
		if v.VisitedAt.Before(target.VisitedAt) {
			prev = v.LocationID
		}
	}
	return prev
}

// nextVisit es el vecino posterior por tiempo estricto, si existe.
func (a *Animal) nextVisit(target Visit) (Visit, bool) {
	for _, v := range a.Visits {
		if v.VisitedAt.After(target.VisitedAt) {
			return v, true
		}
	}
	return Visit{}, false
}

// AppendVisit agrega una visita al final de la secuencia, estampada en at.
// Como entra al final, el único vecino a chequear es el predecesor.
func (a *Animal) AppendVisit(visitID, locationID string, at time.Time) (Visit, error) {
	if a.LifeStatus == LifeStatusDead {
		return Visit{}, apperr.Validation("animal is dead")
	}
	if a.lastLocationID() == locationID {
		return Visit{}, apperr.Validation("the animal is already in the location")
	}

	v := Visit{
		ID:         visitID,
		AnimalID:   a.ID,
		LocationID: locationID,
		VisitedAt:  at,
	}
	a.Visits = append(a.Visits, v)
	return v, nil
}

// UpdateVisit cambia la location de una visita existente (no necesariamente
// la última). VisitedAt y la posición no se tocan, así que hay que comparar
// contra ambos vecinos además de la propia visita.
func (a *Animal) UpdateVisit(visitID, locationID string) (Visit, error) {
	idx, ok := a.visitIndex(visitID)
	if !ok {
		return Visit{}, apperr.NotFound(
			"location visit with id %s was not found for animal with id %s", visitID, a.ID)
	}
	target := a.Visits[idx]

	if target.LocationID == locationID {
		return Visit{}, apperr.Validation("location visit with id %s has the same location id", visitID)
	}
	if a.prevLocationID(target) == locationID {
		return Visit{}, apperr.Validation("the previous location visit has the same location id")
	}
	if next, ok := a.nextVisit(target); ok && next.LocationID == locationID {
		return Visit{}, apperr.Validation("the next location visit has the same location id")
	}

	a.Visits[idx].LocationID = locationID
	return a.Visits[idx], nil
}

// DeleteVisit saca la visita de la secuencia. Si al quitarla el vecino
// siguiente quedaría pegado a un predecesor con la misma location, ese
// vecino también se elimina (colapso de un solo vecino, nunca en cadena).
func (a *Animal) DeleteVisit(visitID string) error {
	idx, ok := a.visitIndex(visitID)
	if !ok {
		return apperr.NotFound(
			"location visit with id %s was not found for animal with id %s", visitID, a.ID)
	}
	target := a.Visits[idx]

	prevLocation := a.prevLocationID(target)

	if next, ok := a.nextVisit(target); ok && next.LocationID == prevLocation {
		a.removeVisit(next.ID)
	}
	a.removeVisit(target.ID)
	return nil
}

func (a *Animal) removeVisit(visitID string) {
	for i, v := range a.Visits {
		if v.ID == visitID {
			a.Visits = append(a.Visits[:i], a.Visits[i+1:]...)
			return
		}
	}
}
