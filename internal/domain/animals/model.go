package animals

import "time"

// Visit registra que el animal estuvo en un punto después del chipeo.
// No existe fuera de su animal: el animal es dueño de la secuencia.
type Visit struct {
	ID         string
	AnimalID   string
	LocationID string
	VisitedAt  time.Time
}

// Animal es la entidad chipeada. Visits viene siempre materializada y
// ordenada por VisitedAt ascendente: los chequeos de adyacencia miran
// vecinos, nunca una fila suelta.
type Animal struct {
	ID         string
	Weight     float64
	Length     float64
	Height     float64
	Gender     Gender
	LifeStatus LifeStatus
	DeathTime  *time.Time

	ChippingTime       time.Time
	ChipperID          string
	ChippingLocationID string

	TypeIDs []string
	Visits  []Visit

	// Version respalda la concurrencia optimista del Save.
	Version int64
}

func (a *Animal) hasType(typeID string) bool {
	for _, id := range a.TypeIDs {
		if id == typeID {
			return true
		}
	}
	return false
}
