package animals

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Animal) error

	// GetByID carga el animal completo: type ids y la secuencia de visitas
	// ordenada por visited_at ascendente.
	GetByID(ctx context.Context, id string) (Animal, error)

	Search(ctx context.Context, f Filter) ([]Animal, error)

	// Save persiste todas las mutaciones de un request en una sola
	// operación atómica, con chequeo optimista de Version (mismatch =>
	// error Conflict). Incrementa Version.
	Save(ctx context.Context, a Animal) error

	Delete(ctx context.Context, id string) error

	ListVisits(ctx context.Context, animalID string, f VisitFilter) ([]Visit, error)

	// Referencias inversas que consultan los demás módulos antes de borrar
	// sus entidades.
	AnyChippedAt(ctx context.Context, locationID string) (bool, error)
	AnyVisitAt(ctx context.Context, locationID string) (bool, error)
	AnyWithType(ctx context.Context, typeID string) (bool, error)
	AnyChippedBy(ctx context.Context, accountID string) (bool, error)
}

// Filter filtra la búsqueda de animales; paging por from/size, orden por id.
type Filter struct {
	MinChippingTime    *time.Time
	MaxChippingTime    *time.Time
	ChipperID          string
	ChippingLocationID string
	LifeStatus         *LifeStatus
	Gender             *Gender
	From               int
	Size               int
}

// VisitFilter pagina el historial de visitas de un animal, orden por
// visited_at ascendente.
type VisitFilter struct {
	MinVisitedAt *time.Time
	MaxVisitedAt *time.Time
	From         int
	Size         int
}

// Stores vecinos, solo chequeos de existencia.
type LocationStore interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type TypeStore interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type AccountStore interface {
	Exists(ctx context.Context, id string) (bool, error)
}
