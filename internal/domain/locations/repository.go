package locations

import "context"

type Repository interface {
	Create(ctx context.Context, l Location) error
	GetByID(ctx context.Context, id string) (Location, error)

	// List devuelve los puntos con id en ids, ordenados por id. ids vacío
	// o nil = todos. Ids desconocidos simplemente no aparecen.
	List(ctx context.Context, ids []string) ([]Location, error)
	Update(ctx context.Context, l Location) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)

	// AnyWithin informa si existe otro punto a menos de meters del par
	// lon/lat dado. excludeID permite ignorar el propio punto en updates.
	AnyWithin(ctx context.Context, lon, lat, meters float64, excludeID string) (bool, error)
}

// AnimalRefs son las referencias inversas que bloquean el borrado de un
// punto; las responde el store de animales.
type AnimalRefs interface {
	AnyChippedAt(ctx context.Context, locationID string) (bool, error)
	AnyVisitAt(ctx context.Context, locationID string) (bool, error)
}
