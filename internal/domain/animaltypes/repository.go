package animaltypes

import "context"

type Repository interface {
	Create(ctx context.Context, t AnimalType) error
	GetByID(ctx context.Context, id string) (AnimalType, error)
	GetByName(ctx context.Context, name string) (AnimalType, error)
	Update(ctx context.Context, t AnimalType) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// AnimalRefs bloquea el borrado de un tipo mientras algún animal lo tenga.
type AnimalRefs interface {
	AnyWithType(ctx context.Context, typeID string) (bool, error)
}
