package areas

import "context"

type Repository interface {
	Create(ctx context.Context, a Area) error
	GetByID(ctx context.Context, id string) (Area, error)
	GetByName(ctx context.Context, name string) (Area, error)
	Delete(ctx context.Context, id string) error
}
