package accounts

import "context"

type Repository interface {
	Create(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	Search(ctx context.Context, f Filter) ([]Account, error)
	Update(ctx context.Context, a Account) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// Filter busca por substring case-insensitive; paging por from/size.
type Filter struct {
	FirstName string
	LastName  string
	Email     string
	From      int
	Size      int
}

// AnimalRefs bloquea el borrado de una cuenta que sigue siendo chipper
// de algún animal.
type AnimalRefs interface {
	AnyChippedBy(ctx context.Context, accountID string) (bool, error)
}
