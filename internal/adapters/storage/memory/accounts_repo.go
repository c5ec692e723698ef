package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"animal-chip-tracker/internal/domain/accounts"
	"animal-chip-tracker/pkg/apperr"
)

type accountsRepo struct {
	mu   sync.RWMutex
	byID map[string]accounts.Account
}

func NewAccountsRepo() accounts.Repository {
	return &accountsRepo{byID: make(map[string]accounts.Account)}
}

func (r *accountsRepo) Create(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; exists {
		return apperr.Conflict("account with id %s already exists", a.ID)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return accounts.Account{}, apperr.NotFound("account with id %s was not found", id)
	}
	return a, nil
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return accounts.Account{}, apperr.NotFound("account with email %s was not found", email)
}

func (r *accountsRepo) Search(ctx context.Context, f accounts.Filter) ([]accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]accounts.Account, 0)
	for _, a := range r.byID {
		if !containsFold(a.FirstName, f.FirstName) {
			continue
		}
		if !containsFold(a.LastName, f.LastName) {
			continue
		}
		if !containsFold(a.Email, f.Email) {
			continue
		}
		matched = append(matched, a)
	}

	// orden estable por id para que el paging sea reproducible
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return page(matched, f.From, f.Size), nil
}

func (r *accountsRepo) Update(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID]; !ok {
		return apperr.NotFound("account with id %s was not found", a.ID)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *accountsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("account with id %s was not found", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *accountsRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]
	return ok, nil
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func page[T any](items []T, from, size int) []T {
	if from >= len(items) {
		return []T{}
	}
	end := from + size
	if end > len(items) {
		end = len(items)
	}
	return items[from:end]
}
