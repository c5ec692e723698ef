package accounts

import (
	"context"
	"strings"

	"animal-chip-tracker/internal/ports/auth"
	"animal-chip-tracker/pkg/apperr"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo    Repository
	animals AnimalRefs
}

func NewService(repo Repository, animals AnimalRefs) *Service {
	return &Service{repo: repo, animals: animals}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register crea una cuenta con rol USER (flujo de autoregistro).
func (s *Service) Register(ctx context.Context, in RegisterInput) (Account, error) {
	return s.create(ctx, in, auth.RoleUser)
}

// CreateWithRole es el alta administrativa: el admin elige el rol.
func (s *Service) CreateWithRole(ctx context.Context, in RegisterInput, role auth.Role) (Account, error) {
	return s.create(ctx, in, role)
}

func (s *Service) create(ctx context.Context, in RegisterInput, role auth.Role) (Account, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Account{}, apperr.Conflict("account with the same email is already registered")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, apperr.Wrap("hash password", err)
	}

	a := Account{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// GetByID permite leer la cuenta propia; otras solo a admins.
func (s *Service) GetByID(ctx context.Context, claims auth.Claims, id string) (Account, error) {
	if claims.AccountID != id && claims.Role != auth.RoleAdmin {
		return Account{}, apperr.Forbidden("you can not read account with id %s", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, f Filter) ([]Account, error) {
	if f.Size <= 0 {
		f.Size = 10
	}
	return s.repo.Search(ctx, f)
}

type UpdateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      auth.Role
}

func (s *Service) Update(ctx context.Context, claims auth.Claims, id string, in UpdateInput) (Account, error) {
	if claims.AccountID != id && claims.Role != auth.RoleAdmin {
		return Account{}, apperr.Forbidden("you can not update account with id %s", id)
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Account{}, err
	}

	if in.Role != a.Role && claims.Role != auth.RoleAdmin {
		return Account{}, apperr.Forbidden("only admin can change role")
	}

	email := normalizeEmail(in.Email)
	if email != a.Email {
		if _, err := s.repo.GetByEmail(ctx, email); err == nil {
			return Account{}, apperr.Conflict("account with the same email is already registered")
		} else if !apperr.Is(err, apperr.KindNotFound) {
			return Account{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, apperr.Wrap("hash password", err)
	}

	a.FirstName = strings.TrimSpace(in.FirstName)
	a.LastName = strings.TrimSpace(in.LastName)
	a.Email = email
	a.PasswordHash = string(hash)
	a.Role = in.Role

	if err := s.repo.Update(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, claims auth.Claims, id string) error {
	if claims.AccountID != id && claims.Role != auth.RoleAdmin {
		return apperr.Forbidden("you can not delete account with id %s", id)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	chips, err := s.animals.AnyChippedBy(ctx, id)
	if err != nil {
		return err
	}
	if chips {
		return apperr.Validation("account with id %s is a chipper of existing animals", id)
	}

	return s.repo.Delete(ctx, id)
}

// Verify implementa ports/auth.CredentialsVerifier para HTTP Basic.
func (s *Service) Verify(ctx context.Context, email, password string) (auth.Claims, error) {
	a, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return auth.Claims{}, apperr.Unauthorized("the email or password is not correct")
		}
		return auth.Claims{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return auth.Claims{}, apperr.Unauthorized("the email or password is not correct")
	}

	return auth.Claims{AccountID: a.ID, Email: a.Email, Role: a.Role}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
