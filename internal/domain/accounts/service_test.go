package accounts

import (
	"context"
	"strings"
	"testing"

	"animal-chip-tracker/internal/ports/auth"
	"animal-chip-tracker/pkg/apperr"

	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	byID map[string]Account
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]Account)}
}

func (r *fakeRepo) Create(_ context.Context, a Account) error {
	r.byID[a.ID] = a
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return Account{}, apperr.NotFound("account with id %s was not found", id)
	}
	return a, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (Account, error) {
	for _, a := range r.byID {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return Account{}, apperr.NotFound("account with email %s was not found", email)
}

func (r *fakeRepo) Search(_ context.Context, _ Filter) ([]Account, error) {
	out := make([]Account, 0)
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, a Account) error {
	if _, ok := r.byID[a.ID]; !ok {
		return apperr.NotFound("account with id %s was not found", a.ID)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("account with id %s was not found", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

type fakeAnimalRefs struct {
	chippers map[string]bool
}

func (f *fakeAnimalRefs) AnyChippedBy(_ context.Context, accountID string) (bool, error) {
	return f.chippers[accountID], nil
}

func newTestService() (*Service, *fakeRepo, *fakeAnimalRefs) {
	repo := newFakeRepo()
	refs := &fakeAnimalRefs{chippers: map[string]bool{}}
	return NewService(repo, refs), repo, refs
}

func adminClaims() auth.Claims {
	return auth.Claims{AccountID: "admin-id", Email: "admin@chip.example", Role: auth.RoleAdmin}
}

func selfClaims(a Account) auth.Claims {
	return auth.Claims{AccountID: a.ID, Email: a.Email, Role: a.Role}
}

func TestRegister_HashesPasswordAndNormalizesEmail(t *testing.T) {
	svc, _, _ := newTestService()

	a, err := svc.Register(context.Background(), RegisterInput{
		FirstName: " Maria ",
		LastName:  "Lopez",
		Email:     " Maria@Chip.Example ",
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if a.Email != "maria@chip.example" {
		t.Fatalf("expected normalized email, got %q", a.Email)
	}
	if a.FirstName != "Maria" {
		t.Fatalf("expected trimmed first name, got %q", a.FirstName)
	}
	if a.Role != auth.RoleUser {
		t.Fatalf("expected USER role, got %s", a.Role)
	}
	if a.PasswordHash == "secret123" {
		t.Fatalf("password stored in the clear")
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("secret123")) != nil {
		t.Fatalf("hash does not match password")
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	in := RegisterInput{FirstName: "A", LastName: "B", Email: "a@chip.example", Password: "pw"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// mismo email con otra capitalización
	in.Email = "A@CHIP.EXAMPLE"
	_, err := svc.Register(ctx, in)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got: %v", err)
	}
}

func TestGetByID_SelfOrAdmin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@chip.example", Password: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.GetByID(ctx, selfClaims(a), a.ID); err != nil {
		t.Fatalf("self read: %v", err)
	}
	if _, err := svc.GetByID(ctx, adminClaims(), a.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}

	other := auth.Claims{AccountID: "other", Role: auth.RoleUser}
	_, err = svc.GetByID(ctx, other, a.ID)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got: %v", err)
	}
}

func TestUpdate_OnlyAdminChangesRole(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@chip.example", Password: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	in := UpdateInput{FirstName: "A", LastName: "B", Email: "a@chip.example", Password: "pw", Role: auth.RoleChipper}
	_, err = svc.Update(ctx, selfClaims(a), a.ID, in)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got: %v", err)
	}

	got, err := svc.Update(ctx, adminClaims(), a.ID, in)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if got.Role != auth.RoleChipper {
		t.Fatalf("expected CHIPPER, got %s", got.Role)
	}
}

func TestUpdate_EmailTakenConflicts(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@chip.example", Password: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{FirstName: "C", LastName: "D", Email: "c@chip.example", Password: "pw"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	in := UpdateInput{FirstName: "A", LastName: "B", Email: "c@chip.example", Password: "pw", Role: a.Role}
	_, err = svc.Update(ctx, selfClaims(a), a.ID, in)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got: %v", err)
	}
}

func TestDelete_BlockedWhileChipper(t *testing.T) {
	svc, _, refs := newTestService()
	ctx := context.Background()

	a, err := svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@chip.example", Password: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	refs.chippers[a.ID] = true
	err = svc.Delete(ctx, selfClaims(a), a.ID)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got: %v", err)
	}

	refs.chippers[a.ID] = false
	if err := svc.Delete(ctx, selfClaims(a), a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestVerify_Credentials(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@chip.example", Password: "secret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := svc.Verify(ctx, "A@chip.example", "secret")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.AccountID != a.ID || claims.Role != auth.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.Verify(ctx, "a@chip.example", "wrong"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized on bad password, got: %v", err)
	}
	if _, err := svc.Verify(ctx, "ghost@chip.example", "secret"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized on unknown email, got: %v", err)
	}
}
