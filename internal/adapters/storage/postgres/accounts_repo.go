package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"animal-chip-tracker/internal/domain/accounts"
	"animal-chip-tracker/internal/ports/auth"
	"animal-chip-tracker/pkg/apperr"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

func (r *AccountsRepo) Create(ctx context.Context, a accounts.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, first_name, last_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.FirstName, a.LastName, a.Email, a.PasswordHash, string(a.Role))
	if uniqueViolation(err) {
		return apperr.Conflict("account with the same email is already registered")
	}
	return err
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, role
		FROM accounts
		WHERE id = $1
	`, id)
	return scanAccount(row, apperr.NotFound("account with id %s was not found", id))
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, role
		FROM accounts
		WHERE lower(email) = lower($1)
	`, email)
	return scanAccount(row, apperr.NotFound("account with email %s was not found", email))
}

func (r *AccountsRepo) Search(ctx context.Context, f accounts.Filter) ([]accounts.Account, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, first_name, last_name, email, password_hash, role
		FROM accounts
		WHERE 1=1
	`)

	args := []any{}
	argN := 1

	if strings.TrimSpace(f.FirstName) != "" {
		sb.WriteString(fmt.Sprintf(" AND first_name ILIKE $%d", argN))
		args = append(args, "%"+strings.TrimSpace(f.FirstName)+"%")
		argN++
	}
	if strings.TrimSpace(f.LastName) != "" {
		sb.WriteString(fmt.Sprintf(" AND last_name ILIKE $%d", argN))
		args = append(args, "%"+strings.TrimSpace(f.LastName)+"%")
		argN++
	}
	if strings.TrimSpace(f.Email) != "" {
		sb.WriteString(fmt.Sprintf(" AND email ILIKE $%d", argN))
		args = append(args, "%"+strings.TrimSpace(f.Email)+"%")
		argN++
	}

	sb.WriteString(" ORDER BY id ASC")
	sb.WriteString(fmt.Sprintf(" OFFSET $%d LIMIT $%d", argN, argN+1))
	args = append(args, f.From, f.Size)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]accounts.Account, 0)
	for rows.Next() {
		var a accounts.Account
		var role string
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &role); err != nil {
			return nil, err
		}
		a.Role = auth.Role(role)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountsRepo) Update(ctx context.Context, a accounts.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET first_name = $2, last_name = $3, email = $4, password_hash = $5, role = $6
		WHERE id = $1
	`, a.ID, a.FirstName, a.LastName, a.Email, a.PasswordHash, string(a.Role))
	if uniqueViolation(err) {
		return apperr.Conflict("account with the same email is already registered")
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("account with id %s was not found", a.ID)
	}
	return nil
}

func (r *AccountsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("account with id %s was not found", id)
	}
	return nil
}

func (r *AccountsRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)
	`, id).Scan(&ok)
	return ok, err
}

func scanAccount(row *sql.Row, notFound error) (accounts.Account, error) {
	var a accounts.Account
	var role string
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &role); err != nil {
		if err == sql.ErrNoRows {
			return accounts.Account{}, notFound
		}
		return accounts.Account{}, err
	}
	a.Role = auth.Role(role)
	return a, nil
}
