package postgres

import (
	"context"
	"database/sql"

	"animal-chip-tracker/internal/domain/animaltypes"
	"animal-chip-tracker/pkg/apperr"
)

type AnimalTypesRepo struct {
	db *sql.DB
}

func NewAnimalTypesRepo(db *sql.DB) *AnimalTypesRepo {
	return &AnimalTypesRepo{db: db}
}

func (r *AnimalTypesRepo) Create(ctx context.Context, t animaltypes.AnimalType) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animal_types (id, name)
		VALUES ($1, $2)
	`, t.ID, t.Type)
	if uniqueViolation(err) {
		return apperr.Conflict("animal type %q already exists", t.Type)
	}
	return err
}

func (r *AnimalTypesRepo) GetByID(ctx context.Context, id string) (animaltypes.AnimalType, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name FROM animal_types WHERE id = $1
	`, id)

	var t animaltypes.AnimalType
	if err := row.Scan(&t.ID, &t.Type); err != nil {
		if err == sql.ErrNoRows {
			return animaltypes.AnimalType{}, apperr.NotFound("animal type with id %s was not found", id)
		}
		return animaltypes.AnimalType{}, err
	}
	return t, nil
}

func (r *AnimalTypesRepo) GetByName(ctx context.Context, name string) (animaltypes.AnimalType, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name FROM animal_types WHERE lower(name) = lower($1)
	`, name)

	var t animaltypes.AnimalType
	if err := row.Scan(&t.ID, &t.Type); err != nil {
		if err == sql.ErrNoRows {
			return animaltypes.AnimalType{}, apperr.NotFound("animal type %q was not found", name)
		}
		return animaltypes.AnimalType{}, err
	}
	return t, nil
}

func (r *AnimalTypesRepo) Update(ctx context.Context, t animaltypes.AnimalType) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animal_types SET name = $2 WHERE id = $1
	`, t.ID, t.Type)
	if uniqueViolation(err) {
		return apperr.Conflict("animal type %q already exists", t.Type)
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("animal type with id %s was not found", t.ID)
	}
	return nil
}

func (r *AnimalTypesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animal_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("animal type with id %s was not found", id)
	}
	return nil
}

func (r *AnimalTypesRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM animal_types WHERE id = $1)
	`, id).Scan(&ok)
	return ok, err
}
