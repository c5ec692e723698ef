package postgres

import (
	"context"
	"database/sql"

	"animal-chip-tracker/internal/domain/areas"
	"animal-chip-tracker/pkg/apperr"
)

type AreasRepo struct {
	db *sql.DB
}

func NewAreasRepo(db *sql.DB) *AreasRepo {
	return &AreasRepo{db: db}
}

func (r *AreasRepo) Create(ctx context.Context, a areas.Area) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO areas (id, name) VALUES ($1, $2)
	`, a.ID, a.Name); err != nil {
		if uniqueViolation(err) {
			return apperr.Conflict("area %q already exists", a.Name)
		}
		return err
	}

	for i, p := range a.Points {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO area_points (area_id, ord, longitude, latitude)
			VALUES ($1, $2, $3, $4)
		`, a.ID, i, p.Longitude, p.Latitude); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *AreasRepo) GetByID(ctx context.Context, id string) (areas.Area, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name FROM areas WHERE id = $1
	`, id)

	var a areas.Area
	if err := row.Scan(&a.ID, &a.Name); err != nil {
		if err == sql.ErrNoRows {
			return areas.Area{}, apperr.NotFound("area with id %s was not found", id)
		}
		return areas.Area{}, err
	}

	points, err := r.loadPoints(ctx, a.ID)
	if err != nil {
		return areas.Area{}, err
	}
	a.Points = points
	return a, nil
}

func (r *AreasRepo) GetByName(ctx context.Context, name string) (areas.Area, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name FROM areas WHERE lower(name) = lower($1)
	`, name)

	var a areas.Area
	if err := row.Scan(&a.ID, &a.Name); err != nil {
		if err == sql.ErrNoRows {
			return areas.Area{}, apperr.NotFound("area %q was not found", name)
		}
		return areas.Area{}, err
	}

	points, err := r.loadPoints(ctx, a.ID)
	if err != nil {
		return areas.Area{}, err
	}
	a.Points = points
	return a, nil
}

func (r *AreasRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("area with id %s was not found", id)
	}
	return nil
}

func (r *AreasRepo) loadPoints(ctx context.Context, areaID string) ([]areas.Point, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT longitude, latitude
		FROM area_points
		WHERE area_id = $1
		ORDER BY ord ASC
	`, areaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]areas.Point, 0)
	for rows.Next() {
		var p areas.Point
		if err := rows.Scan(&p.Longitude, &p.Latitude); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
