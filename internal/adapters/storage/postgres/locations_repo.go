package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"animal-chip-tracker/internal/domain/locations"
	"animal-chip-tracker/pkg/apperr"
)

type LocationsRepo struct {
	db *sql.DB
}

func NewLocationsRepo(db *sql.DB) *LocationsRepo {
	return &LocationsRepo{db: db}
}

func (r *LocationsRepo) Create(ctx context.Context, l locations.Location) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO locations (id, longitude, latitude)
		VALUES ($1, $2, $3)
	`, l.ID, l.Longitude, l.Latitude)
	return err
}

func (r *LocationsRepo) GetByID(ctx context.Context, id string) (locations.Location, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, longitude, latitude
		FROM locations
		WHERE id = $1
	`, id)

	var l locations.Location
	if err := row.Scan(&l.ID, &l.Longitude, &l.Latitude); err != nil {
		if err == sql.ErrNoRows {
			return locations.Location{}, apperr.NotFound("location with id %s was not found", id)
		}
		return locations.Location{}, err
	}
	return l, nil
}

func (r *LocationsRepo) List(ctx context.Context, ids []string) ([]locations.Location, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, longitude, latitude
		FROM locations
	`)

	var args []any
	if len(ids) > 0 {
		sb.WriteString("WHERE id IN (")
		for i, id := range ids {
			if i > 0 {
				sb.WriteString(", ")
			}
			args = append(args, id)
			sb.WriteString(fmt.Sprintf("$%d", len(args)))
		}
		sb.WriteString(")\n")
	}
	sb.WriteString("ORDER BY id ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []locations.Location
	for rows.Next() {
		var l locations.Location
		if err := rows.Scan(&l.ID, &l.Longitude, &l.Latitude); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LocationsRepo) Update(ctx context.Context, l locations.Location) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE locations
		SET longitude = $2, latitude = $3
		WHERE id = $1
	`, l.ID, l.Longitude, l.Latitude)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("location with id %s was not found", l.ID)
	}
	return nil
}

func (r *LocationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("location with id %s was not found", id)
	}
	return nil
}

func (r *LocationsRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM locations WHERE id = $1)
	`, id).Scan(&ok)
	return ok, err
}

// AnyWithin evalúa el haversine en SQL con el mismo radio terrestre que
// usa el dominio, así ambos adapters deciden igual en el borde exacto.
func (r *LocationsRepo) AnyWithin(ctx context.Context, lon, lat, meters float64, excludeID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM locations
			WHERE id <> $4
			  AND 2 * 6371000 * asin(sqrt(
					pow(sin(radians(latitude - $2) / 2), 2) +
					cos(radians($2)) * cos(radians(latitude)) *
					pow(sin(radians(longitude - $1) / 2), 2)
				)) < $3
		)
	`, lon, lat, meters, excludeID).Scan(&ok)
	return ok, err
}
