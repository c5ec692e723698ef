package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"animal-chip-tracker/internal/domain/animals"
	"animal-chip-tracker/pkg/apperr"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO animals (
			id, weight, length, height,
			gender, life_status, death_time,
			chipping_time, chipper_id, chipping_location_id,
			version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,1)
	`,
		a.ID,
		a.Weight,
		a.Length,
		a.Height,
		string(a.Gender),
		string(a.LifeStatus),
		toNullTime(a.DeathTime),
		a.ChippingTime,
		a.ChipperID,
		a.ChippingLocationID,
	); err != nil {
		return err
	}

	if err := insertTypeLinks(ctx, tx, a.ID, a.TypeIDs); err != nil {
		return err
	}
	if err := insertVisits(ctx, tx, a.Visits); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, weight, length, height,
			gender, life_status, death_time,
			chipping_time, chipper_id, chipping_location_id,
			version
		FROM animals
		WHERE id = $1
	`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, apperr.NotFound("animal with id %s was not found", id)
		}
		return animals.Animal{}, err
	}

	if a.TypeIDs, err = r.loadTypeIDs(ctx, a.ID); err != nil {
		return animals.Animal{}, err
	}
	if a.Visits, err = r.loadVisits(ctx, a.ID); err != nil {
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) Search(ctx context.Context, f animals.Filter) ([]animals.Animal, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, weight, length, height,
			gender, life_status, death_time,
			chipping_time, chipper_id, chipping_location_id,
			version
		FROM animals
		WHERE 1=1
	`)

	args := []any{}
	argN := 1

	if f.MinChippingTime != nil {
		sb.WriteString(fmt.Sprintf(" AND chipping_time >= $%d", argN))
		args = append(args, *f.MinChippingTime)
		argN++
	}
	if f.MaxChippingTime != nil {
		sb.WriteString(fmt.Sprintf(" AND chipping_time <= $%d", argN))
		args = append(args, *f.MaxChippingTime)
		argN++
	}
	if f.ChipperID != "" {
		sb.WriteString(fmt.Sprintf(" AND chipper_id = $%d", argN))
		args = append(args, f.ChipperID)
		argN++
	}
	if f.ChippingLocationID != "" {
		sb.WriteString(fmt.Sprintf(" AND chipping_location_id = $%d", argN))
		args = append(args, f.ChippingLocationID)
		argN++
	}
	if f.LifeStatus != nil {
		sb.WriteString(fmt.Sprintf(" AND life_status = $%d", argN))
		args = append(args, string(*f.LifeStatus))
		argN++
	}
	if f.Gender != nil {
		sb.WriteString(fmt.Sprintf(" AND gender = $%d", argN))
		args = append(args, string(*f.Gender))
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

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].TypeIDs, err = r.loadTypeIDs(ctx, out[i].ID); err != nil {
			return nil, err
		}
		if out[i].Visits, err = r.loadVisits(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Save persiste el animal completo en una sola transacción. El UPDATE
// condiciona sobre la version cargada: cero filas con el animal presente
// significa que otro request ganó la carrera.
func (r *AnimalsRepo) Save(ctx context.Context, a animals.Animal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE animals
		SET
			weight = $3,
			length = $4,
			height = $5,
			gender = $6,
			life_status = $7,
			death_time = $8,
			chipping_time = $9,
			chipper_id = $10,
			chipping_location_id = $11,
			version = version + 1
		WHERE id = $1 AND version = $2
	`,
		a.ID,
		a.Version,
		a.Weight,
		a.Length,
		a.Height,
		string(a.Gender),
		string(a.LifeStatus),
		toNullTime(a.DeathTime),
		a.ChippingTime,
		a.ChipperID,
		a.ChippingLocationID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM animals WHERE id = $1)
		`, a.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("animal with id %s was not found", a.ID)
		}
		return apperr.Conflict("animal with id %s was modified concurrently", a.ID)
	}

	// reconcile simple: borrar y reinsertar links y visitas
	if _, err := tx.ExecContext(ctx, `DELETE FROM animal_type_links WHERE animal_id = $1`, a.ID); err != nil {
		return err
	}
	if err := insertTypeLinks(ctx, tx, a.ID, a.TypeIDs); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM animal_visits WHERE animal_id = $1`, a.ID); err != nil {
		return err
	}
	if err := insertVisits(ctx, tx, a.Visits); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("animal with id %s was not found", id)
	}
	return nil
}

func (r *AnimalsRepo) ListVisits(ctx context.Context, animalID string, f animals.VisitFilter) ([]animals.Visit, error) {
	exists, err := r.animalExists(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("animal with id %s was not found", animalID)
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, animal_id, location_id, visited_at
		FROM animal_visits
		WHERE animal_id = $1
	`)

	args := []any{animalID}
	argN := 2

	if f.MinVisitedAt != nil {
		sb.WriteString(fmt.Sprintf(" AND visited_at >= $%d", argN))
		args = append(args, *f.MinVisitedAt)
		argN++
	}
	if f.MaxVisitedAt != nil {
		sb.WriteString(fmt.Sprintf(" AND visited_at <= $%d", argN))
		args = append(args, *f.MaxVisitedAt)
		argN++
	}

	sb.WriteString(" ORDER BY visited_at ASC")
	sb.WriteString(fmt.Sprintf(" OFFSET $%d LIMIT $%d", argN, argN+1))
	args = append(args, f.From, f.Size)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Visit, 0)
	for rows.Next() {
		var v animals.Visit
		if err := rows.Scan(&v.ID, &v.AnimalID, &v.LocationID, &v.VisitedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) AnyChippedAt(ctx context.Context, locationID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM animals WHERE chipping_location_id = $1)
	`, locationID).Scan(&ok)
	return ok, err
}

func (r *AnimalsRepo) AnyVisitAt(ctx context.Context, locationID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM animal_visits WHERE location_id = $1)
	`, locationID).Scan(&ok)
	return ok, err
}

func (r *AnimalsRepo) AnyWithType(ctx context.Context, typeID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM animal_type_links WHERE type_id = $1)
	`, typeID).Scan(&ok)
	return ok, err
}

func (r *AnimalsRepo) AnyChippedBy(ctx context.Context, accountID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM animals WHERE chipper_id = $1)
	`, accountID).Scan(&ok)
	return ok, err
}

func (r *AnimalsRepo) animalExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM animals WHERE id = $1)
	`, id).Scan(&ok)
	return ok, err
}

func (r *AnimalsRepo) loadTypeIDs(ctx context.Context, animalID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT type_id FROM animal_type_links
		WHERE animal_id = $1
		ORDER BY type_id ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) loadVisits(ctx context.Context, animalID string) ([]animals.Visit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, animal_id, location_id, visited_at
		FROM animal_visits
		WHERE animal_id = $1
		ORDER BY visited_at ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Visit, 0)
	for rows.Next() {
		var v animals.Visit
		if err := rows.Scan(&v.ID, &v.AnimalID, &v.LocationID, &v.VisitedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var gender, lifeStatus string
	var death sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.Weight,
		&a.Length,
		&a.Height,
		&gender,
		&lifeStatus,
		&death,
		&a.ChippingTime,
		&a.ChipperID,
		&a.ChippingLocationID,
		&a.Version,
	); err != nil {
		return animals.Animal{}, err
	}
	a.Gender = animals.Gender(gender)
	a.LifeStatus = animals.LifeStatus(lifeStatus)
	if death.Valid {
		t := death.Time
		a.DeathTime = &t
	}
	return a, nil
}

func insertTypeLinks(ctx context.Context, tx *sql.Tx, animalID string, typeIDs []string) error {
	for _, typeID := range typeIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO animal_type_links (animal_id, type_id)
			VALUES ($1, $2)
		`, animalID, typeID); err != nil {
			return err
		}
	}
	return nil
}

func insertVisits(ctx context.Context, tx *sql.Tx, visits []animals.Visit) error {
	for _, v := range visits {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO animal_visits (id, animal_id, location_id, visited_at)
			VALUES ($1, $2, $3, $4)
		`, v.ID, v.AnimalID, v.LocationID, v.VisitedAt); err != nil {
			return err
		}
	}
	return nil
}

// death_time es nullable, lo pasamos como NullTime para simplificar
func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
