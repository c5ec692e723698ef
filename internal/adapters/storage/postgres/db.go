package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate crea el esquema si no existe. Idempotente; se corre al arrancar.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id            TEXT PRIMARY KEY,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS locations (
			id        TEXT PRIMARY KEY,
			longitude DOUBLE PRECISION NOT NULL,
			latitude  DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS animal_types (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS animals (
			id                   TEXT PRIMARY KEY,
			weight               DOUBLE PRECISION NOT NULL,
			length               DOUBLE PRECISION NOT NULL,
			height               DOUBLE PRECISION NOT NULL,
			gender               TEXT NOT NULL,
			life_status          TEXT NOT NULL,
			death_time           TIMESTAMPTZ,
			chipping_time        TIMESTAMPTZ NOT NULL,
			chipper_id           TEXT NOT NULL REFERENCES accounts(id),
			chipping_location_id TEXT NOT NULL REFERENCES locations(id),
			version              BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS animal_type_links (
			animal_id TEXT NOT NULL REFERENCES animals(id) ON DELETE CASCADE,
			type_id   TEXT NOT NULL REFERENCES animal_types(id),
			PRIMARY KEY (animal_id, type_id)
		)`,
		`CREATE TABLE IF NOT EXISTS animal_visits (
			id          TEXT PRIMARY KEY,
			animal_id   TEXT NOT NULL REFERENCES animals(id) ON DELETE CASCADE,
			location_id TEXT NOT NULL REFERENCES locations(id),
			visited_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_animal_visits_animal ON animal_visits (animal_id, visited_at)`,
		`CREATE TABLE IF NOT EXISTS areas (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS area_points (
			area_id   TEXT NOT NULL REFERENCES areas(id) ON DELETE CASCADE,
			ord       INT NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			latitude  DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (area_id, ord)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
