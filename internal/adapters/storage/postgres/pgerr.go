package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation detecta el código 23505 de Postgres. Los servicios
// chequean duplicados antes de insertar, pero dos requests concurrentes
// pueden pasar el chequeo a la vez; la constraint es quien decide y acá
// la traducimos a un conflicto de dominio en vez de un 500.
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
