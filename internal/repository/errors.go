package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// a duplicate journal insert returns no row because of ON CONFLICT DO NOTHING
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
