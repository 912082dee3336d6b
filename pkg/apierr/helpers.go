package apierr

import (
	"errors"
	"io/fs"

	"github.com/jackc/pgx/v5"
)

// IsNotFound returns true if the error is or wraps pgx.ErrNoRows or a
// filesystem not-exist error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, fs.ErrNotExist)
}
