package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repositories care about
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

// IsUniqueViolation reports a 23505 error, optionally restricted to one constraint
func IsUniqueViolation(err error, constraint ...string) bool {
	return hasCode(err, CodeUniqueViolation, constraint...)
}

// IsForeignKeyViolation reports a 23503 error, optionally restricted to one constraint
func IsForeignKeyViolation(err error, constraint ...string) bool {
	return hasCode(err, CodeForeignKeyViolation, constraint...)
}

func hasCode(err error, code string, constraint ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	for _, c := range constraint {
		if pgErr.ConstraintName == c {
			return true
		}
	}
	return false
}
