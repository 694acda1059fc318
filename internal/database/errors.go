package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ConstraintKind classifies an integrity error returned by the database.
type ConstraintKind int

const (
	NotConstraint ConstraintKind = iota
	UniqueViolation
	CheckViolation
	ForeignKeyViolation
	OtherConstraint
)

const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
	pgIntegrityClass      = "23"
)

// ClassifyConstraint inspects err from PostgreSQL (pgconn) or SQLite (modernc)
// and tells which kind of constraint was violated.
func ClassifyConstraint(err error) ConstraintKind {
	if err == nil {
		return NotConstraint
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return UniqueViolation
		case pgCheckViolation:
			return CheckViolation
		case pgForeignKeyViolation:
			return ForeignKeyViolation
		}
		if strings.HasPrefix(pgErr.Code, pgIntegrityClass) {
			return OtherConstraint
		}
		return NotConstraint
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return UniqueViolation
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return CheckViolation
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ForeignKeyViolation
		}
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return OtherConstraint
		}
		return NotConstraint
	}

	// other drivers only expose the message
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return UniqueViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		return CheckViolation
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ForeignKeyViolation
	}
	return NotConstraint
}

func IsUniqueViolation(err error) bool {
	return ClassifyConstraint(err) == UniqueViolation
}

func IsCheckViolation(err error) bool {
	return ClassifyConstraint(err) == CheckViolation
}
