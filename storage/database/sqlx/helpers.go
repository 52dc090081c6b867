package sqlxrepos

import (
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// isUniqueViolation reports whether err is a sqlite unique-constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// trapNoRowsErr maps sql "no rows" to the domain's not-found error.
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func nullableID(id *int) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func idPtr(id sql.NullInt64) *int {
	if !id.Valid {
		return nil
	}
	v := int(id.Int64)
	return &v
}
