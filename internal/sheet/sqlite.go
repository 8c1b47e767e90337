package sheet

import (
	"context"
	"database/sql"
	"regexp"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ ]*$`)

// SQLiteSource reads rows from a table holding an exported copy of the sheet.
// Column names are the sheet headers and rowid order is source order.
type SQLiteSource struct {
	db    *sql.DB
	table string
	owned bool
}

// OpenSQLite opens the snapshot database at path.
func OpenSQLite(path, table string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite snapshot %s", path)
	}
	src, err := NewSQLiteSource(db, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	src.owned = true
	return src, nil
}

// NewSQLiteSource wraps an existing handle. The caller keeps ownership of db.
func NewSQLiteSource(db *sql.DB, table string) (*SQLiteSource, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, errors.Errorf("invalid snapshot table name %q", table)
	}
	return &SQLiteSource{db: db, table: table}, nil
}

// Fetch selects every row of the table in rowid order.
func (s *SQLiteSource) Fetch(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM "`+s.table+`" ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query snapshot table %s", s.table)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot columns")
	}

	var out []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "failed to scan snapshot row")
		}
		row := make(Record, len(cols))
		for i, col := range cols {
			row[col] = stringify(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate snapshot rows")
	}
	return out, nil
}

// Close releases the database when this source opened it.
func (s *SQLiteSource) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
