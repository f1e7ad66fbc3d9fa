package tabular

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/lmeier/layermix/pkg/errors"
)

// identPattern restricts table names to plain identifiers. SQLite has
// no placeholder for identifiers, so the name is validated before it
// is interpolated into the query.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads tables from a SQLite database file. Each logical
// table is a database table whose columns hold cell text; column order
// follows the declared schema and rows keep insertion order.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the database file and verifies it is readable.
func NewSQLiteSource(ctx context.Context, path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "database %s cannot be opened", path)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeSource, err, "database %s is not readable", path)
	}
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Table(ctx context.Context, name string) ([][]string, error) {
	if !identPattern.MatchString(name) {
		return nil, errors.New(errors.ErrCodeSource, "table name %q is not a valid identifier", name)
	}
	if ok, err := s.tableExists(ctx, name); err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.New(errors.ErrCodeTableNotFound, "table %q not found in database", name)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %q ORDER BY rowid", name))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "table %q cannot be queried", name)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "columns of table %q cannot be listed", name)
	}

	out := [][]string{cols}
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		scan := make([]any, len(cols))
		for i := range cells {
			scan[i] = &cells[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSource, err, "row of table %q cannot be read", name)
		}
		row := make([]string, len(cols))
		for i, c := range cells {
			row[i] = c.String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "table %q cannot be read", name)
	}
	return out, nil
}

func (s *SQLiteSource) tableExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeSource, err, "database schema cannot be inspected")
	}
	return n > 0, nil
}

func (s *SQLiteSource) Close() error { return s.db.Close() }
