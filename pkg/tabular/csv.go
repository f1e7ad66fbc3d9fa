package tabular

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/lmeier/layermix/pkg/errors"
)

// CSVSource reads tables from a directory of <name>.csv files.
type CSVSource struct {
	dir string
}

// NewCSVSource verifies the directory exists.
func NewCSVSource(dir string) (*CSVSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "table directory %s cannot be opened", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeSource, "table path %s is not a directory", dir)
	}
	return &CSVSource{dir: dir}, nil
}

func (s *CSVSource) Table(ctx context.Context, name string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, name+".csv")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeTableNotFound, "table %q not found in %s", name, s.dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "table file %s cannot be opened", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Layout rows legitimately vary in trailing emptiness across
	// exports; width validation belongs to the resolver.
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "table file %s cannot be parsed", path)
	}
	return rows, nil
}

func (s *CSVSource) Close() error { return nil }
