// Package tabular loads the four input tables (canvas, image_layer,
// text_layer, layout) from interchangeable backends. Every backend
// yields tables as [][]string with the header in row zero, exactly as
// a spreadsheet export would, so the parsing layer never knows where
// the rows came from.
package tabular

import "context"

// Well-known table names. A config file can remap them per source.
const (
	TableCanvas = "canvas"
	TableImage  = "image_layer"
	TableText   = "text_layer"
	TableLayout = "layout"
)

// Source yields tables by name.
type Source interface {
	// Table returns all rows of the named table, header first.
	// Unknown tables fail with a TABLE_NOT_FOUND error.
	Table(ctx context.Context, name string) ([][]string, error)

	// Close releases backend resources.
	Close() error
}

// Tables maps the four logical table roles to backend-specific names.
type Tables struct {
	Canvas string
	Image  string
	Text   string
	Layout string
}

// DefaultTables returns the conventional table names.
func DefaultTables() Tables {
	return Tables{
		Canvas: TableCanvas,
		Image:  TableImage,
		Text:   TableText,
		Layout: TableLayout,
	}
}
