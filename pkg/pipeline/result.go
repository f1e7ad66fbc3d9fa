package pipeline

import "time"

// Output describes one rendered file.
type Output struct {
	Name   string        `json:"name"`
	Path   string        `json:"path"`
	Canvas string        `json:"canvas"`
	Layers int           `json:"layers"`
	Took   time.Duration `json:"took"`
}

// Stats summarizes a finished run.
type Stats struct {
	Canvases int           `json:"canvases"`
	Images   int           `json:"images"`
	Texts    int           `json:"texts"`
	Layouts  int           `json:"layouts"`
	Rendered int           `json:"rendered"`
	Took     time.Duration `json:"took"`
}

// Result is everything a run produced.
type Result struct {
	RunID   string   `json:"run_id"`
	Outputs []Output `json:"outputs"`
	Stats   Stats    `json:"stats"`
}
