// Package parse turns raw tabular rows into validated entities and resolves
// layout rows into fully-formed [entity.Layout] values.
//
// Rows arrive as ordered string cells from a [tabular source]; columns are
// addressed by fixed position. A row whose identifier column equals the
// kind's reserved header label is treated as a header and skipped — the check
// runs on every row so repeated or stray header rows are tolerated.
//
// All parsing is fail-fast: the first bad row aborts the whole table with an
// error naming the table and the 1-based row index (counted from the first
// raw row, header included). No partial results are ever returned.
package parse

// Reserved header labels. A row carrying one of these in its identifier
// column is a header row.
const (
	HeaderCanvasID   = "canvas_id"
	HeaderLayerID    = "layer_id"
	HeaderOutputName = "output_name"
)

// MaxLayerSlots is the number of layer-id columns in a layout row. The layout
// table schema is wide and fixed: output name, canvas id, then exactly this
// many optional layer slots.
const MaxLayerSlots = 30

// layoutRowWidth is the exact column count a layout row must have.
const layoutRowWidth = 2 + MaxLayerSlots

// Canvas table columns: canvas_id, width, height.
const (
	colCanvasID = iota
	colCanvasWidth
	colCanvasHeight
)

// Image element table columns: layer_id, width, height, position_x,
// position_y, filename.
const (
	colImageID = iota
	colImageWidth
	colImageHeight
	colImageX
	colImageY
	colImageFilename
)

// Text element table columns: layer_id, font_size, color_r, color_g,
// color_b, position_x, position_y, text_content.
const (
	colTextID = iota
	colTextFontSize
	colTextColorR
	colTextColorG
	colTextColorB
	colTextX
	colTextY
	colTextContent
)

// Layout table columns: output_name, canvas_id, then MaxLayerSlots layer ids.
const (
	colLayoutOutputName = iota
	colLayoutCanvasID
	colLayoutFirstLayer
)
