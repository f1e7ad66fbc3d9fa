package parse

import (
	"github.com/lmeier/layermix/pkg/entity"
	"github.com/lmeier/layermix/pkg/errors"
)

// ResolveLayouts turns raw layout rows into fully-formed layouts by resolving
// each row's canvas id and ordered layer ids against the parsed collections.
//
// Preconditions: the layout table must contain at least one data row, and at
// least one image element and one canvas must exist (text elements may be
// empty). Resolution is fail-fast: the first bad row aborts the call with a
// LAYOUT_ROW error carrying the 1-based row index and the underlying cause.
func ResolveLayouts(rows [][]string, texts []entity.TextElement, images []entity.ImageElement, canvases []entity.Canvas) ([]entity.Layout, error) {
	if len(images) == 0 {
		return nil, errors.New(errors.ErrCodeMissingRequiredData, "no image elements available")
	}
	if len(canvases) == 0 {
		return nil, errors.New(errors.ErrCodeMissingRequiredData, "no canvases available")
	}

	layouts := make([]entity.Layout, 0, len(rows))
	for i, row := range rows {
		layout, skip, err := resolveRow(row, texts, images, canvases)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeLayoutRow, err, "layout row %d is invalid, check the layout table", i+1)
		}
		if skip {
			continue
		}
		layouts = append(layouts, layout)
	}

	if len(layouts) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyLayoutTable, "layout table has no data rows")
	}
	return layouts, nil
}

// resolveRow resolves a single layout row. skip is true for header rows.
func resolveRow(row []string, texts []entity.TextElement, images []entity.ImageElement, canvases []entity.Canvas) (layout entity.Layout, skip bool, err error) {
	// The layout schema is wide and fixed; any other width means the row
	// was edited out of shape.
	if len(row) != layoutRowWidth {
		return entity.Layout{}, false, errors.New(errors.ErrCodeMalformedRow, "expected %d columns, got %d", layoutRowWidth, len(row))
	}

	outputName := row[colLayoutOutputName]
	canvasID := row[colLayoutCanvasID]
	if outputName == "" || canvasID == "" || row[colLayoutFirstLayer] == "" {
		return entity.Layout{}, false, errors.New(errors.ErrCodeMalformedRow, "output name, canvas id and the first layer id are mandatory")
	}

	if outputName == HeaderOutputName {
		return entity.Layout{}, true, nil
	}

	canvas, err := resolveCanvas(canvasID, canvases)
	if err != nil {
		return entity.Layout{}, false, err
	}

	// Walk the layer slots left to right; the first empty slot ends the
	// list. Ids after a gap are intentionally ignored.
	var layers []entity.Layer
	for _, id := range row[colLayoutFirstLayer:] {
		if id == "" {
			break
		}
		layer, err := resolveLayer(id, texts, images)
		if err != nil {
			return entity.Layout{}, false, err
		}
		layers = append(layers, layer)
	}

	layout, err = entity.NewLayout(canvas, outputName, layers)
	if err != nil {
		return entity.Layout{}, false, err
	}
	return layout, false, nil
}

// resolveCanvas finds the single canvas with the given id. Canvas ids are
// expected unique, but the resolver re-checks rather than trusting the parse.
func resolveCanvas(id string, canvases []entity.Canvas) (entity.Canvas, error) {
	var found entity.Canvas
	matches := 0
	for _, c := range canvases {
		if c.ID() == id {
			found = c
			matches++
		}
	}
	switch {
	case matches == 0:
		return entity.Canvas{}, errors.New(errors.ErrCodeCanvasNotFound, "canvas %q not found", id)
	case matches > 1:
		return entity.Canvas{}, errors.New(errors.ErrCodeAmbiguousCanvas, "canvas %q matches %d rows", id, matches)
	}
	return found, nil
}

// resolveLayer finds the single layer with the given id across both layer
// collections. An id present in both tables has an ambiguous origin; an id
// duplicated within one table is a duplicate.
func resolveLayer(id string, texts []entity.TextElement, images []entity.ImageElement) (entity.Layer, error) {
	var text entity.TextElement
	textMatches := 0
	for _, el := range texts {
		if el.LayerID() == id {
			text = el
			textMatches++
		}
	}

	var image entity.ImageElement
	imageMatches := 0
	for _, el := range images {
		if el.LayerID() == id {
			image = el
			imageMatches++
		}
	}

	switch {
	case textMatches == 0 && imageMatches == 0:
		return nil, errors.New(errors.ErrCodeLayerNotFound, "layer %q not found in the text or image table", id)
	case textMatches > 0 && imageMatches > 0:
		return nil, errors.New(errors.ErrCodeAmbiguousLayer, "layer %q appears in both the text and image tables", id)
	case textMatches > 1 || imageMatches > 1:
		return nil, errors.New(errors.ErrCodeDuplicateLayer, "layer %q appears more than once in the same table", id)
	case textMatches == 1:
		return text, nil
	default:
		return image, nil
	}
}
