package parse

import (
	"path/filepath"
	"strconv"

	"github.com/lmeier/layermix/pkg/entity"
	"github.com/lmeier/layermix/pkg/errors"
)

// Canvases parses the canvas table into validated [entity.Canvas] values.
// A table containing only a header (or nothing at all) yields an empty slice.
func Canvases(table string, rows [][]string) ([]entity.Canvas, error) {
	out := make([]entity.Canvas, 0, len(rows))
	for i, row := range rows {
		if isHeader(row, colCanvasID, HeaderCanvasID) {
			continue
		}
		c, err := canvasRow(row)
		if err != nil {
			return nil, rowError(table, i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// ImageElements parses the image element table. The source path of each
// element is imageDir joined with the row's filename cell; the join is pure
// path composition and performs no I/O.
func ImageElements(table string, rows [][]string, imageDir string) ([]entity.ImageElement, error) {
	out := make([]entity.ImageElement, 0, len(rows))
	for i, row := range rows {
		if isHeader(row, colImageID, HeaderLayerID) {
			continue
		}
		el, err := imageRow(row, imageDir)
		if err != nil {
			return nil, rowError(table, i, err)
		}
		out = append(out, el)
	}
	return out, nil
}

// TextElements parses the text element table. The table carries no font
// column; every element uses the caller-supplied font file path, and an
// empty fontFile selects the bundled default face at draw time.
func TextElements(table string, rows [][]string, fontFile string) ([]entity.TextElement, error) {
	out := make([]entity.TextElement, 0, len(rows))
	for i, row := range rows {
		if isHeader(row, colTextID, HeaderLayerID) {
			continue
		}
		el, err := textRow(row, fontFile)
		if err != nil {
			return nil, rowError(table, i, err)
		}
		out = append(out, el)
	}
	return out, nil
}

func canvasRow(row []string) (entity.Canvas, error) {
	id, err := cell(row, colCanvasID, "canvas_id")
	if err != nil {
		return entity.Canvas{}, err
	}
	width, err := intCell(row, colCanvasWidth, "width")
	if err != nil {
		return entity.Canvas{}, err
	}
	height, err := intCell(row, colCanvasHeight, "height")
	if err != nil {
		return entity.Canvas{}, err
	}
	return entity.NewCanvas(id, width, height)
}

func imageRow(row []string, imageDir string) (entity.ImageElement, error) {
	id, err := cell(row, colImageID, "layer_id")
	if err != nil {
		return entity.ImageElement{}, err
	}
	width, err := intCell(row, colImageWidth, "width")
	if err != nil {
		return entity.ImageElement{}, err
	}
	height, err := intCell(row, colImageHeight, "height")
	if err != nil {
		return entity.ImageElement{}, err
	}
	x, err := intCell(row, colImageX, "position_x")
	if err != nil {
		return entity.ImageElement{}, err
	}
	y, err := intCell(row, colImageY, "position_y")
	if err != nil {
		return entity.ImageElement{}, err
	}
	filename, err := cell(row, colImageFilename, "filename")
	if err != nil {
		return entity.ImageElement{}, err
	}
	// Joining an empty filename would silently yield the bare image
	// directory as the source path.
	if filename == "" {
		return entity.ImageElement{}, errors.New(errors.ErrCodeRowParse, "column \"filename\" cannot be empty")
	}
	return entity.NewImageElement(id, x, y, width, height, filepath.Join(imageDir, filename))
}

func textRow(row []string, fontFile string) (entity.TextElement, error) {
	id, err := cell(row, colTextID, "layer_id")
	if err != nil {
		return entity.TextElement{}, err
	}
	fontSize, err := intCell(row, colTextFontSize, "font_size")
	if err != nil {
		return entity.TextElement{}, err
	}
	r, err := intCell(row, colTextColorR, "color_r")
	if err != nil {
		return entity.TextElement{}, err
	}
	g, err := intCell(row, colTextColorG, "color_g")
	if err != nil {
		return entity.TextElement{}, err
	}
	b, err := intCell(row, colTextColorB, "color_b")
	if err != nil {
		return entity.TextElement{}, err
	}
	x, err := intCell(row, colTextX, "position_x")
	if err != nil {
		return entity.TextElement{}, err
	}
	y, err := intCell(row, colTextY, "position_y")
	if err != nil {
		return entity.TextElement{}, err
	}
	text, err := cell(row, colTextContent, "text_content")
	if err != nil {
		return entity.TextElement{}, err
	}
	return entity.NewTextElement(id, x, y, fontSize, fontFile, r, g, b, text)
}

// isHeader reports whether the row's identifier column equals the reserved
// header label.
func isHeader(row []string, idCol int, label string) bool {
	return idCol < len(row) && row[idCol] == label
}

// cell returns the value at index idx or an error naming the missing column.
func cell(row []string, idx int, name string) (string, error) {
	if idx >= len(row) {
		return "", errors.New(errors.ErrCodeRowParse, "missing column %q", name)
	}
	return row[idx], nil
}

// intCell returns the integer value at index idx.
func intCell(row []string, idx int, name string) (int, error) {
	s, err := cell(row, idx, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeRowParse, "column %q: %q is not an integer", name, s)
	}
	return n, nil
}

// rowError wraps a row failure with the table name and 1-based row index.
// The index counts from the first raw row, header included, so it matches
// what a human sees in the source sheet.
func rowError(table string, idx int, err error) error {
	return errors.Wrap(errors.ErrCodeRowParse, err, "table %q: row %d cannot be parsed", table, idx+1)
}
