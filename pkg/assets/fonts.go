package assets

import (
	"fmt"
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/lmeier/layermix/pkg/errors"
)

// fontDPI matches the convention that one point equals one pixel, so
// a font_size cell maps directly onto pixels.
const fontDPI = 72

// Faces loads and caches font faces. A face is keyed by path and size
// since one layout commonly reuses the same face across many layers.
type Faces struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[string]font.Face
}

// NewFaces builds an empty face store.
func NewFaces() *Faces {
	return &Faces{
		fonts: make(map[string]*opentype.Font),
		faces: make(map[string]font.Face),
	}
}

// Open returns a face for the font at path, sized in points. An empty
// path picks the bundled Go Regular face. A bare font name (no path
// separator, but not a file that exists) is resolved through the
// system font directories.
func (s *Faces) Open(path string, points float64) (font.Face, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%s@%g", path, points)
	if face, ok := s.faces[key]; ok {
		return face, nil
	}

	fnt, err := s.font(path)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    points,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFont, err, "font %s cannot be sized to %g", path, points)
	}
	s.faces[key] = face
	return face, nil
}

func (s *Faces) font(path string) (*opentype.Font, error) {
	if fnt, ok := s.fonts[path]; ok {
		return fnt, nil
	}
	raw, err := s.readFont(path)
	if err != nil {
		return nil, err
	}
	fnt, err := opentype.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFont, err, "font %s cannot be parsed", path)
	}
	s.fonts[path] = fnt
	return fnt, nil
}

func (s *Faces) readFont(path string) ([]byte, error) {
	if path == "" {
		return goregular.TTF, nil
	}
	if raw, err := os.ReadFile(path); err == nil {
		return raw, nil
	}
	// Not a readable file; try it as a font name like "DejaVuSans".
	resolved, err := findfont.Find(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeFont, "font %q is neither a file nor an installed font", path)
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFont, err, "font file %s cannot be read", resolved)
	}
	return raw, nil
}
