// Package text provides a font provider built on
// golang.org/x/image/font/opentype. It opens TTF and OTF files and
// rasterizes strings into tightly sized surfaces.
package text

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/drawq"
)

// dpi is the rasterization density. Point sizes are treated as pixel
// sizes at 72 dpi.
const dpi = 72

// Provider implements drawq.FontProvider and drawq.Measurer.
type Provider struct{}

// NewProvider returns an opentype-backed font provider.
func NewProvider() *Provider { return &Provider{} }

// face wraps an opentype face with the size it was opened at. A
// font.Face is not safe for concurrent use; the mutex serializes
// Render and Measure against each other.
type face struct {
	mu   sync.Mutex
	face font.Face
	size int
}

// Size returns the point size the face was opened at.
func (f *face) Size() int { return f.size }

// Open loads the font file at path at the given point size.
func (p *Provider) Open(path string, size int) (drawq.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: open %q: %w", path, err)
	}
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse %q: %w", path, err)
	}
	fc, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("text: face %q: %w", path, err)
	}
	return &face{face: fc, size: size}, nil
}

// Close releases a face opened by this provider.
func (p *Provider) Close(f drawq.Font) error {
	fc, ok := f.(*face)
	if !ok {
		return fmt.Errorf("text: close: foreign font %T", f)
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.face.Close()
}

// Render rasterizes s into an NRGBA surface sized to the string's
// advance width and the face's line height.
func (p *Provider) Render(f drawq.Font, s string, c color.Color) (image.Image, error) {
	fc, ok := f.(*face)
	if !ok {
		return nil, fmt.Errorf("text: render: foreign font %T", f)
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()

	d := &font.Drawer{
		Face: fc.face,
		Src:  image.NewUniform(c),
	}
	m := fc.face.Metrics()
	w := d.MeasureString(s).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	d.Dst = dst
	d.Dot = fixed.P(0, m.Ascent.Ceil())
	d.DrawString(s)
	return dst, nil
}

// Measure returns the pixel dimensions s would occupy when rendered.
func (p *Provider) Measure(f drawq.Font, s string) (w, h int, err error) {
	fc, ok := f.(*face)
	if !ok {
		return 0, 0, fmt.Errorf("text: measure: foreign font %T", f)
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()

	d := font.Drawer{Face: fc.face}
	m := fc.face.Metrics()
	return d.MeasureString(s).Ceil(), (m.Ascent + m.Descent).Ceil(), nil
}
