package drawq

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/gogpu/drawq/internal/ring"
)

// recordBackend captures every backend call as a formatted string so
// tests can assert exact dispatch order and parameters. Calls whose
// formatted form appears in failOn return errBackend.
type recordBackend struct {
	calls  []string
	failOn string

	created   int
	destroyed int
	presents  int
}

var errBackend = errors.New("backend failure")

func (b *recordBackend) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	b.calls = append(b.calls, call)
	if b.failOn != "" && call == b.failOn {
		return errBackend
	}
	return nil
}

func (b *recordBackend) Clear(c Color) error {
	return b.record("Clear(%06x)", uint32(c))
}

func (b *recordBackend) Rect(x, y, w, h int16, c Color) error {
	return b.record("Rect(%d,%d,%d,%d,%06x)", x, y, w, h, uint32(c))
}

func (b *recordBackend) FillRect(x, y, w, h int16, c Color) error {
	return b.record("FillRect(%d,%d,%d,%d,%06x)", x, y, w, h, uint32(c))
}

func (b *recordBackend) Circle(x, y, r int16, c Color) error {
	return b.record("Circle(%d,%d,%d,%06x)", x, y, r, uint32(c))
}

func (b *recordBackend) Ellipse(x, y, rx, ry int16, c Color) error {
	return b.record("Ellipse(%d,%d,%d,%d,%06x)", x, y, rx, ry, uint32(c))
}

func (b *recordBackend) Arc(x, y, r, start, end int16, c Color) error {
	return b.record("Arc(%d,%d,%d,%d,%d,%06x)", x, y, r, start, end, uint32(c))
}

func (b *recordBackend) Line(x1, y1, x2, y2 int16, thickness uint8, c Color) error {
	return b.record("Line(%d,%d,%d,%d,%d,%06x)", x1, y1, x2, y2, thickness, uint32(c))
}

func (b *recordBackend) Polygon(points []Point, c Color) error {
	return b.record("Polygon(%v,%06x)", points, uint32(c))
}

func (b *recordBackend) Triangle(p0, p1, p2 Point, c Color) error {
	return b.record("Triangle(%v,%v,%v,%06x)", p0, p1, p2, uint32(c))
}

func (b *recordBackend) LoadTexture(path string) (Texture, error) {
	if err := b.record("LoadTexture(%s)", path); err != nil {
		return nil, err
	}
	b.created++
	return &recordTexture{w: 8, h: 8}, nil
}

func (b *recordBackend) CreateTexture(img image.Image) (Texture, error) {
	bounds := img.Bounds()
	if err := b.record("CreateTexture(%dx%d)", bounds.Dx(), bounds.Dy()); err != nil {
		return nil, err
	}
	b.created++
	return &recordTexture{w: bounds.Dx(), h: bounds.Dy()}, nil
}

func (b *recordBackend) DestroyTexture(t Texture) error {
	b.destroyed++
	return b.record("DestroyTexture")
}

func (b *recordBackend) DrawTexture(t Texture, x, y, w, h int16) error {
	return b.record("DrawTexture(%d,%d,%d,%d)", x, y, w, h)
}

func (b *recordBackend) DrawTextureCropped(t Texture, x, y int16, src CropRect) error {
	return b.record("DrawTextureCropped(%d,%d,%v)", x, y, src)
}

func (b *recordBackend) Present() error {
	b.presents++
	return b.record("Present")
}

type recordTexture struct {
	w, h int
}

func (t *recordTexture) Size() (int, int) { return t.w, t.h }

// fakeFont is the face type handed out by fakeProvider.
type fakeFont struct {
	path   string
	size   int
	closed bool
}

func (f *fakeFont) Size() int { return f.size }

// fakeProvider is an in-memory FontProvider that never touches the
// filesystem. It tracks open and close counts and remembers the faces
// it handed out.
type fakeProvider struct {
	mu     sync.Mutex
	opens  int
	closes int
	faces  []*fakeFont
}

func (p *fakeProvider) Open(path string, size int) (Font, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opens++
	f := &fakeFont{path: path, size: size}
	p.faces = append(p.faces, f)
	return f, nil
}

func (p *fakeProvider) Close(f Font) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	f.(*fakeFont).closed = true
	return nil
}

func (p *fakeProvider) Render(f Font, text string, c color.Color) (image.Image, error) {
	return image.NewNRGBA(image.Rect(0, 0, 6*len(text), 12)), nil
}

func (p *fakeProvider) Measure(f Font, text string) (int, int, error) {
	return 6 * len(text), 12, nil
}

// openFaces counts faces handed out that are not yet closed.
func (p *fakeProvider) openFaces() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, f := range p.faces {
		if !f.closed {
			n++
		}
	}
	return n
}

// identityLookup resolves names to themselves, for registries backed by
// fakeProvider.
func identityLookup(name string) (string, error) { return name, nil }

// newTestCanvas wires a canvas around the recording backend and fake
// provider without going through New, so tests control every field.
func newTestCanvas(b Backend) *Canvas {
	c := &Canvas{
		backend: b,
		queue:   &jobQueue{},
		frames:  ring.New[time.Duration](8),
	}
	c.fonts = newFontRegistry(&fakeProvider{}, identityLookup)
	c.images = newImageRegistry(identityLookup)
	return c
}
