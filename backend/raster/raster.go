// Package raster is a pure-software reference backend. It rasterizes
// into an in-memory NRGBA image, which tests and headless tools read
// back through Image. It registers itself as "raster".
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/drawq"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
)

func init() {
	drawq.Register("raster", func() drawq.Backend {
		return New(defaultWidth, defaultHeight)
	})
}

// Backend draws into an in-memory image. It is single-threaded, like
// every drawq backend; the drain loop is its only caller.
type Backend struct {
	img    *image.NRGBA
	frames int
}

// New creates a raster backend with a w×h target.
func New(w, h int) *Backend {
	return &Backend{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// Image exposes the render target for readback.
func (b *Backend) Image() *image.NRGBA { return b.img }

// Frames returns how many frames have been presented.
func (b *Backend) Frames() int { return b.frames }

// texture is a decoded surface kept CPU-side.
type texture struct {
	img image.Image
}

// Size returns the texture's natural pixel dimensions.
func (t *texture) Size() (w, h int) {
	bounds := t.img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

func (b *Backend) set(x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(b.img.Bounds()) {
		b.img.SetNRGBA(x, y, c)
	}
}

// hline draws a horizontal pixel run, clipped to the target.
func (b *Backend) hline(x1, x2, y int, c color.NRGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		b.set(x, y, c)
	}
}

// Clear fills the whole target.
func (b *Backend) Clear(c drawq.Color) error {
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
	return nil
}

// FillRect draws a filled rectangle.
func (b *Backend) FillRect(x, y, w, h int16, c drawq.Color) error {
	r := image.Rect(int(x), int(y), int(x)+int(w), int(y)+int(h))
	draw.Draw(b.img, r, image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
	return nil
}

// Rect draws a rectangle outline.
func (b *Backend) Rect(x, y, w, h int16, c drawq.Color) error {
	n := c.NRGBA()
	x1, y1 := int(x), int(y)
	x2, y2 := x1+int(w)-1, y1+int(h)-1
	for px := x1; px <= x2; px++ {
		b.set(px, y1, n)
		b.set(px, y2, n)
	}
	for py := y1; py <= y2; py++ {
		b.set(x1, py, n)
		b.set(x2, py, n)
	}
	return nil
}

// Circle draws a filled circle by horizontal spans.
func (b *Backend) Circle(x, y, r int16, c drawq.Color) error {
	n := c.NRGBA()
	cx, cy, rad := int(x), int(y), int(r)
	for dy := -rad; dy <= rad; dy++ {
		dx := int(math.Sqrt(float64(rad*rad - dy*dy)))
		b.hline(cx-dx, cx+dx, cy+dy, n)
	}
	return nil
}

// Ellipse draws an ellipse outline by parametric stepping. The step
// count scales with the larger radius so neighbouring samples touch.
func (b *Backend) Ellipse(x, y, rx, ry int16, c drawq.Color) error {
	n := c.NRGBA()
	cx, cy := float64(x), float64(y)
	frx, fry := float64(rx), float64(ry)
	steps := int(2 * math.Pi * math.Max(frx, fry) * 2)
	if steps < 16 {
		steps = 16
	}
	for i := 0; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		b.set(int(math.Round(cx+frx*math.Cos(a))), int(math.Round(cy+fry*math.Sin(a))), n)
	}
	return nil
}

// Arc draws a circular arc from start to end degrees, y-down clockwise.
func (b *Backend) Arc(x, y, r, start, end int16, c drawq.Color) error {
	n := c.NRGBA()
	cx, cy, rad := float64(x), float64(y), float64(r)
	a1 := float64(start) * math.Pi / 180
	a2 := float64(end) * math.Pi / 180
	if a2 < a1 {
		a2 += 2 * math.Pi
	}
	steps := int((a2 - a1) * rad * 2)
	if steps < 8 {
		steps = 8
	}
	for i := 0; i <= steps; i++ {
		a := a1 + (a2-a1)*float64(i)/float64(steps)
		b.set(int(math.Round(cx+rad*math.Cos(a))), int(math.Round(cy+rad*math.Sin(a))), n)
	}
	return nil
}

// Line draws a Bresenham line. Thickness above one stamps a disc at
// every step.
func (b *Backend) Line(x1, y1, x2, y2 int16, thickness uint8, c drawq.Color) error {
	n := c.NRGBA()
	px, py := int(x1), int(y1)
	ex, ey := int(x2), int(y2)

	dx := abs(ex - px)
	dy := -abs(ey - py)
	sx, sy := 1, 1
	if px > ex {
		sx = -1
	}
	if py > ey {
		sy = -1
	}
	errv := dx + dy
	for {
		b.stamp(px, py, int(thickness), n)
		if px == ex && py == ey {
			break
		}
		e2 := 2 * errv
		if e2 >= dy {
			errv += dy
			px += sx
		}
		if e2 <= dx {
			errv += dx
			py += sy
		}
	}
	return nil
}

// stamp writes one line sample: a single pixel for thin lines, a disc
// of diameter thickness otherwise.
func (b *Backend) stamp(x, y, thickness int, c color.NRGBA) {
	if thickness <= 1 {
		b.set(x, y, c)
		return
	}
	r := thickness / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				b.set(x+dx, y+dy, c)
			}
		}
	}
}

// Polygon draws the outline through points in order, closing the last
// point back to the first.
func (b *Backend) Polygon(points []drawq.Point, c drawq.Color) error {
	if len(points) < 3 {
		return fmt.Errorf("raster: polygon needs 3 points, got %d", len(points))
	}
	for i := range points {
		p := points[i]
		q := points[(i+1)%len(points)]
		if err := b.Line(p.X, p.Y, q.X, q.Y, 1, c); err != nil {
			return err
		}
	}
	return nil
}

// Triangle draws a filled triangle with an edge-function test over the
// bounding box. Either winding is accepted.
func (b *Backend) Triangle(p0, p1, p2 drawq.Point, c drawq.Color) error {
	n := c.NRGBA()
	x0, y0 := int(p0.X), int(p0.Y)
	x1, y1 := int(p1.X), int(p1.Y)
	x2, y2 := int(p2.X), int(p2.Y)

	minX := min3(x0, x1, x2)
	maxX := max3(x0, x1, x2)
	minY := min3(y0, y1, y2)
	maxY := max3(y0, y1, y2)

	edge := func(ax, ay, bx, by, px, py int) int {
		return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
	}
	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return b.Line(int16(minX), int16(minY), int16(maxX), int16(maxY), 1, c)
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edge(x1, y1, x2, y2, x, y)
			w1 := edge(x2, y2, x0, y0, x, y)
			w2 := edge(x0, y0, x1, y1, x, y)
			if area > 0 && w0 >= 0 && w1 >= 0 && w2 >= 0 {
				b.set(x, y, n)
			} else if area < 0 && w0 <= 0 && w1 <= 0 && w2 <= 0 {
				b.set(x, y, n)
			}
		}
	}
	return nil
}

// LoadTexture decodes the image file at path.
func (b *Backend) LoadTexture(path string) (drawq.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("raster: decode %q: %w", path, err)
	}
	return &texture{img: img}, nil
}

// CreateTexture wraps a decoded surface.
func (b *Backend) CreateTexture(img image.Image) (drawq.Texture, error) {
	return &texture{img: img}, nil
}

// DestroyTexture releases a texture. CPU-side textures have nothing to
// free, but a foreign texture is still an error.
func (b *Backend) DestroyTexture(t drawq.Texture) error {
	if _, ok := t.(*texture); !ok {
		return fmt.Errorf("raster: foreign texture %T", t)
	}
	return nil
}

// DrawTexture blits the whole texture into the w×h rectangle at (x, y),
// scaling when the sizes differ.
func (b *Backend) DrawTexture(t drawq.Texture, x, y, w, h int16) error {
	tex, ok := t.(*texture)
	if !ok {
		return fmt.Errorf("raster: foreign texture %T", t)
	}
	src := tex.img
	sb := src.Bounds()
	dst := image.Rect(int(x), int(y), int(x)+int(w), int(y)+int(h))
	if sb.Dx() == int(w) && sb.Dy() == int(h) {
		draw.Draw(b.img, dst, src, sb.Min, draw.Over)
		return nil
	}
	xdraw.ApproxBiLinear.Scale(b.img, dst, src, sb, xdraw.Over, nil)
	return nil
}

// DrawTextureCropped blits the src rectangle of the texture at (x, y)
// without scaling.
func (b *Backend) DrawTextureCropped(t drawq.Texture, x, y int16, src drawq.CropRect) error {
	tex, ok := t.(*texture)
	if !ok {
		return fmt.Errorf("raster: foreign texture %T", t)
	}
	sb := tex.img.Bounds()
	sp := sb.Min.Add(image.Pt(src.X, src.Y))
	dst := image.Rect(int(x), int(y), int(x)+src.W, int(y)+src.H)
	draw.Draw(b.img, dst, tex.img, sp, draw.Over)
	return nil
}

// Present completes the frame. The target stays readable through Image.
func (b *Backend) Present() error {
	b.frames++
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int { return min(a, min(b, c)) }
func max3(a, b, c int) int { return max(a, max(b, c)) }
