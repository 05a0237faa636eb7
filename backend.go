package drawq

import (
	"image"
	"image/color"
)

// Backend is the rendering collaborator the drain loop dispatches jobs
// to. It owns the render context, rasterization and presentation;
// drawq never touches pixels itself.
//
// A Backend is single-threaded and non-reentrant: all methods are called
// from the one thread that owns the render context (the thread calling
// Canvas.Update). Implementations do not need internal locking.
//
// Colours arrive as packed 24-bit RGB; the backend performs alpha and
// byte-order conversion for its output format.
//
// Backends are registered via [Register] in their package init,
// following the database/sql driver pattern, and live out of tree; the
// backend/raster package ships a pure-software reference implementation.
type Backend interface {
	// Clear fills the whole target with a colour.
	Clear(c Color) error

	// Rect draws a rectangle outline.
	Rect(x, y, w, h int16, c Color) error

	// FillRect draws a filled rectangle.
	FillRect(x, y, w, h int16, c Color) error

	// Circle draws a filled circle.
	Circle(x, y, r int16, c Color) error

	// Ellipse draws an ellipse outline.
	Ellipse(x, y, rx, ry int16, c Color) error

	// Arc draws a circular arc between two angles in degrees.
	Arc(x, y, r, start, end int16, c Color) error

	// Line draws a line with the given pixel thickness.
	Line(x1, y1, x2, y2 int16, thickness uint8, c Color) error

	// Polygon draws a polygon outline through the points in order,
	// closing the last point back to the first.
	Polygon(points []Point, c Color) error

	// Triangle draws a filled triangle.
	Triangle(p0, p1, p2 Point, c Color) error

	// LoadTexture decodes the image file at path into a backend texture.
	LoadTexture(path string) (Texture, error)

	// CreateTexture uploads a decoded surface into a backend texture.
	CreateTexture(img image.Image) (Texture, error)

	// DestroyTexture releases a texture's backend resources.
	DestroyTexture(t Texture) error

	// DrawTexture draws the whole texture into the w×h rectangle at
	// (x, y), scaling if the sizes differ.
	DrawTexture(t Texture, x, y, w, h int16) error

	// DrawTextureCropped draws the src rectangle of the texture at
	// (x, y) without scaling.
	DrawTextureCropped(t Texture, x, y int16, src CropRect) error

	// Present commits the completed frame to the screen.
	Present() error
}

// Texture is an opaque backend-owned image object.
type Texture interface {
	// Size returns the texture's natural pixel dimensions.
	Size() (w, h int)
}

// Binder is implemented by backends whose render context must be bound
// to the calling thread before use. Canvas.Bind delegates to it.
type Binder interface {
	// Bind claims the render context for the calling thread.
	Bind() error
}

// Font is an opaque font face handle owned by a FontProvider.
type Font interface {
	// Size returns the point size the face was opened at.
	Size() int
}

// FontProvider opens font faces and rasterizes text with them. The
// text package provides an implementation built on
// golang.org/x/image/font/opentype.
//
// Open and Close may be called from any goroutine; Render is only
// called from the render-context thread during a drain.
type FontProvider interface {
	// Open loads the font file at path at the given point size.
	Open(path string, size int) (Font, error)

	// Close releases a font face.
	Close(f Font) error

	// Render rasterizes text into a surface. The surface is tightly
	// sized to the rendered string.
	Render(f Font, text string, c color.Color) (image.Image, error)
}

// Measurer is implemented by font providers that can measure a string
// without rasterizing it. Canvas.MeasureText and centered text depend
// on it.
type Measurer interface {
	// Measure returns the pixel dimensions text would occupy when
	// rendered with f.
	Measure(f Font, text string) (w, h int, err error)
}
