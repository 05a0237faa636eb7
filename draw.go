package drawq

import (
	"errors"
	"fmt"
)

// The entry points in this file are the producer side of the canvas:
// they validate arguments, take any resource references the job needs,
// and enqueue. All of them are safe to call from any goroutine at any
// time; nothing touches the backend until Update drains the queue.

// Clear enqueues a clear of the whole target to c.
func (cv *Canvas) Clear(c Color) {
	cv.queue.push(ClearJob{Color: c})
}

// Box enqueues a rectangle outline.
func (cv *Canvas) Box(x, y, w, h int16, c Color) {
	cv.queue.push(RectJob{X: x, Y: y, W: w, H: h, Color: c})
}

// FilledBox enqueues a filled rectangle.
func (cv *Canvas) FilledBox(x, y, w, h int16, c Color) {
	cv.queue.push(FilledRectJob{X: x, Y: y, W: w, H: h, Color: c})
}

// Circle enqueues a filled circle of radius r centred at (x, y).
func (cv *Canvas) Circle(x, y, r int16, c Color) {
	cv.queue.push(CircleJob{X: x, Y: y, Radius: r, Color: c})
}

// Ellipse enqueues an ellipse outline centred at (x, y).
func (cv *Canvas) Ellipse(x, y, rx, ry int16, c Color) {
	cv.queue.push(EllipseJob{X: x, Y: y, RX: rx, RY: ry, Color: c})
}

// Arc enqueues a circular arc from start to end degrees.
func (cv *Canvas) Arc(x, y, r, start, end int16, c Color) {
	cv.queue.push(ArcJob{X: x, Y: y, Radius: r, Start: start, End: end, Color: c})
}

// Line enqueues a line of the given pixel thickness.
func (cv *Canvas) Line(x1, y1, x2, y2 int16, thickness uint8, c Color) {
	cv.queue.push(LineJob{X1: x1, Y1: y1, X2: x2, Y2: y2, Thickness: thickness, Color: c})
}

// Poly enqueues a closed polygon outline through points in order. The
// slice is copied, so the caller may reuse it; fewer than three points
// is an error.
func (cv *Canvas) Poly(points []Point, c Color) error {
	if len(points) < 3 {
		return ErrTooFewPoints
	}
	own := make([]Point, len(points))
	copy(own, points)
	cv.queue.push(PolygonJob{Points: own, Color: c})
	return nil
}

// Triangle enqueues a filled triangle.
func (cv *Canvas) Triangle(p0, p1, p2 Point, c Color) {
	cv.queue.push(TriangleJob{Points: [3]Point{p0, p1, p2}, Color: c})
}

// Arrow enqueues a line with two head strokes of headLength pixels at
// the (x2, y2) end.
func (cv *Canvas) Arrow(x1, y1, x2, y2, headLength int16, thickness uint8, c Color) {
	cv.queue.push(ArrowJob{
		X1: x1, Y1: y1, X2: x2, Y2: y2,
		HeadLength: headLength,
		Thickness:  thickness,
		Color:      c,
	})
}

// Text enqueues a string drawn with the current default font. The job
// captures a strong reference to the font at enqueue time, so a later
// font switch or resize does not affect text already queued. Empty
// strings are rejected.
func (cv *Canvas) Text(text string, x, y int16, c Color) error {
	if text == "" {
		return ErrEmptyText
	}
	h, err := cv.fonts.acquireCurrent()
	if err != nil {
		return err
	}
	cv.queue.push(TextJob{Text: text, X: x, Y: y, Color: c, Font: h})
	return nil
}

// CenteredText enqueues a string horizontally centred on x. It needs a
// font provider that implements Measurer.
func (cv *Canvas) CenteredText(text string, x, y int16, c Color) error {
	if text == "" {
		return ErrEmptyText
	}
	w, _, err := cv.MeasureText(text)
	if err != nil {
		return err
	}
	h, err := cv.fonts.acquireCurrent()
	if err != nil {
		return err
	}
	cv.queue.push(TextJob{Text: text, X: x - int16(w/2), Y: y, Color: c, Font: h})
	return nil
}

// MeasureText returns the pixel dimensions text would occupy in the
// current default font. It returns errors.ErrUnsupported when the font
// provider does not implement Measurer.
func (cv *Canvas) MeasureText(text string) (w, h int, err error) {
	m, ok := cv.fonts.provider.(Measurer)
	if !ok {
		return 0, 0, fmt.Errorf("drawq: measure text: %w", errors.ErrUnsupported)
	}
	hnd, err := cv.fonts.acquireCurrent()
	if err != nil {
		return 0, 0, err
	}
	defer cv.fonts.release(hnd)

	face, err := cv.fonts.faceOf(hnd)
	if err != nil {
		return 0, 0, err
	}
	return m.Measure(face, text)
}

// DrawImageFile enqueues a one-shot draw of the image file at path. The
// file is loaded and its texture destroyed within a single dispatch;
// for repeated draws use LoadImage.
func (cv *Canvas) DrawImageFile(path string, x, y int16) {
	cv.queue.push(ImageJob{Path: path, X: x, Y: y})
}

// DrawScaledImageFile enqueues a one-shot draw of the image file at
// path, scaled by scale.
func (cv *Canvas) DrawScaledImageFile(path string, x, y int16, scale float64) {
	cv.queue.push(ScaledImageJob{Path: path, X: x, Y: y, Scale: scale})
}

// DrawImage enqueues a draw of a loaded image at its display scale,
// taking a strong reference for the job's lifetime.
func (cv *Canvas) DrawImage(img ImageHandle, x, y int16) error {
	if err := cv.images.acquire(img); err != nil {
		return err
	}
	cv.queue.push(LoadedImageJob{Image: img, X: x, Y: y})
	return nil
}

// LoadImage decodes the named image into the registry at scale 1 and
// returns its handle. The name is resolved against the resource
// directory when it is not a plain path.
func (cv *Canvas) LoadImage(name string) (ImageHandle, error) {
	return cv.images.load(name, 1)
}

// LoadScaledImage decodes the named image into the registry with the
// given display scale.
func (cv *Canvas) LoadScaledImage(name string, scale float64) (ImageHandle, error) {
	return cv.images.load(name, scale)
}

// FreeImage releases a loaded image. With draw jobs still referencing
// it the free is deferred until the last job dispatches; the handle is
// invalid for new draws either way.
func (cv *Canvas) FreeImage(img ImageHandle) error {
	return cv.images.markPendingFree(img, cv.backend)
}

// SetImageScale changes the display scale applied when the image is
// drawn whole.
func (cv *Canvas) SetImageScale(img ImageHandle, scale float64) error {
	return cv.images.setScale(img, scale)
}

// ImageScale returns the image's display scale.
func (cv *Canvas) ImageScale(img ImageHandle) (float64, error) {
	_, _, scale, err := cv.images.info(img)
	return scale, err
}

// ImageSize returns the image's display dimensions: natural pixel size
// multiplied by the display scale.
func (cv *Canvas) ImageSize(img ImageHandle) (w, h int, err error) {
	w, h, scale, err := cv.images.info(img)
	if err != nil {
		return 0, 0, err
	}
	return int(float64(w) * scale), int(float64(h) * scale), nil
}

// LoadFont opens the named font at the given point size and returns its
// handle. The name is resolved against the font directory first, then
// the resource directory. Loading does not change the current default
// font.
func (cv *Canvas) LoadFont(name string, size int) (FontHandle, error) {
	return cv.fonts.load(name, size)
}

// SelectFont makes the loaded font whose file or family name matches
// name the current default font.
func (cv *Canvas) SelectFont(name string) error {
	return cv.fonts.selectByName(name)
}

// SelectFontHandle makes the font named by h the current default font.
func (cv *Canvas) SelectFontHandle(h FontHandle) error {
	return cv.fonts.selectByHandle(h)
}

// SetFontSize changes the point size of the current default font. When
// queued text jobs still reference the face, the resize is deferred: a
// fresh face at the new size becomes the default and the old one closes
// after its last job dispatches.
func (cv *Canvas) SetFontSize(size int) error {
	return cv.fonts.setSize(size)
}

// FontSize returns the point size of the current default font.
func (cv *Canvas) FontSize() int {
	_, size := cv.fonts.currentInfo()
	return size
}

// FontName returns the file name of the current default font.
func (cv *Canvas) FontName() string {
	name, _ := cv.fonts.currentInfo()
	return name
}

// AcquireFont takes a strong reference on a font handle for callers
// that hold faces across their own asynchronous work. Each acquire
// needs a matching ReleaseFont.
func (cv *Canvas) AcquireFont(h FontHandle) error {
	return cv.fonts.acquire(h)
}

// ReleaseFont drops a strong reference taken with AcquireFont.
func (cv *Canvas) ReleaseFont(h FontHandle) {
	cv.fonts.release(h)
}

// FreeFont releases a loaded font. With queued text jobs still
// referencing it the close is deferred until the last job dispatches.
func (cv *Canvas) FreeFont(h FontHandle) error {
	return cv.fonts.markPendingFree(h)
}
