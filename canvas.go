package drawq

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gogpu/drawq/config"
	"github.com/gogpu/drawq/internal/resources"
	"github.com/gogpu/drawq/internal/ring"
)

const (
	defaultFontSize    = 15
	defaultFrameFrames = 64
)

// Options configures a Canvas.
type Options struct {
	// Backend executes draw jobs and presents frames. Required.
	Backend Backend

	// Fonts opens and rasterizes fonts. Required.
	Fonts FontProvider

	// ResourceDir is the root directory searched recursively when an
	// image or font name does not resolve as a plain path. Empty
	// disables searching.
	ResourceDir string

	// FontDir is where font names are looked up first. Defaults to
	// ResourceDir/fonts when empty.
	FontDir string

	// DefaultFont is the file name of the mandatory default font.
	DefaultFont string

	// DefaultFontSize is the point size the default font is opened at.
	// Defaults to 15.
	DefaultFontSize int

	// FPSLimit caps Update to this many frames per second; calls inside
	// the interval are no-op successes. 0 disables the limit.
	FPSLimit int

	// FrameHistory is how many recent frame durations FrameTimes
	// retains. Defaults to 64.
	FrameHistory int
}

// OptionsFromConfig maps a loaded configuration onto Options. The
// caller still supplies the Backend and Fonts collaborators.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		ResourceDir:     cfg.Resources.Dir,
		FontDir:         cfg.Fonts.Dir,
		DefaultFont:     cfg.Fonts.Default,
		DefaultFontSize: cfg.Fonts.Size,
		FPSLimit:        cfg.Frame.RateLimit,
	}
}

// Canvas owns the draw-job queue, the font and image registries, the
// global pixel offset and the backend collaborators. Each of the four
// is guarded by its own lock and no operation holds two of them at
// once, so there is no lock-ordering hazard.
//
// All methods are safe for concurrent use except Update and Bind, which
// must run on the thread owning the render context.
type Canvas struct {
	backend Backend
	fonts   *fontRegistry
	images  *imageRegistry
	queue   *jobQueue

	resolver *resources.Resolver
	fontDir  string

	offsetMu   sync.Mutex
	offX, offY int

	framePeriod time.Duration
	lastUpdate  time.Time // render-thread only

	framesMu sync.Mutex
	frames   *ring.Ring[time.Duration]
}

// New constructs a Canvas and loads the mandatory default font. A load
// failure leaves no partial state behind.
func New(opts Options) (*Canvas, error) {
	if opts.Backend == nil {
		return nil, ErrNoBackend
	}
	if opts.Fonts == nil {
		return nil, ErrNoFontProvider
	}
	if opts.DefaultFont == "" {
		return nil, ErrNoDefaultFont
	}

	size := opts.DefaultFontSize
	if size == 0 {
		size = defaultFontSize
	}
	history := opts.FrameHistory
	if history == 0 {
		history = defaultFrameFrames
	}
	fontDir := opts.FontDir
	if fontDir == "" && opts.ResourceDir != "" {
		fontDir = filepath.Join(opts.ResourceDir, "fonts")
	}

	c := &Canvas{
		backend:  opts.Backend,
		queue:    &jobQueue{},
		resolver: resources.New(opts.ResourceDir),
		fontDir:  fontDir,
		frames:   ring.New[time.Duration](history),
	}
	if opts.FPSLimit > 0 {
		c.framePeriod = time.Second / time.Duration(opts.FPSLimit)
	}
	c.fonts = newFontRegistry(opts.Fonts, c.lookupFont)
	c.images = newImageRegistry(c.resolver.Resolve)

	if _, err := c.fonts.load(opts.DefaultFont, size); err != nil {
		return nil, err
	}
	return c, nil
}

// lookupFont resolves a font name against the font directory first,
// then falls back to the generic resource search.
func (c *Canvas) lookupFont(name string) (string, error) {
	if c.fontDir != "" && !filepath.IsAbs(name) {
		p := filepath.Join(c.fontDir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return c.resolver.Resolve(name)
}

// Close tears the canvas down: every font face is closed and every
// image texture destroyed, regardless of reference counts. Queued jobs
// are dropped. The backend is closed if it implements io.Closer.
//
// Close must run on the thread owning the render context, since
// texture destruction is a backend call.
func (c *Canvas) Close() error {
	c.queue.detach()
	c.fonts.closeAll()
	c.images.closeAll(c.backend)
	if cl, ok := c.backend.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Bind claims the render context for the calling thread and rebuilds
// the image registry's textures against it. Call once from the render
// loop's thread (after runtime.LockOSThread) before the first Update,
// and again whenever rendering moves to a different thread.
func (c *Canvas) Bind() error {
	if b, ok := c.backend.(Binder); ok {
		if err := b.Bind(); err != nil {
			return err
		}
	}
	return c.images.rebind(c.backend)
}

// SetOffset sets the global pixel offset added to every
// coordinate-bearing job at dispatch time. Because the offset applies
// at dispatch rather than enqueue, a camera-style pan affects jobs that
// are already queued but not yet drawn.
func (c *Canvas) SetOffset(x, y int) {
	c.offsetMu.Lock()
	c.offX, c.offY = x, y
	c.offsetMu.Unlock()
}

// Offset returns the current global pixel offset.
func (c *Canvas) Offset() (x, y int) {
	c.offsetMu.Lock()
	defer c.offsetMu.Unlock()
	return c.offX, c.offY
}

// Pending reports whether draw jobs are waiting without consuming them.
func (c *Canvas) Pending() bool { return c.queue.pending() }

// FrameTimes returns the most recent frame drain durations, oldest
// first.
func (c *Canvas) FrameTimes() []time.Duration {
	c.framesMu.Lock()
	defer c.framesMu.Unlock()
	return c.frames.Values()
}

// Update drains the job queue, dispatching every job to the backend in
// enqueue order, then presents the frame. It must be called only by the
// thread owning the render context.
//
// With an FPS limit configured, calls inside the frame interval return
// nil without touching the queue. If the backend fails mid-drain the
// pass stops: the failed job and the ones already executed are gone,
// the remainder stays queued for the next call. This is best effort,
// not transactional.
func (c *Canvas) Update() error {
	if c.framePeriod > 0 {
		now := time.Now()
		if !c.lastUpdate.IsZero() && now.Sub(c.lastUpdate) < c.framePeriod {
			return nil
		}
		c.lastUpdate = now
	}

	if !c.queue.pending() {
		return nil
	}

	start := time.Now()
	jobs := c.queue.detach()
	for i, j := range jobs {
		if err := c.dispatch(j); err != nil {
			c.queue.requeue(jobs[i+1:])
			Logger().Warn("drain aborted", "job", j.Type().String(), "err", err)
			return fmt.Errorf("drawq: %s job: %w", j.Type(), err)
		}
	}
	if err := c.backend.Present(); err != nil {
		return fmt.Errorf("drawq: present: %w", err)
	}

	c.framesMu.Lock()
	c.frames.ForcePut(time.Since(start))
	c.framesMu.Unlock()
	return nil
}

// dispatch executes one job against the backend, applying the offset
// snapshot and releasing any resource reference the job held. Resource
// references are released even when the backend errors: the job is
// discarded either way.
func (c *Canvas) dispatch(j Job) error {
	x, y := c.Offset()
	ox, oy := int16(x), int16(y)

	switch j := j.(type) {
	case ClearJob:
		return c.backend.Clear(j.Color)
	case ArcJob:
		return c.backend.Arc(j.X+ox, j.Y+oy, j.Radius, j.Start, j.End, j.Color)
	case EllipseJob:
		return c.backend.Ellipse(j.X+ox, j.Y+oy, j.RX, j.RY, j.Color)
	case TextJob:
		return c.dispatchText(j, ox, oy)
	case RectJob:
		return c.backend.Rect(j.X+ox, j.Y+oy, j.W, j.H, j.Color)
	case FilledRectJob:
		return c.backend.FillRect(j.X+ox, j.Y+oy, j.W, j.H, j.Color)
	case CircleJob:
		return c.backend.Circle(j.X+ox, j.Y+oy, j.Radius, j.Color)
	case LineJob:
		return c.backend.Line(j.X1+ox, j.Y1+oy, j.X2+ox, j.Y2+oy, j.Thickness, j.Color)
	case PolygonJob:
		pts := j.Points
		if ox != 0 || oy != 0 {
			pts = make([]Point, len(j.Points))
			for i, p := range j.Points {
				pts[i] = Point{X: p.X + ox, Y: p.Y + oy}
			}
		}
		return c.backend.Polygon(pts, j.Color)
	case TriangleJob:
		p0 := Point{X: j.Points[0].X + ox, Y: j.Points[0].Y + oy}
		p1 := Point{X: j.Points[1].X + ox, Y: j.Points[1].Y + oy}
		p2 := Point{X: j.Points[2].X + ox, Y: j.Points[2].Y + oy}
		return c.backend.Triangle(p0, p1, p2, j.Color)
	case ImageJob:
		return c.dispatchImageFile(j.Path, j.X+ox, j.Y+oy, 1)
	case ScaledImageJob:
		return c.dispatchImageFile(j.Path, j.X+ox, j.Y+oy, j.Scale)
	case LoadedImageJob:
		defer c.images.release(j.Image, c.backend)
		tex, w, h, scale, err := c.images.texture(j.Image, c.backend)
		if err != nil {
			return err
		}
		return c.backend.DrawTexture(tex, j.X+ox, j.Y+oy,
			int16(float64(w)*scale), int16(float64(h)*scale))
	case LoadedImageCropJob:
		defer c.images.release(j.Image, c.backend)
		tex, _, _, _, err := c.images.texture(j.Image, c.backend)
		if err != nil {
			return err
		}
		return c.backend.DrawTextureCropped(tex, j.X+ox, j.Y+oy, j.Crop)
	case ArrowJob:
		return c.dispatchArrow(j, ox, oy)
	default:
		return &UnknownJobError{Kind: j.Type()}
	}
}

// dispatchText rasterizes the string through the font provider, uploads
// the surface as a transient texture and draws it. The job's font
// reference is released afterwards, which is what finally closes a
// pending-free font left behind by a deferred resize.
func (c *Canvas) dispatchText(j TextJob, ox, oy int16) error {
	defer c.fonts.release(j.Font)

	face, err := c.fonts.faceOf(j.Font)
	if err != nil {
		return err
	}
	surf, err := c.fonts.provider.Render(face, j.Text, j.Color.NRGBA())
	if err != nil {
		return err
	}
	tex, err := c.backend.CreateTexture(surf)
	if err != nil {
		return err
	}
	w, h := tex.Size()
	err = c.backend.DrawTexture(tex, j.X+ox, j.Y+oy, int16(w), int16(h))
	if derr := c.backend.DestroyTexture(tex); err == nil {
		err = derr
	}
	return err
}

// dispatchImageFile loads a texture from a file for a single draw and
// destroys it again. The one-shot image jobs exist for callers that do
// not want registry bookkeeping; repeated draws should use LoadImage.
func (c *Canvas) dispatchImageFile(path string, x, y int16, scale float64) error {
	tex, err := c.backend.LoadTexture(path)
	if err != nil {
		return err
	}
	w, h := tex.Size()
	err = c.backend.DrawTexture(tex, x, y,
		int16(float64(w)*scale), int16(float64(h)*scale))
	if derr := c.backend.DestroyTexture(tex); err == nil {
		err = derr
	}
	return err
}

// dispatchArrow draws the shaft and the two head strokes as three
// backend lines.
func (c *Canvas) dispatchArrow(j ArrowJob, ox, oy int16) error {
	x1, y1 := j.X1+ox, j.Y1+oy
	x2, y2 := j.X2+ox, j.Y2+oy

	if err := c.backend.Line(x1, y1, x2, y2, j.Thickness, j.Color); err != nil {
		return err
	}

	dx := float64(j.X2 - j.X1)
	dy := float64(j.Y2 - j.Y1)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	ux, uy := dx/length, dy/length
	hl := float64(j.HeadLength)

	h1x := x2 - int16(math.Round(ux*hl+uy*hl))
	h1y := y2 - int16(math.Round(uy*hl-ux*hl))
	h2x := x2 - int16(math.Round(ux*hl-uy*hl))
	h2y := y2 - int16(math.Round(uy*hl+ux*hl))

	if err := c.backend.Line(h1x, h1y, x2, y2, j.Thickness, j.Color); err != nil {
		return err
	}
	return c.backend.Line(h2x, h2y, x2, y2, j.Thickness, j.Color)
}
