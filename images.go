package drawq

import (
	"fmt"
	"image"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"

	// Decoders registered for image.Decode. GIF/JPEG/PNG come from the
	// standard library, the rest from golang.org/x/image.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageHandle names an entry in the canvas image registry. The zero
// value is not a valid handle.
type ImageHandle uint32

// IsValid reports whether the handle could name a registry entry.
func (h ImageHandle) IsValid() bool { return h != 0 }

// imageEntry is one registry slot. The decoded surface lives on the
// loading goroutine's side; the backend texture is created lazily on
// the render thread at first dispatch and recreated on Bind.
type imageEntry struct {
	path        string
	surf        image.Image
	tex         Texture
	w, h        int
	scale       float64
	refs        int
	pendingFree bool
}

// imageRegistry owns the lifetime of loaded images. One mutex guards
// the table and all reference counts; decode I/O runs outside the lock,
// de-duplicated per path through a singleflight group so concurrent
// loads of the same file share one decode.
type imageRegistry struct {
	lookup func(name string) (string, error)

	decodes singleflight.Group

	mu      sync.Mutex
	next    ImageHandle
	entries map[ImageHandle]*imageEntry
}

func newImageRegistry(lookup func(string) (string, error)) *imageRegistry {
	return &imageRegistry{
		lookup:  lookup,
		entries: make(map[ImageHandle]*imageEntry),
	}
}

// decode opens and decodes an image file. Concurrent callers for the
// same path share a single decode; the decoded image is immutable and
// safe to share between entries.
func (r *imageRegistry) decode(path string) (image.Image, error) {
	v, err, _ := r.decodes.Do(path, func() (any, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, err
		}
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// load decodes an image and appends a fresh entry (refs 0, not pending
// free) at the given display scale. An I/O or decode error leaves the
// registry unchanged.
func (r *imageRegistry) load(name string, scale float64) (ImageHandle, error) {
	path, err := r.lookup(name)
	if err != nil {
		return 0, fmt.Errorf("drawq: image %q: %w", name, err)
	}

	img, err := r.decode(path)
	if err != nil {
		return 0, fmt.Errorf("drawq: image %q: %w", name, err)
	}
	bounds := img.Bounds()

	e := &imageEntry{
		path:  path,
		surf:  img,
		w:     bounds.Dx(),
		h:     bounds.Dy(),
		scale: scale,
	}

	r.mu.Lock()
	r.next++
	h := r.next
	r.entries[h] = e
	r.mu.Unlock()

	Logger().Debug("image loaded", "path", path, "w", e.w, "h", e.h, "handle", uint32(h))
	return h, nil
}

// acquire takes a strong reference on a handle. Done whenever the
// handle is captured into a draw job.
func (r *imageRegistry) acquire(h ImageHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return ErrInvalidHandle
	}
	e.refs++
	return nil
}

// release drops a strong reference. When the count reaches zero on a
// pending-free entry the entry is unlinked and its texture destroyed
// synchronously. A release without a matching acquire is clamped at
// zero so it cannot mask the pending-free trigger.
func (r *imageRegistry) release(h ImageHandle, b Backend) {
	r.mu.Lock()
	e, ok := r.entries[h]
	if !ok {
		r.mu.Unlock()
		return
	}
	if e.refs == 0 {
		r.mu.Unlock()
		Logger().Warn("unbalanced image release", "path", e.path)
		return
	}
	e.refs--
	free := e.refs == 0 && e.pendingFree
	if free {
		delete(r.entries, h)
	}
	r.mu.Unlock()

	if free {
		r.destroy(e, b)
	}
}

// markPendingFree requests destruction of an entry. With no outstanding
// references the entry is freed immediately; otherwise the free is
// deferred to the final release. Idempotent.
func (r *imageRegistry) markPendingFree(h ImageHandle, b Backend) error {
	r.mu.Lock()
	e, ok := r.entries[h]
	if !ok {
		r.mu.Unlock()
		return ErrInvalidHandle
	}
	if e.refs > 0 {
		e.pendingFree = true
		r.mu.Unlock()
		Logger().Warn("image free deferred", "path", e.path, "refs", e.refs)
		return nil
	}
	delete(r.entries, h)
	r.mu.Unlock()

	r.destroy(e, b)
	return nil
}

func (r *imageRegistry) destroy(e *imageEntry, b Backend) {
	if e.tex == nil {
		return
	}
	if err := b.DestroyTexture(e.tex); err != nil {
		Logger().Warn("texture destroy failed", "path", e.path, "err", err)
	}
	e.tex = nil
}

// refCount reports the current reference count of a handle.
func (r *imageRegistry) refCount(h ImageHandle) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return 0, false
	}
	return e.refs, true
}

// texture returns the backend texture for a handle along with its
// natural size and display scale, creating the texture on first use.
// Must be called from the render-context thread.
func (r *imageRegistry) texture(hnd ImageHandle, b Backend) (tex Texture, w, h int, scale float64, err error) {
	r.mu.Lock()
	e, ok := r.entries[hnd]
	if !ok {
		r.mu.Unlock()
		return nil, 0, 0, 0, ErrInvalidHandle
	}
	tex, w, h, scale = e.tex, e.w, e.h, e.scale
	surf := e.surf
	r.mu.Unlock()

	if tex != nil {
		return tex, w, h, scale, nil
	}

	tex, err = b.CreateTexture(surf)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("drawq: texture for %q: %w", e.path, err)
	}

	r.mu.Lock()
	if e.tex == nil {
		e.tex = tex
	} else {
		tex = e.tex
	}
	r.mu.Unlock()
	return tex, w, h, scale, nil
}

// setScale updates the display scale applied when the image is drawn
// whole (not cropped).
func (r *imageRegistry) setScale(h ImageHandle, scale float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return ErrInvalidHandle
	}
	e.scale = scale
	return nil
}

// info returns natural size and scale for a handle.
func (r *imageRegistry) info(h ImageHandle) (w, hgt int, scale float64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return 0, 0, 0, ErrInvalidHandle
	}
	return e.w, e.h, e.scale, nil
}

// rebind destroys and recreates every materialized texture from its
// surface. Called from Canvas.Bind after the render context moved to a
// new thread, where textures created against the old context are stale.
func (r *imageRegistry) rebind(b Backend) error {
	r.mu.Lock()
	entries := make([]*imageEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	for _, e := range entries {
		if e.tex == nil {
			continue
		}
		if err := b.DestroyTexture(e.tex); err != nil {
			Logger().Warn("texture destroy failed", "path", e.path, "err", err)
		}
		tex, err := b.CreateTexture(e.surf)
		if err != nil {
			return fmt.Errorf("drawq: rebind %q: %w", e.path, err)
		}
		r.mu.Lock()
		e.tex = tex
		r.mu.Unlock()
	}
	return nil
}

// closeAll tears the registry down, destroying every texture regardless
// of reference counts. Called from Canvas.Close only.
func (r *imageRegistry) closeAll(b Backend) {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[ImageHandle]*imageEntry)
	r.mu.Unlock()

	for _, e := range entries {
		r.destroy(e, b)
	}
}
