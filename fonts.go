package drawq

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	tsfont "github.com/go-text/typesetting/font"
)

// FontHandle names an entry in the canvas font registry. The zero value
// is not a valid handle.
type FontHandle uint32

// IsValid reports whether the handle could name a registry entry.
func (h FontHandle) IsValid() bool { return h != 0 }

// fontEntry is one registry slot. A FontEntry with refs > 0 is never
// physically closed; marking it pendingFree defers the provider Close
// until the count reaches zero.
type fontEntry struct {
	path        string
	name        string // file base name, used for selection
	family      string // family name from the font's name table, may be empty
	size        int
	face        Font
	refs        int
	pendingFree bool
}

// fontRegistry owns the lifetime of loaded fonts. All operations run
// under one mutex, held for table manipulation only; provider I/O
// happens outside the lock except for the synchronous Close on the
// deferred-destruction path.
type fontRegistry struct {
	provider FontProvider
	lookup   func(name string) (string, error)

	mu      sync.Mutex
	next    FontHandle
	entries map[FontHandle]*fontEntry
	current FontHandle
}

func newFontRegistry(provider FontProvider, lookup func(string) (string, error)) *fontRegistry {
	return &fontRegistry{
		provider: provider,
		lookup:   lookup,
		entries:  make(map[FontHandle]*fontEntry),
	}
}

// fontFamily extracts the family name from the font file's name table.
// Best effort: selection falls back to the file name if parsing fails.
func fontFamily(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	face, err := tsfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return face.Describe().Family
}

// load opens a font and appends a fresh entry (refs 0, not pending
// free). An open error leaves the registry unchanged.
func (r *fontRegistry) load(name string, size int) (FontHandle, error) {
	path, err := r.lookup(name)
	if err != nil {
		return 0, fmt.Errorf("drawq: font %q: %w", name, err)
	}

	face, err := r.provider.Open(path, size)
	if err != nil {
		return 0, fmt.Errorf("drawq: font %q: %w", name, err)
	}

	e := &fontEntry{
		path:   path,
		name:   name,
		family: fontFamily(path),
		size:   size,
		face:   face,
	}

	r.mu.Lock()
	r.next++
	h := r.next
	r.entries[h] = e
	if r.current == 0 {
		r.current = h
	}
	r.mu.Unlock()

	Logger().Debug("font loaded", "name", name, "size", size, "handle", uint32(h))
	return h, nil
}

// acquire takes a strong reference on a handle.
func (r *fontRegistry) acquire(h FontHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return ErrInvalidHandle
	}
	e.refs++
	return nil
}

// acquireCurrent takes a strong reference on the current default font
// and returns its handle and face. Callers capture the handle into a
// job and must release it after dispatch.
func (r *fontRegistry) acquireCurrent() (FontHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[r.current]
	if !ok {
		return 0, ErrInvalidHandle
	}
	e.refs++
	return r.current, nil
}

// release drops a strong reference. When the count reaches zero on a
// pending-free entry, the entry is unlinked and the provider face is
// closed synchronously. A release without a matching acquire is clamped
// at zero so it cannot mask the pending-free trigger.
func (r *fontRegistry) release(h FontHandle) {
	r.mu.Lock()
	e, ok := r.entries[h]
	if !ok {
		r.mu.Unlock()
		return
	}
	if e.refs == 0 {
		r.mu.Unlock()
		Logger().Warn("unbalanced font release", "name", e.name)
		return
	}
	e.refs--
	free := e.refs == 0 && e.pendingFree
	if free {
		delete(r.entries, h)
	}
	r.mu.Unlock()

	if free {
		if err := r.provider.Close(e.face); err != nil {
			Logger().Warn("font close failed", "name", e.name, "err", err)
		}
	}
}

// markPendingFree requests destruction of an entry. With no outstanding
// references the entry is freed immediately; otherwise the free is
// deferred to the final release. Idempotent.
func (r *fontRegistry) markPendingFree(h FontHandle) error {
	r.mu.Lock()
	e, ok := r.entries[h]
	if !ok {
		r.mu.Unlock()
		return ErrInvalidHandle
	}
	if e.refs > 0 {
		e.pendingFree = true
		r.mu.Unlock()
		Logger().Warn("font free deferred", "name", e.name, "refs", e.refs)
		return nil
	}
	delete(r.entries, h)
	r.mu.Unlock()

	return r.provider.Close(e.face)
}

// refCount reports the current reference count of a handle.
func (r *fontRegistry) refCount(h FontHandle) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return 0, false
	}
	return e.refs, true
}

// face resolves a handle to its provider face.
func (r *fontRegistry) faceOf(h FontHandle) (Font, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return nil, ErrInvalidHandle
	}
	return e.face, nil
}

// selectByName makes the entry whose file or family name matches the
// current default font.
func (r *fontRegistry) selectByName(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, e := range r.entries {
		if e.name == name || (e.family != "" && e.family == name) {
			r.current = h
			return nil
		}
	}
	return ErrUnknownFont
}

// selectByHandle makes the entry named by h the current default font.
func (r *fontRegistry) selectByHandle(h FontHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[h]; !ok {
		return ErrInvalidHandle
	}
	r.current = h
	return nil
}

// currentInfo returns the current default font's name and size.
func (r *fontRegistry) currentInfo() (name string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[r.current]; ok {
		return e.name, e.size
	}
	return "", 0
}

// setSize changes the point size of the current default font.
//
// With no references outstanding the entry is resized in place: the
// provider face is closed and reopened at the new size. With references
// outstanding — an in-flight text job still needs the old face — the
// entry is marked pending-free and a fresh entry at the new size
// becomes the current default, so the referenced face stays valid until
// the last job releases it.
func (r *fontRegistry) setSize(size int) error {
	r.mu.Lock()
	e, ok := r.entries[r.current]
	if !ok {
		r.mu.Unlock()
		return ErrInvalidHandle
	}
	if e.size == size {
		r.mu.Unlock()
		return nil
	}
	if e.refs == 0 {
		// In-place resize. The lock is held across the provider calls:
		// releasing it would let a text enqueue acquire the face that is
		// about to be closed. Reopen before swapping so a provider error
		// leaves the old face untouched.
		face, err := r.provider.Open(e.path, size)
		if err != nil {
			r.mu.Unlock()
			return err
		}
		if err := r.provider.Close(e.face); err != nil {
			Logger().Warn("font close failed", "name", e.name, "err", err)
		}
		e.face = face
		e.size = size
		r.mu.Unlock()
		return nil
	}

	e.pendingFree = true
	name := e.name
	r.mu.Unlock()

	h, err := r.load(name, size)
	if err != nil {
		return err
	}
	return r.selectByHandle(h)
}

// closeAll tears the registry down, closing every face regardless of
// reference counts. Called from Canvas.Close only.
func (r *fontRegistry) closeAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[FontHandle]*fontEntry)
	r.current = 0
	r.mu.Unlock()

	for _, e := range entries {
		if err := r.provider.Close(e.face); err != nil {
			Logger().Warn("font close failed", "name", e.name, "err", err)
		}
	}
}
