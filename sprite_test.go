package drawq

import (
	"errors"
	"testing"
)

// loadTestImage loads a freshly written PNG into the canvas registry.
func loadTestImage(t *testing.T, c *Canvas, w, h int) ImageHandle {
	t.Helper()
	img, err := c.LoadImage(writeTestPNG(t, "sheet.png", w, h))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestSpritesheetFromImage(t *testing.T) {
	c := newTestCanvas(&recordBackend{})
	img := loadTestImage(t, c, 64, 32)

	s, err := c.SpritesheetFromImage(img, 4, 2)
	if err != nil {
		t.Fatalf("SpritesheetFromImage: %v", err)
	}
	if w, h := s.CellSize(); w != 16 || h != 16 {
		t.Errorf("CellSize() = %d,%d, want 16,16", w, h)
	}
	if cols, rows := s.Grid(); cols != 4 || rows != 2 {
		t.Errorf("Grid() = %d,%d, want 4,2", cols, rows)
	}
	if x, y := s.cellOrigin(2, 1); x != 32 || y != 16 {
		t.Errorf("cellOrigin(2,1) = %d,%d, want 32,16", x, y)
	}
}

func TestSpritesheetPaddedGeometry(t *testing.T) {
	c := newTestCanvas(&recordBackend{})
	img := loadTestImage(t, c, 100, 40)

	// No padding before the first and after the last cell: a row of 4
	// cells carries 2·2·3 = 12 padding pixels.
	s, err := c.SpritesheetFromImagePadded(img, 4, 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := s.CellSize(); w != 22 || h != 18 {
		t.Errorf("CellSize() = %d,%d, want 22,18", w, h)
	}
	if x, y := s.cellOrigin(1, 1); x != 28 || y != 24 {
		t.Errorf("cellOrigin(1,1) = %d,%d, want 28,24", x, y)
	}
}

func TestSpritesheetSpacedHalvesGaps(t *testing.T) {
	c := newTestCanvas(&recordBackend{})
	img := loadTestImage(t, c, 100, 40)

	// A spacing of 4 is the same geometry as a padding of 2.
	spaced, err := c.SpritesheetFromImageSpaced(img, 4, 2, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	padded, err := c.SpritesheetFromImagePadded(img, 4, 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	sw, sh := spaced.CellSize()
	pw, ph := padded.CellSize()
	if sw != pw || sh != ph {
		t.Errorf("spaced CellSize() = %d,%d, padded = %d,%d", sw, sh, pw, ph)
	}
}

func TestSpritesheetFromRegion(t *testing.T) {
	c := newTestCanvas(&recordBackend{})
	img := loadTestImage(t, c, 128, 128)

	s, err := c.SpritesheetFromRegion(img, 3, 2, 10, 12, 20, 30)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := s.CellSize(); w != 10 || h != 12 {
		t.Errorf("CellSize() = %d,%d, want 10,12", w, h)
	}
	// Cell origins include the region offset.
	if x, y := s.cellOrigin(1, 1); x != 30 || y != 42 {
		t.Errorf("cellOrigin(1,1) = %d,%d, want 30,42", x, y)
	}
}

func TestSpritesheetDraw(t *testing.T) {
	c := newTestCanvas(&recordBackend{})
	img := loadTestImage(t, c, 64, 32)

	s, err := c.SpritesheetFromImage(img, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(2, 1, 5, 6); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if refs, _ := c.images.refCount(img); refs != 1 {
		t.Errorf("image refs = %d after enqueue, want 1", refs)
	}

	jobs := c.queue.detach()
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}
	j := jobs[0].(LoadedImageCropJob)
	want := CropRect{X: 32, Y: 16, W: 16, H: 16}
	if j.Crop != want {
		t.Errorf("Crop = %v, want %v", j.Crop, want)
	}
	if j.X != 5 || j.Y != 6 {
		t.Errorf("position = %d,%d, want 5,6", j.X, j.Y)
	}
}

func TestSpritesheetInvalidGrid(t *testing.T) {
	c := newTestCanvas(&recordBackend{})
	img := loadTestImage(t, c, 64, 32)

	for _, tc := range [][2]int{{0, 2}, {4, 0}, {0, 0}, {-1, 2}} {
		if _, err := c.SpritesheetFromImage(img, tc[0], tc[1]); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("SpritesheetFromImage(%d,%d) err = %v, want ErrInvalidGrid", tc[0], tc[1], err)
		}
		if _, err := c.SpritesheetFromImagePadded(img, tc[0], tc[1], 1, 1); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("SpritesheetFromImagePadded(%d,%d) err = %v, want ErrInvalidGrid", tc[0], tc[1], err)
		}
		if _, err := c.SpritesheetFromImageSpaced(img, tc[0], tc[1], 2, 2); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("SpritesheetFromImageSpaced(%d,%d) err = %v, want ErrInvalidGrid", tc[0], tc[1], err)
		}
		if _, err := c.SpritesheetFromRegion(img, tc[0], tc[1], 8, 8, 0, 0); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("SpritesheetFromRegion(%d,%d) err = %v, want ErrInvalidGrid", tc[0], tc[1], err)
		}
	}

	// Region variants also reject non-positive cell sizes.
	if _, err := c.SpritesheetFromRegion(img, 2, 2, 0, 8, 0, 0); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("SpritesheetFromRegion(cellW 0) err = %v, want ErrInvalidGrid", err)
	}
	if _, err := c.SpritesheetFromRegionPadded(img, 2, 2, 8, 0, 1, 1, 0, 0); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("SpritesheetFromRegionPadded(cellH 0) err = %v, want ErrInvalidGrid", err)
	}
	if _, err := c.SpritesheetFromRegionSpaced(img, 2, 2, -4, 8, 2, 2, 0, 0); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("SpritesheetFromRegionSpaced(cellW -4) err = %v, want ErrInvalidGrid", err)
	}
}

func TestSpritesheetDrawOutOfRange(t *testing.T) {
	c := newTestCanvas(&recordBackend{})
	img := loadTestImage(t, c, 64, 32)

	s, err := c.SpritesheetFromImage(img, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range [][2]int{{4, 0}, {0, 2}, {-1, 0}, {0, -1}} {
		if err := s.Draw(tc[0], tc[1], 0, 0); !errors.Is(err, ErrSpriteOutOfRange) {
			t.Errorf("Draw(%d,%d) err = %v, want ErrSpriteOutOfRange", tc[0], tc[1], err)
		}
	}
	if refs, _ := c.images.refCount(img); refs != 0 {
		t.Errorf("rejected draws leaked %d references", refs)
	}
}
