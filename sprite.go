package drawq

// Spritesheet describes a rectangular bounding box over a loaded image,
// divided into cols × rows cells of fixed pixel size with optional
// per-cell padding. Cell geometry is derived once, at division-setting
// time, after bounding box and padding are final; a Spritesheet is
// immutable afterwards and safe to share between goroutines.
type Spritesheet struct {
	canvas *Canvas
	image  ImageHandle

	x, y          int
	width, height int
	cellW, cellH  int
	cols, rows    int
	padX, padY    int
}

// initSpritesheet starts a sheet covering the whole image.
func (c *Canvas) initSpritesheet(img ImageHandle) (*Spritesheet, error) {
	w, h, _, err := c.images.info(img)
	if err != nil {
		return nil, err
	}
	return &Spritesheet{
		canvas: c,
		image:  img,
		width:  w,
		height: h,
	}, nil
}

// setBoundingBox restricts the sheet to a sub-region of the image.
func (s *Spritesheet) setBoundingBox(x, y, w, h int) {
	s.x, s.y, s.width, s.height = x, y, w, h
}

// setPadding sets the symmetric margin around every cell. Spacing
// between cells is expressed as two half-paddings.
func (s *Spritesheet) setPadding(padX, padY int) {
	s.padX, s.padY = padX, padY
}

// setDivisions fixes the grid and derives the cell size. There is no
// padding before the first and after the last cell, so a row of n cells
// carries 2·pad·(n−1) padding pixels in total. Must run after
// setBoundingBox and setPadding.
func (s *Spritesheet) setDivisions(cols, rows int) error {
	if cols < 1 || rows < 1 {
		return ErrInvalidGrid
	}
	s.cols, s.rows = cols, rows
	s.cellW = (s.width - 2*s.padX*(cols-1)) / cols
	s.cellH = (s.height - 2*s.padY*(rows-1)) / rows
	return nil
}

// cellOrigin returns the pixel origin of cell (col, row) inside the
// backing image.
func (s *Spritesheet) cellOrigin(col, row int) (x, y int) {
	x = s.x + col*(s.cellW+2*s.padX) + s.padX
	y = s.y + row*(s.cellH+2*s.padY) + s.padY
	return x, y
}

// CellSize returns the derived per-cell pixel dimensions.
func (s *Spritesheet) CellSize() (w, h int) { return s.cellW, s.cellH }

// Grid returns the sheet's column and row counts.
func (s *Spritesheet) Grid() (cols, rows int) { return s.cols, s.rows }

// Image returns the handle of the backing image.
func (s *Spritesheet) Image() ImageHandle { return s.image }

// SpritesheetFromImage divides the whole image into a cols × rows grid
// with no padding between cells.
func (c *Canvas) SpritesheetFromImage(img ImageHandle, cols, rows int) (*Spritesheet, error) {
	s, err := c.initSpritesheet(img)
	if err != nil {
		return nil, err
	}
	if err := s.setDivisions(cols, rows); err != nil {
		return nil, err
	}
	return s, nil
}

// SpritesheetFromImagePadded divides the whole image into a cols × rows
// grid where every cell carries a symmetric (padX, padY) margin.
func (c *Canvas) SpritesheetFromImagePadded(img ImageHandle, cols, rows, padX, padY int) (*Spritesheet, error) {
	s, err := c.initSpritesheet(img)
	if err != nil {
		return nil, err
	}
	s.setPadding(padX, padY)
	if err := s.setDivisions(cols, rows); err != nil {
		return nil, err
	}
	return s, nil
}

// SpritesheetFromImageSpaced divides the whole image into a cols × rows
// grid with a fixed pixel gap between neighbouring cells. The gap is
// split evenly into two half-paddings.
func (c *Canvas) SpritesheetFromImageSpaced(img ImageHandle, cols, rows, spacingX, spacingY int) (*Spritesheet, error) {
	s, err := c.initSpritesheet(img)
	if err != nil {
		return nil, err
	}
	s.setPadding(spacingX/2, spacingY/2)
	if err := s.setDivisions(cols, rows); err != nil {
		return nil, err
	}
	return s, nil
}

// SpritesheetFromRegion lays an unpadded cols × rows grid of
// cellW × cellH cells over the image starting at (x, y).
func (c *Canvas) SpritesheetFromRegion(img ImageHandle, cols, rows, cellW, cellH, x, y int) (*Spritesheet, error) {
	if cellW < 1 || cellH < 1 {
		return nil, ErrInvalidGrid
	}
	s, err := c.initSpritesheet(img)
	if err != nil {
		return nil, err
	}
	s.setBoundingBox(x, y, cellW*cols, cellH*rows)
	if err := s.setDivisions(cols, rows); err != nil {
		return nil, err
	}
	return s, nil
}

// SpritesheetFromRegionPadded lays a padded cols × rows grid of
// cellW × cellH cells over the image starting at (x, y).
func (c *Canvas) SpritesheetFromRegionPadded(img ImageHandle, cols, rows, cellW, cellH, padX, padY, x, y int) (*Spritesheet, error) {
	if cellW < 1 || cellH < 1 {
		return nil, ErrInvalidGrid
	}
	s, err := c.initSpritesheet(img)
	if err != nil {
		return nil, err
	}
	s.setBoundingBox(x, y,
		cols*cellW+(cols-1)*padX*2,
		rows*cellH+(rows-1)*padY*2)
	s.setPadding(padX, padY)
	if err := s.setDivisions(cols, rows); err != nil {
		return nil, err
	}
	return s, nil
}

// SpritesheetFromRegionSpaced lays a cols × rows grid of cellW × cellH
// cells with fixed gaps over the image starting at (x, y).
func (c *Canvas) SpritesheetFromRegionSpaced(img ImageHandle, cols, rows, cellW, cellH, spacingX, spacingY, x, y int) (*Spritesheet, error) {
	if cellW < 1 || cellH < 1 {
		return nil, ErrInvalidGrid
	}
	s, err := c.initSpritesheet(img)
	if err != nil {
		return nil, err
	}
	s.setBoundingBox(x, y,
		cols*cellW+(cols-1)*spacingX,
		rows*cellH+(rows-1)*spacingY)
	s.setPadding(spacingX/2, spacingY/2)
	if err := s.setDivisions(cols, rows); err != nil {
		return nil, err
	}
	return s, nil
}

// Draw enqueues a cropped draw of cell (col, row) at screen position
// (x, y), taking a strong reference on the backing image for the job's
// lifetime.
func (s *Spritesheet) Draw(col, row int, x, y int16) error {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return ErrSpriteOutOfRange
	}
	if err := s.canvas.images.acquire(s.image); err != nil {
		return err
	}
	cx, cy := s.cellOrigin(col, row)
	s.canvas.queue.push(LoadedImageCropJob{
		Image: s.image,
		X:     x,
		Y:     y,
		Crop:  CropRect{X: cx, Y: cy, W: s.cellW, H: s.cellH},
	})
	return nil
}
