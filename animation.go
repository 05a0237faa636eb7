package drawq

import (
	"sync"
	"time"
)

// SequenceDirection is the scan direction of an animation sequence over
// its spritesheet: the column advances for horizontal directions, the
// row for vertical ones, while the orthogonal coordinate stays pinned
// at the sequence's start cell.
type SequenceDirection uint8

const (
	SequenceHorizontalPos SequenceDirection = iota
	SequenceHorizontalNeg
	SequenceVerticalPos
	SequenceVerticalNeg
)

// horizontal reports whether the column is the scan axis.
func (d SequenceDirection) horizontal() bool {
	return d == SequenceHorizontalPos || d == SequenceHorizontalNeg
}

// positive reports whether frames advance forward along the scan axis.
func (d SequenceDirection) positive() bool {
	return d == SequenceHorizontalPos || d == SequenceVerticalPos
}

// sequence is a named, ordered path of cells on a spritesheet.
type sequence struct {
	name     string
	startRow int
	startCol int
	dir      SequenceDirection
	frames   int
}

// Animation binds named sequences to one spritesheet. Sequences are
// append-only; an Animation must outlive every SequenceInstance created
// from it.
type Animation struct {
	sheet *Spritesheet

	mu   sync.Mutex
	seqs []*sequence
}

// NewAnimation creates an animation over the sheet.
func (s *Spritesheet) NewAnimation() *Animation {
	return &Animation{sheet: s}
}

// AddSequence registers a named path of frames cells starting at
// (startRow, startCol) and scanning in dir. The name must be non-empty
// and the sequence needs at least one frame.
func (a *Animation) AddSequence(name string, startRow, startCol int, dir SequenceDirection, frames int) error {
	if name == "" {
		return ErrEmptyName
	}
	if frames < 1 {
		return ErrNoFrames
	}
	a.mu.Lock()
	a.seqs = append(a.seqs, &sequence{
		name:     name,
		startRow: startRow,
		startCol: startCol,
		dir:      dir,
		frames:   frames,
	})
	a.mu.Unlock()
	return nil
}

// SequenceInstance is the runtime playback cursor for one sequence:
// the current frame index plus the elapsed-time accumulators that turn
// wall-clock deltas into frame steps.
//
// An instance is mutated only by Draw and Reset and is not safe for
// concurrent use; it holds a weak reference to its Animation, which
// must outlive it. Instances of the same sequence are independent.
type SequenceInstance struct {
	anim   *Animation
	seq    *sequence
	period time.Duration

	frame     int // offset from the sequence start, in [0, frames)
	prev, cur time.Duration
}

// Instantiate creates a playback cursor over the named sequence with
// the given frame period. The period must be positive.
func (a *Animation) Instantiate(name string, framePeriod time.Duration) (*SequenceInstance, error) {
	if framePeriod <= 0 {
		return nil, ErrZeroFramePeriod
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range a.seqs {
		if s.name == name {
			return &SequenceInstance{anim: a, seq: s, period: framePeriod}, nil
		}
	}
	return nil, ErrUnknownSequence
}

// Reset zeroes both time accumulators and returns the cursor to the
// sequence's start cell.
func (si *SequenceInstance) Reset() {
	si.prev = 0
	si.cur = 0
	si.frame = 0
}

// Frame returns the current frame offset within the sequence.
func (si *SequenceInstance) Frame() int { return si.frame }

// advance accumulates elapsed time and steps the frame cursor once per
// whole frame period. The sub-period remainder stays in the
// accumulators so playback speed is exact over time. Negative
// directions use full modular arithmetic, so steps larger than the
// frame count wrap correctly.
func (si *SequenceInstance) advance(elapsed time.Duration) {
	si.cur += elapsed
	if si.cur-si.prev < si.period {
		return
	}
	steps := int((si.cur - si.prev) / si.period)
	n := si.seq.frames
	if si.seq.dir.positive() {
		si.frame = (si.frame + steps) % n
	} else {
		si.frame = ((si.frame-steps)%n + n) % n
	}
	si.prev += time.Duration(steps) * si.period
}

// Draw advances the cursor by elapsed and enqueues the resulting frame
// cell at screen position (x, y), taking a strong reference on the
// spritesheet's backing image for the job's lifetime.
func (si *SequenceInstance) Draw(elapsed time.Duration, x, y int16) error {
	si.advance(elapsed)

	sheet := si.anim.sheet
	var col, row int
	if si.seq.dir.horizontal() {
		col = si.seq.startCol + si.frame
		row = si.seq.startRow
	} else {
		col = si.seq.startCol
		row = si.seq.startRow + si.frame
	}

	if err := sheet.canvas.images.acquire(sheet.image); err != nil {
		return err
	}
	cx, cy := sheet.cellOrigin(col, row)
	sheet.canvas.queue.push(LoadedImageCropJob{
		Image: sheet.image,
		X:     x,
		Y:     y,
		Crop:  CropRect{X: cx, Y: cy, W: sheet.cellW, H: sheet.cellH},
	})
	return nil
}
