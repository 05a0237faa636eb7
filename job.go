package drawq

// JobType identifies the kind of a queued draw job. Each kind
// corresponds to one rendering operation against the backend.
type JobType uint8

const (
	JobClear JobType = iota // Clear the whole target to a colour
	JobArc
	JobEllipse
	JobText
	JobRect
	JobFilledRect
	JobCircle
	JobLine
	JobPolygon
	JobTriangle
	JobImage           // One-shot image draw from a file path
	JobLoadedImage     // Draw of a registry-held image
	JobLoadedImageCrop // Cropped draw of a registry-held image
	JobScaledImage     // One-shot scaled image draw from a file path
	JobArrow
)

// jobTypeNames maps JobType values to their string representation.
var jobTypeNames = [...]string{
	JobClear:           "Clear",
	JobArc:             "Arc",
	JobEllipse:         "Ellipse",
	JobText:            "Text",
	JobRect:            "Rect",
	JobFilledRect:      "FilledRect",
	JobCircle:          "Circle",
	JobLine:            "Line",
	JobPolygon:         "Polygon",
	JobTriangle:        "Triangle",
	JobImage:           "Image",
	JobLoadedImage:     "LoadedImage",
	JobLoadedImageCrop: "LoadedImageCrop",
	JobScaledImage:     "ScaledImage",
	JobArrow:           "Arrow",
}

// String returns the string representation of a JobType.
func (t JobType) String() string {
	if int(t) < len(jobTypeNames) {
		return jobTypeNames[t]
	}
	return "Unknown"
}

// Point is a vertex with signed 16-bit pixel coordinates.
type Point struct {
	X, Y int16
}

// CropRect is a source rectangle in texture pixel coordinates.
type CropRect struct {
	X, Y, W, H int
}

// Job is a queued, fully-parameterised request to perform one rendering
// operation, decoupled in time from its execution. The queue exclusively
// owns a job from enqueue until the consumer dispatches it; a job is
// never mutated after enqueue.
//
// The job set is closed: the dispatch loop rejects kinds outside this
// package with an UnknownJobError.
type Job interface {
	// Type returns the JobType for this job.
	Type() JobType
}

// ClearJob clears the render target to a solid colour.
type ClearJob struct {
	Color Color
}

// Type implements Job.
func (ClearJob) Type() JobType { return JobClear }

// ArcJob draws a circular arc between two angles in degrees.
type ArcJob struct {
	X, Y       int16
	Radius     int16
	Start, End int16
	Color      Color
}

// Type implements Job.
func (ArcJob) Type() JobType { return JobArc }

// EllipseJob draws an ellipse outline.
type EllipseJob struct {
	X, Y   int16
	RX, RY int16
	Color  Color
}

// Type implements Job.
func (EllipseJob) Type() JobType { return JobEllipse }

// TextJob renders a string with a registry font. The job holds a strong
// reference to Font, released by the consumer after dispatch.
type TextJob struct {
	Text  string
	X, Y  int16
	Color Color
	Font  FontHandle
}

// Type implements Job.
func (TextJob) Type() JobType { return JobText }

// RectJob draws a rectangle outline.
type RectJob struct {
	X, Y, W, H int16
	Color      Color
}

// Type implements Job.
func (RectJob) Type() JobType { return JobRect }

// FilledRectJob draws a filled rectangle.
type FilledRectJob struct {
	X, Y, W, H int16
	Color      Color
}

// Type implements Job.
func (FilledRectJob) Type() JobType { return JobFilledRect }

// CircleJob draws a filled circle.
type CircleJob struct {
	X, Y   int16
	Radius int16
	Color  Color
}

// Type implements Job.
func (CircleJob) Type() JobType { return JobCircle }

// LineJob draws a line with a pixel thickness.
type LineJob struct {
	X1, Y1, X2, Y2 int16
	Thickness      uint8
	Color          Color
}

// Type implements Job.
func (LineJob) Type() JobType { return JobLine }

// PolygonJob draws a polygon outline. Points is owned by the job; the
// enqueuing entry point copies the caller's slice.
type PolygonJob struct {
	Points []Point
	Color  Color
}

// Type implements Job.
func (PolygonJob) Type() JobType { return JobPolygon }

// TriangleJob draws a filled triangle.
type TriangleJob struct {
	Points [3]Point
	Color  Color
}

// Type implements Job.
func (TriangleJob) Type() JobType { return JobTriangle }

// ImageJob draws an image loaded from Path at dispatch time. The backend
// texture is created and destroyed within the dispatch.
type ImageJob struct {
	Path string
	X, Y int16
}

// Type implements Job.
func (ImageJob) Type() JobType { return JobImage }

// LoadedImageJob draws a registry-held image at its display scale. The
// job holds a strong reference to Image, released after dispatch.
type LoadedImageJob struct {
	Image ImageHandle
	X, Y  int16
}

// Type implements Job.
func (LoadedImageJob) Type() JobType { return JobLoadedImage }

// LoadedImageCropJob draws a sub-rectangle of a registry-held image,
// typically one spritesheet cell. The job holds a strong reference to
// Image, released after dispatch.
type LoadedImageCropJob struct {
	Image ImageHandle
	X, Y  int16
	Crop  CropRect
}

// Type implements Job.
func (LoadedImageCropJob) Type() JobType { return JobLoadedImageCrop }

// ScaledImageJob draws an image loaded from Path at dispatch time,
// scaled by Scale.
type ScaledImageJob struct {
	Path  string
	X, Y  int16
	Scale float64
}

// Type implements Job.
func (ScaledImageJob) Type() JobType { return JobScaledImage }

// ArrowJob draws a line from (X1,Y1) to (X2,Y2) with two head strokes of
// HeadLength pixels at the destination end.
type ArrowJob struct {
	X1, Y1, X2, Y2 int16
	HeadLength     int16
	Thickness      uint8
	Color          Color
}

// Type implements Job.
func (ArrowJob) Type() JobType { return JobArrow }
