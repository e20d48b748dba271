package core

import (
	"image"
	"io"

	"github.com/oklog/ulid/v2"
)

// ElementType tags the closed set of drawable element kinds. The string
// values are the wire-format type tags and must not change.
type ElementType string

const (
	TypeText   ElementType = "textbox"
	TypeRect   ElementType = "rect"
	TypeCircle ElementType = "circle"
	TypeImage  ElementType = "image"
	TypeVideo  ElementType = "video"
)

// Default styling applied when an element is created by a user action or
// reconstructed from a record with missing optional fields.
const (
	DefaultFill        = "#ffffff"
	DefaultStrokeColor = "#000000"
	DefaultStrokeWidth = 1.0
	DefaultTextColor   = "#000000"
	DefaultFontSize    = 32.0
	DefaultText        = "Your text here"
)

// FontFamilies is the fixed set of font families a text element may use.
// The first entry is the default.
var FontFamilies = []string{"Arial", "Impact", "Courier", "Georgia"}

// ValidFontFamily reports whether name is one of the supported families.
func ValidFontFamily(name string) bool {
	for _, f := range FontFamilies {
		if f == name {
			return true
		}
	}
	return false
}

// Rect is an axis-aligned bounding box in canvas pixel space.
type Rect struct {
	X, Y, W, H float64
}

type (
	// Element is one drawable unit on a canvas surface. Implementations form
	// a closed set; both reconstruction and export switch exhaustively over
	// the concrete types.
	Element interface {
		ID() string
		Type() ElementType
		// Bounds returns the rendered bounding box. Geometry is always
		// captured from here, never from construction parameters.
		Bounds() Rect
		MoveTo(x, y float64)
	}

	// ElementBase carries the identity and geometry shared by all variants.
	ElementBase struct {
		Id         string
		X, Y, W, H float64
	}

	TextElement struct {
		ElementBase
		Text       string
		FontSize   float64
		FontFamily string
		Color      string
	}

	RectElement struct {
		ElementBase
		Fill        string
		StrokeColor string
		StrokeWidth float64
	}

	CircleElement struct {
		ElementBase
		Radius      float64
		Fill        string
		StrokeColor string
		StrokeWidth float64
	}

	ImageElement struct {
		ElementBase
		// URL is the permanent location of the source bitmap. Empty while the
		// element is still backed by a staged local file.
		URL            string
		OriginalWidth  float64
		OriginalHeight float64
		ScaleX         float64
		ScaleY         float64
		// StagingID links the element to its pending-upload entry until save.
		StagingID string
		// Bitmap is the decoded pixels used for rendering. Session-local,
		// never persisted.
		Bitmap image.Image
	}

	VideoElement struct {
		ElementBase
		URL              string
		Duration         float64
		OriginalFileName string
		OriginalWidth    float64
		OriginalHeight   float64
		ScaleX           float64
		ScaleY           float64
		StagingID        string
		// Poster is the still frame standing in for the clip while the
		// session is not playing. Session-local, never persisted.
		Poster image.Image
		// Decoder is the live decode resource used during preview playback.
		// Released when the element is deleted. Never persisted.
		Decoder io.Closer
		// CurrentTime is pushed by the session playback clock.
		CurrentTime float64
	}
)

var (
	_ Element = (*TextElement)(nil)
	_ Element = (*RectElement)(nil)
	_ Element = (*CircleElement)(nil)
	_ Element = (*ImageElement)(nil)
	_ Element = (*VideoElement)(nil)
)

// NewElementID returns a fresh session-unique element identifier.
func NewElementID() string {
	return ulid.Make().String()
}

func (b *ElementBase) ID() string { return b.Id }

func (b *ElementBase) Bounds() Rect { return Rect{X: b.X, Y: b.Y, W: b.W, H: b.H} }

func (b *ElementBase) MoveTo(x, y float64) {
	b.X = x
	b.Y = y
}

// Resize sets the rendered bounding box dimensions.
func (b *ElementBase) Resize(w, h float64) {
	b.W = w
	b.H = h
}

func (e *TextElement) Type() ElementType   { return TypeText }
func (e *RectElement) Type() ElementType   { return TypeRect }
func (e *CircleElement) Type() ElementType { return TypeCircle }
func (e *ImageElement) Type() ElementType  { return TypeImage }
func (e *VideoElement) Type() ElementType  { return TypeVideo }

// Bounds of a circle derive from its radius so that resizing by radius and
// by box stay consistent.
func (e *CircleElement) Bounds() Rect {
	return Rect{X: e.X, Y: e.Y, W: 2 * e.Radius, H: 2 * e.Radius}
}

// SetRadius updates the radius and the derived box dimensions together.
func (e *CircleElement) SetRadius(r float64) {
	e.Radius = r
	e.W = 2 * r
	e.H = 2 * r
}

// Bounds of an image derive from the original pixel dimensions and the
// display scale factors, so resizing by scale and by box stay consistent.
// Records without original dimensions fall back to the stored box.
func (e *ImageElement) Bounds() Rect {
	return Rect{X: e.X, Y: e.Y, W: scaledDim(e.OriginalWidth, e.ScaleX, e.W), H: scaledDim(e.OriginalHeight, e.ScaleY, e.H)}
}

// SetScale updates the display scale factors and the derived box dimensions
// together.
func (e *ImageElement) SetScale(sx, sy float64) {
	e.ScaleX = sx
	e.ScaleY = sy
	e.W = e.OriginalWidth * sx
	e.H = e.OriginalHeight * sy
}

func (e *VideoElement) Bounds() Rect {
	return Rect{X: e.X, Y: e.Y, W: scaledDim(e.OriginalWidth, e.ScaleX, e.W), H: scaledDim(e.OriginalHeight, e.ScaleY, e.H)}
}

func (e *VideoElement) SetScale(sx, sy float64) {
	e.ScaleX = sx
	e.ScaleY = sy
	e.W = e.OriginalWidth * sx
	e.H = e.OriginalHeight * sy
}

func scaledDim(original, scale, fallback float64) float64 {
	if original > 0 && scale > 0 {
		return original * scale
	}
	return fallback
}

// NewText creates a text element with default styling at the given position.
func NewText(text string, x, y, width float64) *TextElement {
	if text == "" {
		text = DefaultText
	}
	return &TextElement{
		ElementBase: ElementBase{Id: NewElementID(), X: x, Y: y, W: width, H: DefaultFontSize * 1.2},
		Text:        text,
		FontSize:    DefaultFontSize,
		FontFamily:  FontFamilies[0],
		Color:       DefaultTextColor,
	}
}

// NewRect creates a rectangle with default fill and stroke.
func NewRect(x, y, w, h float64) *RectElement {
	return &RectElement{
		ElementBase: ElementBase{Id: NewElementID(), X: x, Y: y, W: w, H: h},
		Fill:        DefaultFill,
		StrokeColor: DefaultStrokeColor,
		StrokeWidth: DefaultStrokeWidth,
	}
}

// NewCircle creates a circle with default fill and stroke.
func NewCircle(x, y, radius float64) *CircleElement {
	return &CircleElement{
		ElementBase: ElementBase{Id: NewElementID(), X: x, Y: y, W: 2 * radius, H: 2 * radius},
		Radius:      radius,
		Fill:        DefaultFill,
		StrokeColor: DefaultStrokeColor,
		StrokeWidth: DefaultStrokeWidth,
	}
}
