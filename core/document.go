package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TemplateKind selects the fixed canvas aspect ratio of a template.
type TemplateKind string

const (
	KindPhoto TemplateKind = "photo" // 1:1
	KindVideo TemplateKind = "video" // 9:16
)

// CanvasSize returns the default editing-canvas pixel dimensions for the
// kind. A loaded document's own dimensions override these.
func (k TemplateKind) CanvasSize() (width, height float64) {
	if k == KindVideo {
		return 1080, 1920
	}
	return 1080, 1080
}

// Valid reports whether k is a known template kind.
func (k TemplateKind) Valid() bool {
	return k == KindPhoto || k == KindVideo
}

// ErrNoCanvas marks a layout document that is structurally unusable: the
// canvas block is missing entirely. This is the only fatal load condition.
var ErrNoCanvas = errors.New("layout document has no canvas block")

type (
	// CanvasSpec describes the canvas itself inside a layout document.
	CanvasSpec struct {
		Width           float64 `json:"width"`
		Height          float64 `json:"height"`
		BackgroundColor string  `json:"backgroundColor"`
		BackgroundImage *string `json:"backgroundImage"`
	}

	// ElementRecord is the flat wire form of one element. Field names are
	// load-bearing for compatibility with previously persisted documents;
	// which fields are meaningful depends on Type.
	ElementRecord struct {
		ID     string      `json:"id"`
		Type   ElementType `json:"type"`
		X      float64     `json:"x"`
		Y      float64     `json:"y"`
		Width  float64     `json:"width"`
		Height float64     `json:"height"`

		// textbox
		Text       string  `json:"text,omitempty"`
		FontSize   float64 `json:"fontSize,omitempty"`
		FontFamily string  `json:"fontFamily,omitempty"`
		Color      string  `json:"color,omitempty"`

		// rect, circle
		Fill        string  `json:"fill,omitempty"`
		StrokeColor string  `json:"strokeColor,omitempty"`
		StrokeWidth float64 `json:"strokeWidth,omitempty"`
		Radius      float64 `json:"radius,omitempty"` // circle only

		// image
		ImageURL       string  `json:"imageUrl,omitempty"`
		OriginalWidth  float64 `json:"originalWidth,omitempty"`
		OriginalHeight float64 `json:"originalHeight,omitempty"`

		// video
		VideoURL         string  `json:"videoUrl,omitempty"`
		Duration         float64 `json:"duration,omitempty"`
		OriginalFileName string  `json:"originalFileName,omitempty"`
	}

	// LayoutDocument is the portable, persisted description of a canvas.
	// It is the only contract between editing sessions and persistence and
	// must not reference any in-memory session state.
	LayoutDocument struct {
		Canvas   *CanvasSpec     `json:"canvas"`
		Elements []ElementRecord `json:"elements"`
		// MaxDuration is present only when video elements exist; it is the
		// authoritative playback-loop length in seconds.
		MaxDuration float64 `json:"maxDuration,omitempty"`
	}
)

// Validate checks the document's structural integrity. Element-level
// problems are not structural; the loader handles those per element.
func (d *LayoutDocument) Validate() error {
	if d.Canvas == nil {
		return ErrNoCanvas
	}
	if d.Canvas.Width <= 0 || d.Canvas.Height <= 0 {
		return fmt.Errorf("invalid canvas dimensions %gx%g", d.Canvas.Width, d.Canvas.Height)
	}
	return nil
}

// ParseDocument decodes and structurally validates a layout document.
func ParseDocument(data []byte) (*LayoutDocument, error) {
	var doc LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse layout document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
