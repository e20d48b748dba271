package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseDocument_Scenario(t *testing.T) {
	data := []byte(`{
		"canvas": {"width": 400, "height": 400, "backgroundColor": "#ffffff"},
		"elements": [
			{"id": "e1", "type": "rect", "x": 10, "y": 10, "width": 50, "height": 50,
			 "fill": "#ff0000", "strokeColor": "#000000", "strokeWidth": 2}
		]
	}`)

	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument() failed: %v", err)
	}

	if doc.Canvas.Width != 400 || doc.Canvas.Height != 400 {
		t.Errorf("Canvas dimensions mismatch: got %gx%g, want 400x400", doc.Canvas.Width, doc.Canvas.Height)
	}
	if doc.Canvas.BackgroundColor != "#ffffff" {
		t.Errorf("BackgroundColor mismatch: got %q", doc.Canvas.BackgroundColor)
	}
	if len(doc.Elements) != 1 {
		t.Fatalf("Expected 1 element, got %d", len(doc.Elements))
	}

	rec := doc.Elements[0]
	if rec.Type != TypeRect {
		t.Errorf("Element type mismatch: got %q, want %q", rec.Type, TypeRect)
	}
	if rec.X != 10 || rec.Y != 10 || rec.Width != 50 || rec.Height != 50 {
		t.Errorf("Element geometry mismatch: got (%g,%g,%g,%g)", rec.X, rec.Y, rec.Width, rec.Height)
	}
	if rec.Fill != "#ff0000" || rec.StrokeColor != "#000000" || rec.StrokeWidth != 2 {
		t.Errorf("Element styling mismatch: %+v", rec)
	}
}

func TestParseDocument_NoCanvas(t *testing.T) {
	_, err := ParseDocument([]byte(`{"elements": []}`))
	if !errors.Is(err, ErrNoCanvas) {
		t.Errorf("Expected ErrNoCanvas, got %v", err)
	}
}

func TestParseDocument_Malformed(t *testing.T) {
	_, err := ParseDocument([]byte(`{not json`))
	if err == nil {
		t.Error("ParseDocument() should fail on malformed JSON")
	}
}

func TestValidate_InvalidDimensions(t *testing.T) {
	testCases := []struct {
		name          string
		width, height float64
	}{
		{"zero width", 0, 100},
		{"zero height", 100, 0},
		{"negative width", -1, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := &LayoutDocument{Canvas: &CanvasSpec{Width: tc.width, Height: tc.height}}
			if err := doc.Validate(); err == nil {
				t.Errorf("Validate() should reject %gx%g canvas", tc.width, tc.height)
			}
		})
	}
}

func TestMaxDuration_OmittedWithoutVideos(t *testing.T) {
	doc := &LayoutDocument{
		Canvas: &CanvasSpec{Width: 100, Height: 100, BackgroundColor: "#ffffff"},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if strings.Contains(string(data), "maxDuration") {
		t.Errorf("maxDuration must be absent when no video elements exist: %s", data)
	}

	doc.MaxDuration = 12.5
	data, err = json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if !strings.Contains(string(data), `"maxDuration":12.5`) {
		t.Errorf("maxDuration missing from document: %s", data)
	}
}

func TestCanvasSize(t *testing.T) {
	if w, h := KindPhoto.CanvasSize(); w != h {
		t.Errorf("photo canvas must be square, got %gx%g", w, h)
	}
	w, h := KindVideo.CanvasSize()
	if w*16 != h*9 {
		t.Errorf("video canvas must be 9:16, got %gx%g", w, h)
	}
}

func TestCircleBoundsDeriveFromRadius(t *testing.T) {
	c := NewCircle(100, 100, 20)
	b := c.Bounds()
	if b.W != 40 || b.H != 40 {
		t.Errorf("circle bounds mismatch: got %gx%g, want 40x40", b.W, b.H)
	}

	c.SetRadius(25)
	b = c.Bounds()
	if b.W != 50 || b.H != 50 {
		t.Errorf("circle bounds after SetRadius mismatch: got %gx%g, want 50x50", b.W, b.H)
	}
}
