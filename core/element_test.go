package core

import "testing"

func TestImageBoundsFollowScale(t *testing.T) {
	el := &ImageElement{
		ElementBase:    ElementBase{Id: NewElementID(), X: 10, Y: 20, W: 80, H: 40},
		OriginalWidth:  80,
		OriginalHeight: 40,
		ScaleX:         1,
		ScaleY:         1,
	}

	if b := el.Bounds(); b.W != 80 || b.H != 40 {
		t.Fatalf("Unscaled bounds mismatch: %+v", b)
	}

	el.SetScale(2, 0.5)
	b := el.Bounds()
	if b.W != 160 || b.H != 20 {
		t.Errorf("Scaled bounds mismatch: got %gx%g, want 160x20", b.W, b.H)
	}
	if el.W != 160 || el.H != 20 {
		t.Errorf("SetScale must keep the stored box in step: got %gx%g", el.W, el.H)
	}
}

func TestVideoBoundsFollowScale(t *testing.T) {
	el := &VideoElement{
		ElementBase:    ElementBase{Id: NewElementID(), W: 320, H: 180},
		OriginalWidth:  320,
		OriginalHeight: 180,
		ScaleX:         1,
		ScaleY:         1,
	}

	el.SetScale(0.5, 0.5)
	if b := el.Bounds(); b.W != 160 || b.H != 90 {
		t.Errorf("Scaled bounds mismatch: got %gx%g, want 160x90", b.W, b.H)
	}
}

func TestVideoBoundsFallBackWithoutOriginals(t *testing.T) {
	// Older records carry no original dimensions; the stored box is used.
	el := &VideoElement{ElementBase: ElementBase{Id: NewElementID(), W: 200, H: 100}}
	if b := el.Bounds(); b.W != 200 || b.H != 100 {
		t.Errorf("Fallback bounds mismatch: %+v", b)
	}
}
