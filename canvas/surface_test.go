package canvas

import (
	"testing"

	"meme-studio/core"
)

func TestAdd_OrderIsZOrder(t *testing.T) {
	s := NewSurface(core.KindPhoto)
	e1 := core.NewRect(0, 0, 10, 10)
	e2 := core.NewCircle(0, 0, 5)
	e3 := core.NewText("hi", 0, 0, 100)

	s.Add(e1)
	s.Add(e2)
	s.Add(e3)

	elements := s.Elements()
	if len(elements) != 3 {
		t.Fatalf("Expected 3 elements, got %d", len(elements))
	}
	want := []string{e1.ID(), e2.ID(), e3.ID()}
	for i, el := range elements {
		if el.ID() != want[i] {
			t.Errorf("Element %d out of order: got %s, want %s", i, el.ID(), want[i])
		}
	}
}

func TestRemove(t *testing.T) {
	s := NewSurface(core.KindPhoto)
	e1 := core.NewRect(0, 0, 10, 10)
	e2 := core.NewRect(5, 5, 10, 10)
	s.Add(e1)
	s.Add(e2)

	removed, ok := s.Remove(e1.ID())
	if !ok {
		t.Fatal("Remove() failed for existing element")
	}
	if removed.ID() != e1.ID() {
		t.Errorf("Remove() returned wrong element: got %s, want %s", removed.ID(), e1.ID())
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 element after removal, got %d", s.Len())
	}

	if _, ok := s.Remove("nonexistent"); ok {
		t.Error("Remove() should fail for unknown id")
	}
}

func TestReorder(t *testing.T) {
	s := NewSurface(core.KindPhoto)
	e1 := core.NewRect(0, 0, 10, 10)
	e2 := core.NewRect(0, 0, 10, 10)
	e3 := core.NewRect(0, 0, 10, 10)
	s.Add(e1)
	s.Add(e2)
	s.Add(e3)

	if !s.BringForward(e1.ID()) {
		t.Fatal("BringForward() failed")
	}
	got := s.Elements()
	if got[0].ID() != e2.ID() || got[1].ID() != e1.ID() {
		t.Error("BringForward() did not swap elements")
	}

	// Topmost element cannot move further forward.
	if s.BringForward(e3.ID()) {
		t.Error("BringForward() should fail for topmost element")
	}
	// Bottom element cannot move further backward.
	if s.SendBackward(e2.ID()) {
		t.Error("SendBackward() should fail for bottom element")
	}

	if !s.SendBackward(e1.ID()) {
		t.Fatal("SendBackward() failed")
	}
	got = s.Elements()
	if got[0].ID() != e1.ID() {
		t.Error("SendBackward() did not restore order")
	}
}

func TestObserver_NotifiedSynchronously(t *testing.T) {
	s := NewSurface(core.KindPhoto)

	var notified [][]core.Element
	s.Subscribe(ObserverFunc(func(elements []core.Element) {
		notified = append(notified, elements)
	}))

	e := core.NewRect(0, 0, 10, 10)
	s.Add(e)
	if len(notified) != 1 {
		t.Fatalf("Expected 1 notification after Add, got %d", len(notified))
	}
	if len(notified[0]) != 1 || notified[0][0].ID() != e.ID() {
		t.Error("Observer snapshot does not match surface state")
	}

	s.Remove(e.ID())
	if len(notified) != 2 {
		t.Fatalf("Expected 2 notifications after Remove, got %d", len(notified))
	}
	if len(notified[1]) != 0 {
		t.Error("Observer snapshot should be empty after Remove")
	}
}

func TestReset(t *testing.T) {
	s := NewSurface(core.KindVideo)
	s.Add(core.NewRect(0, 0, 10, 10))
	s.SetBackgroundColor("#123456")

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Expected empty surface after Reset, got %d elements", s.Len())
	}
	if s.BackgroundColor() != "#ffffff" {
		t.Errorf("Expected default background after Reset, got %q", s.BackgroundColor())
	}
	// Dimensions survive a reset.
	if w, h := s.Size(); w != 1080 || h != 1920 {
		t.Errorf("Dimensions changed by Reset: got %gx%g", w, h)
	}
}
