// Package canvas implements the retained-mode 2D scene backing an editing
// session: an ordered list of elements plus background properties, with
// rasterization and preview playback built on top.
package canvas

import (
	"image"

	"meme-studio/core"
)

// Observer is notified after the surface's element list changes. The
// snapshot is always rebuilt synchronously before the mutating call returns;
// notifications are never interleaved with another mutation.
type Observer interface {
	SurfaceChanged(elements []core.Element)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(elements []core.Element)

func (f ObserverFunc) SurfaceChanged(elements []core.Element) { f(elements) }

// Surface is the live scene of drawable elements. Insertion order is z-order:
// later elements draw on top. A surface is exclusively owned by one editing
// session and is not safe for concurrent use.
type Surface struct {
	width           float64
	height          float64
	backgroundColor string
	backgroundImage image.Image
	backgroundURL   string
	elements        []core.Element
	observers       []Observer
}

const defaultBackgroundColor = "#ffffff"

// NewSurface creates an empty surface sized for the template kind.
func NewSurface(kind core.TemplateKind) *Surface {
	w, h := kind.CanvasSize()
	return &Surface{
		width:           w,
		height:          h,
		backgroundColor: defaultBackgroundColor,
	}
}

func (s *Surface) Size() (width, height float64) { return s.width, s.height }

// Resize sets the canvas pixel dimensions. Only a document load changes
// dimensions mid-session.
func (s *Surface) Resize(width, height float64) {
	s.width = width
	s.height = height
}

func (s *Surface) BackgroundColor() string { return s.backgroundColor }

func (s *Surface) SetBackgroundColor(c string) {
	if c == "" {
		c = defaultBackgroundColor
	}
	s.backgroundColor = c
}

// SetBackgroundImage installs a decoded background bitmap and the permanent
// URL it was fetched from. The bitmap is stretched to fill the canvas when
// rendering.
func (s *Surface) SetBackgroundImage(img image.Image, url string) {
	s.backgroundImage = img
	s.backgroundURL = url
}

func (s *Surface) BackgroundImage() (image.Image, string) {
	return s.backgroundImage, s.backgroundURL
}

// Reset clears all elements and background state, keeping dimensions.
func (s *Surface) Reset() {
	s.elements = nil
	s.backgroundColor = defaultBackgroundColor
	s.backgroundImage = nil
	s.backgroundURL = ""
	s.notify()
}

// Add appends the element on top of the scene.
func (s *Surface) Add(el core.Element) {
	s.elements = append(s.elements, el)
	s.notify()
}

// Remove deletes the element and returns it so the caller can release any
// associated staging entry or decode resource.
func (s *Surface) Remove(id string) (core.Element, bool) {
	for i, el := range s.elements {
		if el.ID() == id {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			s.notify()
			return el, true
		}
	}
	return nil, false
}

// ByID returns the element with the given id, if present.
func (s *Surface) ByID(id string) (core.Element, bool) {
	for _, el := range s.elements {
		if el.ID() == id {
			return el, true
		}
	}
	return nil, false
}

// Elements returns the ordered element sequence. The slice is a copy; the
// elements themselves are shared.
func (s *Surface) Elements() []core.Element {
	out := make([]core.Element, len(s.elements))
	copy(out, s.elements)
	return out
}

func (s *Surface) Len() int { return len(s.elements) }

// BringForward swaps the element one step toward the top of the z-order.
func (s *Surface) BringForward(id string) bool {
	for i, el := range s.elements {
		if el.ID() == id {
			if i == len(s.elements)-1 {
				return false
			}
			s.elements[i], s.elements[i+1] = s.elements[i+1], s.elements[i]
			s.notify()
			return true
		}
	}
	return false
}

// SendBackward swaps the element one step toward the bottom of the z-order.
func (s *Surface) SendBackward(id string) bool {
	for i, el := range s.elements {
		if el.ID() == id {
			if i == 0 {
				return false
			}
			s.elements[i], s.elements[i-1] = s.elements[i-1], s.elements[i]
			s.notify()
			return true
		}
	}
	return false
}

// Subscribe registers an observer for element-list changes.
func (s *Surface) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *Surface) notify() {
	if len(s.observers) == 0 {
		return
	}
	snapshot := s.Elements()
	for _, o := range s.observers {
		o.SurfaceChanged(snapshot)
	}
}
