package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"meme-studio/canvas"
	"meme-studio/core"

	"github.com/sirupsen/logrus"
)

// ErrSaveInFlight rejects a save attempted while another one is running.
// Concurrent saves are rejected, not queued.
var ErrSaveInFlight = errors.New("a save is already in progress")

// Session owns all mutable state of one editing session: the surface, the
// pending-upload staging, the playback clock, and the save form. Nothing in
// here is shared across sessions.
type Session struct {
	kind     core.TemplateKind
	staging  *Staging
	playback *canvas.Playback
	loader   *Loader
	exporter *Exporter

	name string
	tags []string

	// mu serializes every surface access. The surface itself is not safe
	// for concurrent use and the playback ticker goroutine pushes the
	// preview clock into video elements, so both the tick path and every
	// mutation entry point go through this lock.
	mu      sync.Mutex
	surface *canvas.Surface

	saveMu sync.Mutex
}

// NewSession starts an editing session for a new template of the given kind.
func NewSession(kind core.TemplateKind, fetcher Fetcher, blob core.BlobStore, store core.TemplateStore) *Session {
	s := &Session{
		surface:  canvas.NewSurface(kind),
		kind:     kind,
		staging:  NewStaging(),
		loader:   NewLoader(fetcher),
		exporter: NewExporter(blob, store),
	}
	s.playback = canvas.NewPlayback(0, s.pushTime)
	return s
}

func (s *Session) Kind() core.TemplateKind { return s.kind }

func (s *Session) SetName(name string) { s.name = name }

func (s *Session) SetTags(tags []string) { s.tags = tags }

func (s *Session) Staging() *Staging { return s.staging }

func (s *Session) Playback() *canvas.Playback { return s.playback }

// Elements returns the ordered element sequence of the session's surface.
func (s *Session) Elements() []core.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Elements()
}

// Len returns the number of elements on the session's surface.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Len()
}

// AddText places a new text element with default styling.
func (s *Session) AddText(text string, x, y float64) *core.TextElement {
	el := core.NewText(text, x, y, 300)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.Add(el)
	return el
}

// AddRect places a new rectangle with default styling.
func (s *Session) AddRect(x, y, w, h float64) *core.RectElement {
	el := core.NewRect(x, y, w, h)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.Add(el)
	return el
}

// AddCircle places a new circle with default styling.
func (s *Session) AddCircle(x, y, radius float64) *core.CircleElement {
	el := core.NewCircle(x, y, radius)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.Add(el)
	return el
}

// AddImage decodes a locally picked image, stages the file for upload at
// save time, and places the element at its native size.
func (s *Session) AddImage(file StagedFile, x, y float64) (*core.ImageElement, error) {
	img, _, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %q: %w", file.Name, err)
	}
	ow, oh := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	s.mu.Lock()
	defer s.mu.Unlock()
	el := &core.ImageElement{
		ElementBase:    core.ElementBase{Id: core.NewElementID(), X: x, Y: y, W: ow, H: oh},
		OriginalWidth:  ow,
		OriginalHeight: oh,
		ScaleX:         1,
		ScaleY:         1,
		StagingID:      s.staging.Stage(file),
		Bitmap:         img,
	}
	s.surface.Add(el)
	return el, nil
}

// AddVideo gates the file size and clip duration, then stages the file and
// places the element. Both gates run before the staging entry exists.
func (s *Session) AddVideo(file StagedFile, x, y float64) (*core.VideoElement, error) {
	if int64(len(file.Data)) > MaxVideoBytes {
		return nil, ErrVideoTooLarge
	}
	duration, err := ProbeMP4Duration(file.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read duration of %q: %w", file.Name, err)
	}
	if err := ValidateVideo(int64(len(file.Data)), duration); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cw, _ := s.surface.Size()
	w := cw / 2
	h := w * 9 / 16
	el := &core.VideoElement{
		ElementBase:      core.ElementBase{Id: core.NewElementID(), X: x, Y: y, W: w, H: h},
		Duration:         duration,
		OriginalFileName: file.Name,
		OriginalWidth:    w,
		OriginalHeight:   h,
		ScaleX:           1,
		ScaleY:           1,
		StagingID:        s.staging.Stage(file),
	}
	s.surface.Add(el)
	s.playback.SetLoop(s.maxDuration())
	return el, nil
}

// Delete removes the element and releases its staging entry and any live
// decode resource.
func (s *Session) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.surface.Remove(id)
	if !ok {
		return false
	}
	switch v := el.(type) {
	case *core.ImageElement:
		if v.StagingID != "" {
			s.staging.Unstage(v.StagingID)
		}
	case *core.VideoElement:
		if v.StagingID != "" {
			s.staging.Unstage(v.StagingID)
		}
		if v.Decoder != nil {
			if err := v.Decoder.Close(); err != nil {
				logrus.WithError(err).WithField("element_id", id).Warn("Failed to release video decoder")
			}
		}
		s.playback.SetLoop(s.maxDuration())
	}
	return true
}

// Load replaces the session's canvas with the given document. The document's
// dimensions override the session defaults.
func (s *Session) Load(ctx context.Context, doc *core.LayoutDocument) (*LoadSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, err := s.loader.Load(ctx, doc, s.surface)
	if err != nil {
		return nil, err
	}
	s.playback.SetLoop(summary.MaxDuration)
	return summary, nil
}

// Save exports the canvas and persists it as a new template. A second save
// while one is in flight is rejected with ErrSaveInFlight. On success the
// transient form state is reset. The surface lock is held for the whole
// export, so the preview clock and mutations pause until the save resolves.
func (s *Session) Save(ctx context.Context) (*core.Template, error) {
	if !s.saveMu.TryLock() {
		return nil, ErrSaveInFlight
	}
	defer s.saveMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	template, err := s.exporter.Export(ctx, s.surface, s.staging, SaveRequest{
		Name: s.name,
		Kind: s.kind,
		Tags: s.tags,
	})
	if err != nil {
		return nil, err
	}
	s.name = ""
	s.tags = nil
	return template, nil
}

// Download rasterizes the canvas as PNG at an optional higher-resolution
// multiplier. The multiplier never affects persisted geometry.
func (s *Session) Download(scale float64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return canvas.RenderPNG(s.surface, scale)
}

// Close tears the session down, releasing the playback clock and any video
// decode resources.
func (s *Session) Close() {
	s.playback.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range s.surface.Elements() {
		if v, ok := el.(*core.VideoElement); ok && v.Decoder != nil {
			v.Decoder.Close()
		}
	}
}

// maxDuration returns the longest clip duration. Caller holds mu.
func (s *Session) maxDuration() float64 {
	var max float64
	for _, el := range s.surface.Elements() {
		if v, ok := el.(*core.VideoElement); ok && v.Duration > max {
			max = v.Duration
		}
	}
	return max
}

// pushTime fans the shared preview clock out to every video element. It runs
// on the playback ticker goroutine, so it takes the surface lock like any
// other entry point.
func (s *Session) pushTime(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range s.surface.Elements() {
		if v, ok := el.(*core.VideoElement); ok {
			if v.Duration > 0 && t > v.Duration {
				v.CurrentTime = v.Duration
			} else {
				v.CurrentTime = t
			}
		}
	}
}
