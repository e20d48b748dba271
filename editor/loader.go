// Package editor implements the editing session around a canvas surface:
// staging of local files, document loading, and the save/export pipeline.
package editor

import (
	"context"
	"fmt"

	"meme-studio/canvas"
	"meme-studio/core"

	"github.com/sirupsen/logrus"
)

// LoadState tracks a loader pass through its phases. Element-level failures
// never leave the LoadingElements phase; only a structurally unusable
// document is fatal.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadApplyingCanvasProps
	LoadLoadingElements
	LoadDone
	LoadFatal
)

// LoadSummary reports what a loader pass produced.
type LoadSummary struct {
	Loaded  int
	Skipped int
	// MaxDuration is the document's authoritative playback-loop length, or
	// the longest clip duration when the document does not carry one.
	MaxDuration float64
}

// Loader reconstructs a live canvas surface from a layout document.
type Loader struct {
	fetcher Fetcher
	state   LoadState
}

func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

func (l *Loader) State() LoadState { return l.state }

// Load rebuilds the surface from the document. Elements are reconstructed
// strictly in document order, one at a time, so the resulting z-order equals
// document order even though media decodes are asynchronous I/O. Elements
// that fail to reconstruct are skipped with a warning; the pass continues.
func (l *Loader) Load(ctx context.Context, doc *core.LayoutDocument, s *canvas.Surface) (*LoadSummary, error) {
	l.state = LoadApplyingCanvasProps
	if err := doc.Validate(); err != nil {
		l.state = LoadFatal
		return nil, err
	}

	s.Reset()
	s.Resize(doc.Canvas.Width, doc.Canvas.Height)
	s.SetBackgroundColor(doc.Canvas.BackgroundColor)

	if doc.Canvas.BackgroundImage != nil && *doc.Canvas.BackgroundImage != "" {
		url := *doc.Canvas.BackgroundImage
		img, err := l.fetcher.FetchImage(ctx, url)
		if err != nil {
			// Non-fatal: keep the flat background color.
			logrus.WithError(err).WithField("url", url).Warn("Failed to load background image")
		} else {
			s.SetBackgroundImage(img, url)
		}
	}

	l.state = LoadLoadingElements
	summary := &LoadSummary{}
	for i, rec := range doc.Elements {
		el, err := l.reconstruct(ctx, rec)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"index":      i,
				"element_id": rec.ID,
				"type":       rec.Type,
			}).Warn("Failed to reconstruct element, skipping")
			summary.Skipped++
			continue
		}
		if el == nil {
			logrus.WithFields(logrus.Fields{
				"index":      i,
				"element_id": rec.ID,
				"type":       rec.Type,
			}).Warn("Unknown element type, skipping")
			summary.Skipped++
			continue
		}
		s.Add(el)
		summary.Loaded++
		if v, ok := el.(*core.VideoElement); ok && v.Duration > summary.MaxDuration {
			summary.MaxDuration = v.Duration
		}
	}

	if doc.MaxDuration > 0 {
		summary.MaxDuration = doc.MaxDuration
	}

	l.state = LoadDone
	logrus.WithFields(logrus.Fields{
		"loaded":  summary.Loaded,
		"skipped": summary.Skipped,
	}).Info("Layout document loaded")
	return summary, nil
}

// reconstruct dispatches on the record's type tag. Unknown tags return
// (nil, nil) and the caller skips them, keeping loads forward-compatible.
func (l *Loader) reconstruct(ctx context.Context, rec core.ElementRecord) (core.Element, error) {
	base := core.ElementBase{Id: core.NewElementID(), X: rec.X, Y: rec.Y, W: rec.Width, H: rec.Height}

	switch rec.Type {
	case core.TypeText:
		el := &core.TextElement{
			ElementBase: base,
			Text:        rec.Text,
			FontSize:    rec.FontSize,
			FontFamily:  rec.FontFamily,
			Color:       rec.Color,
		}
		if el.Text == "" {
			el.Text = core.DefaultText
		}
		if el.FontSize <= 0 {
			el.FontSize = core.DefaultFontSize
		}
		if !core.ValidFontFamily(el.FontFamily) {
			el.FontFamily = core.FontFamilies[0]
		}
		if el.Color == "" {
			el.Color = core.DefaultTextColor
		}
		return el, nil

	case core.TypeRect:
		el := &core.RectElement{
			ElementBase: base,
			Fill:        rec.Fill,
			StrokeColor: rec.StrokeColor,
			StrokeWidth: rec.StrokeWidth,
		}
		applyShapeDefaults(&el.Fill, &el.StrokeColor, &el.StrokeWidth)
		return el, nil

	case core.TypeCircle:
		radius := rec.Radius
		if radius <= 0 {
			radius = rec.Width / 2
		}
		el := &core.CircleElement{
			ElementBase: base,
			Radius:      radius,
			Fill:        rec.Fill,
			StrokeColor: rec.StrokeColor,
			StrokeWidth: rec.StrokeWidth,
		}
		el.SetRadius(radius)
		applyShapeDefaults(&el.Fill, &el.StrokeColor, &el.StrokeWidth)
		return el, nil

	case core.TypeImage:
		img, err := l.fetcher.FetchImage(ctx, rec.ImageURL)
		if err != nil {
			return nil, err
		}
		ow, oh := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
		if ow <= 0 || oh <= 0 {
			return nil, fmt.Errorf("image at %s has empty bounds", rec.ImageURL)
		}
		// Scale factors make the rendered box match the record exactly,
		// independent of the source bitmap's native resolution.
		return &core.ImageElement{
			ElementBase:    base,
			URL:            rec.ImageURL,
			OriginalWidth:  ow,
			OriginalHeight: oh,
			ScaleX:         rec.Width / ow,
			ScaleY:         rec.Height / oh,
			Bitmap:         img,
		}, nil

	case core.TypeVideo:
		info, err := l.fetcher.FetchVideo(ctx, rec.VideoURL)
		if err != nil {
			return nil, err
		}
		duration := rec.Duration
		if duration <= 0 {
			duration = info.Duration
		}
		el := &core.VideoElement{
			ElementBase:      base,
			URL:              rec.VideoURL,
			Duration:         duration,
			OriginalFileName: rec.OriginalFileName,
			OriginalWidth:    rec.OriginalWidth,
			OriginalHeight:   rec.OriginalHeight,
			Poster:           info.Poster,
		}
		if el.OriginalWidth > 0 {
			el.ScaleX = rec.Width / el.OriginalWidth
		}
		if el.OriginalHeight > 0 {
			el.ScaleY = rec.Height / el.OriginalHeight
		}
		return el, nil

	default:
		return nil, nil
	}
}

func applyShapeDefaults(fill, stroke *string, strokeWidth *float64) {
	if *fill == "" {
		*fill = core.DefaultFill
	}
	if *stroke == "" {
		*stroke = core.DefaultStrokeColor
	}
	if *strokeWidth <= 0 {
		*strokeWidth = core.DefaultStrokeWidth
	}
}
