package editor

import (
	"context"
	"errors"
	"fmt"

	"meme-studio/canvas"
	"meme-studio/core"

	"github.com/sirupsen/logrus"
)

// Blob folders used by the export pipeline.
const (
	AssetFolder     = "assets"
	ThumbnailFolder = "thumbnails"
)

// ErrMissingName rejects a save before any I/O happens.
var ErrMissingName = errors.New("template name is required")

// SaveRequest carries the user-entered metadata for one save.
type SaveRequest struct {
	Name string
	Kind core.TemplateKind
	Tags []string
}

// ThumbnailKey builds a collision-resistant blob key for a save-time
// thumbnail.
func ThumbnailKey(name string) string {
	return blobName(ThumbnailFolder, name+".png")
}

// Exporter turns a live surface plus pending uploads into uploaded assets,
// a layout document, and a persisted template row.
type Exporter struct {
	blob  core.BlobStore
	store core.TemplateStore
}

func NewExporter(blob core.BlobStore, store core.TemplateStore) *Exporter {
	return &Exporter{blob: blob, store: store}
}

// Export runs the save pipeline strictly sequentially: staged uploads, then
// the thumbnail, then document assembly, then the metadata insert. The first
// failure aborts the save with no document persisted; assets already
// uploaded by the failed attempt are not rolled back and may be orphaned.
// On success the resolved staging entries are discarded.
func (e *Exporter) Export(ctx context.Context, s *canvas.Surface, st *Staging, req SaveRequest) (*core.Template, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("unknown template type %q", req.Kind)
	}

	urls, err := st.ResolveAll(ctx, e.blob, AssetFolder, func(stagingID string) bool {
		return elementWithStaging(s, stagingID) != nil
	})
	if err != nil {
		return nil, err
	}

	thumb, err := canvas.RenderPNG(s, canvas.ThumbnailScale)
	if err != nil {
		return nil, fmt.Errorf("failed to render thumbnail: %w", err)
	}
	thumbKey := ThumbnailKey(req.Name)
	if err := e.blob.Upload(ctx, thumbKey, thumb, "image/png"); err != nil {
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}
	thumbURL := e.blob.PublicURL(thumbKey)

	doc, err := BuildDocument(s, urls)
	if err != nil {
		return nil, err
	}

	template := &core.Template{
		Name:         req.Name,
		Kind:         req.Kind,
		Layout:       doc,
		ThumbnailURL: thumbURL,
		Tags:         req.Tags,
	}
	id, err := e.store.Insert(ctx, template)
	if err != nil {
		return nil, fmt.Errorf("failed to persist template %q: %w", req.Name, err)
	}
	template.ID = id

	st.Discard(urls)
	logrus.WithFields(logrus.Fields{
		"template_id": id,
		"name":        req.Name,
		"elements":    len(doc.Elements),
	}).Info("Template saved")
	return template, nil
}

// BuildDocument walks the surface in z-order and assembles the layout
// document, substituting permanent URLs for staged media. Geometry always
// comes from the rendered bounding box and stays in editing-canvas pixels.
func BuildDocument(s *canvas.Surface, urls map[string]string) (*core.LayoutDocument, error) {
	width, height := s.Size()
	_, bgURL := s.BackgroundImage()
	spec := &core.CanvasSpec{
		Width:           width,
		Height:          height,
		BackgroundColor: s.BackgroundColor(),
	}
	if bgURL != "" {
		spec.BackgroundImage = &bgURL
	}

	doc := &core.LayoutDocument{
		Canvas:   spec,
		Elements: make([]core.ElementRecord, 0, s.Len()),
	}
	for _, el := range s.Elements() {
		rec, err := exportElement(el, urls)
		if err != nil {
			return nil, err
		}
		doc.Elements = append(doc.Elements, rec)
		if rec.Type == core.TypeVideo && rec.Duration > doc.MaxDuration {
			doc.MaxDuration = rec.Duration
		}
	}
	return doc, nil
}

// exportElement serializes one element. A pending local reference with no
// resolved URL is an export error; documents never carry local references.
func exportElement(el core.Element, urls map[string]string) (core.ElementRecord, error) {
	b := el.Bounds()
	rec := core.ElementRecord{
		ID:     el.ID(),
		Type:   el.Type(),
		X:      b.X,
		Y:      b.Y,
		Width:  b.W,
		Height: b.H,
	}

	switch v := el.(type) {
	case *core.TextElement:
		rec.Text = v.Text
		rec.FontSize = v.FontSize
		rec.FontFamily = v.FontFamily
		rec.Color = v.Color

	case *core.RectElement:
		rec.Fill = v.Fill
		rec.StrokeColor = v.StrokeColor
		rec.StrokeWidth = v.StrokeWidth

	case *core.CircleElement:
		rec.Fill = v.Fill
		rec.StrokeColor = v.StrokeColor
		rec.StrokeWidth = v.StrokeWidth
		rec.Radius = v.Radius

	case *core.ImageElement:
		url := v.URL
		if url == "" {
			url = urls[v.StagingID]
		}
		if url == "" {
			return rec, fmt.Errorf("image element %s has no resolved URL", v.ID())
		}
		rec.ImageURL = url
		rec.OriginalWidth = v.OriginalWidth
		rec.OriginalHeight = v.OriginalHeight

	case *core.VideoElement:
		url := v.URL
		if url == "" {
			url = urls[v.StagingID]
		}
		if url == "" {
			return rec, fmt.Errorf("video element %s has no resolved URL", v.ID())
		}
		rec.VideoURL = url
		rec.Duration = v.Duration
		rec.OriginalFileName = v.OriginalFileName
		rec.OriginalWidth = v.OriginalWidth
		rec.OriginalHeight = v.OriginalHeight

	default:
		return rec, fmt.Errorf("cannot export unknown element type %q", el.Type())
	}
	return rec, nil
}

func elementWithStaging(s *canvas.Surface, stagingID string) core.Element {
	for _, el := range s.Elements() {
		switch v := el.(type) {
		case *core.ImageElement:
			if v.StagingID == stagingID {
				return el
			}
		case *core.VideoElement:
			if v.StagingID == stagingID {
				return el
			}
		}
	}
	return nil
}
