package templates

import (
	"encoding/json"
	"errors"
	"net/http"

	"meme-studio/canvas"
	"meme-studio/core"
	"meme-studio/editor"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type (
	CreateTemplateRequest struct {
		Name   string            `json:"name"`
		Type   core.TemplateKind `json:"type"`
		Layout json.RawMessage   `json:"layout_definition"`
		Tags   []string          `json:"tags"`
	}

	CreateTemplateResponse struct {
		ID           string `json:"id"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
)

// HandleCreateTemplate persists a new template from an exported layout
// document. The document is structurally validated and loaded server-side so
// the stored thumbnail reflects what the document actually reconstructs to;
// element-level media failures degrade the thumbnail but never the save.
func HandleCreateTemplate(store core.TemplateStore, blob core.BlobStore, fetcher editor.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTemplateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}
		if req.Name == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Template name is required"})
			return
		}
		if !req.Type.Valid() {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Template type must be photo or video"})
			return
		}

		doc, err := core.ParseDocument(req.Layout)
		if err != nil {
			logrus.WithError(err).WithField("name", req.Name).Warn("Rejected malformed layout document")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Layout document is malformed: " + err.Error()})
			return
		}

		surface := canvas.NewSurface(req.Type)
		loader := editor.NewLoader(fetcher)
		if _, err := loader.Load(r.Context(), doc, surface); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Layout document could not be loaded"})
			return
		}

		thumb, err := canvas.RenderPNG(surface, canvas.ThumbnailScale)
		if err != nil {
			logrus.WithError(err).Error("Failed to render thumbnail")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to render thumbnail"})
			return
		}
		thumbKey := editor.ThumbnailKey(req.Name)
		if err := blob.Upload(r.Context(), thumbKey, thumb, "image/png"); err != nil {
			logrus.WithError(err).Error("Failed to upload thumbnail")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to upload thumbnail"})
			return
		}

		template := &core.Template{
			Name:         req.Name,
			Kind:         req.Type,
			Layout:       doc,
			ThumbnailURL: blob.PublicURL(thumbKey),
			Tags:         req.Tags,
		}
		id, err := store.Insert(r.Context(), template)
		if err != nil {
			logrus.WithError(err).WithField("name", req.Name).Error("Failed to insert template")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to save template"})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, CreateTemplateResponse{ID: id, ThumbnailURL: template.ThumbnailURL})
	}
}

// HandleListTemplates lists template metadata for one type.
func HandleListTemplates(store core.TemplateStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := core.TemplateKind(r.URL.Query().Get("type"))
		if !kind.Valid() {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Query parameter type must be photo or video"})
			return
		}

		templates, err := store.ListByKind(r.Context(), kind)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error": err,
				"kind":  kind,
			}).Error("Failed to list templates")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to list templates"})
			return
		}

		if templates == nil {
			templates = []*core.Template{}
		}
		render.JSON(w, r, templates)
	}
}

// HandleGetTemplate returns one template with its full layout document, the
// entry point for re-editing.
func HandleGetTemplate(store core.TemplateStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Template id is required"})
			return
		}

		template, err := store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, core.ErrTemplateNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, map[string]string{"error": "Template not found"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"error":       err,
				"template_id": id,
			}).Error("Failed to get template")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to get template"})
			return
		}

		render.JSON(w, r, template)
	}
}
