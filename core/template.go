package core

import (
	"context"
	"errors"
	"time"
)

// ErrTemplateNotFound is returned by stores when no template matches.
var ErrTemplateNotFound = errors.New("template not found")

type (
	// Template is the persisted metadata row for one saved layout. A save
	// always produces a new row; persisted documents are never patched in
	// place.
	Template struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		Kind         TemplateKind    `json:"type"`
		Layout       *LayoutDocument `json:"layout_definition,omitempty"` // omitted in list views
		ThumbnailURL string          `json:"thumbnail_url,omitempty"`
		Tags         []string        `json:"tags"`
		CreatedAt    time.Time       `json:"createdAt"`
		UpdatedAt    time.Time       `json:"updatedAt"`
	}

	// TemplateStore defines the persistence collaborator for template rows.
	TemplateStore interface {
		// Insert stores a new template and returns its generated ID.
		Insert(ctx context.Context, template *Template) (string, error)

		// Get returns a single template with its full layout document.
		Get(ctx context.Context, id string) (*Template, error)

		// ListByKind returns metadata for all templates of a kind. The
		// returned rows do not carry the Layout field to keep responses light.
		ListByKind(ctx context.Context, kind TemplateKind) ([]*Template, error)
	}

	// BlobStore is the opaque binary object collaborator. Upload places the
	// bytes under path; PublicURL returns the durable URL for that path.
	BlobStore interface {
		Upload(ctx context.Context, path string, data []byte, contentType string) error
		PublicURL(path string) string
	}
)
