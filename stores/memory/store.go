package memory

import (
	"context"
	"sync"
	"time"

	"meme-studio/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// memStore implements TemplateStore with instance-local maps.
type memStore struct {
	mu        sync.RWMutex
	templates map[string]*core.Template
}

// NewStore creates a new in-memory template store.
func NewStore() *memStore {
	return &memStore{templates: make(map[string]*core.Template)}
}

func (s *memStore) Insert(ctx context.Context, template *core.Template) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ulid.Make().String()
	now := time.Now()
	stored := *template
	stored.ID = id
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.templates[id] = &stored

	logrus.WithFields(logrus.Fields{
		"template_id": id,
		"name":        template.Name,
		"kind":        template.Kind,
	}).Info("Template inserted successfully")
	return id, nil
}

func (s *memStore) Get(ctx context.Context, id string) (*core.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	template, ok := s.templates[id]
	if !ok {
		logrus.WithField("template_id", id).Warn("Template with specified ID not found")
		return nil, core.ErrTemplateNotFound
	}
	copied := *template
	return &copied, nil
}

func (s *memStore) ListByKind(ctx context.Context, kind core.TemplateKind) ([]*core.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	templates := make([]*core.Template, 0)
	for _, template := range s.templates {
		if template.Kind != kind {
			continue
		}
		// List views stay light: no layout document.
		listTemplate := *template
		listTemplate.Layout = nil
		templates = append(templates, &listTemplate)
	}

	logrus.WithField("kind", kind).Infof("Listed %d templates", len(templates))
	return templates, nil
}
