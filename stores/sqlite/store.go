package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"meme-studio/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based template store.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	tableStmt := `
	CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		layout_definition BLOB,
		thumbnail_url TEXT,
		tags TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`
	if _, err = db.Exec(tableStmt); err != nil {
		log.Fatalf("failed to create templates table: %v", err)
	}

	return &sqliteStore{db}
}

func (s *sqliteStore) Insert(ctx context.Context, template *core.Template) (string, error) {
	id := ulid.Make().String()
	log := logrus.WithFields(logrus.Fields{
		"template_id": id,
		"name":        template.Name,
		"kind":        template.Kind,
	})

	layout, err := json.Marshal(template.Layout)
	if err != nil {
		log.WithError(err).Error("Failed to marshal layout document")
		return "", fmt.Errorf("failed to marshal layout document: %w", err)
	}
	tags, err := json.Marshal(template.Tags)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tags: %w", err)
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO templates (id, name, kind, layout_definition, thumbnail_url, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, template.Name, string(template.Kind), layout, template.ThumbnailURL, string(tags), now, now)
	if err != nil {
		log.WithError(err).Error("Failed to insert template")
		return "", err
	}
	template.CreatedAt = now
	template.UpdatedAt = now
	log.Info("Template inserted successfully")
	return id, nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*core.Template, error) {
	template := core.Template{ID: id}
	var layout, tags []byte
	var kind string
	err := s.db.QueryRowContext(ctx,
		"SELECT name, kind, layout_definition, thumbnail_url, tags, created_at, updated_at FROM templates WHERE id = ?", id).
		Scan(&template.Name, &kind, &layout, &template.ThumbnailURL, &tags, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrTemplateNotFound
		}
		return nil, err
	}
	template.Kind = core.TemplateKind(kind)
	if len(layout) > 0 {
		var doc core.LayoutDocument
		if err := json.Unmarshal(layout, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal layout document: %w", err)
		}
		template.Layout = &doc
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &template.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}
	return &template, nil
}

func (s *sqliteStore) ListByKind(ctx context.Context, kind core.TemplateKind) ([]*core.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, thumbnail_url, tags, created_at, updated_at FROM templates WHERE kind = ? ORDER BY created_at DESC", string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*core.Template
	for rows.Next() {
		template := core.Template{Kind: kind}
		var tags []byte
		if err := rows.Scan(&template.ID, &template.Name, &template.ThumbnailURL, &tags, &template.CreatedAt, &template.UpdatedAt); err != nil {
			return nil, err
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &template.Tags); err != nil {
				logrus.WithError(err).WithField("template_id", template.ID).Warn("Failed to unmarshal tags, skipping field")
			}
		}
		templates = append(templates, &template)
	}
	return templates, rows.Err()
}
