package editor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"meme-studio/core"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StagedFile is a locally picked source file held until save.
type StagedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Staging bridges "user picked a local file" and "file has a durable URL".
// It is purely session-local and never appears in a persisted document.
type Staging struct {
	files map[string]StagedFile
}

func NewStaging() *Staging {
	return &Staging{files: make(map[string]StagedFile)}
}

// Stage records the file and returns a fresh staging id to attach to the
// newly created element.
func (st *Staging) Stage(f StagedFile) string {
	id := uuid.NewString()
	st.files[id] = f
	return id
}

// Unstage drops the entry; called when its element is deleted before save.
func (st *Staging) Unstage(id string) {
	delete(st.files, id)
}

func (st *Staging) Len() int { return len(st.files) }

// Has reports whether the staging id is still pending.
func (st *Staging) Has(id string) bool {
	_, ok := st.files[id]
	return ok
}

// ResolveAll uploads every staged file whose element is still present (as
// reported by keep) and returns stagingID → permanent URL. Uploads run
// sequentially and the first failure aborts the whole resolution; the caller
// substitutes the URLs into element records itself. The surface is never
// touched here.
func (st *Staging) ResolveAll(ctx context.Context, blob core.BlobStore, folder string, keep func(stagingID string) bool) (map[string]string, error) {
	ids := make([]string, 0, len(st.files))
	for id := range st.files {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	resolved := make(map[string]string, len(ids))
	for _, id := range ids {
		if keep != nil && !keep(id) {
			continue
		}
		f := st.files[id]
		key := blobName(folder, f.Name)
		if err := blob.Upload(ctx, key, f.Data, f.ContentType); err != nil {
			return nil, fmt.Errorf("failed to upload %q: %w", f.Name, err)
		}
		url := blob.PublicURL(key)
		resolved[id] = url
		logrus.WithFields(logrus.Fields{
			"staging_id": id,
			"file":       f.Name,
			"url":        url,
		}).Debug("Staged file resolved")
	}
	return resolved, nil
}

// Discard removes the given staging ids, typically after a successful save.
func (st *Staging) Discard(ids map[string]string) {
	for id := range ids {
		delete(st.files, id)
	}
}

// blobName builds a collision-resistant object key of the form
// {folder}/{prefix}-{epochMillis}-{token}{ext}.
func blobName(folder, original string) string {
	ext := path.Ext(original)
	prefix := strings.TrimSuffix(path.Base(original), ext)
	prefix = sanitizePrefix(prefix)
	if prefix == "" {
		prefix = "asset"
	}
	return fmt.Sprintf("%s/%s-%d-%s%s", folder, prefix, time.Now().UnixMilli(), randomToken(), strings.ToLower(ext))
}

func sanitizePrefix(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func randomToken() string {
	b := make([]byte, 6)
	rand.Read(b)
	return hex.EncodeToString(b)
}
