package filesystem

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

type fsStore struct {
	basePath string
	baseURL  string
}

// NewStore creates a filesystem-backed blob store serving files from
// basePath under baseURL.
func NewStore(basePath, baseURL string) *fsStore {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		log.Fatalf("failed to create blob directory: %v", err)
	}
	return &fsStore{basePath: basePath, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *fsStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	filePath := filepath.Join(s.basePath, filepath.FromSlash(path))
	log := logrus.WithFields(logrus.Fields{"path": path, "file_path": filePath})

	// Reject keys that would escape the base directory.
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return err
	}
	absFile, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(absFile, absBase+string(os.PathSeparator)) {
		return fmt.Errorf("invalid blob path: access denied")
	}

	if err := os.MkdirAll(filepath.Dir(absFile), 0755); err != nil {
		log.WithError(err).Error("Failed to create blob subdirectory")
		return err
	}
	if err := os.WriteFile(absFile, data, 0644); err != nil {
		log.WithError(err).Error("Failed to write blob")
		return err
	}
	log.Debug("Blob written")
	return nil
}

func (s *fsStore) PublicURL(path string) string {
	return s.baseURL + "/" + path
}
