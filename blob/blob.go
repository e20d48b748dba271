// Package blob selects and constructs the binary object store backend.
package blob

import (
	"os"

	"meme-studio/blob/filesystem"
	"meme-studio/blob/memory"
	"meme-studio/blob/s3"
	"meme-studio/core"

	"github.com/sirupsen/logrus"
)

// GetStore selects the blob store backend from the environment.
func GetStore() core.BlobStore {
	blobType := os.Getenv("BLOB_STORE")
	var store core.BlobStore

	blobField := logrus.Fields{
		"blobStore": blobType,
	}

	switch blobType {
	case "s3":
		bucketName := os.Getenv("S3_BUCKET_NAME")
		if bucketName == "" {
			logrus.Fatal("S3_BUCKET_NAME environment variable must be set for s3 blob store")
		}
		blobField["bucketName"] = bucketName
		store = s3.NewStore(bucketName)
	case "filesystem":
		basePath := os.Getenv("LOCAL_BLOB_PATH")
		if basePath == "" {
			basePath = "./blobs" // Default path
		}
		baseURL := os.Getenv("PUBLIC_BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:3002/blobs"
		}
		blobField["basePath"] = basePath
		store = filesystem.NewStore(basePath, baseURL)
	default:
		store = memory.NewStore()
		blobField["blobStore"] = "in-memory"
	}
	logrus.WithFields(blobField).Info("Use blob store")
	return store
}
