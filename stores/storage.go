package stores

import (
	"os"

	"meme-studio/core"
	"meme-studio/stores/memory"
	"meme-studio/stores/sqlite"

	"github.com/sirupsen/logrus"
)

// GetStore selects the template metadata backend from the environment.
func GetStore() core.TemplateStore {
	storageType := os.Getenv("STORAGE_TYPE")
	var store core.TemplateStore

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	switch storageType {
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		if dataSourceName == "" {
			dataSourceName = "meme-studio.db" // Default filename
		}
		storageField["dataSourceName"] = dataSourceName
		store = sqlite.NewStore(dataSourceName)
	default:
		store = memory.NewStore()
		storageField["storageType"] = "in-memory"
	}
	logrus.WithFields(storageField).Info("Use template store")
	return store
}
