package storage

import (
	"fmt"

	"rpd/internal/providers"
	"rpd/internal/structures"
)

// NewStorageProvider selects the KV backend from config.
func NewStorageProvider(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) (KeyValue, error) {
	switch conf.Persistence.Backend {
	case "memory":
		logger.Infof(providers.TypeApp, "Using in-memory storage backend")
		return NewMemoryKV(), nil
	case "file":
		logger.Infof(providers.TypeApp, "Using file storage backend at %s", conf.Persistence.Dir)
		return NewFileKV(conf.Persistence.Dir, compressor, logger)
	case "sqlite":
		logger.Infof(providers.TypeApp, "Using sqlite storage backend at %s", conf.Persistence.SQLitePath)
		return NewSQLiteKV(conf.Persistence.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown persistence backend: %s", conf.Persistence.Backend)
	}
}
