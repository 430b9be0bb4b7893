// internal/storage/factory.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/torres-mse/garage/internal/config"
	"github.com/torres-mse/garage/internal/database"
	"github.com/torres-mse/garage/internal/storage/gormstore"
	"github.com/torres-mse/garage/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		mgr := database.NewManager(log)
		if err := mgr.Connect(); err != nil {
			return nil, fmt.Errorf("connecting database: %w", err)
		}
		if err := mgr.Setup(); err != nil {
			return nil, fmt.Errorf("setting up database: %w", err)
		}
		store := gormstore.New(mgr.DB, gormstore.DefaultProfile, log)
		if mgr.ShouldSaveLocal {
			// Postgres was unreachable and Connect fell back to in-memory
			// SQLite; dump it to disk when the backend closes.
			if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
				return nil, fmt.Errorf("creating output directory: %w", err)
			}
			mgr.SqliteFilePath = filepath.Join(cfg.OutputDir, "garage_fallback.db")
			store.BeforeClose(mgr.DumpMemoryToDisk)
		}
		return store, nil
	case "sqlite":
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		mgr := database.NewManager(log)
		path := filepath.Join(cfg.OutputDir, "garage.db")
		db, err := mgr.GetSqliteDB(path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		mgr.DB = db
		mgr.IsValid = true
		mgr.ShouldSaveLocal = true
		if err := mgr.Setup(); err != nil {
			return nil, fmt.Errorf("setting up database: %w", err)
		}
		return gormstore.New(db, gormstore.DefaultProfile, log), nil
	case "memory":
		return memory.New(cfg.OutputDir, false), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
