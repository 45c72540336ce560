package server

import (
	"context"
	"fmt"
	"io"

	"github.com/sagarc03/camfs"
	"github.com/sagarc03/camfs/filesystem"
	"github.com/sagarc03/camfs/flash"
)

// Storage backends selectable through StorageConfig.Type.
const (
	StorageSDCard = "sdcard"
	StorageFlash  = "flash"
)

// StorageConfig selects and configures the file store.
type StorageConfig struct {
	Type  string      `mapstructure:"type" validate:"required,oneof=sdcard flash"`
	Path  string      `mapstructure:"path" validate:"required_if=Type sdcard"`
	Flash FlashConfig `mapstructure:"flash"`
}

type FlashConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// Storage is an open file store that must be closed after use.
type Storage interface {
	camfs.WritableStore
	io.Closer
}

type flashStorage struct {
	*flash.Store
	db *flash.Database
}

func (s *flashStorage) Close() error {
	return s.db.Close()
}

// OpenStore opens the backend named by cfg.Type. The sdcard backend fails
// with camfs.ErrNoCard when cfg.Path is not mounted. The flash backend
// creates its table on first use.
func OpenStore(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageSDCard:
		store, err := filesystem.OpenCard(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sdcard: %w", err)
		}
		return store, nil

	case StorageFlash:
		if cfg.Flash.DSN == "" {
			return nil, fmt.Errorf("open flash: empty dsn: %w", camfs.ErrInvalidInput)
		}
		db, err := flash.Connect(ctx, cfg.Flash.DSN, camfs.Tables{Files: cfg.Flash.Table})
		if err != nil {
			return nil, fmt.Errorf("open flash: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open flash: %w", err)
		}
		if err := db.Validate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open flash: %w", err)
		}
		return &flashStorage{Store: db.Store(), db: db}, nil

	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}
