package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/camfs/config"
	"github.com/sagarc03/camfs/server"
)

// openStorage opens the configured backend. The caller must close it.
func openStorage(ctx context.Context) (*config.Config, server.Storage, error) {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	store, err := server.OpenStore(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	slog.Debug("storage opened", "type", cfg.Storage.Type)
	return cfg, store, nil
}
