package camfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// DefaultMaxNumFiles caps a listing pass unless configured otherwise.
const DefaultMaxNumFiles = 100

// Catalog reads image listings and files out of a FileStore.
type Catalog struct {
	store FileStore
}

// NewCatalog creates a Catalog over the given store.
func NewCatalog(store FileStore) *Catalog {
	return &Catalog{store: store}
}

// List enumerates the root of the store and returns the image entries, in
// store order, stopping once maxFiles entries have been collected. Entries
// past the cap are only left out of this pass.
//
// If enumeration fails part way, the entries gathered so far are returned
// together with the error. A non-positive maxFiles yields an empty listing.
func (c *Catalog) List(ctx context.Context, maxFiles int) ([]FileEntry, error) {
	entries := []FileEntry{}
	if err := ctx.Err(); err != nil {
		return entries, fmt.Errorf("list: %w", err)
	}
	if maxFiles <= 0 {
		return entries, nil
	}

	root, err := c.store.OpenRoot(ctx)
	if err != nil {
		return entries, fmt.Errorf("list: open root: %w", err)
	}
	defer func() {
		if closeErr := root.Close(); closeErr != nil {
			slog.Warn("failed to close root directory", "err", closeErr)
		}
	}()

	for len(entries) < maxFiles {
		if err := ctx.Err(); err != nil {
			return entries, fmt.Errorf("list: %w", err)
		}

		info, err := root.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entries, fmt.Errorf("list: next entry: %w", err)
		}

		if info.IsDir || !IsImageName(info.Path) {
			continue
		}

		entries = append(entries, FileEntry{Path: info.Path, Size: info.Size})
	}

	return entries, nil
}

// Open opens a file for viewing. A missing file and a file reporting zero
// size both yield ErrNotFound; in the latter case the handle is closed
// before returning.
func (c *Catalog) Open(ctx context.Context, path string) (File, error) {
	f, err := c.store.Open(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("open %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if f.Size() == 0 {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", path, "err", closeErr)
		}
		return nil, fmt.Errorf("open %s: %w", path, ErrNotFound)
	}

	return f, nil
}
