package server_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sagarc03/camfs"
	"github.com/sagarc03/camfs/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_SDCard(t *testing.T) {
	dir := t.TempDir()

	store, err := server.OpenStore(context.Background(), server.StorageConfig{Type: server.StorageSDCard, Path: dir})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	roundTrip(t, store)
}

func TestOpenStore_SDCardMissing(t *testing.T) {
	_, err := server.OpenStore(context.Background(), server.StorageConfig{
		Type: server.StorageSDCard,
		Path: filepath.Join(t.TempDir(), "nocard"),
	})

	assert.ErrorIs(t, err, camfs.ErrNoCard)
}

func TestOpenStore_Flash(t *testing.T) {
	cfg := server.StorageConfig{
		Type: server.StorageFlash,
		Flash: server.FlashConfig{
			DSN:   filepath.Join(t.TempDir(), "flash.db"),
			Table: "flash_files",
		},
	}

	store, err := server.OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	roundTrip(t, store)
	require.NoError(t, store.Close())

	reopened, err := server.OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	f, err := reopened.Open(context.Background(), "/shot.jpg")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, int64(4), f.Size())
}

func TestOpenStore_FlashInvalid(t *testing.T) {
	tests := []struct {
		name  string
		flash server.FlashConfig
	}{
		{"empty dsn", server.FlashConfig{Table: "flash_files"}},
		{"bad table", server.FlashConfig{DSN: ":memory:", Table: "bad-name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := server.OpenStore(context.Background(), server.StorageConfig{Type: server.StorageFlash, Flash: tt.flash})
			assert.Error(t, err)
		})
	}
}

func TestOpenStore_UnknownType(t *testing.T) {
	_, err := server.OpenStore(context.Background(), server.StorageConfig{Type: "tape"})

	assert.ErrorContains(t, err, "unknown storage type")
}

func roundTrip(t *testing.T, store server.Storage) {
	t.Helper()
	ctx := context.Background()

	n, err := store.Write(ctx, "shot.jpg", bytes.NewReader([]byte("jpeg")))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	entries, err := camfs.NewCatalog(store).List(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []camfs.FileEntry{{Path: "/shot.jpg", Size: 4}}, entries)

	f, err := store.Open(ctx, "/shot.jpg")
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = io.Copy(&buf, f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "jpeg", buf.String())
}
