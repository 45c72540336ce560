package flash_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sagarc03/camfs"
	"github.com/sagarc03/camfs/flash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// setupTestStore creates a store with a unique table name for test isolation
func setupTestStore(t *testing.T) *flash.Store {
	t.Helper()

	ctx := context.Background()
	tables := camfs.Tables{Files: fmt.Sprintf("files_%s", getRandomString(t))}

	db, err := flash.Connect(ctx, ":memory:", tables)
	require.NoError(t, err, "failed to connect")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx), "failed to migrate")
	require.NoError(t, db.Validate(ctx), "failed to validate")

	return db.Store()
}

func listPaths(t *testing.T, store *flash.Store) []string {
	t.Helper()

	dir, err := store.OpenRoot(context.Background())
	require.NoError(t, err)
	defer func() { _ = dir.Close() }()

	var paths []string
	for {
		info, err := dir.Next()
		if errors.Is(err, io.EOF) {
			return paths
		}
		require.NoError(t, err)
		paths = append(paths, info.Path)
	}
}

func TestConnect_InvalidTableName(t *testing.T) {
	_, err := flash.Connect(context.Background(), ":memory:", camfs.Tables{Files: "Bad-Name"})

	assert.Error(t, err)
}

func TestValidate_MissingTable(t *testing.T) {
	ctx := context.Background()
	db, err := flash.Connect(ctx, ":memory:", camfs.Tables{Files: "never_migrated"})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = db.Validate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestDropTables(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "flash.db")
	tables := camfs.Tables{Files: "dropped_files"}

	raw, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	require.NoError(t, flash.Migrate(ctx, raw, tables))
	require.NoError(t, flash.ValidateSchema(ctx, raw, tables))

	require.NoError(t, flash.DropTables(ctx, raw, tables))
	err = flash.ValidateSchema(ctx, raw, tables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	// Dropping twice is harmless and the image can be migrated again.
	require.NoError(t, flash.DropTables(ctx, raw, tables))
	require.NoError(t, flash.Migrate(ctx, raw, tables))
	assert.NoError(t, flash.ValidateSchema(ctx, raw, tables))
}

func TestStore_WriteOpen(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	content := []byte("\xff\xd8\xff\xe0 jpeg")
	n, err := store.Write(ctx, "/capture.jpg", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	f, err := store.Open(ctx, "/capture.jpg")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, int64(len(content)), f.Size())

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, content, buf.Bytes())
}

func TestStore_Write_NormalisesPath(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Write(context.Background(), "capture.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	assert.Equal(t, []string{"/capture.jpg"}, listPaths(t, store))
}

func TestStore_Write_InvalidPath(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Write(context.Background(), "/a/../b.jpg", strings.NewReader("x"))

	assert.ErrorIs(t, err, camfs.ErrInvalidInput)
}

func TestStore_Write_EmptyFile(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Write(ctx, "/empty.jpg", bytes.NewReader(nil))
	require.NoError(t, err)

	f, err := store.Open(ctx, "/empty.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.Size())
}

func TestStore_Open_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Open(context.Background(), "/missing.jpg")

	assert.ErrorIs(t, err, camfs.ErrNotFound)
}

func TestStore_OpenRoot_InsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"/c.jpg", "/a.jpg", "/day1/b.jpg"} {
		_, err := store.Write(ctx, p, strings.NewReader(p))
		require.NoError(t, err)
	}

	// Overwriting keeps the original position.
	_, err := store.Write(ctx, "/c.jpg", strings.NewReader("replaced"))
	require.NoError(t, err)

	assert.Equal(t, []string{"/c.jpg", "/a.jpg", "/day1/b.jpg"}, listPaths(t, store))

	f, err := store.Open(ctx, "/c.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(len("replaced")), f.Size())
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Write(ctx, "/a.jpg", strings.NewReader("a"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "/a.jpg"))
	assert.Empty(t, listPaths(t, store))

	err = store.Delete(ctx, "/a.jpg")
	assert.ErrorIs(t, err, camfs.ErrNotFound)
}

func TestStore_PersistsAcrossConnections(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "flash.db")
	tables := camfs.Tables{Files: "flash_files"}

	db, err := flash.Connect(ctx, dsn, tables)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	_, err = db.Store().Write(ctx, "/kept.jpg", strings.NewReader("kept"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = flash.Connect(ctx, dsn, tables)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	require.NoError(t, db.Validate(ctx))

	assert.Equal(t, []string{"/kept.jpg"}, listPaths(t, db.Store()))
}
