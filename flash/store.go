package flash

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/camfs"
)

// Store implements camfs.WritableStore on top of a flash image.
type Store struct {
	db        *sql.DB
	tableName string
}

type dir struct {
	rows *sql.Rows
}

func (d *dir) Next() (camfs.FileInfo, error) {
	if !d.rows.Next() {
		if err := d.rows.Err(); err != nil {
			return camfs.FileInfo{}, fmt.Errorf("next entry: %w", err)
		}
		return camfs.FileInfo{}, io.EOF
	}

	var info camfs.FileInfo
	if err := d.rows.Scan(&info.Path, &info.Size); err != nil {
		return camfs.FileInfo{}, fmt.Errorf("next entry: scan: %w", err)
	}
	return info, nil
}

func (d *dir) Close() error {
	return d.rows.Close()
}

// OpenRoot enumerates every file in the image in first-write order.
func (s *Store) OpenRoot(ctx context.Context) (camfs.Dir, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT path, file_size_bytes FROM %s ORDER BY rowid`, quoteIdentifier(s.tableName))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("open root: %w", err)
	}

	return &dir{rows: rows}, nil
}

type file struct {
	*bytes.Reader
	size int64
}

func (f *file) Size() int64  { return f.size }
func (f *file) Close() error { return nil }

// Open loads a file from the image. Returns camfs.ErrNotFound if no file is
// stored under path.
func (s *Store) Open(ctx context.Context, path string) (camfs.File, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT data, file_size_bytes FROM %s WHERE path = ?`, quoteIdentifier(s.tableName))

	var data []byte
	var size int64
	err := s.db.QueryRowContext(ctx, query, path).Scan(&data, &size)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, camfs.ErrNotFound
		}
		return nil, fmt.Errorf("open: %w", err)
	}

	return &file{Reader: bytes.NewReader(data), size: size}, nil
}

// Write stores content under path, replacing any previous content while
// keeping the file's position in the enumeration order.
func (s *Store) Write(ctx context.Context, path string, content io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	storePath, err := camfs.StorePath(path)
	if err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return 0, fmt.Errorf("write: read content: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, path, data, file_size_bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			data = excluded.data,
			file_size_bytes = excluded.file_size_bytes,
			updated_at = excluded.updated_at`, quoteIdentifier(s.tableName))

	_, err = s.db.ExecContext(ctx, query,
		uuid.New().String(), storePath, data, int64(len(data)), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}

	return int64(len(data)), nil
}

// Delete removes a file. Returns camfs.ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, path string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE path = ?`, quoteIdentifier(s.tableName)) //nolint:gosec // table name is validated

	result, err := s.db.ExecContext(ctx, query, path)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", camfs.ErrNotFound)
	}

	return nil
}
