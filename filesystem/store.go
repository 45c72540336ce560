// Package filesystem provides a directory-backed file store for camfs. It is
// used for removable cards mounted on the host, with atomic writes through
// temp files for seeding.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sagarc03/camfs"
)

// Store provides file system storage operations.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// OpenCard opens the card mounted at mountPath. It returns camfs.ErrNoCard
// when nothing is mounted there.
func OpenCard(mountPath string) (*Store, error) {
	info, err := os.Stat(mountPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open card %s: %w", mountPath, camfs.ErrNoCard)
		}
		return nil, fmt.Errorf("open card %s: %w", mountPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open card %s: not a directory: %w", mountPath, camfs.ErrNoCard)
	}

	root, err := os.OpenRoot(mountPath)
	if err != nil {
		return nil, fmt.Errorf("open card %s: %w", mountPath, err)
	}

	return NewFileStorage(root), nil
}

// Close releases the underlying root.
func (s *Store) Close() error {
	return s.root.Close()
}

// relPath turns "/a/b.jpg" into "a/b.jpg" and rejects anything that could
// escape or confuse the root.
func relPath(p string) (string, error) {
	rel := strings.TrimPrefix(p, "/")
	if !camfs.IsValidPath(rel) {
		return "", fmt.Errorf("%q: %w", p, camfs.ErrInvalidInput)
	}
	return rel, nil
}

// readPath is the lenient form of relPath used by Open. Any name the card
// can hold is accepted as long as it stays inside the root, so every entry
// OpenRoot lists can be opened again.
func readPath(p string) (string, error) {
	rel := strings.TrimPrefix(p, "/")
	if rel == "" || rel == "." || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%q: %w", p, camfs.ErrInvalidInput)
	}
	return rel, nil
}

type dir struct {
	f *os.File
}

// Next reads one entry at a time so entries come back in on-disk order.
func (d *dir) Next() (camfs.FileInfo, error) {
	for {
		entries, err := d.f.ReadDir(1)
		if err != nil {
			return camfs.FileInfo{}, err
		}
		if len(entries) == 0 {
			return camfs.FileInfo{}, io.EOF
		}

		entry := entries[0]
		if isTmpName(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return camfs.FileInfo{}, fmt.Errorf("next entry: %w", err)
		}

		return camfs.FileInfo{
			Path:  "/" + entry.Name(),
			Size:  info.Size(),
			IsDir: entry.IsDir(),
		}, nil
	}
}

func (d *dir) Close() error {
	return d.f.Close()
}

// OpenRoot opens the root directory for enumeration.
func (s *Store) OpenRoot(ctx context.Context) (camfs.Dir, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(".")
	if err != nil {
		return nil, fmt.Errorf("open root: %w", err)
	}

	return &dir{f: f}, nil
}

type file struct {
	*os.File
	size int64
}

func (f *file) Size() int64 { return f.size }

func (f *file) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, f.File)
}

// Open opens a file for reading. Returns camfs.ErrNotFound if the file does
// not exist or is a directory.
func (s *Store) Open(ctx context.Context, p string) (camfs.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := readPath(p)
	if err != nil {
		return nil, camfs.ErrNotFound
	}

	f, err := s.root.Open(rel)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, camfs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if info.IsDir() {
		_ = f.Close()
		return nil, camfs.ErrNotFound
	}

	return &file{File: f, size: info.Size()}, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write atomically writes content to the given path using a temp file and rename.
// It creates intermediate directories as needed and returns the number of bytes
// written. The operation respects context cancellation.
func (s *Store) Write(ctx context.Context, p string, content io.Reader) (int64, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}

	rel, err := relPath(p)
	if err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return 0, fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	written, err := io.Copy(t, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return 0, fmt.Errorf("could not copy file contents: %w", err)
	}

	if err = t.Sync(); err != nil {
		return 0, fmt.Errorf("could not sync written file: %w", err)
	}

	destDir := path.Dir(rel)
	if destDir != "." {
		if err := s.root.MkdirAll(filepath.FromSlash(destDir), 0o755); err != nil {
			return 0, fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	if renameErr := s.root.Rename(tmpFile, filepath.FromSlash(rel)); renameErr != nil {
		return 0, fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true

	return written, nil
}

// Delete removes a file. Returns camfs.ErrNotFound if the file does not exist.
func (s *Store) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, err := relPath(p)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if err := s.root.Remove(filepath.FromSlash(rel)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return camfs.ErrNotFound
		}
		return fmt.Errorf("could not delete file: %w", err)
	}
	return nil
}

const tmpPrefix = ".t"

func isTmpName(name string) bool {
	return strings.HasPrefix(name, tmpPrefix) && uuid.Validate(strings.TrimPrefix(name, tmpPrefix)) == nil
}

func tmpFileName() string {
	return tmpPrefix + uuid.New().String()
}
