package camfs

import (
	"context"
	"io"
)

// FileInfo describes one entry yielded while enumerating a directory.
type FileInfo struct {
	// Path is root-relative and always starts with "/".
	Path  string
	Size  int64
	IsDir bool
}

// Dir enumerates the entries of an opened directory.
type Dir interface {
	// Next returns the next entry, or io.EOF once the directory is exhausted.
	// Entries come back in the order the backend yields them; callers must
	// not rely on any particular ordering across backends.
	Next() (FileInfo, error)
	Close() error
}

// File is an opened file handle. The caller is responsible for closing it.
type File interface {
	io.Reader
	// WriterTo copies the remaining contents into a sink.
	io.WriterTo
	Size() int64
	Close() error
}

// FileStore defines the read side of the hierarchical file store. Both route
// handlers only ever read through this interface.
//
// All methods accept a context for cancellation. Paths are root-relative and
// start with "/", for example "/capture_0001.jpg".
type FileStore interface {
	// OpenRoot opens the root directory for enumeration.
	OpenRoot(ctx context.Context) (Dir, error)

	// Open opens a file for reading.
	//
	// Returns ErrNotFound if the file does not exist. A backend may instead
	// return a valid handle reporting zero size; callers treat both as absent.
	Open(ctx context.Context, path string) (File, error)
}

// WritableStore is implemented by backends that can be seeded from the
// command line. It is never exposed over HTTP.
type WritableStore interface {
	FileStore

	// Write stores content at path, replacing any existing file, and returns
	// the number of bytes written.
	Write(ctx context.Context, path string, content io.Reader) (int64, error)

	// Delete removes the file at path. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, path string) error
}
