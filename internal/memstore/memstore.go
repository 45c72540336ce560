// Package memstore is an in-memory camfs.WritableStore used by tests.
package memstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/sagarc03/camfs"
)

type entry struct {
	path  string
	data  []byte
	isDir bool
}

// Store keeps files in insertion order.
type Store struct {
	mu      sync.Mutex
	entries []entry

	// OpenRootErr, when set, is returned by OpenRoot.
	OpenRootErr error
	// NextErrAfter, when positive, makes Next fail after that many entries.
	NextErrAfter int
	// Opened counts files handed out by Open; Closed counts their Close calls.
	Opened, Closed int
}

func New() *Store {
	return &Store{}
}

// Add stores a file, overwriting an existing one in place.
func (s *Store) Add(path string, data []byte) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].path == path {
			s.entries[i].data = data
			return s
		}
	}
	s.entries = append(s.entries, entry{path: path, data: data})
	return s
}

// AddDir records a directory entry at the root.
func (s *Store) AddDir(path string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry{path: path, isDir: true})
	return s
}

type dir struct {
	infos   []camfs.FileInfo
	pos     int
	failAt  int
	failErr error
}

var errInjected = io.ErrUnexpectedEOF

func (d *dir) Next() (camfs.FileInfo, error) {
	if d.failAt > 0 && d.pos == d.failAt {
		return camfs.FileInfo{}, d.failErr
	}
	if d.pos >= len(d.infos) {
		return camfs.FileInfo{}, io.EOF
	}
	info := d.infos[d.pos]
	d.pos++
	return info, nil
}

func (d *dir) Close() error { return nil }

func (s *Store) OpenRoot(ctx context.Context) (camfs.Dir, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.OpenRootErr != nil {
		return nil, s.OpenRootErr
	}

	infos := make([]camfs.FileInfo, 0, len(s.entries))
	for _, e := range s.entries {
		infos = append(infos, camfs.FileInfo{Path: e.path, Size: int64(len(e.data)), IsDir: e.isDir})
	}
	return &dir{infos: infos, failAt: s.NextErrAfter, failErr: errInjected}, nil
}

type file struct {
	*bytes.Reader
	size  int64
	store *Store
}

func (f *file) Size() int64 { return f.size }

func (f *file) Close() error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.Closed++
	return nil
}

func (s *Store) Open(ctx context.Context, path string) (camfs.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.path == path && !e.isDir {
			s.Opened++
			return &file{Reader: bytes.NewReader(e.data), size: int64(len(e.data)), store: s}, nil
		}
	}
	return nil, camfs.ErrNotFound
}

func (s *Store) Write(ctx context.Context, path string, content io.Reader) (int64, error) {
	storePath, err := camfs.StorePath(path)
	if err != nil {
		return 0, err
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return 0, err
	}
	s.Add(storePath, data)
	return int64(len(data)), nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.path == path {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return camfs.ErrNotFound
}
