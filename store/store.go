// Package store abstracts positioned I/O over a seekable backing file,
// the way the teacher's texture/tiff package reads strips and tiles
// through an io.ReaderAt rather than a Seek-then-Read wrapper. It adds
// a positioned writer side, and sync/async entry points, for the
// writer half of the codec.
package store

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/exp/mmap"
)

// ErrUnsupported is returned when a backend cannot serve an operation
// at all, such as WriteAt on the read-only MmapStore. No backend in
// this package is async-only: AsyncStore embeds a Store and serves
// sync calls through it directly.
var ErrUnsupported = errors.New("store: operation unsupported by this backend")

// ErrDisposed is returned by any operation issued after Close.
var ErrDisposed = errors.New("store: use of closed store")

// Store is the capability interface every backend implements:
// positioned read, positioned write, flush, and scoped disposal.
// Read-only backends (MmapStore) return ErrUnsupported from Write
// and a nil error (no-op) from Flush.
type Store interface {
	io.ReaderAt
	io.WriterAt
	Flush() error
	io.Closer
}

// MmapStore is a read-only positioned reader over a memory-mapped
// file, exactly the backend the teacher's texture/tiff.LoadTiledTiff
// and LoadStripedTiff use via golang.org/x/exp/mmap.Open.
type MmapStore struct {
	mu     sync.RWMutex
	reader *mmap.ReaderAt
	closed bool
}

// OpenMmap opens path for memory-mapped, read-only positioned access.
func OpenMmap(path string) (*MmapStore, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &MmapStore{reader: r}, nil
}

func (s *MmapStore) ReadAt(p []byte, off int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrDisposed
	}
	return s.reader.ReadAt(p, off)
}

func (s *MmapStore) WriteAt(p []byte, off int64) (int, error) {
	return 0, ErrUnsupported
}

func (s *MmapStore) Flush() error { return nil }

func (s *MmapStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.reader.Close()
}

// FileStore is a read-write positioned store backed by *os.File. The
// writer half of the codec needs WriteAt, which mmap.ReaderAt cannot
// offer, so this backend wraps the file directly instead.
type FileStore struct {
	mu     sync.RWMutex
	file   *os.File
	closed bool
}

// CreateFile creates (or truncates) path for read-write positioned access.
func CreateFile(path string) (*FileStore, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{file: f}, nil
}

// OpenFile opens an existing file for read-write positioned access.
func OpenFile(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &FileStore{file: f}, nil
}

func (s *FileStore) ReadAt(p []byte, off int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrDisposed
	}
	return s.file.ReadAt(p, off)
}

func (s *FileStore) WriteAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrDisposed
	}
	return s.file.WriteAt(p, off)
}

func (s *FileStore) Flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrDisposed
	}
	return s.file.Sync()
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
