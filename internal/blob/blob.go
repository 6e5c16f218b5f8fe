// Package blob turns generated binary payloads (images, audio) into
// locally resolvable files. References must be released when replaced or
// when the session ends, otherwise the files pile up until reboot.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Kind selects the file extension for a stored payload.
type Kind string

const (
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

func (k Kind) ext() string {
	switch k {
	case KindImage:
		return ".png"
	case KindAudio:
		return ".flac"
	default:
		return ".bin"
	}
}

// Ref points at one stored payload.
type Ref struct {
	path string
	kind Kind
}

// Path is the absolute file path of the payload. Empty for the zero Ref.
func (r Ref) Path() string { return r.path }

// Kind reports what the payload is.
func (r Ref) Kind() Kind { return r.kind }

// IsZero reports whether the ref points at nothing.
func (r Ref) IsZero() bool { return r.path == "" }

// Store owns a per-session directory of payload files.
type Store struct {
	mu   sync.Mutex
	dir  string
	live map[string]struct{}
}

// NewStore creates a session-scoped store under the OS temp dir.
func NewStore() (*Store, error) {
	dir := filepath.Join(os.TempDir(), "hubchat-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Store{dir: dir, live: make(map[string]struct{})}, nil
}

// Put writes a payload and returns a reference to it.
func (s *Store) Put(kind Kind, data []byte) (Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, uuid.NewString()+kind.ext())
	if err := os.WriteFile(path, data, 0600); err != nil {
		return Ref{}, fmt.Errorf("write blob: %w", err)
	}
	s.live[path] = struct{}{}
	return Ref{path: path, kind: kind}, nil
}

// Release deletes the payload behind a reference. Releasing the zero Ref
// or an already released Ref is a no-op.
func (s *Store) Release(ref Ref) {
	if ref.IsZero() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live[ref.path]; !ok {
		return
	}
	delete(s.live, ref.path)
	os.Remove(ref.path)
}

// Count returns the number of live references.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Close releases everything and removes the session directory.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.live = make(map[string]struct{})
	return os.RemoveAll(s.dir)
}
