package storagemock

import (
	"bytes"
	"context"
	"io"
	"sync"

	"tuka-portal/internal/infrastructure/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps objects in memory. PutErr, when set, fails every Put after
// FailAfter successful writes.
type Store struct {
	mu        sync.Mutex
	objects   map[string][]byte
	PutErr    error
	FailAfter int
	puts      int
	Deleted   []string
}

func New() *Store { return &Store{objects: map[string][]byte{}} }

func (s *Store) Put(_ context.Context, rel string, r io.Reader, _ int64, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil && s.puts >= s.FailAfter {
		return s.PutErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[rel] = b
	s.puts++
	return nil
}

func (s *Store) Open(_ context.Context, rel string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[rel]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *Store) Exists(_ context.Context, rel string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[rel]
	return ok, nil
}

func (s *Store) Delete(_ context.Context, rel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, rel)
	s.Deleted = append(s.Deleted, rel)
	return nil
}

// Paths returns the stored keys.
func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	return out
}
