package memory

import (
	"context"
	"sync"

	"lifelog/internal/kv"
)

// Store keeps values in process memory. Stores created from the same Shared
// instance see each other's data only within their own namespace.
type Store struct {
	mu        *sync.RWMutex
	data      map[string]map[string]string
	namespace string
}

var _ kv.Store = (*Store)(nil)

// New returns an empty store bound to namespace.
func New(namespace string) *Store {
	if namespace == "" {
		namespace = kv.DefaultNamespace
	}
	return &Store{
		mu:        &sync.RWMutex{},
		data:      map[string]map[string]string{namespace: {}},
		namespace: namespace,
	}
}

// WithNamespace returns a view of the same backing data under another
// namespace.
func (s *Store) WithNamespace(namespace string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[namespace]; !ok {
		s.data[namespace] = map[string]string{}
	}
	return &Store{mu: s.mu, data: s.data, namespace: namespace}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[s.namespace][key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[s.namespace][key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[s.namespace], key)
	return nil
}

// Keys lists the keys of the bound namespace.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data[s.namespace]))
	for k := range s.data[s.namespace] {
		keys = append(keys, k)
	}
	return keys
}
