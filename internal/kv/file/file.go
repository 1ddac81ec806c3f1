// Package file stores key-value data in a single JSON file.
//
// The file holds one object per namespace:
//
//	{"lifelog": {"@myAppData": "{...}"}}
//
// Writes replace the file through a temporary file and a rename, so readers
// never observe a half written document. Watch reloads the cache when another
// process rewrites the file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"lifelog/internal/kv"
	"lifelog/internal/log"
)

type Store struct {
	mu        sync.RWMutex
	path      string
	namespace string
	data      map[string]map[string]string
	logger    *log.Logger

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
	doneCh  chan struct{}
}

var _ kv.Store = (*Store)(nil)

// Open loads path (creating its directory) and binds the store to namespace.
func Open(path, namespace string, logger *log.Logger) (*Store, error) {
	if namespace == "" {
		namespace = kv.DefaultNamespace
	}
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &Store{
		path:      path,
		namespace: namespace,
		logger:    logger.WithComponent(log.ComponentStorage),
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	s.data = data
	return s, nil
}

func readFile(path string) (map[string]map[string]string, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	data := map[string]map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode data file %s: %w", path, err)
	}
	return data, nil
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
	ns := s.data[s.namespace]
	if ns == nil {
		ns = map[string]string{}
		s.data[s.namespace] = ns
	}
	prev, had := ns[key]
	ns[key] = value
	if err := s.flushLocked(); err != nil {
		if had {
			ns[key] = prev
		} else {
			delete(ns, key)
		}
		return err
	}
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.data[s.namespace]
	prev, had := ns[key]
	if !had {
		return nil
	}
	delete(ns, key)
	if err := s.flushLocked(); err != nil {
		ns[key] = prev
		return err
	}
	return nil
}

func (s *Store) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".lifelog-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// Reload rereads the file from disk.
func (s *Store) Reload() error {
	data, err := readFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Watch reloads the store whenever the file changes on disk and then calls
// onChange (which may be nil). It returns once the watcher is installed; the
// watch ends when ctx is cancelled or Close is called.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Renames replace the inode, so the directory is watched rather than the file.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}
	s.watcher = w
	s.doneCh = make(chan struct{})
	go s.run(ctx, w, s.doneCh, onChange)
	return nil
}

func (s *Store) run(ctx context.Context, w *fsnotify.Watcher, done chan struct{}, onChange func()) {
	defer close(done)
	// Close may also close w; a second Close is a no-op.
	defer w.Close()
	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.WarnContext(ctx, "Failed to reload data file", log.FieldError, err, log.FieldPath, s.path)
				continue
			}
			s.logger.DebugContext(ctx, "Data file reloaded", log.FieldPath, s.path)
			if onChange != nil {
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.WarnContext(ctx, "File watcher error", log.FieldError, err)
		}
	}
}

// Close stops the watcher if one is running.
func (s *Store) Close() error {
	s.watchMu.Lock()
	w, done := s.watcher, s.doneCh
	s.watcher = nil
	s.watchMu.Unlock()
	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}
