package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"homehub/internal/logging"
)

// Store persists a Log. Load never fails: missing or corrupt storage yields an
// empty Log. Save replaces the stored log wholesale and is not transactional.
type Store interface {
	Load(ctx context.Context) Log
	Save(ctx context.Context, log Log) error
}

// FileStore keeps the log as one indented JSON object.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, goerr.Wrap(err, "ensure history dir", goerr.V("path", path))
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.From(ctx).Warn("history unreadable, starting fresh", "path", s.path, "error", err)
		}
		return Log{}
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	var log Log
	if err := json.NewDecoder(f).Decode(&log); err != nil {
		// empty or malformed -> start fresh
		logging.From(ctx).Warn("history malformed, starting fresh", "path", s.path, "error", err)
		return Log{}
	}
	if log == nil {
		return Log{}
	}
	return log
}

func (s *FileStore) Save(ctx context.Context, log Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return goerr.Wrap(err, "open history for write", goerr.V("path", s.path))
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(log); err != nil {
		return goerr.Wrap(err, "encode history", goerr.V("path", s.path))
	}
	logging.From(ctx).Debug("history saved", "path", s.path, "kinds", len(log))
	return nil
}
