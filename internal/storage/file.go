package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// FileJournal stores one JSON object per line.
type FileJournal struct {
	path string
	mu   sync.Mutex
}

func NewFileJournal(path string) (*FileJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to ensure journal dir", goerr.V("path", path))
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init journal", goerr.V("path", path))
	}
	_ = f.Close()
	return &FileJournal{path: path}, nil
}

func (j *FileJournal) Path() string { return j.path }

func (j *FileJournal) Append(run Run) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return goerr.Wrap(err, "open journal for append")
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	if err := json.NewEncoder(f).Encode(run); err != nil {
		return goerr.Wrap(err, "encode run")
	}
	return nil
}

// Load returns every readable line; malformed lines are skipped.
func (j *FileJournal) Load() ([]Run, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	f, err := os.Open(j.path)
	if err != nil {
		return nil, goerr.Wrap(err, "open journal for read")
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var runs []Run
	for s.Scan() {
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		var r Run
		if err := json.Unmarshal(line, &r); err != nil {
			continue
		}
		runs = append(runs, r)
	}
	if err := s.Err(); err != nil {
		return nil, goerr.Wrap(err, "scan journal")
	}
	return runs, nil
}

// Last returns at most n of the newest runs, oldest first.
func Last(runs []Run, n int) []Run {
	if n <= 0 || len(runs) <= n {
		return runs
	}
	return runs[len(runs)-n:]
}
