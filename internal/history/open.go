package history

import (
	"io"

	"github.com/m-mizutani/goerr/v2"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the store for backend ("json" or "sqlite") at path. The closer
// must be called when the store is no longer used.
func Open(backend, path string) (Store, io.Closer, error) {
	switch backend {
	case BackendSQLite:
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendJSON, "":
		s, err := NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	default:
		return nil, nil, goerr.New("unknown history backend", goerr.V("backend", backend))
	}
}
