package download

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const DefaultTimeout = 30 * time.Second

// DefaultMaxBytes bounds a single download; generated images are a few MB at most.
const DefaultMaxBytes = 32 << 20

var (
	// ErrBadStatus is returned for any non-200 response.
	ErrBadStatus = goerr.New("unexpected download status")
	// ErrTooLarge is returned when the body exceeds the size limit.
	ErrTooLarge = goerr.New("download exceeds size limit")
)

type Downloader struct {
	Client *http.Client
	// MaxBytes defaults to DefaultMaxBytes when zero.
	MaxBytes int64
}

func New(timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Downloader{Client: &http.Client{Timeout: timeout}}
}

// Fetch downloads url and returns its body.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "build download request", goerr.V("url", url))
	}
	client := d.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "download failed", goerr.V("url", url))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, goerr.Wrap(ErrBadStatus, "download rejected", goerr.V("status", resp.StatusCode), goerr.V("url", url))
	}
	limit := d.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, goerr.Wrap(err, "read download body", goerr.V("url", url))
	}
	if int64(len(data)) > limit {
		return nil, goerr.Wrap(ErrTooLarge, "download rejected", goerr.V("limit", limit), goerr.V("url", url))
	}
	return data, nil
}
