// Package storage keeps an append-only journal of generation runs.
package storage

import "time"

// Run is one journal line. Runs are appended in chronological order.
type Run struct {
	Token        string    `json:"token"`
	At           time.Time `json:"at"`
	Kinds        []string  `json:"kinds"`
	Images       []string  `json:"images,omitempty"`
	Failures     []string  `json:"failures,omitempty"`
	WordFallback bool      `json:"word_fallback,omitempty"`
	Pruned       int       `json:"pruned,omitempty"`
}

// Journal persists runs. Implementations must be safe for concurrent use.
type Journal interface {
	Append(run Run) error
	Load() ([]Run, error)
}
