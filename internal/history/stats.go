package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// KindStats summarizes the stored entries of one kind.
type KindStats struct {
	Kind      string    `json:"kind"`
	Total     int       `json:"total"`
	InWindow  int       `json:"in_window"`
	Malformed int       `json:"malformed"`
	LastDate  time.Time `json:"last_date,omitempty"`
}

// Stats covers the whole log at a point in time.
type Stats struct {
	At         time.Time   `json:"at"`
	WindowDays int         `json:"window_days"`
	Kinds      []KindStats `json:"kinds"`
}

// Summarize counts entries per kind, and how many are inside the window.
func Summarize(log Log, now time.Time, windowDays int) *Stats {
	window := time.Duration(windowDays) * 24 * time.Hour
	stats := &Stats{At: now, WindowDays: windowDays}
	for _, kind := range sortedKinds(log) {
		ks := KindStats{Kind: kind}
		for _, e := range log[kind] {
			ks.Total++
			at, err := ParseDate(e.Date, now.Location())
			if err != nil {
				ks.Malformed++
				continue
			}
			if now.Sub(at) < window {
				ks.InWindow++
			}
			if at.After(ks.LastDate) {
				ks.LastDate = at
			}
		}
		stats.Kinds = append(stats.Kinds, ks)
	}
	return stats
}

// Text renders a plain summary, one kind per line.
func (s *Stats) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "History at %s (window %d days):\n", s.At.Format("2006-01-02 15:04"), s.WindowDays)
	if len(s.Kinds) == 0 {
		b.WriteString("- no entries\n")
		return b.String()
	}
	for _, k := range s.Kinds {
		fmt.Fprintf(&b, "- %s: %d total, %d recent", k.Kind, k.Total, k.InWindow)
		if k.Malformed > 0 {
			fmt.Fprintf(&b, ", %d malformed", k.Malformed)
		}
		if !k.LastDate.IsZero() {
			fmt.Fprintf(&b, ", last %s", k.LastDate.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Stats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func sortedKinds(log Log) []string {
	kinds := make([]string, 0, len(log))
	for k := range log {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
