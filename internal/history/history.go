package history

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultWindowDays = 14
	DefaultLimit      = 5
	hintPreviewRunes  = 80
)

// Entry is one generated item. Date is kept as written so that entries with
// an unparseable date survive a load/save cycle untouched.
type Entry struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Log maps a content kind ("fact", "word", ...) to its entries in append order.
type Log map[string][]Entry

// Clone returns a deep copy of the log.
func (l Log) Clone() Log {
	out := make(Log, len(l))
	for k, es := range l {
		out[k] = append([]Entry(nil), es...)
	}
	return out
}

// dateLayouts covers RFC3339 written by this package and the naive ISO
// timestamps of older history files.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an entry date. Naive timestamps are read in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Tracker reads and extends a Log relative to a clock.
type Tracker struct {
	Limit int
	Now   func() time.Time
}

func NewTracker(limit int) *Tracker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Tracker{Limit: limit, Now: time.Now}
}

func (t *Tracker) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

// RecentExamples returns up to Limit contents for kind recorded less than
// windowDays ago, most recent last. Entries with malformed dates are skipped.
func (t *Tracker) RecentExamples(log Log, kind string, windowDays int) []string {
	now := t.now()
	window := time.Duration(windowDays) * 24 * time.Hour
	var recent []string
	for _, e := range log[kind] {
		at, err := ParseDate(e.Date, now.Location())
		if err != nil {
			continue
		}
		if now.Sub(at) < window {
			recent = append(recent, e.Content)
		}
	}
	limit := t.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	return recent
}

// Append records content for kind with the current time. Duplicates are kept.
func (t *Tracker) Append(log Log, kind, content string) {
	log[kind] = append(log[kind], Entry{
		Date:    t.now().Format(time.RFC3339Nano),
		Content: content,
	})
}

// Compact drops entries older than windowDays and entries whose date cannot be
// parsed. It returns the number of entries removed.
func (t *Tracker) Compact(log Log, windowDays int) int {
	now := t.now()
	window := time.Duration(windowDays) * 24 * time.Hour
	removed := 0
	for kind, es := range log {
		kept := es[:0]
		for _, e := range es {
			at, err := ParseDate(e.Date, now.Location())
			if err != nil || now.Sub(at) >= window {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(log, kind)
			continue
		}
		log[kind] = kept
	}
	return removed
}

// AvoidHint renders the advisory suffix appended to generation prompts.
func AvoidHint(examples []string) string {
	if len(examples) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nDo NOT repeat these recent examples:")
	for _, ex := range examples {
		b.WriteString("\n- ")
		b.WriteString(preview(ex, hintPreviewRunes))
		b.WriteString("...")
	}
	return b.String()
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
