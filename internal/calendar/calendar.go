// Package calendar lists upcoming Google Calendar events for the dashboard.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	DefaultDays       = 7
	DefaultCalendarID = "primary"
	noTitle           = "No Title"
)

// Event keeps the raw RFC3339 or all-day date strings as the API returns them.
type Event struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Summary string `json:"summary"`
	AllDay  bool   `json:"all_day"`
}

type Client struct {
	svc        *gcal.Service
	calendarID string
}

// NewClient builds a calendar client. Pass option.WithHTTPClient with an
// authorized client, or option.WithEndpoint in tests.
func NewClient(ctx context.Context, calendarID string, opts ...option.ClientOption) (*Client, error) {
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create calendar service")
	}
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	return &Client{svc: svc, calendarID: calendarID}, nil
}

// Upcoming returns single events between from and from+days, ordered by start.
func (c *Client) Upcoming(ctx context.Context, from time.Time, days int) ([]Event, error) {
	if days <= 0 {
		days = DefaultDays
	}
	to := from.Add(time.Duration(days) * 24 * time.Hour)
	res, err := c.svc.Events.List(c.calendarID).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list events", goerr.V("calendar", c.calendarID))
	}

	events := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		events = append(events, convert(item))
	}
	return events, nil
}

func convert(item *gcal.Event) Event {
	ev := Event{Summary: item.Summary}
	if ev.Summary == "" {
		ev.Summary = noTitle
	}
	ev.Start, ev.AllDay = when(item.Start)
	ev.End, _ = when(item.End)
	return ev
}

func when(t *gcal.EventDateTime) (string, bool) {
	if t == nil {
		return "", false
	}
	if t.DateTime != "" {
		return t.DateTime, false
	}
	return t.Date, t.Date != ""
}

// Format renders one "- start to end: summary" line per event.
func Format(events []Event) string {
	if len(events) == 0 {
		return "No upcoming events found."
	}
	var b strings.Builder
	for i, ev := range events {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s to %s: %s", ev.Start, ev.End, ev.Summary)
	}
	return b.String()
}
