package mcpserver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"homehub/internal/calendar"
	"homehub/internal/history"
)

var now = time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

type fakeCalendar struct {
	events []calendar.Event
	err    error
}

func (f fakeCalendar) Upcoming(context.Context, time.Time, int) ([]calendar.Event, error) {
	return f.events, f.err
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "fact.txt"), []byte("A fact.\n"), 0o644))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "joke.txt"), []byte("A joke.\n"), 0o644))

	store, err := history.NewFileStore(filepath.Join(dir, "history.json"))
	gt.NoError(t, err)
	gt.NoError(t, store.Save(context.Background(), history.Log{
		"fact": {
			{Date: now.Add(-48 * time.Hour).Format(time.RFC3339), Content: "older fact"},
			{Date: now.Add(-24 * time.Hour).Format(time.RFC3339), Content: "newer fact"},
			{Date: now.Add(-40 * 24 * time.Hour).Format(time.RFC3339), Content: "ancient fact"},
		},
	}))

	tracker := history.NewTracker(history.DefaultLimit)
	tracker.Now = func() time.Time { return now }
	return &Server{
		OutputDir:  dir,
		Kinds:      []string{"fact", "poem", "joke"},
		Store:      store,
		Tracker:    tracker,
		WindowDays: 14,
		Now:        func() time.Time { return now },
	}
}

func text(r *mcp.CallToolResultFor[any]) string {
	var out string
	for _, c := range r.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			out += tc.Text
		}
	}
	return out
}

func TestGetDailyContent(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.GetDailyContent(ctx, nil, &mcp.CallToolParamsFor[DailyContentParams]{})
	gt.NoError(t, err)
	gt.False(t, res.IsError)
	gt.S(t, text(res)).Contains("**fact:** A fact.")
	gt.S(t, text(res)).Contains("**joke:** A joke.")
	gt.S(t, text(res)).NotContains("poem")

	res, err = s.GetDailyContent(ctx, nil, &mcp.CallToolParamsFor[DailyContentParams]{Arguments: DailyContentParams{Kind: "joke"}})
	gt.NoError(t, err)
	gt.Equal(t, text(res), "**joke:** A joke.\n")

	res, err = s.GetDailyContent(ctx, nil, &mcp.CallToolParamsFor[DailyContentParams]{Arguments: DailyContentParams{Kind: "weather"}})
	gt.NoError(t, err)
	gt.True(t, res.IsError)

	s.OutputDir = t.TempDir()
	res, err = s.GetDailyContent(ctx, nil, &mcp.CallToolParamsFor[DailyContentParams]{})
	gt.NoError(t, err)
	gt.S(t, text(res)).Contains("No dashboard content")
}

func TestGetHistory(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.GetHistory(ctx, nil, &mcp.CallToolParamsFor[HistoryParams]{Arguments: HistoryParams{Kind: "fact"}})
	gt.NoError(t, err)
	gt.S(t, text(res)).Contains("1. older fact\n2. newer fact")
	gt.S(t, text(res)).NotContains("ancient")

	res, err = s.GetHistory(ctx, nil, &mcp.CallToolParamsFor[HistoryParams]{Arguments: HistoryParams{Kind: "fact", Days: 60}})
	gt.NoError(t, err)
	gt.S(t, text(res)).Contains("ancient fact")

	res, err = s.GetHistory(ctx, nil, &mcp.CallToolParamsFor[HistoryParams]{})
	gt.NoError(t, err)
	gt.True(t, res.IsError)
}

func TestGetHistoryStats(t *testing.T) {
	s := newTestServer(t)
	res, err := s.GetHistoryStats(context.Background(), nil, &mcp.CallToolParamsFor[StatsParams]{})
	gt.NoError(t, err)
	gt.S(t, text(res)).Contains("- fact: 3 total, 2 recent")
}

func TestGetUpcomingEvents(t *testing.T) {
	s := newTestServer(t)
	s.Calendar = fakeCalendar{events: []calendar.Event{{Start: "2024-03-21", End: "2024-03-22", Summary: "Bins"}}}
	res, err := s.GetUpcomingEvents(context.Background(), nil, &mcp.CallToolParamsFor[EventsParams]{})
	gt.NoError(t, err)
	gt.Equal(t, text(res), "- 2024-03-21 to 2024-03-22: Bins")

	s.Calendar = fakeCalendar{err: errors.New("token revoked")}
	res, err = s.GetUpcomingEvents(context.Background(), nil, &mcp.CallToolParamsFor[EventsParams]{})
	gt.NoError(t, err)
	gt.True(t, res.IsError)
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)
	s.Calendar = fakeCalendar{}

	serverT, clientT := mcp.NewInMemoryTransports()
	ss, err := s.MCP().Connect(ctx, serverT)
	gt.NoError(t, err)
	defer func() { _ = ss.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientT)
	gt.NoError(t, err)
	defer func() { _ = cs.Close() }()

	tools, err := cs.ListTools(ctx, nil)
	gt.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	gt.Equal(t, names, []string{"get_daily_content", "get_history", "get_history_stats", "get_upcoming_events"})

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_history",
		Arguments: map[string]any{"kind": "fact"},
	})
	gt.NoError(t, err)
	gt.False(t, res.IsError)
	var out string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			out += tc.Text
		}
	}
	gt.S(t, out).Contains("newer fact")
}
