// Package mcpserver exposes the dashboard content and its history as MCP
// tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"homehub/internal/calendar"
	"homehub/internal/history"
	"homehub/internal/logging"
)

const (
	ServerName    = "homehub-dashboard-mcp"
	ServerVersion = "1.0.0"
)

type DailyContentParams struct {
	Kind string `json:"kind,omitempty" mcp:"content kind, e.g. 'fact' or 'joke' (default: all kinds)"`
}

type HistoryParams struct {
	Kind string `json:"kind" mcp:"content kind to look up"`
	Days int    `json:"days,omitempty" mcp:"window in days (default: configured history window)"`
}

type StatsParams struct {
	Days int `json:"days,omitempty" mcp:"window in days (default: configured history window)"`
}

type EventsParams struct {
	Days int `json:"days,omitempty" mcp:"days ahead to include (default: 7)"`
}

// EventLister is satisfied by *calendar.Client.
type EventLister interface {
	Upcoming(ctx context.Context, from time.Time, days int) ([]calendar.Event, error)
}

// Server holds the data sources behind the tools. Calendar is optional.
type Server struct {
	OutputDir  string
	Kinds      []string
	Store      history.Store
	Tracker    *history.Tracker
	WindowDays int
	Calendar   EventLister
	Now        func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Server) window(days int) int {
	if days > 0 {
		return days
	}
	if s.WindowDays > 0 {
		return s.WindowDays
	}
	return history.DefaultWindowDays
}

// MCP builds the protocol server with every tool registered.
func (s *Server) MCP() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_daily_content",
		Description: "Returns the content currently shown on the dashboard",
	}, s.GetDailyContent)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_history",
		Description: "Returns recent generated items for one content kind",
	}, s.GetHistory)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_history_stats",
		Description: "Summarizes the generation history per content kind",
	}, s.GetHistoryStats)
	if s.Calendar != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "get_upcoming_events",
			Description: "Lists upcoming Google Calendar events",
		}, s.GetUpcomingEvents)
	}
	return server
}

// Run serves on stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logging.From(ctx).Info("🔗 starting dashboard MCP server on stdin/stdout")
	return s.MCP().Run(ctx, mcp.NewStdioTransport())
}

func textResult(text string, meta map[string]any) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		Meta:    meta,
	}
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "❌ " + text}},
	}
}

func (s *Server) knownKind(kind string) bool {
	for _, k := range s.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (s *Server) GetDailyContent(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[DailyContentParams]) (*mcp.CallToolResultFor[any], error) {
	kinds := s.Kinds
	if k := strings.TrimSpace(params.Arguments.Kind); k != "" {
		if !s.knownKind(k) {
			return errorResult(fmt.Sprintf("unknown kind %q", k)), nil
		}
		kinds = []string{k}
	}

	items := map[string]string{}
	var b strings.Builder
	for _, kind := range kinds {
		data, err := os.ReadFile(filepath.Join(s.OutputDir, kind+".txt"))
		if err != nil {
			continue
		}
		text := strings.TrimSpace(string(data))
		items[kind] = text
		fmt.Fprintf(&b, "**%s:** %s\n", kind, text)
	}
	if len(items) == 0 {
		return textResult("📭 No dashboard content has been generated yet", map[string]any{"items": items}), nil
	}
	return textResult(b.String(), map[string]any{"items": items}), nil
}

func (s *Server) GetHistory(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[HistoryParams]) (*mcp.CallToolResultFor[any], error) {
	kind := strings.TrimSpace(params.Arguments.Kind)
	if kind == "" {
		return errorResult("kind is required"), nil
	}
	days := s.window(params.Arguments.Days)
	examples := s.Tracker.RecentExamples(s.Store.Load(ctx), kind, days)
	if len(examples) == 0 {
		return textResult(fmt.Sprintf("📭 No %s items in the last %d days", kind, days), map[string]any{"examples": examples}), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📜 Last %d %s items (%d days):\n", len(examples), kind, days)
	for i, e := range examples {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e)
	}
	return textResult(b.String(), map[string]any{"kind": kind, "days": days, "examples": examples}), nil
}

func (s *Server) GetHistoryStats(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[StatsParams]) (*mcp.CallToolResultFor[any], error) {
	stats := history.Summarize(s.Store.Load(ctx), s.now(), s.window(params.Arguments.Days))
	return textResult(stats.Text(), map[string]any{"stats": stats}), nil
}

func (s *Server) GetUpcomingEvents(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[EventsParams]) (*mcp.CallToolResultFor[any], error) {
	events, err := s.Calendar.Upcoming(ctx, s.now(), params.Arguments.Days)
	if err != nil {
		return errorResult(fmt.Sprintf("calendar lookup failed: %v", err)), nil
	}
	return textResult(calendar.Format(events), map[string]any{"events": events}), nil
}
