package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"homehub/internal/history"
	"homehub/internal/storage"
)

var (
	historyJSON bool
	historyDays int
	runsLimit   int
)

func init() {
	hist := &cobra.Command{
		Use:   "history",
		Short: "Inspect the generation history",
	}
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show per-kind history statistics",
		RunE:  runHistoryStats,
	}
	stats.Flags().BoolVar(&historyJSON, "json", false, "Print JSON instead of text")
	stats.Flags().IntVar(&historyDays, "days", 0, "Window in days (default: $HISTORY_DAYS_TO_KEEP)")

	runs := &cobra.Command{
		Use:   "runs",
		Short: "List recent generation runs from the run journal",
		RunE:  runHistoryRuns,
	}
	runs.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Number of runs to show")

	hist.AddCommand(stats, runs)
	RootCmd.AddCommand(hist)
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	store, closer, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	days := historyDays
	if days <= 0 {
		days = cfg.HistoryDays
	}
	stats := history.Summarize(store.Load(cmd.Context()), time.Now(), days)
	if historyJSON {
		js, err := stats.ToJSON()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), js)
		return nil
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), stats.Text())
	return nil
}

func runHistoryRuns(cmd *cobra.Command, args []string) error {
	journal, err := storage.NewFileJournal(cfg.RunJournal)
	if err != nil {
		return err
	}
	all, err := journal.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	recent := storage.Last(all, runsLimit)
	if len(recent) == 0 {
		_, _ = fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	for _, r := range recent {
		line := fmt.Sprintf("%s  %d kinds, %d images", r.At.Local().Format(time.DateTime), len(r.Kinds), len(r.Images))
		if len(r.Failures) > 0 {
			line += fmt.Sprintf(", failed: %s", strings.Join(r.Failures, ","))
		}
		if r.WordFallback {
			line += ", word fallback"
		}
		_, _ = fmt.Fprintln(out, line)
	}
	return nil
}
