package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"homehub/internal/calendar"
)

var calendarDays int

func init() {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List upcoming Google Calendar events",
		RunE:  runCalendar,
	}
	cmd.Flags().IntVar(&calendarDays, "days", 0, "Days ahead to list (default: $CALENDAR_DAYS)")

	RootCmd.AddCommand(cmd)
}

func runCalendar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := calendar.Connect(ctx, cfg.CalendarCredentialsPath, cfg.CalendarTokenPath, cfg.CalendarID,
		cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	days := calendarDays
	if days <= 0 {
		days = cfg.CalendarDays
	}
	events, err := client.Upcoming(ctx, time.Now(), days)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), calendar.Format(events))
	return nil
}
