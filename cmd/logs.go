package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jsetina/faceclock/internal/config"
	"github.com/jsetina/faceclock/internal/database"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List attendance logs",
	Long: `List recorded attendance events, newest first.

Example:
  faceclock logs --start-date 2026-08-01 --end-date 2026-08-31 --department Engineering`,
	RunE: runLogsList,
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().String("start-date", "", "Earliest date to include (YYYY-MM-DD)")
	logsCmd.Flags().String("end-date", "", "Latest date to include (YYYY-MM-DD)")
	logsCmd.Flags().String("name", "", "Filter by employee name (substring)")
	logsCmd.Flags().String("department", "", "Filter by department")
	logsCmd.Flags().Int("limit", 0, "Maximum number of events to list")
}

func runLogsList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	db, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	filter := database.EventFilter{
		StartDate:  mustGetString(cmd, "start-date"),
		EndDate:    mustGetString(cmd, "end-date"),
		Name:       mustGetString(cmd, "name"),
		Department: mustGetString(cmd, "department"),
		Limit:      mustGetInt(cmd, "limit"),
	}

	events, err := db.ListEvents(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("listing attendance logs: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No attendance events")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTIME\tNAME\tDEPARTMENT\tPOSITION")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ev.Date, ev.Time, ev.Name, ev.Department, ev.Position)
	}
	w.Flush()

	fmt.Printf("\n%d events\n", len(events))
	return nil
}
