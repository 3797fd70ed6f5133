package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sapictureday/leadgen/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent pipeline runs",
	RunE:  runListRuns,
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runListRuns(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	if err := s.Migrate(cmd.Context()); err != nil {
		return err
	}

	runs, err := s.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"When", "Location", "Mode", "Leads", "Emails", "Created", "Dupes", "Errors", "Simulated"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Location,
			r.Mode,
			r.LeadsFound,
			r.EmailsFound,
			r.CRMCreated,
			r.CRMDupes,
			r.CRMErrors,
			r.CRMSimulated,
		})
	}
	t.Render()
	return nil
}
