package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sapictureday/leadgen/internal/export"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <leads.json>",
	Short: "Re-run email enrichment on a previous JSON export",
	Long: `Loads a lead dump written by a previous run and retries enrichment
for leads still missing an email. The dump is rewritten in place with the
new results.

Examples:
  # Fill in emails missed on the first pass
  enrich output/leads_2026-08-24_153005.json

  # Retry every strategy, even ones already attempted
  enrich output/leads_2026-08-24_153005.json --force`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().Bool("force", false, "retry strategies already attempted")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	force, _ := cmd.Flags().GetBool("force")
	path := args[0]

	leads, err := export.ReadJSON(path)
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		fmt.Println("No leads in file.")
		return nil
	}

	before := countEmails(leads)
	zap.L().Info("re-running enrichment",
		zap.String("file", path),
		zap.Int("leads", len(leads)),
		zap.Int("with_email", before),
	)

	enricher := newEnricher()
	if err := enricher.EnrichAll(ctx, leads, force); err != nil {
		return eris.Wrap(err, "enrich: cascade")
	}

	if err := export.WriteJSON(path, leads); err != nil {
		return err
	}

	csvPath := strings.TrimSuffix(path, ".json") + ".csv"
	if err := export.WriteCSV(csvPath, leads); err != nil {
		return err
	}

	after := countEmails(leads)
	fmt.Printf("Emails: %d -> %d (+%d)\n", before, after, after-before)
	fmt.Printf("Updated: %s and %s\n", path, csvPath)
	return nil
}

func splitAndTrim(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
