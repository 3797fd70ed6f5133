package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sapictureday/leadgen/internal/config"
	"github.com/sapictureday/leadgen/internal/crm"
	"github.com/sapictureday/leadgen/internal/enrich"
	"github.com/sapictureday/leadgen/internal/export"
	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/internal/pipeline"
	"github.com/sapictureday/leadgen/internal/store"
	"github.com/sapictureday/leadgen/pkg/apollo"
	"github.com/sapictureday/leadgen/pkg/bigin"
	"github.com/sapictureday/leadgen/pkg/hunter"
	"github.com/sapictureday/leadgen/pkg/places"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full lead generation pipeline",
	Long: `Searches Google Places for local businesses, enriches them with
contact details and email addresses, scores and ranks them, writes CSV and
JSON output, and upserts them into Bigin CRM.

Without --live the CRM stage only simulates writes.

Examples:
  # Dry run with defaults
  run

  # Only dance studios and daycares, smaller radius
  run --categories dance_studio,daycare --radius 20000

  # Custom query list, live CRM writes
  run --queries queries.yaml --live`,
	RunE: runPipeline,
}

func init() {
	f := runCmd.Flags()
	f.Bool("live", false, "write to the CRM instead of simulating")
	f.String("location", "", "search location (overrides config)")
	f.Int("radius", 0, "search radius in meters (overrides config)")
	f.String("categories", "", "comma-separated categories to search (dance_studio,daycare,school,sports)")
	f.String("queries", "", "YAML file with custom search queries (overrides built-ins)")
	f.Int("max-results", 0, "maximum results per query (overrides config)")
	f.Bool("skip-details", false, "skip the place-details stage")
	f.Bool("skip-enrichment", false, "skip the email enrichment stage")
	f.String("output", "", "output directory (overrides config)")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	live, _ := cmd.Flags().GetBool("live")
	skipDetails, _ := cmd.Flags().GetBool("skip-details")
	skipEnrichment, _ := cmd.Flags().GetBool("skip-enrichment")

	if err := cfg.Validate(live); err != nil {
		return err
	}

	search := applySearchOverrides(cmd, cfg.Search)
	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	queries, err := buildQueries(cmd, search)
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "run"))
	log.Info("starting pipeline",
		zap.String("location", search.Location),
		zap.Int("radius_m", search.RadiusM),
		zap.Int("queries", len(queries)),
		zap.Bool("live", live),
	)

	// Search.
	placesClient := places.NewClient(cfg.Google.APIKey, places.WithBaseURL(cfg.Google.BaseURL))
	searcher := pipeline.NewSearcher(placesClient, search.Location, search.RadiusM)
	leads, err := searcher.SearchAll(ctx, queries, search.MaxResults)
	if err != nil {
		return eris.Wrap(err, "run: search")
	}
	log.Info("search complete", zap.Int("leads", len(leads)))
	if len(leads) == 0 {
		fmt.Println("No leads found.")
		return nil
	}

	// Details.
	if !skipDetails {
		if err := pipeline.NewDetailEnricher(placesClient).EnrichAll(ctx, leads); err != nil {
			return eris.Wrap(err, "run: details")
		}
	}

	// Filter, dedup, score.
	leads = pipeline.FilterActive(leads)
	leads = pipeline.DeduplicateByName(leads)
	pipeline.ScoreAndSort(leads)

	// Email enrichment.
	var usage enrich.Usage
	if !skipEnrichment {
		enricher := newEnricher()
		if err := enricher.EnrichAll(ctx, leads, false); err != nil {
			return eris.Wrap(err, "run: enrichment")
		}
		usage = enricher.Usage()
	}

	// Output files are written before any CRM work so a CRM failure never
	// loses the batch.
	csvPath, jsonPath, err := writeOutputs(outputDir, leads)
	if err != nil {
		return err
	}
	log.Info("output written", zap.String("csv", csvPath), zap.String("json", jsonPath))

	// CRM.
	summary, err := upsertLeads(ctx, leads, live)
	if err != nil {
		return err
	}

	saveRunHistory(ctx, model.Run{
		Location:     search.Location,
		Mode:         runMode(live),
		LeadsFound:   len(leads),
		EmailsFound:  countEmails(leads),
		CRMCreated:   summary.Created,
		CRMDupes:     summary.Duplicates,
		CRMErrors:    summary.Errors,
		CRMSimulated: summary.Simulated,
	})

	printRunSummary(leads, usage, summary, csvPath)
	return nil
}

func applySearchOverrides(cmd *cobra.Command, base config.SearchConfig) config.SearchConfig {
	c := base
	if v, _ := cmd.Flags().GetString("location"); v != "" {
		c.Location = v
	}
	if v, _ := cmd.Flags().GetInt("radius"); v > 0 {
		c.RadiusM = v
	}
	if v, _ := cmd.Flags().GetInt("max-results"); v > 0 {
		c.MaxResults = v
	}
	if v, _ := cmd.Flags().GetString("queries"); v != "" {
		c.QueriesFile = v
	}
	return c
}

func buildQueries(cmd *cobra.Command, search config.SearchConfig) ([]pipeline.Query, error) {
	queries := pipeline.DefaultQueries
	if search.QueriesFile != "" {
		loaded, err := pipeline.LoadQueries(search.QueriesFile)
		if err != nil {
			return nil, err
		}
		queries = loaded
	}

	if v, _ := cmd.Flags().GetString("categories"); v != "" {
		var cats []model.Category
		for _, s := range splitAndTrim(v) {
			cats = append(cats, model.Category(s))
		}
		return pipeline.FilterByCategory(queries, cats)
	}
	return queries, nil
}

func newEnricher() *enrich.Enricher {
	strategies := []enrich.Strategy{enrich.NewWebsiteScraper()}

	if cfg.Hunter.APIKey != "" {
		client := hunter.NewClient(cfg.Hunter.APIKey, hunter.WithBaseURL(cfg.Hunter.BaseURL))
		strategies = append(strategies, enrich.NewHunterStrategy(client))
	}
	if cfg.Apollo.APIKey != "" {
		client := apollo.NewClient(cfg.Apollo.APIKey, apollo.WithBaseURL(cfg.Apollo.BaseURL))
		strategies = append(strategies, enrich.NewApolloStrategy(client, cfg.Apollo.Location))
	}
	strategies = append(strategies, enrich.NewPatternStrategy(enrich.NewMXChecker()))

	return enrich.New(cfg.Hunter.MonthlyLimit, strategies...)
}

func writeOutputs(dir string, leads []*model.Lead) (csvPath, jsonPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", eris.Wrapf(err, "run: create output dir %s", dir)
	}

	now := time.Now()
	csvPath = export.Filename(dir, "csv", now)
	jsonPath = export.Filename(dir, "json", now)

	if err := export.WriteCSV(csvPath, leads); err != nil {
		return "", "", err
	}
	if err := export.WriteJSON(jsonPath, leads); err != nil {
		return "", "", err
	}
	return csvPath, jsonPath, nil
}

func upsertLeads(ctx context.Context, leads []*model.Lead, live bool) (crm.Summary, error) {
	biginClient := newBiginClient()
	index := crm.NewDuplicateIndex(biginClient)

	if live {
		if err := biginClient.TestConnection(ctx); err != nil {
			return crm.Summary{}, eris.Wrap(err, "run: crm connection check")
		}
		if err := index.Build(ctx); err != nil {
			return crm.Summary{}, err
		}
	} else if cfg.Bigin.Token != "" {
		// With a token a dry run can still report would-be duplicates.
		if err := index.Build(ctx); err != nil {
			zap.L().Warn("duplicate index unavailable, simulating without it", zap.Error(err))
		}
	}

	_, summary := crm.NewUpserter(biginClient, index, !live).UpsertAll(ctx, leads)
	return summary, nil
}

func newBiginClient() bigin.Client {
	return bigin.NewClient(cfg.Bigin.Token,
		bigin.WithBaseURL(cfg.Bigin.BaseURL),
		bigin.WithRateLimit(cfg.Bigin.RateLimit),
	)
}

func saveRunHistory(ctx context.Context, run model.Run) {
	s, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		zap.L().Warn("run history unavailable", zap.Error(err))
		return
	}
	defer s.Close() //nolint:errcheck

	if err := s.Migrate(ctx); err != nil {
		zap.L().Warn("run history migrate failed", zap.Error(err))
		return
	}
	if _, err := s.SaveRun(ctx, run); err != nil {
		zap.L().Warn("run history save failed", zap.Error(err))
	}
}

func runMode(live bool) model.RunMode {
	if live {
		return model.RunModeLive
	}
	return model.RunModeDryRun
}

func countEmails(leads []*model.Lead) int {
	n := 0
	for _, l := range leads {
		if l.Email != "" {
			n++
		}
	}
	return n
}

const topLeadsShown = 15

func printRunSummary(leads []*model.Lead, usage enrich.Usage, summary crm.Summary, csvPath string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Score", "Name", "Category", "Email", "Phone"})
	for i, l := range leads {
		if i >= topLeadsShown {
			break
		}
		t.AppendRow(table.Row{l.LeadScore, l.Name, l.Category, l.Email, l.Phone})
	}
	t.Render()

	fmt.Printf("\nLeads: %d | Emails: %d (%d scraped, %d inferred) | Hunter calls: %s | Apollo calls: %d\n",
		len(leads), countEmails(leads), usage.Scraped, usage.Inferred, usage.HunterUsage(), usage.ApolloCalls)
	fmt.Printf("CRM: %d created, %d duplicates, %d errors, %d simulated\n",
		summary.Created, summary.Duplicates, summary.Errors, summary.Simulated)
	fmt.Printf("Output: %s\n", csvPath)
}
