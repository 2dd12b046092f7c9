package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/superdocs/superdocs/internal/config"
	"github.com/superdocs/superdocs/internal/llm"
	"github.com/superdocs/superdocs/internal/observability"
	"github.com/superdocs/superdocs/internal/pipeline"
	"github.com/superdocs/superdocs/internal/store"
)

var planCmd = &cobra.Command{
	Use:   "plan <path|repo-url>",
	Short: "Plan the documentation structure for a project",
	Long:  "Scans a local directory or GitHub repository, assembles deep context from its most important files, and produces the ordered set of documentation pages. With a configured database the plan is persisted and a second run serves the saved pages without any generation calls.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanCmd,
}

var (
	planOwnerID    string
	planName       string
	planIntent     string
	planRankLimit  int
	planConfigPath string
	planVerbose    bool
)

func init() {
	planCmd.Flags().StringVarP(&planOwnerID, "owner-id", "u", "", "Owner UUID (required with a database)")
	planCmd.Flags().StringVar(&planName, "name", "", "Project name override")
	planCmd.Flags().StringVar(&planIntent, "intent", "open", "Plan intent: 'open' reuses saved pages, 'new' forces a fresh plan")
	planCmd.Flags().IntVar(&planRankLimit, "rank-limit", 0, "Number of top-ranked files fed into deep context (0 = default)")
	planCmd.Flags().StringVar(&planConfigPath, "config", "", "Path to JSON config file")
	planCmd.Flags().BoolVarP(&planVerbose, "verbose", "v", false, "Print project metadata and context details")
	rootCmd.AddCommand(planCmd)
}

// newPipeline wires the store (optional), generation client, and pipeline
// service from configuration. The returned cleanup closes both.
func newPipeline(ctx context.Context, cfg config.Config) (*pipeline.Service, *store.DB, func(), error) {
	if cfg.GeminiAPIKey == "" {
		return nil, nil, nil, fmt.Errorf("GEMINI_API_KEY not set (set it in the environment or a .env file)")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	var database *store.DB
	var docStore pipeline.DocumentStore
	if cfg.DatabaseURL != "" {
		database, err = store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		docStore = database
	}

	cleanup := func() {
		if database != nil {
			database.Close()
		}
		_ = client.Close()
	}
	return pipeline.New(docStore, client, pipeline.Options{RankLimit: cfg.RankLimit}), database, cleanup, nil
}

func runPlanCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(planConfigPath)
	if err != nil {
		return err
	}
	if planRankLimit > 0 {
		cfg.RankLimit = planRankLimit
	}

	svc, database, cleanup, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	conn, connCfg, repoName, err := resolveSource(args[0], planName, cfg.GitHubToken)
	if err != nil {
		return err
	}
	id, err := resolveIdentity(planOwnerID, repoName, database != nil)
	if err != nil {
		return err
	}

	result, err := svc.Plan(ctx, conn, connCfg, id, pipeline.Intent(planIntent))
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if planVerbose && result.Metadata != nil {
		printer.PrintProjectMetadata(result.Metadata)
	}
	if result.Hydrated {
		fmt.Println("Loaded existing plan from database")
	}
	printer.PrintPlan(result.Units)

	return nil
}
