package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/superdocs/superdocs/internal/observability"
	"github.com/superdocs/superdocs/internal/pipeline"
	"github.com/superdocs/superdocs/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <path|repo-url>",
	Short: "Generate documentation pages for a project",
	Long:  "Runs the full pipeline: plans the documentation structure, then generates each page sequentially. Pages already holding content are skipped, so an interrupted run resumes where it stopped. Generated pages are written as Markdown files to the output directory.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerateCmd,
}

var (
	generateOwnerID    string
	generateName       string
	generateIntent     string
	generateRankLimit  int
	generateConfigPath string
	generateVerbose    bool
	generateOutDir     string
)

func init() {
	generateCmd.Flags().StringVarP(&generateOwnerID, "owner-id", "u", "", "Owner UUID (required with a database)")
	generateCmd.Flags().StringVar(&generateName, "name", "", "Project name override")
	generateCmd.Flags().StringVar(&generateIntent, "intent", "open", "Plan intent: 'open' reuses saved pages, 'new' forces a fresh plan")
	generateCmd.Flags().IntVar(&generateRankLimit, "rank-limit", 0, "Number of top-ranked files fed into deep context (0 = default)")
	generateCmd.Flags().StringVar(&generateConfigPath, "config", "", "Path to JSON config file")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print project metadata and context details")
	generateCmd.Flags().StringVarP(&generateOutDir, "out", "o", "docs", "Output directory for generated Markdown")
	rootCmd.AddCommand(generateCmd)
}

func runGenerateCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(generateConfigPath)
	if err != nil {
		return err
	}
	if generateRankLimit > 0 {
		cfg.RankLimit = generateRankLimit
	}

	svc, database, cleanup, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	conn, connCfg, repoName, err := resolveSource(args[0], generateName, cfg.GitHubToken)
	if err != nil {
		return err
	}
	id, err := resolveIdentity(generateOwnerID, repoName, database != nil)
	if err != nil {
		return err
	}

	result, err := svc.Plan(ctx, conn, connCfg, id, pipeline.Intent(generateIntent))
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if generateVerbose && result.Metadata != nil {
		printer.PrintProjectMetadata(result.Metadata)
	}
	printer.PrintPlan(result.Units)

	units, err := svc.RunContentPhase(ctx, id, result.Units, result.Context, func(event pipeline.ProgressEvent) {
		printer.PrintUnitStatus(event.Title, types.UnitStatus(event.Status))
	})
	if err != nil {
		return fmt.Errorf("content phase failed: %w", err)
	}

	if err := writePages(generateOutDir, units); err != nil {
		return err
	}

	generated, failed := 0, 0
	for _, u := range units {
		switch u.Status {
		case types.StatusGenerated:
			generated++
		case types.StatusFailed:
			failed++
		}
	}
	fmt.Printf("Generated %d pages (%d failed) in %s\n", generated, failed, generateOutDir)
	return nil
}

// writePages writes every unit holding content to the output directory, one
// Markdown file per page. Failed units are written too; their content is the
// visible error block.
func writePages(dir string, units []types.GenerationUnit) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, u := range units {
		if u.Content == "" {
			continue
		}
		path := filepath.Join(dir, slugify(u.Title)+".md")
		body := fmt.Sprintf("# %s\n\n%s\n", u.Title, u.Content)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
