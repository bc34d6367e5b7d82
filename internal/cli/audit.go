package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/prairielab/credence/internal/llm"
	"github.com/prairielab/credence/internal/model"
	"github.com/prairielab/credence/internal/pipeline"
	"github.com/prairielab/credence/internal/store"
	"github.com/prairielab/credence/internal/worker"
)

var (
	auditDataDir     string
	auditOutDir      string
	auditAsOf        string
	auditConcurrency int
	auditRate        float64
	auditLLM         bool
	auditLLMModel    string
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Score every creator in the dataset and write the audit report",
	Long: `Audit scores all creators concurrently and writes:
- results.csv: flat per-creator scores
- audit.json: run summary with level distribution and state breakdowns

One creator's failure never aborts the run; failures are listed in the
report.

Example:
  credence audit --data ./data/exports --out ./reports
  credence audit --concurrency 8 --rate 50 --as-of 2026-06-01`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditDataDir, "data", "", "dataset export directory (overrides config)")
	auditCmd.Flags().StringVar(&auditOutDir, "out", "", "report output directory (overrides config)")
	auditCmd.Flags().StringVar(&auditAsOf, "as-of", "", "evaluation date YYYY-MM-DD (default: today)")
	auditCmd.Flags().IntVar(&auditConcurrency, "concurrency", 0, "worker count (overrides config)")
	auditCmd.Flags().Float64Var(&auditRate, "rate", 0, "creators per second throttle, 0 = unthrottled")
	auditCmd.Flags().BoolVar(&auditLLM, "llm", false, "append an LLM narrative summary to the report")
	auditCmd.Flags().StringVar(&auditLLMModel, "llm-model", "", "LLM model name")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if auditDataDir != "" {
		cfg.Data.Dir = auditDataDir
	}
	if auditOutDir != "" {
		cfg.Output.Dir = auditOutDir
	}
	if auditConcurrency > 0 {
		cfg.Concurrency.Workers = auditConcurrency
	}
	if auditRate > 0 {
		cfg.Concurrency.CreatorsPerSecond = auditRate
	}
	if auditLLM {
		cfg.LLM.Provider = "openai"
		if auditLLMModel != "" {
			cfg.LLM.Model = auditLLMModel
		}
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	asOf, err := resolveAsOf(auditAsOf)
	if err != nil {
		return err
	}

	p, issues, err := pipeline.Open(cfg)
	if err != nil {
		reportIssues(issues)
		return err
	}
	if verbose {
		reportIssues(issues)
	}

	creatorIDs := p.Dataset().CreatorIDs()
	if verbose {
		fmt.Fprintf(os.Stderr, "Scoring %d creators with %d workers\n", len(creatorIDs), cfg.Concurrency.Workers)
	}

	startedAt := time.Now().UTC()
	ctx := context.Background()

	results := store.NewMemoryStore(cfg.Concurrency.ResultTTL())
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.Concurrency.CreatorsPerSecond, results)
	outcomes := processor.Process(ctx, creatorIDs, asOf)

	var scored []*model.ScoreResult
	var creatorErrors []model.CreatorError
	for _, outcome := range outcomes {
		if outcome.Error != nil {
			creatorErrors = append(creatorErrors, model.CreatorError{
				CreatorID: outcome.CreatorID,
				Message:   outcome.Error.Error(),
			})
			continue
		}
		if result, ok := results.Get(outcome.CreatorID); ok {
			scored = append(scored, result)
		}
	}
	pipeline.SortResults(scored)

	report := pipeline.BuildAuditReport(scored, creatorErrors, asOf, startedAt)

	// Narrative runs after every score is final; it can only decorate the
	// report.
	if summarizer, err := llm.NewSummarizer(cfg.LLM); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM summarizer unavailable: %v\n", err)
	} else if summarizer.Enabled() {
		summary, err := summarizer.Summarize(ctx, report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM summary failed: %v\n", err)
		} else {
			report.LLMSummary = summary
		}
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	renderer := pipeline.NewRenderer()
	csvPath := filepath.Join(cfg.Output.Dir, "results.csv")
	if err := renderer.RenderResultsCSV(scored, csvPath); err != nil {
		return err
	}
	jsonPath := filepath.Join(cfg.Output.Dir, "audit.json")
	if err := renderer.RenderJSON(report, jsonPath); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s and %s\n", csvPath, jsonPath)
	}

	renderer.RenderSummary(report, os.Stdout)
	return nil
}
