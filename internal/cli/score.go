package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prairielab/credence/internal/model"
	"github.com/prairielab/credence/internal/pipeline"
	"github.com/prairielab/credence/internal/validate"
)

var (
	scoreDataDir string
	scoreAsOf    string
	scoreJSON    string
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <creator-id>",
	Short: "Score a single creator from the dataset exports",
	Long: `Score runs the verification and metrics engines for one creator and
prints the full result, including the per-signal audit breakdown.

Example:
  credence score 3f2a... --data ./data/exports
  credence score 3f2a... --as-of 2026-06-01 --json result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreDataDir, "data", "", "dataset export directory (overrides config)")
	scoreCmd.Flags().StringVar(&scoreAsOf, "as-of", "", "evaluation date YYYY-MM-DD (default: today)")
	scoreCmd.Flags().StringVar(&scoreJSON, "json", "", "write result JSON to this path instead of stdout")
}

func runScore(cmd *cobra.Command, args []string) error {
	creatorID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if scoreDataDir != "" {
		cfg.Data.Dir = scoreDataDir
	}

	asOf, err := resolveAsOf(scoreAsOf)
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

	result, err := p.ScoreCreator(context.Background(), creatorID, asOf)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Confidence: %.3f (%s)\n", result.Verification.Confidence, result.Verification.Level)
		fmt.Fprintf(os.Stderr, "Footprint: %.2f, BPI: %d/5\n", result.Metrics.FootprintScore, result.Metrics.BusinessPresenceIndex)
	}

	if scoreJSON != "" {
		renderer := pipeline.NewRenderer()
		if err := renderer.RenderJSON(result, scoreJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", scoreJSON)
		}
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// resolveAsOf parses the evaluation date flag; the clock is read exactly
// once here, never inside the scoring path
func resolveAsOf(flag string) (time.Time, error) {
	if flag == "" {
		return time.Now().UTC(), nil
	}
	d, err := model.ParseDate(flag)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --as-of: %w", err)
	}
	return d.Time(), nil
}

func reportIssues(issues []validate.Issue) {
	for _, issue := range issues {
		fmt.Fprintln(os.Stderr, issue.String())
	}
}
