package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/prairielab/credence/internal/model"
)

// Renderer writes scoring output. The core engines know nothing about these
// formats; everything here consumes finished ScoreResults.
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes v as indented JSON to path
func (r *Renderer) RenderJSON(v interface{}, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// RenderResultsCSV writes the flat per-creator results table
func (r *Renderer) RenderResultsCSV(results []*model.ScoreResult, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	w := csv.NewWriter(f)
	header := []string{
		"creator_id", "state", "city_region",
		"verification_confidence", "verification_level",
		"avg_engagement_rate", "footprint_score",
		"business_presence_index", "growth_rate_30d",
		"total_followers", "platform_count",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, result := range results {
		record := []string{
			result.CreatorID,
			string(result.State),
			result.Region,
			formatFloat(result.Verification.Confidence),
			string(result.Verification.Level),
			formatOptional(result.Metrics.EngagementRate),
			formatFloat(result.Metrics.FootprintScore),
			strconv.Itoa(result.Metrics.BusinessPresenceIndex),
			formatOptional(result.Metrics.GrowthRate30d),
			formatFloat(result.Metrics.TotalFollowers),
			strconv.Itoa(result.Metrics.PlatformCount),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// RenderSummary prints the human-readable audit summary
func (r *Renderer) RenderSummary(report *model.AuditReport, out io.Writer) {
	fmt.Fprintf(out, "Run %s (as of %s)\n", report.RunID, report.AsOf.Format("2006-01-02"))
	fmt.Fprintf(out, "Creators scored: %d/%d", report.Succeeded, report.Creators)
	if report.Failed > 0 {
		fmt.Fprintf(out, " (%d failed)", report.Failed)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Mean confidence: %.3f\n", report.MeanScore)

	fmt.Fprintln(out, "Confidence levels:")
	for _, level := range []model.ConfidenceLevel{model.LevelHigh, model.LevelMedium, model.LevelLow, model.LevelUndetermined} {
		if count := report.Levels[string(level)]; count > 0 {
			fmt.Fprintf(out, "  %-12s %d\n", level, count)
		}
	}

	states := make([]string, 0, len(report.States))
	for state := range report.States {
		states = append(states, state)
	}
	sort.Strings(states)
	for _, state := range states {
		agg := report.States[state]
		fmt.Fprintf(out, "%s: %d creators, mean confidence %.3f, mean footprint %.2f\n",
			state, agg.Creators, agg.MeanConfidence, agg.MeanFootprint)
	}

	for _, creatorErr := range report.Errors {
		fmt.Fprintf(out, "error: creator %s: %s\n", creatorErr.CreatorID, creatorErr.Message)
	}

	if report.LLMSummary != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, report.LLMSummary)
	}
}

// formatOptional renders a nullable rate; absence stays an empty cell, never
// a zero
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
