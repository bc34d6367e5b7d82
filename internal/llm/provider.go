// Package llm generates an optional narrative summary of an audit run. It
// runs strictly after scoring and its output is attached to the report as
// prose; it can never change a score.
package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/prairielab/credence/internal/model"
)

// Provider is one LLM backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates prose for the given prompt
	Summarize(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// NewProvider creates the configured provider. An empty provider name means
// summarization is disabled.
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// BuildPrompt renders the audit aggregates into the summarization prompt.
// Only aggregate figures go in: no creator IDs, no evidence text.
func BuildPrompt(report *model.AuditReport) string {
	var b strings.Builder

	b.WriteString(`You are summarizing a creator verification audit. The audit measures how credibly creators are associated with a geographic region, based on weighted evidence signals. You describe evidence support, never truth.

RULES:
1. Use only the figures below. Do not invent numbers or name any creator.
2. Describe confidence distribution and regional differences factually.
3. Note data gaps (failed or undetermined creators) explicitly.

Audit figures:
`)
	fmt.Fprintf(&b, "- Creators scored: %d of %d (%d failed)\n", report.Succeeded, report.Creators, report.Failed)
	fmt.Fprintf(&b, "- Mean verification confidence: %.3f\n", report.MeanScore)

	levels := make([]string, 0, len(report.Levels))
	for level := range report.Levels {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		fmt.Fprintf(&b, "- Level %s: %d creators\n", level, report.Levels[level])
	}

	states := make([]string, 0, len(report.States))
	for state := range report.States {
		states = append(states, state)
	}
	sort.Strings(states)
	for _, state := range states {
		agg := report.States[state]
		fmt.Fprintf(&b, "- State %s: %d creators, mean confidence %.3f, mean footprint %.2f\n",
			state, agg.Creators, agg.MeanConfidence, agg.MeanFootprint)
	}

	b.WriteString("\nWrite a short markdown summary (3-6 sentences).\n")
	return b.String()
}
