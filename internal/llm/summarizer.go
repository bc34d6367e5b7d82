package llm

import (
	"context"

	"github.com/prairielab/credence/internal/model"
)

// Summarizer wraps a provider with the audit prompt. A nil Summarizer (or
// one with no provider) is valid and does nothing.
type Summarizer struct {
	provider  Provider
	maxTokens int
}

// NewSummarizer creates a summarizer from configuration; returns nil when
// summarization is disabled
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return &Summarizer{provider: provider, maxTokens: cfg.MaxTokens}, nil
}

// Enabled reports whether a provider is configured
func (s *Summarizer) Enabled() bool {
	return s != nil && s.provider != nil
}

// Summarize generates the narrative for a finished audit report. The report
// itself is not modified; the caller decides where the prose goes.
func (s *Summarizer) Summarize(ctx context.Context, report *model.AuditReport) (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	return s.provider.Summarize(ctx, BuildPrompt(report), s.maxTokens)
}
