package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prairielab/credence/internal/model"
)

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(model.LLMConfig{})
	if err != nil || p != nil {
		t.Errorf("empty provider name must disable summarization, got (%v, %v)", p, err)
	}

	p, err = NewProvider(model.LLMConfig{Provider: "openai", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || p.Name() != "openai" {
		t.Errorf("unexpected provider: %v", p)
	}

	if _, err := NewProvider(model.LLMConfig{Provider: "crystal-ball"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewProvider(model.LLMConfig{Provider: "openai"}); err == nil {
		t.Error("expected error when API key is missing")
	}
}

func TestBuildPrompt(t *testing.T) {
	report := &model.AuditReport{
		RunID:     "run-1",
		AsOf:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Creators:  10,
		Succeeded: 9,
		Failed:    1,
		MeanScore: 0.612,
		Levels:    map[string]int{"High": 3, "Medium": 4, "Low": 2},
		States: map[string]*model.StateAggregate{
			"NE": {Creators: 6, MeanConfidence: 0.7, MeanFootprint: 12.5},
			"IA": {Creators: 3, MeanConfidence: 0.45, MeanFootprint: 8.1},
		},
		Errors: []model.CreatorError{{CreatorID: strings.Repeat("ab", 32), Message: "bad records"}},
	}

	prompt := BuildPrompt(report)

	for _, want := range []string{
		"9 of 10 (1 failed)",
		"0.612",
		"Level High: 3",
		"State NE: 6 creators",
		"State IA: 3 creators",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	// Aggregates only: creator IDs never reach the provider.
	if strings.Contains(prompt, strings.Repeat("ab", 32)) {
		t.Error("prompt leaked a creator ID")
	}
}

type stubProvider struct {
	prompt    string
	maxTokens int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Summarize(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.prompt = prompt
	s.maxTokens = maxTokens
	return "narrative", nil
}

func TestSummarizer(t *testing.T) {
	var disabled *Summarizer
	if disabled.Enabled() {
		t.Error("nil summarizer must report disabled")
	}
	if text, err := disabled.Summarize(context.Background(), &model.AuditReport{}); err != nil || text != "" {
		t.Errorf("nil summarizer must be a no-op, got (%q, %v)", text, err)
	}

	stub := &stubProvider{}
	s := &Summarizer{provider: stub, maxTokens: 123}
	text, err := s.Summarize(context.Background(), &model.AuditReport{Creators: 2, Succeeded: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "narrative" {
		t.Errorf("unexpected summary %q", text)
	}
	if stub.maxTokens != 123 {
		t.Errorf("expected max tokens forwarded, got %d", stub.maxTokens)
	}
	if !strings.Contains(stub.prompt, "2 of 2") {
		t.Errorf("prompt not built from the report: %q", stub.prompt)
	}
}

func TestNewSummarizer_Disabled(t *testing.T) {
	s, err := NewSummarizer(model.LLMConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil || s.Enabled() {
		t.Error("disabled config must yield a nil summarizer")
	}
}
