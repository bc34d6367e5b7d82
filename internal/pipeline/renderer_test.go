package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prairielab/credence/internal/model"
)

func TestRenderResultsCSV(t *testing.T) {
	rate := 0.05
	results := []*model.ScoreResult{
		{
			CreatorID:    creatorA,
			State:        model.StateNebraska,
			Region:       "Omaha",
			Verification: model.Verification{Confidence: 0.9, Level: model.LevelHigh},
			Metrics: model.Metrics{
				EngagementRate:        &rate,
				FootprintScore:        12.5,
				BusinessPresenceIndex: 3,
				TotalFollowers:        1600,
				PlatformCount:         2,
			},
		},
		{
			CreatorID:    creatorB,
			State:        model.StateIowa,
			Verification: model.Verification{Level: model.LevelUndetermined},
		},
	}

	path := filepath.Join(t.TempDir(), "results.csv")
	if err := NewRenderer().RenderResultsCSV(results, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse rendered csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "creator_id" || records[0][5] != "avg_engagement_rate" {
		t.Errorf("unexpected header: %v", records[0])
	}

	rowA := records[1]
	if rowA[0] != creatorA || rowA[3] != "0.9" || rowA[4] != "High" || rowA[5] != "0.05" {
		t.Errorf("unexpected row: %v", rowA)
	}

	// Undefined rates render as empty cells, never as zero.
	rowB := records[2]
	if rowB[5] != "" || rowB[8] != "" {
		t.Errorf("expected empty cells for undefined rates: %v", rowB)
	}
}

func TestRenderJSON(t *testing.T) {
	result := &model.ScoreResult{
		CreatorID:    creatorA,
		Verification: model.Verification{Confidence: 0.5, Level: model.LevelMedium},
	}
	path := filepath.Join(t.TempDir(), "result.json")
	if err := NewRenderer().RenderJSON(result, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back model.ScoreResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("rendered json does not parse: %v", err)
	}
	if back.CreatorID != creatorA || back.Verification.Level != model.LevelMedium {
		t.Errorf("round trip changed the result: %+v", back)
	}
	// Undefined metrics stay absent from the document.
	if strings.Contains(string(data), "avg_engagement_rate") {
		t.Error("nil engagement rate should be omitted")
	}
}

func TestRenderSummary(t *testing.T) {
	report := &model.AuditReport{
		RunID:     "run-1",
		AsOf:      testAsOf,
		Creators:  3,
		Succeeded: 2,
		Failed:    1,
		MeanScore: 0.6,
		Levels:    map[string]int{"High": 1, "Low": 1},
		States: map[string]*model.StateAggregate{
			"NE": {Creators: 2, MeanConfidence: 0.6, MeanFootprint: 9},
		},
		Errors:     []model.CreatorError{{CreatorID: creatorB, Message: "bad records"}},
		LLMSummary: "A short narrative.",
	}

	var buf bytes.Buffer
	NewRenderer().RenderSummary(report, &buf)
	out := buf.String()

	for _, want := range []string{
		"run-1",
		"2/3 (1 failed)",
		"Mean confidence: 0.600",
		"High",
		"NE: 2 creators",
		"bad records",
		"A short narrative.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q in:\n%s", want, out)
		}
	}
}
