package pipeline

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(Config{
		Clock:  func() time.Time { return time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC) },
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func TestRunEmptyText(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Run(context.Background(), Request{Text: "   "})
	if !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
	if stage := StageNameFromError(err); stage != "validate" {
		t.Errorf("stage = %q, want validate", stage)
	}
}

func TestRunUnknownMode(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Run(context.Background(), Request{Text: "hello", Mode: RunMode("bogus")})
	if !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}

func TestRunFullMode(t *testing.T) {
	p := newTestPipeline(t)
	result, err := p.Run(context.Background(), Request{
		Text:               "Create a post to promote our new product launch",
		Mode:               RunModeFull,
		Seed:               11,
		IncludeVisuals:     true,
		IncludeInteractive: true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.RunID == "" {
		t.Error("run id must be set")
	}
	if len(result.Deliverables) == 0 {
		t.Fatal("full mode must produce deliverables")
	}
	if result.Summary.TotalGenerated != len(result.Deliverables) {
		t.Errorf("summary total = %d, want %d", result.Summary.TotalGenerated, len(result.Deliverables))
	}
	for i, d := range result.Deliverables {
		if d.Scores == nil {
			t.Fatalf("deliverable %d has no scores", i)
		}
		if d.Optimization.EngagementStrategy == "" {
			t.Errorf("deliverable %d has no engagement strategy", i)
		}
		profile, err := ProfileFor(d.Platform)
		if err != nil {
			t.Fatalf("deliverable %d has unknown platform %s", i, d.Platform)
		}
		if n := len([]rune(d.Text)); n > profile.MaxTextLength {
			t.Errorf("deliverable %d text = %d runes, over the %s limit %d", i, n, d.Platform, profile.MaxTextLength)
		}
	}
	if got := result.Metadata.Seed; got != 11 {
		t.Errorf("metadata seed = %d, want 11", got)
	}
	if !containsString(result.Metadata.StagesExecuted, "rank") {
		t.Errorf("stages = %v, want rank included", result.Metadata.StagesExecuted)
	}
}

func TestRunRankingOrder(t *testing.T) {
	p := newTestPipeline(t)
	result, err := p.Run(context.Background(), Request{
		Text: "Make a fun dance challenge video for the trend, POV style",
		Seed: 3,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	sortKey := func(d Deliverable) float64 {
		return 0.6*float64(d.Scores.ViralScore) + 0.4*float64(d.Scores.BusinessValue)
	}
	for i := 1; i < len(result.Deliverables); i++ {
		if sortKey(result.Deliverables[i]) > sortKey(result.Deliverables[i-1]) {
			t.Errorf("deliverables %d and %d out of order: %.1f then %.1f",
				i-1, i, sortKey(result.Deliverables[i-1]), sortKey(result.Deliverables[i]))
		}
	}
}

func TestRunReproducibleWithSeed(t *testing.T) {
	p := newTestPipeline(t)
	req := Request{Text: "Launch our amazing new product with a sale", Seed: 99, IncludeVisuals: true}

	a, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run a: %v", err)
	}
	b, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run b: %v", err)
	}

	if len(a.Deliverables) != len(b.Deliverables) {
		t.Fatalf("deliverable counts differ: %d vs %d", len(a.Deliverables), len(b.Deliverables))
	}
	for i := range a.Deliverables {
		if a.Deliverables[i].Text != b.Deliverables[i].Text {
			t.Errorf("deliverable %d text differs between identical seeded runs", i)
		}
		if a.Deliverables[i].Scores.ViralScore != b.Deliverables[i].Scores.ViralScore {
			t.Errorf("deliverable %d viral score differs between identical seeded runs", i)
		}
	}
	if a.Enhanced.EnhancedText != b.Enhanced.EnhancedText {
		t.Error("enhanced text differs between identical seeded runs")
	}
}

func TestRunAnalyzeMode(t *testing.T) {
	p := newTestPipeline(t)
	result, err := p.Run(context.Background(), Request{
		Text: "Create a post to promote our new product launch",
		Mode: RunModeAnalyze,
		Seed: 1,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Deliverables) != 0 {
		t.Errorf("analyze mode produced %d deliverables, want 0", len(result.Deliverables))
	}
	if result.Signals.Intent.Primary == "" {
		t.Error("analyze mode must still classify")
	}
	if result.Enhanced.EnhancedText == "" {
		t.Error("analyze mode must still enhance")
	}
	if containsString(result.Metadata.StagesExecuted, "generate") {
		t.Errorf("stages = %v, generate must be skipped", result.Metadata.StagesExecuted)
	}
}

func TestRunSingleFormatModes(t *testing.T) {
	p := newTestPipeline(t)
	result, err := p.Run(context.Background(), Request{
		Text: "Make a fun dance challenge video for the trend, POV style",
		Mode: RunModeVideo,
		Seed: 1,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Deliverables) == 0 {
		t.Fatal("video mode must produce deliverables")
	}
	for _, d := range result.Deliverables {
		if d.Format != FormatVideo {
			t.Errorf("format = %s, want video only", d.Format)
		}
	}
}

func TestRunWarnsOnUnsupportedPairs(t *testing.T) {
	p := newTestPipeline(t)
	// Story-heavy prompt steered toward LinkedIn, which has no story format.
	result, err := p.Run(context.Background(), Request{
		Text:    "Share a behind the scenes story moment",
		Context: ContextHints{Platform: PlatformLinkedIn},
		Seed:    1,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	found := false
	for _, w := range result.Warnings {
		if w.Format == FormatStory && w.Platform == PlatformLinkedIn {
			found = true
			if w.Reason == "" {
				t.Error("warning reason must be set")
			}
		}
	}
	if !found {
		t.Errorf("warnings = %v, want story-on-linkedin dropped", result.Warnings)
	}
	for _, d := range result.Deliverables {
		if d.Format == FormatStory && d.Platform == PlatformLinkedIn {
			t.Error("unsupported pair must not produce a deliverable")
		}
	}
}

func TestRunTruncatesOversizedInput(t *testing.T) {
	p := newTestPipeline(t)
	result, err := p.Run(context.Background(), Request{
		Text: strings.Repeat("launch a product sale ", 2000),
		Mode: RunModeAnalyze,
		Seed: 1,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Metadata.InputTruncated {
		t.Error("oversized input must be flagged as truncated")
	}
}

func TestRunCancelledContext(t *testing.T) {
	p := newTestPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, Request{Text: "post about the product launch", Seed: 1})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestEngagementStrategyTiers(t *testing.T) {
	high := engagementStrategy(Scores{ViralScore: 85})
	if !strings.Contains(high, "High viral potential") {
		t.Errorf("high tier = %q", high)
	}
	mid := engagementStrategy(Scores{ViralScore: 50, EngagementPrediction: 75})
	if !strings.Contains(mid, "Good engagement potential") {
		t.Errorf("mid tier = %q", mid)
	}
	low := engagementStrategy(Scores{ViralScore: 10, EngagementPrediction: 10})
	if !strings.Contains(low, "community building") {
		t.Errorf("low tier = %q", low)
	}
}

func TestStatus(t *testing.T) {
	p := newTestPipeline(t)
	status := p.Status()
	if !status.Components["classifier"] || !status.Components["scorer"] {
		t.Errorf("components = %v", status.Components)
	}
	if !containsString(status.Capabilities, CapabilityContentPipeline) {
		t.Errorf("capabilities = %v", status.Capabilities)
	}
	if len(status.Platforms) != len(AllPlatforms) || len(status.Formats) != len(AllFormats) {
		t.Error("status must list the closed platform and format sets")
	}
}
