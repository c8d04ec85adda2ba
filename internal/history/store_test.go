package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/averyholdt/socialforge/internal/pipeline"
)

func testClock() time.Time {
	return time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "history.db"), testClock)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() pipeline.Result {
	scoresA := pipeline.Scores{ViralScore: 80, BusinessValue: 70}
	scoresB := pipeline.Scores{ViralScore: 60, BusinessValue: 50}
	return pipeline.Result{
		RunID: "run-1",
		Signals: pipeline.SignalSet{
			Intent: pipeline.IntentSignal{Primary: "promotion", Confidence: 80},
		},
		Deliverables: []pipeline.Deliverable{
			{ID: "del-a", Platform: pipeline.PlatformInstagram, Format: pipeline.FormatPost, Text: "first", Scores: &scoresA},
			{ID: "del-b", Platform: pipeline.PlatformTikTok, Format: pipeline.FormatReel, Text: "second", Scores: &scoresB},
		},
		Summary: pipeline.Summary{TotalGenerated: 2, AvgViralScore: 70},
		Metadata: pipeline.RunMetadata{
			StartedAt:   testClock().Add(-2 * time.Second),
			CompletedAt: testClock(),
			Mode:        pipeline.RunModeFull,
			Seed:        42,
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveRun("promote the launch", sampleResult(), "# report"); err != nil {
		t.Fatalf("save: %v", err)
	}

	rec, err := s.GetRun("run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.RunID != "run-1" || rec.Mode != pipeline.RunModeFull || rec.Seed != 42 {
		t.Errorf("record = %+v", rec)
	}
	if rec.PromptText != "promote the launch" {
		t.Errorf("prompt = %q", rec.PromptText)
	}
	if rec.Signals.Intent.Primary != "promotion" {
		t.Errorf("signals did not round-trip: %+v", rec.Signals)
	}
	if len(rec.Deliverables) != 2 {
		t.Fatalf("deliverables = %d, want 2", len(rec.Deliverables))
	}
	// Ranked order is preserved by position.
	if rec.Deliverables[0].ID != "del-a" || rec.Deliverables[1].ID != "del-b" {
		t.Errorf("deliverable order = %s, %s", rec.Deliverables[0].ID, rec.Deliverables[1].ID)
	}
	if rec.Deliverables[0].Scores == nil || rec.Deliverables[0].Scores.ViralScore != 80 {
		t.Error("scores did not round-trip")
	}
	if rec.ReportMarkdown != "# report" {
		t.Errorf("report = %q", rec.ReportMarkdown)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun("missing")
	if !pipeline.IsCode(err, pipeline.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveRun("prompt one", sampleResult(), ""); err != nil {
		t.Fatal(err)
	}
	second := sampleResult()
	second.RunID = "run-2"
	second.Metadata.CompletedAt = testClock().Add(time.Minute)
	if err := s.SaveRun("prompt two", second, ""); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].RunID != "run-2" {
		t.Errorf("newest first: got %s", runs[0].RunID)
	}
	if runs[0].TotalGenerated != 2 || runs[0].AvgViralScore != 70 {
		t.Errorf("summary fields = %+v", runs[0])
	}

	limited, err := s.ListRuns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limited runs = %d, want 1", len(limited))
	}
}

func TestRecordOutcomeAndHistoricalSamples(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveRun("prompt", sampleResult(), ""); err != nil {
		t.Fatal(err)
	}

	err := s.RecordOutcome("run-1", OutcomeInput{
		DeliverableID: "del-a",
		Likes:         120,
		Comments:      14,
		Shares:        9,
		Saves:         22,
		Reach:         4000,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	samples, err := s.HistoricalSamples(pipeline.PlatformInstagram, 10)
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("samples = %d, want 1", len(samples))
	}
	got := samples[0]
	if got.Platform != pipeline.PlatformInstagram || got.Format != pipeline.FormatPost {
		t.Errorf("sample attribution = %s/%s", got.Platform, got.Format)
	}
	if got.Likes != 120 || got.Reach != 4000 {
		t.Errorf("sample counts = %+v", got)
	}
	if !got.RecordedAt.Equal(testClock()) {
		t.Errorf("recorded at = %v, want the injected clock", got.RecordedAt)
	}

	// Platform filter excludes other platforms.
	none, err := s.HistoricalSamples(pipeline.PlatformTwitter, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("twitter samples = %d, want 0", len(none))
	}

	all, err := s.HistoricalSamples("", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("unfiltered samples = %d, want 1", len(all))
	}
}

func TestRecordOutcomeUnknownDeliverable(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveRun("prompt", sampleResult(), ""); err != nil {
		t.Fatal(err)
	}
	err := s.RecordOutcome("run-1", OutcomeInput{DeliverableID: "nope"})
	if !pipeline.IsCode(err, pipeline.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
