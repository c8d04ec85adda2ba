package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWeightsFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultWeightsValid(t *testing.T) {
	if err := DefaultWeights().validate(); err != nil {
		t.Fatalf("default weights must validate: %v", err)
	}
}

func TestLoadWeightsPartialOverride(t *testing.T) {
	path := writeWeightsFile(t, "base_reach: 2500\nsort:\n  viral_score: 0.7\n  business_value: 0.3\n")
	w, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if w.BaseReach != 2500 {
		t.Errorf("base reach = %d, want 2500", w.BaseReach)
	}
	if w.Sort.ViralScore != 0.7 || w.Sort.BusinessValue != 0.3 {
		t.Errorf("sort weights = %+v, want 0.7/0.3", w.Sort)
	}
	// Untouched sections keep their defaults.
	if w.Factors != DefaultWeights().Factors {
		t.Errorf("factors = %+v, want defaults", w.Factors)
	}
}

func TestLoadWeightsRejectsBadFactorSum(t *testing.T) {
	path := writeWeightsFile(t, "factors:\n  content_quality: 0.9\n")
	_, err := LoadWeights(path)
	if !IsCode(err, CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadWeightsMissingFile(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
