package pipeline

import (
	"math/rand"
	"strings"
	"testing"
)

func enhance(t *testing.T, seed int64, text string, hints ContextHints) EnhancedText {
	t.Helper()
	prompt := Prompt{Text: text, Context: hints}
	signals, err := NewClassifier().Classify(prompt)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	return NewEnhancer(rand.New(rand.NewSource(seed))).Enhance(prompt, signals)
}

func TestEnhanceDeterministicWithSeed(t *testing.T) {
	text := "Launch our amazing new product today"
	a := enhance(t, 7, text, ContextHints{})
	b := enhance(t, 7, text, ContextHints{})
	if a.EnhancedText != b.EnhancedText {
		t.Fatalf("same seed produced different output:\n%q\n%q", a.EnhancedText, b.EnhancedText)
	}
	if a.Metrics != b.Metrics {
		t.Errorf("same seed produced different metrics: %+v vs %+v", a.Metrics, b.Metrics)
	}
}

func TestEnhancePrependsEmotionHook(t *testing.T) {
	out := enhance(t, 1, "This is amazing news for everyone", ContextHints{})
	if len(out.Improvements.Hooks) == 0 {
		t.Fatal("expected at least one hook for an emotional prompt")
	}
	if !strings.HasPrefix(out.EnhancedText, out.Improvements.Hooks[len(out.Improvements.Hooks)-1]) {
		t.Errorf("enhanced text should start with the last prepended hook:\n%q", out.EnhancedText)
	}
}

func TestEnhancePromotionHook(t *testing.T) {
	out := enhance(t, 1, "Buy our new product, big sale and discount offer", ContextHints{})
	found := false
	for _, hook := range promotionHooks {
		if strings.Contains(out.EnhancedText, hook) {
			found = true
		}
	}
	if !found {
		t.Errorf("promotion prompt should carry a promotion hook:\n%q", out.EnhancedText)
	}
}

func TestEnhanceMarksTrendingKeywords(t *testing.T) {
	out := enhance(t, 1, "Our ai assistant makes writing easier", ContextHints{})
	if !strings.Contains(out.EnhancedText, "ai (trending)") {
		t.Errorf("trending keyword should be marked:\n%q", out.EnhancedText)
	}
	if len(out.Improvements.ViralElements) == 0 {
		t.Error("viral elements should record the trending mark")
	}
}

func TestEnhanceAppendsTriggerAndHashtags(t *testing.T) {
	out := enhance(t, 3, "Share fitness tips for tech professionals", ContextHints{})
	if len(out.Improvements.Triggers) != 1 {
		t.Fatalf("triggers = %d, want exactly 1", len(out.Improvements.Triggers))
	}
	if !strings.Contains(out.EnhancedText, out.Improvements.Triggers[0]) {
		t.Error("enhanced text should contain the appended trigger")
	}
	if len(out.Improvements.Hashtags) == 0 {
		t.Fatal("expected generated hashtags")
	}
	if len(out.Improvements.Hashtags) > maxGeneratedHashtags {
		t.Errorf("hashtags = %d, want at most %d", len(out.Improvements.Hashtags), maxGeneratedHashtags)
	}
	for _, tag := range out.Improvements.Hashtags {
		if !strings.HasPrefix(tag, "#") {
			t.Errorf("hashtag %q missing # prefix", tag)
		}
	}
}

func TestEnhancementMetricsBounds(t *testing.T) {
	out := enhance(t, 5, "limited offer, act fast, last chance today only, hurry now", ContextHints{})
	m := out.Metrics
	for name, v := range map[string]int{
		"engagement_boost":    m.EngagementBoost,
		"viral_potential":     m.ViralPotential,
		"clarity_improvement": m.ClarityImprovement,
		"emotional_impact":    m.EmotionalImpact,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s = %d, want within [0,100]", name, v)
		}
	}
	if m.EmotionalImpact == 0 {
		t.Error("high-urgency prompt should have non-zero emotional impact")
	}
}

func TestVariations(t *testing.T) {
	out := enhance(t, 2, "First thought here. Second thought there! Third one too? Fourth closes it.", ContextHints{})
	v := out.Variations

	if v.Long != out.EnhancedText {
		t.Error("long variant must equal the enhanced body")
	}
	if strings.Contains(v.Professional, "!") || strings.Contains(v.Professional, "?") {
		t.Errorf("professional variant keeps exclamations/questions: %q", v.Professional)
	}
	if !strings.HasSuffix(v.Casual, "😄") {
		t.Errorf("casual variant = %q, want emoji suffix", v.Casual)
	}
	if !strings.HasPrefix(v.Urgent, "⏰ ") {
		t.Errorf("urgent variant = %q, want clock prefix", v.Urgent)
	}
	if !strings.HasSuffix(v.Urgent, "This won't last.") {
		t.Errorf("urgent variant = %q, want scarcity closer", v.Urgent)
	}
	if len(splitSentences(v.Short)) > 1 {
		t.Errorf("short variant = %q, want a single sentence", v.Short)
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One. Two! Three? Trailing")
	if len(got) != 4 {
		t.Fatalf("sentences = %d (%v), want 4", len(got), got)
	}
	if got[3] != "Trailing" {
		t.Errorf("trailing fragment = %q, want Trailing", got[3])
	}
}
