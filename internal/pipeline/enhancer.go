package pipeline

import (
	"math/rand"
	"regexp"
	"strings"
)

// Enhancer rewrites the original prompt text into a post-ready body plus
// itemized improvements and variants. Template and trigger choices come from
// the injected randomness source, so a fixed seed reproduces exact output;
// everything else is deterministic.
type Enhancer struct {
	rng *rand.Rand
}

func NewEnhancer(rng *rand.Rand) *Enhancer { return &Enhancer{rng: rng} }

func (e *Enhancer) Enhance(prompt Prompt, signals SignalSet) EnhancedText {
	original := strings.TrimSpace(prompt.Text)
	enhanced := original

	imp := Improvements{
		Hooks:             []string{},
		ViralElements:     []string{},
		Triggers:          []string{},
		CallsToAction:     []string{},
		Hashtags:          []string{},
		VisualSuggestions: []string{},
		AudioSuggestions:  []string{},
	}

	if len(signals.Emotions.Detected) > 0 {
		emotion := primaryEmotion(signals)
		if templates := hookTemplates[emotion]; len(templates) > 0 {
			hook := templates[e.rng.Intn(len(templates))]
			enhanced = hook + "\n\n" + enhanced
			imp.Hooks = append(imp.Hooks, hook)
		}
	}
	if signals.Intent.Primary == "promotion" {
		hook := promotionHooks[e.rng.Intn(len(promotionHooks))]
		enhanced = hook + "\n\n" + enhanced
		imp.Hooks = append(imp.Hooks, hook)
	}

	for _, kw := range signals.Keywords.Trending {
		replaced := markTrending(enhanced, kw)
		if replaced != enhanced {
			enhanced = replaced
			imp.ViralElements = append(imp.ViralElements, kw+" (trending)")
		}
	}

	trigger := engagementTriggers[e.rng.Intn(len(engagementTriggers))]
	enhanced = enhanced + "\n\n" + trigger
	imp.Triggers = append(imp.Triggers, trigger)

	hashtags := buildHashtags(signals)
	if len(hashtags) > 0 {
		enhanced = enhanced + "\n\n" + strings.Join(hashtags, " ")
	}
	imp.Hashtags = hashtags

	ctas := callsToActionByIntent[signals.Intent.Primary]
	if len(ctas) == 0 {
		ctas = callsToActionByIntent[IntentGeneral]
	}
	imp.CallsToAction = append(imp.CallsToAction, ctas...)

	for _, suggestion := range signals.ContentTypes {
		imp.VisualSuggestions = append(imp.VisualSuggestions, visualSuggestionsByFormat[suggestion.Type]...)
	}
	imp.VisualSuggestions = dedupe(imp.VisualSuggestions)
	imp.AudioSuggestions = append(imp.AudioSuggestions, audioSuggestions...)

	return EnhancedText{
		OriginalText: original,
		EnhancedText: enhanced,
		Improvements: imp,
		Metrics:      enhancementMetrics(original, enhanced, signals),
		Variations:   buildVariations(enhanced),
	}
}

func primaryEmotion(signals SignalSet) string {
	return signals.Emotions.Detected[0]
}

// markTrending appends "(trending)" after each occurrence of the keyword,
// preserving the original casing of the match.
func markTrending(text, keyword string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return m + " (trending)"
	})
}

const (
	viralPotentialBase  = 50
	engagementBoostBase = 40
)

func enhancementMetrics(original, enhanced string, signals SignalSet) EnhancementMetrics {
	intensity := signals.Emotions.Intensity
	lengthGain := 0
	if len(original) > 0 {
		lengthGain = (len(enhanced) - len(original)) * 100 / len(original)
	}
	lengthGain = clampScore(lengthGain)

	viral := clampScore(int(0.4*float64(intensity) + 0.4*viralPotentialBase + 0.2*float64(lengthGain)))
	boost := clampScore(int(0.5*float64(intensity) + 0.3*engagementBoostBase + 0.2*float64(lengthGain)))

	clarity := 40
	if len(enhanced) > len(original) {
		clarity += 20
	}
	if strings.Contains(enhanced, "\n") {
		clarity += 20
	}
	if hasTerminalPunctuation(enhanced) {
		clarity += 20
	}

	impact := intensity
	if strings.Contains(enhanced, "!") {
		impact += 15
	}
	if strings.Contains(enhanced, "?") {
		impact += 10
	}

	return EnhancementMetrics{
		EngagementBoost:    boost,
		ViralPotential:     viral,
		ClarityImprovement: clampScore(clarity),
		EmotionalImpact:    clampScore(impact),
	}
}

func hasTerminalPunctuation(text string) bool {
	trimmed := strings.TrimRight(text, " \n\t")
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// buildVariations derives the five variants from the enhanced body. All
// transforms are deterministic.
func buildVariations(enhanced string) Variations {
	sentences := splitSentences(enhanced)
	short := joinSentences(sentences, 1)
	medium := joinSentences(sentences, 3)

	return Variations{
		Short:        short,
		Medium:       medium,
		Long:         enhanced,
		Professional: professionalVariant(enhanced),
		Casual:       enhanced + " 😄",
		Urgent:       urgentVariant(enhanced, sentences),
	}
}

func splitSentences(text string) []string {
	out := []string{}
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(b.String())
			if s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func joinSentences(sentences []string, n int) string {
	if len(sentences) < n {
		n = len(sentences)
	}
	return strings.Join(sentences[:n], " ")
}

func professionalVariant(text string) string {
	r := strings.NewReplacer("!", ".", "?", ".")
	return r.Replace(text)
}

func urgentVariant(text string, sentences []string) string {
	if len(sentences) == 0 {
		return text
	}
	first := sentences[0]
	rest := strings.TrimSpace(strings.TrimPrefix(text, first))
	out := "⏰ " + strings.ToUpper(first)
	if rest != "" {
		out += "\n" + rest
	}
	return out + "\n\nDon't wait. This won't last."
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
