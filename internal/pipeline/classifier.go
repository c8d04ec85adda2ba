package pipeline

import (
	"sort"
	"strings"
	"unicode"
)

// Classifier turns a raw prompt into a SignalSet. It is a pure function of
// its input; the only failure is empty or whitespace-only text.
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

func (c *Classifier) Classify(prompt Prompt) (SignalSet, error) {
	text := strings.TrimSpace(prompt.Text)
	if text == "" {
		return SignalSet{}, NewInvalidInputError("prompt text is empty")
	}
	lower := strings.ToLower(text)

	counts := categoryCounts(lower)
	intent := detectIntent(counts)
	suggestions := suggestContentTypes(counts)
	emotions := detectEmotions(lower)
	platforms := recommendPlatforms(lower, intent.Primary, prompt.Context)
	keywords := extractKeywords(lower)
	audience := inferAudience(lower)

	return SignalSet{
		Intent:       intent,
		Emotions:     emotions,
		ContentTypes: suggestions,
		Platforms:    platforms,
		Keywords:     keywords,
		Audience:     audience,
	}, nil
}

type categoryCount struct {
	index int
	count int
}

func categoryCounts(lower string) []categoryCount {
	out := make([]categoryCount, len(patternCategories))
	for i, cat := range patternCategories {
		n := 0
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		out[i] = categoryCount{index: i, count: n}
	}
	return out
}

func detectIntent(counts []categoryCount) IntentSignal {
	ranked := make([]categoryCount, len(counts))
	copy(ranked, counts)
	// Stable keeps declaration order as the tie-break.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].count > ranked[j].count })

	if ranked[0].count == 0 {
		return IntentSignal{Primary: IntentGeneral, Secondary: []string{}, Confidence: 20}
	}
	primary := patternCategories[ranked[0].index].name
	secondary := []string{}
	for _, cc := range ranked[1:] {
		if cc.count == 0 || len(secondary) == 3 {
			break
		}
		secondary = append(secondary, patternCategories[cc.index].name)
	}
	confidence := ranked[0].count * 20
	if confidence > 95 {
		confidence = 95
	}
	return IntentSignal{Primary: primary, Secondary: secondary, Confidence: confidence}
}

func suggestContentTypes(counts []categoryCount) []ContentTypeSuggestion {
	out := []ContentTypeSuggestion{}
	for _, cc := range counts {
		cat := patternCategories[cc.index]
		if cat.format == "" || cc.count == 0 {
			continue
		}
		out = append(out, ContentTypeSuggestion{Type: cat.format, Priority: cat.base})
	}
	if len(out) == 0 {
		return []ContentTypeSuggestion{{Type: FormatPost, Priority: defaultSuggestionScore}}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func detectEmotions(lower string) EmotionSignal {
	detected := []string{}
	total := 0
	positive := 0
	negative := 0
	for _, cat := range emotionCategories {
		n := 0
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		if n == 0 {
			continue
		}
		detected = append(detected, cat.name)
		total += n
		if cat.positive {
			positive += n
		}
		if cat.negative {
			negative += n
		}
	}
	intensity := total * 10
	if intensity > 100 {
		intensity = 100
	}
	sentiment := SentimentNeutral
	if positive > negative {
		sentiment = SentimentPositive
	} else if negative > positive {
		sentiment = SentimentNegative
	}
	return EmotionSignal{Detected: detected, Intensity: intensity, Sentiment: sentiment}
}

func recommendPlatforms(lower, primaryIntent string, hints ContextHints) []PlatformRecommendation {
	scores := map[Platform]int{}
	for _, p := range AllPlatforms {
		n := 0
		for _, kw := range platformKeywords[p] {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		scores[p] = n * 10
	}
	for p, bonus := range intentPlatformBonuses[primaryIntent] {
		scores[p] += bonus
	}
	if hints.Platform != "" {
		if _, ok := scores[hints.Platform]; ok {
			scores[hints.Platform] += explicitPlatformBonus
		}
	}

	ranked := make([]Platform, len(AllPlatforms))
	copy(ranked, AllPlatforms)
	sort.SliceStable(ranked, func(i, j int) bool { return scores[ranked[i]] > scores[ranked[j]] })

	out := make([]PlatformRecommendation, 0, 3)
	for _, p := range ranked[:3] {
		out = append(out, PlatformRecommendation{Platform: p, AdaptationNote: adaptationNotes[p]})
	}
	return out
}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func extractKeywords(lower string) KeywordSignal {
	tokens := tokenize(lower)

	freq := map[string]int{}
	order := []string{}
	for _, tok := range tokens {
		if len(tok) <= 3 {
			continue
		}
		if _, ok := freq[tok]; !ok {
			order = append(order, tok)
		}
		freq[tok]++
	}
	sort.SliceStable(order, func(i, j int) bool { return freq[order[i]] > freq[order[j]] })

	primary := order
	if len(primary) > 5 {
		primary = primary[:5]
	}
	secondary := []string{}
	if len(order) > 5 {
		secondary = order[5:]
		if len(secondary) > 5 {
			secondary = secondary[:5]
		}
	}

	tokenSet := map[string]struct{}{}
	for _, tok := range tokens {
		tokenSet[tok] = struct{}{}
	}
	trending := []string{}
	for _, topic := range trendingTopics {
		if strings.Contains(topic, " ") {
			if strings.Contains(lower, topic) {
				trending = append(trending, topic)
			}
			continue
		}
		if _, ok := tokenSet[topic]; ok {
			trending = append(trending, topic)
		}
	}

	return KeywordSignal{Primary: primary, Secondary: secondary, Trending: trending}
}

// inferAudience accumulates matches in rule order. Duplicates are preserved
// on purpose; dedup happens at the orchestrator boundary.
func inferAudience(lower string) AudienceSignal {
	out := AudienceSignal{Demographics: []string{}, Interests: []string{}, Behavior: []string{}}
	for _, rule := range audienceRules {
		matched := false
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		out.Demographics = append(out.Demographics, rule.demographics...)
		out.Interests = append(out.Interests, rule.interests...)
		out.Behavior = append(out.Behavior, rule.behavior...)
	}
	return out
}
