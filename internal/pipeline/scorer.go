package pipeline

import (
	"math"
	"strings"
	"time"
)

// ScoreContext carries the caller-side inputs to a scoring call.
type ScoreContext struct {
	Hints      ContextHints
	Historical []HistoricalSample
}

// Scorer computes the four headline metrics plus the factor breakdown.
// It is deterministic given identical inputs and a fixed clock.
type Scorer struct {
	weights Weights
	clock   func() time.Time
}

func NewScorer(weights Weights, clock func() time.Time) *Scorer {
	if clock == nil {
		clock = time.Now
	}
	return &Scorer{weights: weights, clock: clock}
}

var (
	viralMarkers       = []string{"viral", "trending", "🔥", "📱"}
	triggerMarkers     = []string{"?", "comment", "share", "tag"}
	ctaMarkers         = []string{"click", "visit", "learn more", "follow"}
	brandMarkers       = []string{"brand", "launch", "official", "introducing"}
	conversionMarkers  = []string{"buy", "purchase", "order", "shop"}
	leadGenMarkers     = []string{"contact", "email", "sign up", "dm us"}
	controversyMarkers = []string{"unpopular opinion", "hot take", "controversial", "debate"}
	educationalMarkers = []string{"how to", "tips", "guide", "learn"}
)

var optimalHours = map[int]bool{9: true, 12: true, 15: true, 18: true, 21: true}

func containsAny(lower string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func (s *Scorer) Score(d Deliverable, signals SignalSet, sctx ScoreContext) Scores {
	lower := strings.ToLower(d.Text)
	profile, hasProfile := platformProfiles[d.Platform]
	hour := s.clock().Hour()

	contentQuality := s.contentQuality(d)
	trending := s.trendingPotential(d, lower, hour)
	audienceEng := s.audienceEngagement(d, lower, signals, sctx)
	platformOpt := s.platformOptimization(d, hasProfile, profile, hour)
	uniqueness := s.uniqueness(d)
	businessFactor := s.businessFactor(lower)

	fw := s.weights.Factors
	viral := int(math.Round(
		fw.ContentQuality*float64(contentQuality) +
			fw.TrendingPotential*float64(trending) +
			fw.AudienceEngagement*float64(audienceEng) +
			fw.PlatformOptimization*float64(platformOpt) +
			fw.Uniqueness*float64(uniqueness) +
			fw.BusinessValue*float64(businessFactor)))
	viral = clampScore(viral)

	engagement := s.engagementPrediction(lower, profile, hasProfile)
	reach := s.reachPrediction(viral, profile, hasProfile)
	business := s.businessValue(d, lower, profile, hasProfile)
	confidence := s.confidence(d, sctx)

	factors := FactorBreakdown{
		ContentQuality:       contentQuality,
		TrendingPotential:    trending,
		AudienceEngagement:   audienceEng,
		PlatformOptimization: platformOpt,
		Uniqueness:           uniqueness,
		BusinessValue:        businessFactor,
		Timing:               s.timingScore(hasProfile, profile, hour),
		Audience:             audienceEng,
		Platform:             platformOpt,
		Hashtags:             hashtagScore(d),
		Strategy:             clampScore(int(math.Round(s.weights.Sort.ViralScore*float64(viral) + s.weights.Sort.BusinessValue*float64(business)))),
	}

	return Scores{
		ViralScore:           viral,
		EngagementPrediction: engagement,
		ReachPrediction:      reach,
		BusinessValue:        business,
		Confidence:           confidence,
		Factors:              factors,
		Recommendations:      buildRecommendations(factors, viral, engagement, confidence),
		Timeline: Projection{
			Immediate: int(math.Round(0.3 * float64(engagement))),
			ShortTerm: int(math.Round(0.7 * float64(engagement))),
			LongTerm:  engagement,
		},
	}
}

func (s *Scorer) contentQuality(d Deliverable) int {
	score := 0
	if len(d.Text) > 50 {
		score += 20
	}
	if len(d.Visuals) > 0 {
		score += 30
	}
	if len(d.Audio) > 0 {
		score += 20
	}
	if len(d.Interactive) > 0 {
		score += 30
	}
	return clampScore(score)
}

func (s *Scorer) trendingPotential(d Deliverable, lower string, hour int) int {
	score := 0
	for _, topic := range trendingTopics {
		if strings.Contains(topic, " ") {
			if strings.Contains(lower, topic) {
				score += 40
				break
			}
			continue
		}
		if containsWord(lower, topic) {
			score += 40
			break
		}
	}
	if isHighVirality(d.Platform) {
		score += 30
	}
	if optimalHours[hour] {
		score += 20
	}
	if containsAny(lower, viralMarkers) {
		score += 10
	}
	return clampScore(score)
}

func (s *Scorer) audienceEngagement(d Deliverable, lower string, signals SignalSet, sctx ScoreContext) int {
	score := 0
	if len(sctx.Hints.TargetAudience) > 0 || len(signals.Audience.Demographics) > 0 {
		score += 30
	}
	if containsAny(lower, triggerMarkers) {
		score += 25
	}
	if containsAny(lower, ctaMarkers) {
		score += 20
	}
	if len(d.Interactive) > 0 {
		score += 25
	}
	return clampScore(score)
}

func (s *Scorer) platformOptimization(d Deliverable, hasProfile bool, profile ConstraintProfile, hour int) int {
	score := 0
	if hasProfile {
		score += 40
	}
	if strings.Contains(d.Text, "#") || len(d.Optimization.Hashtags) > 0 {
		score += 30
	}
	if hasProfile && profile.inPostingWindow(hour) {
		score += 20
	}
	if hasProfile && profile.prefers(d.Format) {
		score += 10
	}
	return clampScore(score)
}

func (s *Scorer) uniqueness(d Deliverable) int {
	score := 40 + 20 // baseline originality + baseline differentiation
	if len(d.Visuals) > 0 {
		score += 30
	}
	if len(d.Interactive) > 0 {
		score += 10
	}
	return clampScore(score)
}

func (s *Scorer) businessFactor(lower string) int {
	score := 0
	conversion := containsAny(lower, conversionMarkers)
	leadGen := containsAny(lower, leadGenMarkers)
	if containsAny(lower, brandMarkers) {
		score += 30
	}
	if conversion {
		score += 25
	}
	if leadGen {
		score += 25
	}
	if conversion || leadGen {
		score += 20
	}
	return clampScore(score)
}

// Base engagement rates per interaction type, in percent.
const (
	baseLikeRate    = 4.0
	baseCommentRate = 1.0
	baseShareRate   = 0.5
	baseSaveRate    = 0.8
)

const fallbackEngagementRate = 2.0

// engagementPrediction combines four per-interaction models, weighted and
// normalized against the platform's average engagement rate.
func (s *Scorer) engagementPrediction(lower string, profile ConstraintProfile, hasProfile bool) int {
	likes := baseLikeRate
	comments := baseCommentRate
	shares := baseShareRate
	saves := baseSaveRate

	if strings.Contains(lower, "!") {
		likes += 1.0
	}
	if strings.Contains(lower, "?") {
		comments += 1.5
	}
	if containsAny(lower, controversyMarkers) {
		comments += 0.8
		shares += 1.2
	}
	if containsAny(lower, educationalMarkers) {
		shares += 0.5
		saves += 1.5
	}

	ew := s.weights.Engagement
	combined := ew.Likes*likes + ew.Comments*comments + ew.Shares*shares + ew.Saves*saves

	avg := fallbackEngagementRate
	if hasProfile && profile.AvgEngagementRate > 0 {
		avg = profile.AvgEngagementRate
	}
	return clampScore(int(math.Round(combined / avg * 50)))
}

func (s *Scorer) reachPrediction(viral int, profile ConstraintProfile, hasProfile bool) int {
	mult := 1.0
	if hasProfile {
		mult = profile.ReachMultiplier
	}
	reach := int(math.Round(float64(s.weights.BaseReach) * float64(viral) / 100 * mult))
	if reach < 0 {
		return 0
	}
	return reach
}

func (s *Scorer) businessValue(d Deliverable, lower string, profile ConstraintProfile, hasProfile bool) int {
	score := 50
	if hasProfile {
		score += int(math.Round(profile.BusinessValueBonus * 20))
	}
	if containsAny(lower, brandMarkers) || containsAny(lower, conversionMarkers) || containsAny(lower, leadGenMarkers) {
		score += 20
	}
	if containsAny(lower, ctaMarkers) || d.Optimization.CallToAction != "" {
		score += 15
	}
	if !strings.Contains(d.Text, "!") && !strings.Contains(d.Text, "?") {
		score += 10
	}
	return clampScore(score)
}

const confidenceCap = 95

func (s *Scorer) confidence(d Deliverable, sctx ScoreContext) int {
	score := 70
	if len(sctx.Historical) > 0 {
		score += 15
	}
	if len(sctx.Hints.TargetAudience) > 0 {
		score += 10
	}
	if len(d.Optimization.Hashtags) > 0 {
		score += 5
	}
	if score > confidenceCap {
		return confidenceCap
	}
	return score
}

func (s *Scorer) timingScore(hasProfile bool, profile ConstraintProfile, hour int) int {
	score := 0
	if optimalHours[hour] {
		score += 50
	}
	if hasProfile && profile.inPostingWindow(hour) {
		score += 50
	}
	return score
}

func hashtagScore(d Deliverable) int {
	n := strings.Count(d.Text, "#")
	if n == 0 {
		n = len(d.Optimization.Hashtags)
	}
	return clampScore(n * 10)
}

func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func buildRecommendations(f FactorBreakdown, viral, engagement, confidence int) Recommendations {
	rec := Recommendations{
		Improvements:  []string{},
		Optimizations: []string{},
		Risks:         []string{},
		Opportunities: []string{},
	}
	if f.ContentQuality < 70 {
		rec.Improvements = append(rec.Improvements, "Add visual assets; content with visuals scores materially higher.")
	}
	if f.AudienceEngagement < 50 {
		rec.Improvements = append(rec.Improvements, "Ask a direct question or add a call to action to invite replies.")
	}
	if f.TrendingPotential < 50 {
		rec.Optimizations = append(rec.Optimizations, "Fold in a trending topic or publish during peak hours.")
	}
	if f.PlatformOptimization < 60 {
		rec.Optimizations = append(rec.Optimizations, "Add platform hashtags and post inside the recommended window.")
	}
	if engagement < 40 {
		rec.Risks = append(rec.Risks, "Predicted engagement is low; rework the hook before publishing.")
	}
	if confidence < 80 {
		rec.Risks = append(rec.Risks, "Prediction confidence is limited; feed back recorded outcomes to tighten estimates.")
	}
	if f.BusinessValue < 40 {
		rec.Opportunities = append(rec.Opportunities, "Add a conversion or lead-capture hook if this content should drive revenue.")
	}
	if viral > 80 {
		rec.Opportunities = append(rec.Opportunities, "High viral potential; consider paid amplification while momentum lasts.")
	}
	return rec
}
