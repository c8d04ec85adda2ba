package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights holds every tunable scoring constant. The defaults are carried
// over verbatim from the original tuning; treat overrides as deliberate
// retuning, not corrections.
type Weights struct {
	Factors    FactorWeights     `yaml:"factors"`
	Engagement EngagementWeights `yaml:"engagement"`
	BaseReach  int               `yaml:"base_reach"`
	Sort       SortWeights       `yaml:"sort"`
}

// FactorWeights combine the six sub-algorithm partials into the viral score.
// They must sum to 1.0.
type FactorWeights struct {
	ContentQuality       float64 `yaml:"content_quality"`
	TrendingPotential    float64 `yaml:"trending_potential"`
	AudienceEngagement   float64 `yaml:"audience_engagement"`
	PlatformOptimization float64 `yaml:"platform_optimization"`
	Uniqueness           float64 `yaml:"uniqueness"`
	BusinessValue        float64 `yaml:"business_value"`
}

// EngagementWeights combine the four engagement-type models. They must sum
// to 1.0.
type EngagementWeights struct {
	Likes    float64 `yaml:"likes"`
	Comments float64 `yaml:"comments"`
	Shares   float64 `yaml:"shares"`
	Saves    float64 `yaml:"saves"`
}

// SortWeights define the ranked-output ordering key.
type SortWeights struct {
	ViralScore    float64 `yaml:"viral_score"`
	BusinessValue float64 `yaml:"business_value"`
}

func DefaultWeights() Weights {
	return Weights{
		Factors: FactorWeights{
			ContentQuality:       0.25,
			TrendingPotential:    0.20,
			AudienceEngagement:   0.20,
			PlatformOptimization: 0.15,
			Uniqueness:           0.10,
			BusinessValue:        0.10,
		},
		Engagement: EngagementWeights{
			Likes:    0.4,
			Comments: 0.3,
			Shares:   0.2,
			Saves:    0.1,
		},
		BaseReach: 1000,
		Sort: SortWeights{
			ViralScore:    0.6,
			BusinessValue: 0.4,
		},
	}
}

// LoadWeights reads a YAML override file on top of the defaults. Zero-valued
// fields in the file keep their defaults.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	blob, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read weights: %w", err)
	}
	var override Weights
	if err := yaml.Unmarshal(blob, &override); err != nil {
		return w, fmt.Errorf("parse weights: %w", err)
	}
	merge := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	merge(&w.Factors.ContentQuality, override.Factors.ContentQuality)
	merge(&w.Factors.TrendingPotential, override.Factors.TrendingPotential)
	merge(&w.Factors.AudienceEngagement, override.Factors.AudienceEngagement)
	merge(&w.Factors.PlatformOptimization, override.Factors.PlatformOptimization)
	merge(&w.Factors.Uniqueness, override.Factors.Uniqueness)
	merge(&w.Factors.BusinessValue, override.Factors.BusinessValue)
	merge(&w.Engagement.Likes, override.Engagement.Likes)
	merge(&w.Engagement.Comments, override.Engagement.Comments)
	merge(&w.Engagement.Shares, override.Engagement.Shares)
	merge(&w.Engagement.Saves, override.Engagement.Saves)
	merge(&w.Sort.ViralScore, override.Sort.ViralScore)
	merge(&w.Sort.BusinessValue, override.Sort.BusinessValue)
	if override.BaseReach != 0 {
		w.BaseReach = override.BaseReach
	}
	if err := w.validate(); err != nil {
		return DefaultWeights(), err
	}
	return w, nil
}

func (w Weights) validate() error {
	factorSum := w.Factors.ContentQuality + w.Factors.TrendingPotential + w.Factors.AudienceEngagement +
		w.Factors.PlatformOptimization + w.Factors.Uniqueness + w.Factors.BusinessValue
	if factorSum < 0.999 || factorSum > 1.001 {
		return NewConfigurationError(fmt.Sprintf("factor weights sum to %.3f, want 1.0", factorSum))
	}
	engSum := w.Engagement.Likes + w.Engagement.Comments + w.Engagement.Shares + w.Engagement.Saves
	if engSum < 0.999 || engSum > 1.001 {
		return NewConfigurationError(fmt.Sprintf("engagement weights sum to %.3f, want 1.0", engSum))
	}
	if w.BaseReach < 0 {
		return NewConfigurationError("base_reach must be non-negative")
	}
	return nil
}
