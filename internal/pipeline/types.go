package pipeline

import "time"

const Disclaimer = "Scores are heuristic predictions derived from static rule tables, not measured performance. " +
	"Use them to rank and iterate on drafts, not as guarantees of reach or engagement."

const (
	CapabilityContentPipeline = "content-synthesis-pipeline"
	MaxPromptChars            = 20000
)

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
)

// AllPlatforms is the closed set of supported platforms, in scoring tie-break order.
var AllPlatforms = []Platform{
	PlatformInstagram,
	PlatformTikTok,
	PlatformYouTube,
	PlatformLinkedIn,
	PlatformTwitter,
	PlatformFacebook,
}

type Format string

const (
	FormatPost     Format = "post"
	FormatVideo    Format = "video"
	FormatStory    Format = "story"
	FormatReel     Format = "reel"
	FormatCarousel Format = "carousel"
	FormatLive     Format = "live"
)

var AllFormats = []Format{FormatPost, FormatVideo, FormatStory, FormatReel, FormatCarousel, FormatLive}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type RunMode string

const (
	RunModeFull    RunMode = "full"
	RunModePost    RunMode = "post"
	RunModeVideo   RunMode = "video"
	RunModeAnalyze RunMode = "analyze"
)

// ContextHints is the caller-supplied targeting context. Every field is
// optional; empty values simply contribute nothing to classification or
// scoring.
type ContextHints struct {
	Industry       string   `json:"industry,omitempty"`
	Platform       Platform `json:"platform,omitempty"`
	TargetAudience []string `json:"target_audience,omitempty"`
	BusinessGoals  []string `json:"business_goals,omitempty"`
	EmotionalTone  string   `json:"emotional_tone,omitempty"`
	Urgency        string   `json:"urgency,omitempty"`
	Budget         string   `json:"budget,omitempty"`
	Timeline       string   `json:"timeline,omitempty"`
}

type Prompt struct {
	Text    string       `json:"text"`
	Context ContextHints `json:"context,omitempty"`
}

// --- Signal Set ---

type IntentSignal struct {
	Primary    string   `json:"primary"`
	Secondary  []string `json:"secondary"`
	Confidence int      `json:"confidence"`
}

type EmotionSignal struct {
	Detected  []string  `json:"detected"`
	Intensity int       `json:"intensity"`
	Sentiment Sentiment `json:"sentiment"`
}

type ContentTypeSuggestion struct {
	Type     Format `json:"type"`
	Priority int    `json:"priority"`
}

type PlatformRecommendation struct {
	Platform       Platform `json:"platform"`
	AdaptationNote string   `json:"adaptation_note"`
}

type KeywordSignal struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
	Trending  []string `json:"trending"`
}

type AudienceSignal struct {
	Demographics []string `json:"demographics"`
	Interests    []string `json:"interests"`
	Behavior     []string `json:"behavior"`
}

// SignalSet is the structured interpretation of a raw prompt. It is derived
// once per run and read-only afterwards; every later stage consumes it.
type SignalSet struct {
	Intent       IntentSignal             `json:"intent"`
	Emotions     EmotionSignal            `json:"emotions"`
	ContentTypes []ContentTypeSuggestion  `json:"content_type_suggestions"`
	Platforms    []PlatformRecommendation `json:"platform_recommendations"`
	Keywords     KeywordSignal            `json:"keywords"`
	Audience     AudienceSignal           `json:"audience"`
}

// --- Enhanced Text ---

type Improvements struct {
	Hooks             []string `json:"hooks"`
	ViralElements     []string `json:"viral_elements"`
	Triggers          []string `json:"triggers"`
	CallsToAction     []string `json:"calls_to_action"`
	Hashtags          []string `json:"hashtags"`
	VisualSuggestions []string `json:"visual_suggestions"`
	AudioSuggestions  []string `json:"audio_suggestions"`
}

type EnhancementMetrics struct {
	EngagementBoost    int `json:"engagement_boost"`
	ViralPotential     int `json:"viral_potential"`
	ClarityImprovement int `json:"clarity_improvement"`
	EmotionalImpact    int `json:"emotional_impact"`
}

type Variations struct {
	Short        string `json:"short"`
	Medium       string `json:"medium"`
	Long         string `json:"long"`
	Professional string `json:"professional"`
	Casual       string `json:"casual"`
	Urgent       string `json:"urgent"`
}

type EnhancedText struct {
	OriginalText string             `json:"original_text"`
	EnhancedText string             `json:"enhanced_text"`
	Improvements Improvements       `json:"improvements"`
	Metrics      EnhancementMetrics `json:"metrics"`
	Variations   Variations         `json:"variations"`
}

// --- Deliverable ---

type VisualAsset struct {
	Type            string `json:"type"`
	Locator         string `json:"locator"`
	Description     string `json:"description"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Style           string `json:"style,omitempty"`
}

type AudioAsset struct {
	Type            string `json:"type"`
	Locator         string `json:"locator"`
	Description     string `json:"description"`
	DurationSeconds int    `json:"duration_seconds"`
	Style           string `json:"style,omitempty"`
}

type InteractiveElement struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Placement   string `json:"placement,omitempty"`
}

type Optimization struct {
	BestPostingTime    string   `json:"best_posting_time"`
	Hashtags           []string `json:"hashtags"`
	Description        string   `json:"description"`
	Title              string   `json:"title"`
	CallToAction       string   `json:"call_to_action"`
	EngagementStrategy string   `json:"engagement_strategy"`
}

type Deliverable struct {
	ID           string               `json:"id"`
	Platform     Platform             `json:"platform"`
	Format       Format               `json:"format"`
	Text         string               `json:"text"`
	Visuals      []VisualAsset        `json:"visuals"`
	Audio        []AudioAsset         `json:"audio"`
	Interactive  []InteractiveElement `json:"interactive_elements"`
	Scores       *Scores              `json:"scores,omitempty"`
	Optimization Optimization         `json:"optimization"`
	Variants     Variations           `json:"variants"`
}

// --- Scores ---

type FactorBreakdown struct {
	ContentQuality       int `json:"content_quality"`
	TrendingPotential    int `json:"trending_potential"`
	AudienceEngagement   int `json:"audience_engagement"`
	PlatformOptimization int `json:"platform_optimization"`
	Uniqueness           int `json:"uniqueness"`
	BusinessValue        int `json:"business_value"`
	Timing               int `json:"timing"`
	Audience             int `json:"audience"`
	Platform             int `json:"platform"`
	Hashtags             int `json:"hashtags"`
	Strategy             int `json:"strategy"`
}

type Recommendations struct {
	Improvements  []string `json:"improvements"`
	Optimizations []string `json:"optimizations"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
}

// Projection scales the engagement prediction across a three-point timeline
// (24h / 7d / 4w).
type Projection struct {
	Immediate int `json:"immediate"`
	ShortTerm int `json:"short_term"`
	LongTerm  int `json:"long_term"`
}

type Scores struct {
	ViralScore           int             `json:"viral_score"`
	EngagementPrediction int             `json:"engagement_prediction"`
	ReachPrediction      int             `json:"reach_prediction"`
	BusinessValue        int             `json:"business_value"`
	Confidence           int             `json:"confidence"`
	Factors              FactorBreakdown `json:"factor_breakdown"`
	Recommendations      Recommendations `json:"recommendations"`
	Timeline             Projection      `json:"timeline"`
}

// HistoricalSample is one recorded engagement outcome, fed back into a later
// scoring call to raise confidence. The core never reads a data store itself;
// callers pass samples in.
type HistoricalSample struct {
	Platform   Platform  `json:"platform"`
	Format     Format    `json:"format"`
	Likes      int       `json:"likes"`
	Comments   int       `json:"comments"`
	Shares     int       `json:"shares"`
	Saves      int       `json:"saves"`
	Reach      int       `json:"reach"`
	RecordedAt time.Time `json:"recorded_at"`
}

// --- Run envelope ---

type Request struct {
	Text               string             `json:"text"`
	Context            ContextHints       `json:"context,omitempty"`
	Mode               RunMode            `json:"mode,omitempty"`
	Seed               int64              `json:"seed,omitempty"`
	IncludeVisuals     bool               `json:"include_visuals,omitempty"`
	IncludeAudio       bool               `json:"include_audio,omitempty"`
	IncludeInteractive bool               `json:"include_interactive,omitempty"`
	Historical         []HistoricalSample `json:"historical_data,omitempty"`
}

// Warning names one dropped (format, platform) combination. The run itself
// still succeeds; callers surface warnings to end users.
type Warning struct {
	Format   Format   `json:"format"`
	Platform Platform `json:"platform"`
	Reason   string   `json:"reason"`
}

type Summary struct {
	TotalGenerated int        `json:"total_generated"`
	Platforms      []Platform `json:"platforms"`
	Formats        []Format   `json:"formats"`
	AvgViralScore  float64    `json:"avg_viral_score"`
	AvgEngagement  float64    `json:"avg_engagement_prediction"`
}

type RunMetadata struct {
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	Mode           RunMode   `json:"mode"`
	Seed           int64     `json:"seed"`
	StagesExecuted []string  `json:"stages_executed"`
	InputTruncated bool      `json:"input_truncated"`
}

type Result struct {
	RunID        string        `json:"run_id"`
	Signals      SignalSet     `json:"signals"`
	Enhanced     EnhancedText  `json:"enhanced"`
	Deliverables []Deliverable `json:"deliverables"`
	Summary      Summary       `json:"summary"`
	Warnings     []Warning     `json:"warnings"`
	Metadata     RunMetadata   `json:"metadata"`
}

// Status reports component availability and the static capability list for
// health probes.
type Status struct {
	Components   map[string]bool `json:"components"`
	Capabilities []string        `json:"capabilities"`
	Platforms    []Platform      `json:"platforms"`
	Formats      []Format        `json:"formats"`
}
