package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentTasks = 6

// Config carries the orchestrator's injectable dependencies. Zero values get
// sensible defaults, so Config{} is a working configuration.
type Config struct {
	Weights Weights
	Clock   func() time.Time
	Logger  *log.Logger
}

// Pipeline runs the full synthesis flow: classify, enhance, generate per
// (format, platform) pair, score, rank.
type Pipeline struct {
	weights    Weights
	clock      func() time.Time
	logger     *log.Logger
	classifier *Classifier
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	if err := cfg.Weights.validate(); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Pipeline{
		weights:    cfg.Weights,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
		classifier: NewClassifier(),
	}, nil
}

// task is one planned (format, platform) generation unit. Each task derives
// its own randomness source from the run seed and its index, so concurrent
// execution stays reproducible.
type task struct {
	index    int
	format   Format
	platform Platform
}

func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	started := p.clock()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Result{}, &StageError{Stage: "validate", Err: NewInvalidInputError("prompt text is empty")}
	}
	truncated := false
	if len([]rune(text)) > MaxPromptChars {
		text = string([]rune(text)[:MaxPromptChars])
		truncated = true
	}

	mode := req.Mode
	if mode == "" {
		mode = RunModeFull
	}
	switch mode {
	case RunModeFull, RunModePost, RunModeVideo, RunModeAnalyze:
	default:
		return Result{}, &StageError{Stage: "validate", Err: NewInvalidInputError(fmt.Sprintf("unknown mode %q", string(mode)))}
	}

	seed := req.Seed
	if seed == 0 {
		seed = p.clock().UnixNano()
	}

	prompt := Prompt{Text: text, Context: req.Context}
	stages := []string{"validate", "classify"}

	signals, err := p.classifier.Classify(prompt)
	if err != nil {
		return Result{}, &StageError{Stage: "classify", Err: err}
	}
	p.logger.Printf("classify: intent=%s confidence=%d platforms=%d", signals.Intent.Primary, signals.Intent.Confidence, len(signals.Platforms))

	enhancer := NewEnhancer(rand.New(rand.NewSource(seed)))
	enhanced := enhancer.Enhance(prompt, signals)
	stages = append(stages, "enhance")

	tasks, warnings := planTasks(mode, signals)

	deliverables := make([]Deliverable, len(tasks))
	if len(tasks) > 0 {
		stages = append(stages, "generate", "score")
		scorer := NewScorer(p.weights, p.clock)
		sctx := ScoreContext{Hints: req.Context, Historical: req.Historical}
		opts := GenerateOptions{
			IncludeVisuals:     req.IncludeVisuals,
			IncludeAudio:       req.IncludeAudio,
			IncludeInteractive: req.IncludeInteractive,
			Style:              req.Context.EmotionalTone,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentTasks)
		for _, t := range tasks {
			t := t
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				gen := NewGenerator(rand.New(rand.NewSource(seed + int64(t.index) + 1)))
				d, err := gen.Generate(t.format, enhanced, signals, t.platform, opts)
				if err != nil {
					return &StageError{Stage: "generate", Err: err}
				}
				scores := scorer.Score(d, signals, sctx)
				d.Scores = &scores
				d.Optimization.EngagementStrategy = engagementStrategy(scores)
				deliverables[t.index] = d
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
		p.logger.Printf("generate: deliverables=%d warnings=%d", len(deliverables), len(warnings))
	}

	stages = append(stages, "rank")
	p.rank(deliverables)

	completed := p.clock()
	return Result{
		RunID:        uuid.NewString(),
		Signals:      signals,
		Enhanced:     enhanced,
		Deliverables: deliverables,
		Summary:      summarize(deliverables),
		Warnings:     warnings,
		Metadata: RunMetadata{
			StartedAt:      started,
			CompletedAt:    completed,
			Mode:           mode,
			Seed:           seed,
			StagesExecuted: stages,
			InputTruncated: truncated,
		},
	}, nil
}

// planTasks expands the run mode into concrete (format, platform) pairs.
// Unsupported pairs are dropped with a warning rather than failing the run.
func planTasks(mode RunMode, signals SignalSet) ([]task, []Warning) {
	if mode == RunModeAnalyze {
		return nil, []Warning{}
	}

	formats := []Format{}
	switch mode {
	case RunModePost:
		formats = []Format{FormatPost}
	case RunModeVideo:
		formats = []Format{FormatVideo}
	default:
		for _, s := range signals.ContentTypes {
			formats = append(formats, s.Type)
		}
		if len(formats) == 0 {
			formats = []Format{FormatPost}
		}
	}

	tasks := []task{}
	warnings := []Warning{}
	for _, f := range formats {
		for _, rec := range signals.Platforms {
			profile, err := ProfileFor(rec.Platform)
			if err != nil {
				warnings = append(warnings, Warning{Format: f, Platform: rec.Platform, Reason: "unknown platform"})
				continue
			}
			if !profile.supports(f) {
				warnings = append(warnings, Warning{
					Format:   f,
					Platform: rec.Platform,
					Reason:   fmt.Sprintf("format %q is not supported on %q", string(f), string(rec.Platform)),
				})
				continue
			}
			tasks = append(tasks, task{index: len(tasks), format: f, platform: rec.Platform})
		}
	}
	return tasks, warnings
}

// rank orders deliverables by the weighted sort key, best first. The sort is
// stable, so equal keys keep generation order.
func (p *Pipeline) rank(ds []Deliverable) {
	key := func(d Deliverable) float64 {
		if d.Scores == nil {
			return 0
		}
		return p.weights.Sort.ViralScore*float64(d.Scores.ViralScore) +
			p.weights.Sort.BusinessValue*float64(d.Scores.BusinessValue)
	}
	sort.SliceStable(ds, func(i, j int) bool { return key(ds[i]) > key(ds[j]) })
}

func engagementStrategy(s Scores) string {
	switch {
	case s.ViralScore > 80:
		return "High viral potential. Post at a peak hour and reply to early comments within the first hour; momentum compounds."
	case s.EngagementPrediction > 70:
		return "Good engagement potential. Reply to every comment in the first two hours and cross-post the strongest variant."
	default:
		return "Focus on community building. Ask follow-up questions in the comments and engage with adjacent accounts."
	}
}

func summarize(ds []Deliverable) Summary {
	s := Summary{
		TotalGenerated: len(ds),
		Platforms:      []Platform{},
		Formats:        []Format{},
	}
	if len(ds) == 0 {
		return s
	}
	seenP := map[Platform]struct{}{}
	seenF := map[Format]struct{}{}
	viralSum, engSum := 0, 0
	for _, d := range ds {
		if _, ok := seenP[d.Platform]; !ok {
			seenP[d.Platform] = struct{}{}
			s.Platforms = append(s.Platforms, d.Platform)
		}
		if _, ok := seenF[d.Format]; !ok {
			seenF[d.Format] = struct{}{}
			s.Formats = append(s.Formats, d.Format)
		}
		if d.Scores != nil {
			viralSum += d.Scores.ViralScore
			engSum += d.Scores.EngagementPrediction
		}
	}
	s.AvgViralScore = float64(viralSum) / float64(len(ds))
	s.AvgEngagement = float64(engSum) / float64(len(ds))
	return s
}

// Classify exposes the analysis stage on its own for callers that only need
// signals.
func (p *Pipeline) Classify(prompt Prompt) (SignalSet, error) {
	return p.classifier.Classify(prompt)
}

// ScoreDeliverable scores a single deliverable outside a full run, for
// re-scoring adapted content or externally produced drafts.
func (p *Pipeline) ScoreDeliverable(d Deliverable, signals SignalSet, sctx ScoreContext) Scores {
	return NewScorer(p.weights, p.clock).Score(d, signals, sctx)
}

func (p *Pipeline) Status() Status {
	return Status{
		Components: map[string]bool{
			"classifier": true,
			"enhancer":   true,
			"generator":  true,
			"scorer":     true,
			"adapter":    true,
		},
		Capabilities: []string{CapabilityContentPipeline},
		Platforms:    AllPlatforms,
		Formats:      AllFormats,
	}
}
