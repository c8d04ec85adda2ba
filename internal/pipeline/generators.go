package pipeline

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// GenerateOptions control the optional descriptor producers and the text
// style transform. Style comes from the caller's emotional-tone hint.
type GenerateOptions struct {
	IncludeVisuals     bool
	IncludeAudio       bool
	IncludeInteractive bool
	Style              string
}

// Generator produces one Deliverable per (format, platform) call. Scores are
// left unset; the Performance Scorer fills them in a later stage.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator { return &Generator{rng: rng} }

type formatFunc func(g *Generator, d *Deliverable, enh EnhancedText, signals SignalSet, profile ConstraintProfile, opts GenerateOptions)

// Closed dispatch table: adding a format means adding an enum value, a table
// entry, and profile support.
var formatGenerators = map[Format]formatFunc{
	FormatPost:     (*Generator).generatePost,
	FormatVideo:    (*Generator).generateVideo,
	FormatStory:    (*Generator).generateStory,
	FormatReel:     (*Generator).generateReel,
	FormatCarousel: (*Generator).generateCarousel,
	FormatLive:     (*Generator).generateLive,
}

func (g *Generator) Generate(format Format, enh EnhancedText, signals SignalSet, platform Platform, opts GenerateOptions) (Deliverable, error) {
	gen, ok := formatGenerators[format]
	if !ok {
		return Deliverable{}, NewUnsupportedFormatError(format, "")
	}
	profile, err := ProfileFor(platform)
	if err != nil {
		return Deliverable{}, err
	}
	if !profile.supports(format) {
		return Deliverable{}, NewUnsupportedFormatError(format, platform)
	}

	text := enh.EnhancedText
	text = augmentForPlatform(text, profile, signals)
	text = applyStyle(text, opts.Style)
	text = text + "\n\n" + engagementTriggers[g.rng.Intn(len(engagementTriggers))]
	text = capHashtags(text, profile.HashtagCap)
	text = truncateWithEllipsis(text, profile.MaxTextLength)

	d := Deliverable{
		ID:          uuid.NewString(),
		Platform:    platform,
		Format:      format,
		Text:        text,
		Visuals:     []VisualAsset{},
		Audio:       []AudioAsset{},
		Interactive: []InteractiveElement{},
		Variants:    enh.Variations,
	}
	d.Optimization = buildOptimization(enh, signals, profile)

	gen(g, &d, enh, signals, profile, opts)

	// The platform length limit is an invariant, not a best effort; the
	// format hook may have rewritten the text.
	d.Text = truncateWithEllipsis(d.Text, profile.MaxTextLength)
	return d, nil
}

func augmentForPlatform(text string, profile ConstraintProfile, signals SignalSet) string {
	switch profile.Platform {
	case PlatformInstagram:
		if !strings.Contains(text, "#") {
			text += "\n\n" + strings.Join(platformHashtagSeeds[PlatformInstagram], " ") + "\n@tag a friend"
		}
	case PlatformTikTok:
		if !strings.HasPrefix(text, "POV:") {
			text = "POV: " + text
		}
		for _, tag := range platformHashtagSeeds[PlatformTikTok] {
			if !strings.Contains(text, tag) {
				text += " " + tag
			}
		}
	case PlatformLinkedIn:
		text = "💼 " + text
		extra := []string{}
		for _, tag := range platformHashtagSeeds[PlatformLinkedIn] {
			if !strings.Contains(text, tag) {
				extra = append(extra, tag)
			}
		}
		if len(extra) > 0 {
			text += "\n\n" + strings.Join(extra, " ")
		}
	case PlatformTwitter:
		added := 0
		for _, tag := range buildHashtags(signals) {
			if added == 2 {
				break
			}
			if !strings.Contains(text, tag) {
				text += " " + tag
				added++
			}
		}
	}
	return text
}

func applyStyle(text, style string) string {
	switch style {
	case "professional":
		return strings.NewReplacer("!", ".", "?", ".").Replace(text)
	case "dramatic":
		return "⚠️ " + strings.ToUpper(text) + " ⚠️"
	case "minimalist":
		return strings.Map(func(r rune) rune {
			switch {
			case r == '#' || r == '@' || r == '\'':
				return r
			case r == ' ' || r == '\n':
				return r
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
				return r
			case r > 127: // keep emoji and non-ASCII letters
				return r
			}
			return -1
		}, text)
	}
	return text
}

// capHashtags drops hashtag tokens beyond the platform cap, preserving the
// rest of the text and the order of the surviving tags.
func capHashtags(text string, limit int) string {
	if strings.Count(text, "#") <= limit {
		return text
	}
	kept := 0
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		words := strings.Fields(line)
		out := words[:0]
		for _, w := range words {
			if strings.HasPrefix(w, "#") {
				if kept >= limit {
					continue
				}
				kept++
			}
			out = append(out, w)
		}
		if len(out) != len(words) {
			lines[i] = strings.Join(out, " ")
		}
	}
	return strings.Join(lines, "\n")
}

func truncateWithEllipsis(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return strings.TrimRight(string(runes[:max-3]), " \n") + "..."
}

func buildOptimization(enh EnhancedText, signals SignalSet, profile ConstraintProfile) Optimization {
	hashtags := buildHashtags(signals)
	if len(hashtags) > profile.HashtagCap {
		hashtags = hashtags[:profile.HashtagCap]
	}

	cta := ""
	if ctas := callsToActionByIntent[signals.Intent.Primary]; len(ctas) > 0 {
		cta = ctas[0]
	} else {
		cta = callsToActionByIntent[IntentGeneral][0]
	}

	bestTime := ""
	if len(profile.BestPostingWindows) > 0 {
		bestTime = profile.BestPostingWindows[0].String()
	}

	return Optimization{
		BestPostingTime: bestTime,
		Hashtags:        hashtags,
		Description:     buildDescription(enh.EnhancedText),
		Title:           buildTitle(enh.OriginalText),
		CallToAction:    cta,
		// EngagementStrategy is spliced in after scoring.
	}
}

func buildDescription(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) > 160 {
		return string(runes[:157]) + "..."
	}
	return flat
}

// buildTitle takes the first six words of the original prompt.
func buildTitle(original string) string {
	words := strings.Fields(original)
	if len(words) <= 6 {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:6], " ") + "..."
}

// --- format hooks ---

func (g *Generator) generatePost(d *Deliverable, enh EnhancedText, signals SignalSet, profile ConstraintProfile, opts GenerateOptions) {
	if opts.IncludeVisuals {
		d.Visuals = append(d.Visuals, imageAsset(d, profile, "hero image for the post"))
	}
	if opts.IncludeInteractive {
		d.Interactive = append(d.Interactive, InteractiveElement{Type: "question", Description: "Comment prompt tied to the post topic", Placement: "caption"})
	}
}

func (g *Generator) generateVideo(d *Deliverable, enh EnhancedText, signals SignalSet, profile ConstraintProfile, opts GenerateOptions) {
	duration := clampDuration(60, profile)
	if opts.IncludeVisuals {
		d.Visuals = append(d.Visuals, videoAsset(d, profile, duration, "main video cut"))
	}
	if opts.IncludeAudio {
		d.Audio = append(d.Audio, voiceOverAsset(d, duration))
	}
	if opts.IncludeInteractive {
		d.Interactive = append(d.Interactive, InteractiveElement{Type: "pinned_comment", Description: "Pinned comment with the call to action", Placement: "comments"})
	}
}

func (g *Generator) generateStory(d *Deliverable, enh EnhancedText, signals SignalSet, profile ConstraintProfile, opts GenerateOptions) {
	if opts.IncludeVisuals {
		v := imageAsset(d, profile, "full-bleed story frame")
		v.Width, v.Height = 1080, 1920
		v.Type = "story_frame"
		d.Visuals = append(d.Visuals, v)
	}
	if opts.IncludeInteractive {
		d.Interactive = append(d.Interactive,
			InteractiveElement{Type: "poll", Description: "Two-option poll sticker", Placement: "center"},
			InteractiveElement{Type: "swipe_up", Description: "Link sticker to the destination", Placement: "bottom"},
		)
	}
}

func (g *Generator) generateReel(d *Deliverable, enh EnhancedText, signals SignalSet, profile ConstraintProfile, opts GenerateOptions) {
	duration := clampDuration(30, profile)
	if opts.IncludeVisuals {
		v := videoAsset(d, profile, duration, "vertical fast-cut edit")
		v.Width, v.Height = 1080, 1920
		d.Visuals = append(d.Visuals, v)
	}
	if opts.IncludeAudio {
		d.Audio = append(d.Audio,
			AudioAsset{Type: "trending_audio", Locator: placeholderLocator(d, "audio"), Description: "Licensed trending audio bed", DurationSeconds: duration},
			voiceOverAsset(d, duration),
		)
	}
	if opts.IncludeInteractive {
		d.Interactive = append(d.Interactive, InteractiveElement{Type: "caption_hook", Description: "First-frame text hook", Placement: "top"})
	}
}

const carouselCharsPerSlide = 200

func carouselSlideCount(textLen int) int {
	slides := (textLen + carouselCharsPerSlide - 1) / carouselCharsPerSlide
	if slides < 3 {
		return 3
	}
	if slides > 10 {
		return 10
	}
	return slides
}

func (g *Generator) generateCarousel(d *Deliverable, enh EnhancedText, signals SignalSet, profile ConstraintProfile, opts GenerateOptions) {
	slides := carouselSlideCount(len(d.Text))
	if opts.IncludeVisuals {
		for i := 1; i <= slides; i++ {
			v := imageAsset(d, profile, "carousel slide")
			v.Type = "carousel_slide"
			v.Description = v.Description + " " + slideLabel(i, slides)
			d.Visuals = append(d.Visuals, v)
		}
	}
	if opts.IncludeInteractive {
		d.Interactive = append(d.Interactive, InteractiveElement{Type: "swipe_prompt", Description: "Swipe cue on the first slide", Placement: "slide 1"})
	}
}

func (g *Generator) generateLive(d *Deliverable, enh EnhancedText, signals SignalSet, profile ConstraintProfile, opts GenerateOptions) {
	if opts.IncludeInteractive {
		d.Interactive = append(d.Interactive,
			InteractiveElement{Type: "live_qa", Description: "Audience Q&A segment", Placement: "second half"},
			InteractiveElement{Type: "live_poll", Description: "Mid-stream poll to keep viewers active", Placement: "midpoint"},
		)
	}
	if opts.IncludeVisuals {
		d.Visuals = append(d.Visuals, imageAsset(d, profile, "stream cover card"))
	}
}
