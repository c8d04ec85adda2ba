package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResponseEnvelope is the outward-facing shape of a completed run: the raw
// result plus a human-readable markdown report.
type ResponseEnvelope struct {
	RunID          string      `json:"run_id"`
	Result         Result      `json:"result"`
	ReportMarkdown string      `json:"report_markdown"`
	Metadata       RunMetadata `json:"metadata"`
	Disclaimer     string      `json:"disclaimer"`
}

func BuildResponse(result Result) ResponseEnvelope {
	return ResponseEnvelope{
		RunID:          result.RunID,
		Result:         result,
		ReportMarkdown: buildMarkdown(result),
		Metadata:       result.Metadata,
		Disclaimer:     Disclaimer,
	}
}

func buildMarkdown(result Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Content Synthesis Report\n\n")
	fmt.Fprintf(&b, "- Run ID: %s\n", result.RunID)
	fmt.Fprintf(&b, "- Date: %s\n", result.Metadata.CompletedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Mode: %s\n", result.Metadata.Mode)
	fmt.Fprintf(&b, "- Seed: %d\n\n", result.Metadata.Seed)
	fmt.Fprintf(&b, "%s\n\n", Disclaimer)

	if result.Metadata.InputTruncated {
		fmt.Fprintf(&b, "> NOTE: the input prompt exceeded %d characters and was truncated before analysis.\n\n", MaxPromptChars)
	}

	// --- Prompt Analysis ---
	fmt.Fprintf(&b, "## Prompt Analysis\n\n")
	fmt.Fprintf(&b, "- Primary intent: `%s` (confidence %d)\n", sanitize(result.Signals.Intent.Primary), result.Signals.Intent.Confidence)
	if len(result.Signals.Intent.Secondary) > 0 {
		fmt.Fprintf(&b, "- Secondary intents: %s\n", strings.Join(result.Signals.Intent.Secondary, ", "))
	}
	fmt.Fprintf(&b, "- Sentiment: `%s` (intensity %d)\n", result.Signals.Emotions.Sentiment, result.Signals.Emotions.Intensity)
	if len(result.Signals.Emotions.Detected) > 0 {
		fmt.Fprintf(&b, "- Detected emotions: %s\n", strings.Join(result.Signals.Emotions.Detected, ", "))
	}
	if len(result.Signals.Keywords.Primary) > 0 {
		fmt.Fprintf(&b, "- Primary keywords: %s\n", strings.Join(result.Signals.Keywords.Primary, ", "))
	}
	if len(result.Signals.Keywords.Trending) > 0 {
		fmt.Fprintf(&b, "- Trending matches: %s\n", strings.Join(result.Signals.Keywords.Trending, ", "))
	}
	fmt.Fprintf(&b, "\n")

	if len(result.Signals.Platforms) > 0 {
		fmt.Fprintf(&b, "### Recommended Platforms\n\n")
		fmt.Fprintf(&b, "| Platform | Adaptation Note |\n|----------|----------------|\n")
		for _, rec := range result.Signals.Platforms {
			fmt.Fprintf(&b, "| %s | %s |\n", rec.Platform, sanitizeCell(rec.AdaptationNote))
		}
		fmt.Fprintf(&b, "\n")
	}
	if len(result.Signals.ContentTypes) > 0 {
		fmt.Fprintf(&b, "### Suggested Formats\n\n")
		for _, s := range result.Signals.ContentTypes {
			fmt.Fprintf(&b, "- `%s` (priority %d)\n", s.Type, s.Priority)
		}
		fmt.Fprintf(&b, "\n")
	}
	fmt.Fprintf(&b, "---\n\n")

	// --- Enhancement ---
	fmt.Fprintf(&b, "## Text Enhancement\n\n")
	fmt.Fprintf(&b, "| Metric | Score |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| Engagement boost | %d |\n", result.Enhanced.Metrics.EngagementBoost)
	fmt.Fprintf(&b, "| Viral potential | %d |\n", result.Enhanced.Metrics.ViralPotential)
	fmt.Fprintf(&b, "| Clarity improvement | %d |\n", result.Enhanced.Metrics.ClarityImprovement)
	fmt.Fprintf(&b, "| Emotional impact | %d |\n\n", result.Enhanced.Metrics.EmotionalImpact)
	if len(result.Enhanced.Improvements.Hooks) > 0 {
		fmt.Fprintf(&b, "- Hooks added: %s\n", sanitize(strings.Join(result.Enhanced.Improvements.Hooks, " / ")))
	}
	if len(result.Enhanced.Improvements.Hashtags) > 0 {
		fmt.Fprintf(&b, "- Hashtags: %s\n", strings.Join(result.Enhanced.Improvements.Hashtags, " "))
	}
	fmt.Fprintf(&b, "\n---\n\n")

	// --- Deliverables ---
	fmt.Fprintf(&b, "## Deliverables\n\n")
	if len(result.Deliverables) == 0 {
		fmt.Fprintf(&b, "No deliverables were generated in `%s` mode.\n\n", result.Metadata.Mode)
	} else {
		fmt.Fprintf(&b, "Ranked best first by the weighted viral and business score.\n\n")
		for i, d := range result.Deliverables {
			fmt.Fprintf(&b, "### %d. %s %s\n\n", i+1, d.Platform, d.Format)
			if d.Scores != nil {
				fmt.Fprintf(&b, "| Viral | Engagement | Reach | Business | Confidence |\n")
				fmt.Fprintf(&b, "|-------|------------|-------|----------|------------|\n")
				fmt.Fprintf(&b, "| %d | %d | %d | %d | %d |\n\n",
					d.Scores.ViralScore, d.Scores.EngagementPrediction, d.Scores.ReachPrediction,
					d.Scores.BusinessValue, d.Scores.Confidence)
			}
			fmt.Fprintf(&b, "```\n%s\n```\n\n", d.Text)
			fmt.Fprintf(&b, "- Best posting time: %s\n", sanitize(d.Optimization.BestPostingTime))
			if len(d.Optimization.Hashtags) > 0 {
				fmt.Fprintf(&b, "- Hashtags: %s\n", strings.Join(d.Optimization.Hashtags, " "))
			}
			fmt.Fprintf(&b, "- Call to action: %s\n", sanitize(d.Optimization.CallToAction))
			fmt.Fprintf(&b, "- Strategy: %s\n", sanitize(d.Optimization.EngagementStrategy))
			if d.Scores != nil {
				writeRecommendations(&b, d.Scores.Recommendations)
			}
			fmt.Fprintf(&b, "\n")
		}
	}
	fmt.Fprintf(&b, "---\n\n")

	// --- Warnings ---
	if len(result.Warnings) > 0 {
		fmt.Fprintf(&b, "## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- [!] %s on %s: %s\n", w.Format, w.Platform, sanitize(w.Reason))
		}
		fmt.Fprintf(&b, "\n---\n\n")
	}

	// --- Summary ---
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Deliverables: %d\n", result.Summary.TotalGenerated)
	fmt.Fprintf(&b, "- Platforms: %s\n", joinPlatforms(result.Summary.Platforms))
	fmt.Fprintf(&b, "- Formats: %s\n", joinFormats(result.Summary.Formats))
	fmt.Fprintf(&b, "- Average viral score: %.1f\n", result.Summary.AvgViralScore)
	fmt.Fprintf(&b, "- Average engagement prediction: %.1f\n\n", result.Summary.AvgEngagement)

	// --- Appendix ---
	fmt.Fprintf(&b, "## Appendix\n\n")
	fmt.Fprintf(&b, "### Signal Set (JSON)\n\n```json\n%s\n```\n", prettyJSON(result.Signals))
	fmt.Fprintf(&b, "\n### Run Metadata (JSON)\n\n```json\n%s\n```\n", prettyJSON(result.Metadata))
	return b.String()
}

func writeRecommendations(b *strings.Builder, rec Recommendations) {
	write := func(label string, items []string) {
		for _, it := range items {
			fmt.Fprintf(b, "- %s: %s\n", label, sanitize(it))
		}
	}
	write("Improve", rec.Improvements)
	write("Optimize", rec.Optimizations)
	write("Risk", rec.Risks)
	write("Opportunity", rec.Opportunities)
}

func joinPlatforms(ps []Platform) string {
	if len(ps) == 0 {
		return "none"
	}
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return strings.Join(out, ", ")
}

func joinFormats(fs []Format) string {
	if len(fs) == 0 {
		return "none"
	}
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return strings.Join(out, ", ")
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// sanitizeCell prepares text for a markdown table cell: no newlines, pipes
// escaped.
func sanitizeCell(s string) string {
	return strings.ReplaceAll(sanitize(s), "|", "\\|")
}
