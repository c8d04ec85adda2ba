package pipeline

// Adapt reshapes an already-generated deliverable for a different platform
// without re-running generation. The input deliverable is never mutated; the
// returned copy carries no scores, since scores are only valid for the
// platform they were computed against.
func Adapt(d Deliverable, target Platform) (Deliverable, error) {
	profile, err := ProfileFor(target)
	if err != nil {
		return Deliverable{}, err
	}
	if !profile.supports(d.Format) {
		return Deliverable{}, NewUnsupportedFormatError(d.Format, target)
	}

	out := cloneDeliverable(d)
	out.Platform = target
	out.Scores = nil

	out.Text = capHashtags(out.Text, profile.HashtagCap)
	out.Text = truncateWithEllipsis(out.Text, profile.MaxTextLength)

	out.Optimization.Hashtags = adaptHashtags(d.Optimization.Hashtags, profile)
	if len(profile.BestPostingWindows) > 0 {
		out.Optimization.BestPostingTime = profile.BestPostingWindows[0].String()
	}

	for i := range out.Visuals {
		out.Visuals[i].Width, out.Visuals[i].Height = aspectDimensions(profile)
		if out.Visuals[i].DurationSeconds > profile.MaxVideoSeconds && profile.MaxVideoSeconds > 0 {
			out.Visuals[i].DurationSeconds = profile.MaxVideoSeconds
		}
	}
	for i := range out.Audio {
		if out.Audio[i].DurationSeconds > profile.MaxVideoSeconds && profile.MaxVideoSeconds > 0 {
			out.Audio[i].DurationSeconds = profile.MaxVideoSeconds
		}
	}

	return out, nil
}

// adaptHashtags unions the existing tags with the new platform's seeds, then
// applies the new cap.
func adaptHashtags(existing []string, profile ConstraintProfile) []string {
	merged := make([]string, 0, len(existing)+3)
	merged = append(merged, existing...)
	merged = append(merged, platformHashtagSeeds[profile.Platform]...)
	merged = dedupe(merged)
	if len(merged) > profile.HashtagCap {
		merged = merged[:profile.HashtagCap]
	}
	return merged
}

func cloneDeliverable(d Deliverable) Deliverable {
	out := d
	out.Visuals = append([]VisualAsset(nil), d.Visuals...)
	out.Audio = append([]AudioAsset(nil), d.Audio...)
	out.Interactive = append([]InteractiveElement(nil), d.Interactive...)
	out.Optimization.Hashtags = append([]string(nil), d.Optimization.Hashtags...)
	if d.Scores != nil {
		scores := *d.Scores
		out.Scores = &scores
	}
	return out
}
