package pipeline

import "fmt"

// Descriptor producers return placeholder locators, never rendered media.

func placeholderLocator(d *Deliverable, kind string) string {
	return fmt.Sprintf("placeholder://%s/%s/%s/%s", d.Platform, d.Format, kind, d.ID)
}

func aspectDimensions(profile ConstraintProfile) (int, int) {
	const baseWidth = 1080
	if profile.AspectWidth <= 0 || profile.AspectHeight <= 0 {
		return baseWidth, baseWidth
	}
	return baseWidth, baseWidth * profile.AspectHeight / profile.AspectWidth
}

func imageAsset(d *Deliverable, profile ConstraintProfile, description string) VisualAsset {
	w, h := aspectDimensions(profile)
	return VisualAsset{
		Type:        "image",
		Locator:     placeholderLocator(d, "image"),
		Description: description,
		Width:       w,
		Height:      h,
	}
}

func videoAsset(d *Deliverable, profile ConstraintProfile, durationSeconds int, description string) VisualAsset {
	w, h := aspectDimensions(profile)
	return VisualAsset{
		Type:            "video",
		Locator:         placeholderLocator(d, "video"),
		Description:     description,
		Width:           w,
		Height:          h,
		DurationSeconds: durationSeconds,
	}
}

func voiceOverAsset(d *Deliverable, durationSeconds int) AudioAsset {
	return AudioAsset{
		Type:            "voice_over",
		Locator:         placeholderLocator(d, "voiceover"),
		Description:     "Voice-over reading of the script with captions",
		DurationSeconds: durationSeconds,
	}
}

func clampDuration(target int, profile ConstraintProfile) int {
	if target < profile.MinVideoSeconds {
		return profile.MinVideoSeconds
	}
	if profile.MaxVideoSeconds > 0 && target > profile.MaxVideoSeconds {
		return profile.MaxVideoSeconds
	}
	return target
}

func slideLabel(i, total int) string {
	return fmt.Sprintf("(%d of %d)", i, total)
}
