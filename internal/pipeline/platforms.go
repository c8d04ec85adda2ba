package pipeline

import "fmt"

// PostingWindow is one recurring slot in a platform's best-time table.
// Hours are local 24h clock; EndHour is exclusive.
type PostingWindow struct {
	Days      string
	StartHour int
	EndHour   int
}

func (w PostingWindow) String() string {
	return fmt.Sprintf("%s %02d:00-%02d:00", w.Days, w.StartHour, w.EndHour)
}

// ConstraintProfile is the static, read-only limit record for one platform.
type ConstraintProfile struct {
	Platform           Platform
	MaxTextLength      int
	AspectWidth        int
	AspectHeight       int
	MinVideoSeconds    int
	MaxVideoSeconds    int
	HashtagCap         int
	SupportedFormats   []Format
	PreferredFormats   []Format
	BestPostingWindows []PostingWindow
	PrimaryAudience    []string
	AvgEngagementRate  float64 // percent, used to normalize engagement predictions
	ReachMultiplier    float64
	BusinessValueBonus float64 // 0..1, scaled by 20 into the business value score
	HighVirality       bool
}

func (p ConstraintProfile) supports(f Format) bool {
	for _, s := range p.SupportedFormats {
		if s == f {
			return true
		}
	}
	return false
}

func (p ConstraintProfile) prefers(f Format) bool {
	for _, s := range p.PreferredFormats {
		if s == f {
			return true
		}
	}
	return false
}

func (p ConstraintProfile) inPostingWindow(hour int) bool {
	for _, w := range p.BestPostingWindows {
		if hour >= w.StartHour && hour < w.EndHour {
			return true
		}
	}
	return false
}

var platformProfiles = map[Platform]ConstraintProfile{
	PlatformInstagram: {
		Platform:         PlatformInstagram,
		MaxTextLength:    2200,
		AspectWidth:      4,
		AspectHeight:     5,
		MinVideoSeconds:  3,
		MaxVideoSeconds:  90,
		HashtagCap:       10,
		SupportedFormats: []Format{FormatPost, FormatStory, FormatReel, FormatCarousel, FormatVideo, FormatLive},
		PreferredFormats: []Format{FormatReel, FormatCarousel, FormatStory},
		BestPostingWindows: []PostingWindow{
			{Days: "Mon-Fri", StartHour: 11, EndHour: 13},
			{Days: "Tue-Thu", StartHour: 19, EndHour: 21},
		},
		PrimaryAudience:    []string{"millennials", "gen z"},
		AvgEngagementRate:  1.9,
		ReachMultiplier:    1.4,
		BusinessValueBonus: 0.6,
		HighVirality:       true,
	},
	PlatformTikTok: {
		Platform:         PlatformTikTok,
		MaxTextLength:    2200,
		AspectWidth:      9,
		AspectHeight:     16,
		MinVideoSeconds:  5,
		MaxVideoSeconds:  180,
		HashtagCap:       8,
		SupportedFormats: []Format{FormatVideo, FormatReel, FormatStory, FormatLive, FormatPost},
		PreferredFormats: []Format{FormatReel, FormatVideo},
		BestPostingWindows: []PostingWindow{
			{Days: "Mon-Fri", StartHour: 12, EndHour: 15},
			{Days: "Fri-Sun", StartHour: 19, EndHour: 23},
		},
		PrimaryAudience:    []string{"gen z", "young millennials"},
		AvgEngagementRate:  4.2,
		ReachMultiplier:    1.8,
		BusinessValueBonus: 0.4,
		HighVirality:       true,
	},
	PlatformYouTube: {
		Platform:         PlatformYouTube,
		MaxTextLength:    5000,
		AspectWidth:      16,
		AspectHeight:     9,
		MinVideoSeconds:  15,
		MaxVideoSeconds:  43200,
		HashtagCap:       15,
		SupportedFormats: []Format{FormatVideo, FormatReel, FormatLive, FormatPost},
		PreferredFormats: []Format{FormatVideo, FormatLive},
		BestPostingWindows: []PostingWindow{
			{Days: "Thu-Sat", StartHour: 15, EndHour: 18},
			{Days: "Sat-Sun", StartHour: 10, EndHour: 12},
		},
		PrimaryAudience:    []string{"broad", "25-44"},
		AvgEngagementRate:  2.0,
		ReachMultiplier:    1.2,
		BusinessValueBonus: 0.7,
		HighVirality:       false,
	},
	PlatformLinkedIn: {
		Platform:         PlatformLinkedIn,
		MaxTextLength:    3000,
		AspectWidth:      1,
		AspectHeight:     1,
		MinVideoSeconds:  3,
		MaxVideoSeconds:  600,
		HashtagCap:       5,
		SupportedFormats: []Format{FormatPost, FormatVideo, FormatCarousel, FormatLive},
		PreferredFormats: []Format{FormatPost, FormatCarousel},
		BestPostingWindows: []PostingWindow{
			{Days: "Tue-Thu", StartHour: 8, EndHour: 10},
			{Days: "Tue-Thu", StartHour: 12, EndHour: 14},
		},
		PrimaryAudience:    []string{"professionals", "decision makers"},
		AvgEngagementRate:  2.5,
		ReachMultiplier:    0.8,
		BusinessValueBonus: 1.0,
		HighVirality:       false,
	},
	PlatformTwitter: {
		Platform:         PlatformTwitter,
		MaxTextLength:    280,
		AspectWidth:      16,
		AspectHeight:     9,
		MinVideoSeconds:  2,
		MaxVideoSeconds:  140,
		HashtagCap:       2,
		SupportedFormats: []Format{FormatPost, FormatVideo, FormatLive},
		PreferredFormats: []Format{FormatPost},
		BestPostingWindows: []PostingWindow{
			{Days: "Mon-Fri", StartHour: 8, EndHour: 10},
			{Days: "Mon-Fri", StartHour: 17, EndHour: 19},
		},
		PrimaryAudience:    []string{"news followers", "25-49"},
		AvgEngagementRate:  1.5,
		ReachMultiplier:    1.1,
		BusinessValueBonus: 0.5,
		HighVirality:       true,
	},
	PlatformFacebook: {
		Platform:         PlatformFacebook,
		MaxTextLength:    63206,
		AspectWidth:      1,
		AspectHeight:     1,
		MinVideoSeconds:  1,
		MaxVideoSeconds:  14400,
		HashtagCap:       6,
		SupportedFormats: []Format{FormatPost, FormatVideo, FormatStory, FormatCarousel, FormatLive, FormatReel},
		PreferredFormats: []Format{FormatPost, FormatVideo},
		BestPostingWindows: []PostingWindow{
			{Days: "Mon-Fri", StartHour: 9, EndHour: 11},
			{Days: "Sat-Sun", StartHour: 12, EndHour: 14},
		},
		PrimaryAudience:    []string{"30+", "local communities"},
		AvgEngagementRate:  1.2,
		ReachMultiplier:    1.0,
		BusinessValueBonus: 0.6,
		HighVirality:       false,
	},
}

// ProfileFor looks up the constraint profile for a platform key.
func ProfileFor(p Platform) (ConstraintProfile, error) {
	profile, ok := platformProfiles[p]
	if !ok {
		return ConstraintProfile{}, NewUnsupportedPlatformError(p)
	}
	return profile, nil
}

// highViralityPlatforms per the trending-potential rule.
func isHighVirality(p Platform) bool {
	profile, ok := platformProfiles[p]
	return ok && profile.HighVirality
}
