package pipeline

import "strings"

// Rule tables are static seed data, constructed once at package load and
// treated as read-only process-wide configuration. Nothing here mutates at
// runtime.

// --- intent / content-type pattern categories ---

type patternCategory struct {
	name     string
	format   Format // zero when the category is an intent only
	base     int    // content-type suggestion base score
	keywords []string
}

// Declaration order is the tie-break order for intent detection.
var patternCategories = []patternCategory{
	{name: "video", format: FormatVideo, base: 90, keywords: []string{"video", "watch", "film", "clip", "footage", "tutorial", "vlog"}},
	{name: "post", format: FormatPost, base: 70, keywords: []string{"post", "share", "update", "announce", "caption", "write"}},
	{name: "story", format: FormatStory, base: 80, keywords: []string{"story", "behind the scenes", "day in the life", "moment", "snapshot"}},
	{name: "reel", format: FormatReel, base: 95, keywords: []string{"reel", "challenge", "dance", "trend", "pov", "transition", "remix"}},
	{name: "carousel", format: FormatCarousel, base: 75, keywords: []string{"carousel", "slides", "steps", "tips", "checklist", "guide", "swipe"}},
	{name: "live", format: FormatLive, base: 70, keywords: []string{"live", "stream", "broadcast", "q&a", "webinar", "real time"}},
	{name: "promotion", keywords: []string{"launch", "product", "sale", "promo", "offer", "discount", "buy", "new"}},
	{name: "education", keywords: []string{"learn", "how to", "teach", "explain", "lesson", "course", "education"}},
	{name: "entertainment", keywords: []string{"fun", "funny", "meme", "entertain", "comedy", "joke", "play"}},
	{name: "inspiration", keywords: []string{"inspire", "motivat", "dream", "success", "journey", "achieve"}},
}

// IntentGeneral is the no-match default primary intent.
const IntentGeneral = "general"

const defaultSuggestionScore = 70

// --- emotion lexicons ---

type emotionCategory struct {
	name     string
	positive bool
	negative bool
	keywords []string
}

var emotionCategories = []emotionCategory{
	{name: "excitement", positive: true, keywords: []string{"excited", "amazing", "awesome", "incredible", "thrilled", "can't wait", "🔥"}},
	{name: "inspiration", positive: true, keywords: []string{"inspire", "dream", "journey", "overcome", "achieve", "believe"}},
	{name: "gratitude", positive: true, keywords: []string{"thank", "grateful", "appreciate", "blessed", "shoutout"}},
	{name: "humor", positive: true, keywords: []string{"funny", "hilarious", "lol", "joke", "meme", "comedy"}},
	{name: "curiosity", keywords: []string{"secret", "discover", "what if", "guess", "mystery", "revealed"}},
	{name: "surprise", keywords: []string{"surprise", "unexpected", "shocking", "plot twist", "you won't believe"}},
	{name: "urgency", negative: true, keywords: []string{"now", "hurry", "limited", "deadline", "last chance", "today only", "act fast"}},
	{name: "concern", negative: true, keywords: []string{"problem", "worried", "warning", "risk", "mistake", "avoid", "danger"}},
}

// --- platform recommendation tables ---

var platformKeywords = map[Platform][]string{
	PlatformInstagram: {"instagram", "insta", "aesthetic", "influencer", "filter"},
	PlatformTikTok:    {"tiktok", "pov", "challenge", "duet", "fyp"},
	PlatformYouTube:   {"youtube", "tutorial", "vlog", "subscribe", "long form"},
	PlatformLinkedIn:  {"linkedin", "professional", "career", "b2b", "industry", "network"},
	PlatformTwitter:   {"twitter", "tweet", "thread", "breaking", "hot take"},
	PlatformFacebook:  {"facebook", "community", "group", "event", "family"},
}

// Fixed bonuses applied to platform scores by primary intent.
var intentPlatformBonuses = map[string]map[Platform]int{
	"video":         {PlatformInstagram: 30, PlatformTikTok: 25, PlatformYouTube: 20},
	"reel":          {PlatformInstagram: 30, PlatformTikTok: 25, PlatformYouTube: 20},
	"story":         {PlatformInstagram: 30, PlatformFacebook: 15},
	"post":          {PlatformLinkedIn: 20, PlatformTwitter: 15, PlatformFacebook: 15},
	"carousel":      {PlatformInstagram: 30, PlatformLinkedIn: 25},
	"live":          {PlatformYouTube: 25, PlatformInstagram: 20, PlatformFacebook: 20},
	"promotion":     {PlatformLinkedIn: 25, PlatformFacebook: 20, PlatformInstagram: 15},
	"education":     {PlatformYouTube: 30, PlatformLinkedIn: 25},
	"entertainment": {PlatformTikTok: 30, PlatformInstagram: 20},
	"inspiration":   {PlatformInstagram: 25, PlatformLinkedIn: 20},
}

const explicitPlatformBonus = 50

var adaptationNotes = map[Platform]string{
	PlatformInstagram: "Lead with a strong visual and front-load the first line before the fold.",
	PlatformTikTok:    "Hook in the first second; native, lo-fi delivery outperforms polish.",
	PlatformYouTube:   "Optimize the title and thumbnail; retention matters more than length.",
	PlatformLinkedIn:  "Open with an insight, keep formatting scannable, go light on hashtags.",
	PlatformTwitter:   "Compress to one sharp idea; use a thread for anything longer.",
	PlatformFacebook:  "Ask a question to spark comments; groups amplify organic reach.",
}

// --- trending topics (static seed data, no live feeds) ---

var trendingTopics = []string{
	"ai",
	"pov",
	"challenge",
	"dance",
	"trending",
	"viral",
	"sustainability",
	"wellness",
	"remote work",
	"glow up",
	"day in the life",
	"side hustle",
}

// --- audience inference rules ---

type audienceRule struct {
	substrings   []string
	demographics []string
	interests    []string
	behavior     []string
}

var audienceRules = []audienceRule{
	{substrings: []string{"business", "career", "b2b", "professional"}, demographics: []string{"professionals"}, interests: []string{"business"}, behavior: []string{"engages during work hours"}},
	{substrings: []string{"student", "college", "study"}, demographics: []string{"young adults (18-24)"}, interests: []string{"education"}, behavior: []string{"browses in the evening"}},
	{substrings: []string{"tech", "ai", "software", "startup"}, interests: []string{"technology"}, behavior: []string{"early adopter"}},
	{substrings: []string{"fitness", "workout", "health", "wellness"}, demographics: []string{"active adults"}, interests: []string{"health & fitness"}},
	{substrings: []string{"parent", "family", "kids"}, demographics: []string{"parents"}, interests: []string{"family"}},
	{substrings: []string{"fashion", "style", "beauty"}, demographics: []string{"millennials and gen z"}, interests: []string{"fashion & beauty"}},
	{substrings: []string{"travel", "adventure", "destination"}, interests: []string{"travel"}},
	{substrings: []string{"food", "recipe", "cooking"}, interests: []string{"food & cooking"}},
	{substrings: []string{"game", "gaming", "esports"}, demographics: []string{"gen z"}, interests: []string{"gaming"}},
	{substrings: []string{"money", "invest", "finance", "budget"}, interests: []string{"personal finance"}, behavior: []string{"researches before buying"}},
}

// --- enhancement templates ---

var hookTemplates = map[string][]string{
	"excitement":  {"Stop scrolling, you need to see this.", "This just changed everything:", "We can't keep this to ourselves any longer."},
	"inspiration": {"A year ago this felt impossible.", "Here's the moment everything turned around:", "Proof that showing up every day pays off:"},
	"gratitude":   {"We owe this one to you.", "A quick thank-you before anything else:"},
	"humor":       {"Warning: do not read this with coffee in your mouth.", "We did the embarrassing part so you don't have to."},
	"curiosity":   {"Almost nobody knows this trick.", "There's a detail here most people miss:"},
	"surprise":    {"We didn't see this coming either.", "Plot twist ahead:"},
	"urgency":     {"This window closes fast.", "You have less time than you think:"},
	"concern":     {"This mistake costs more than you'd guess.", "Before you do it the hard way, read this:"},
}

var promotionHooks = []string{
	"The secret is finally out:",
	"We've been keeping this quiet until now:",
	"Big reveal:",
}

var engagementTriggers = []string{
	"Drop a comment with your take 👇",
	"Tag someone who needs to see this",
	"Share this if you agree",
	"Save this for later 🔖",
	"What would you add? Tell us below",
}

var callsToActionByIntent = map[string][]string{
	"promotion":     {"Learn more at the link in bio", "Shop the launch today"},
	"education":     {"Follow for more deep dives", "Save this guide for later"},
	"entertainment": {"Follow so you don't miss the next one"},
	"inspiration":   {"Share this with someone who needs it"},
	IntentGeneral:   {"Follow for more", "Let us know what you think"},
}

var visualSuggestionsByFormat = map[Format][]string{
	FormatPost:     {"Single bold graphic with a short overlay line"},
	FormatVideo:    {"Talking-head opener, cut to b-roll every 3-5 seconds", "Burned-in captions for sound-off viewing"},
	FormatStory:    {"Vertical full-bleed photo with a sticker prompt"},
	FormatReel:     {"Fast-cut vertical edit synced to the beat", "Text hook on the first frame"},
	FormatCarousel: {"One idea per slide, consistent template, numbered corners"},
	FormatLive:     {"Simple branded backdrop, lower-third with the topic"},
}

var audioSuggestions = []string{
	"Trending audio bed under the first three seconds",
	"Clean voice-over with captions as backup",
}

// --- hashtag tables ---

var platformHashtagSeeds = map[Platform][]string{
	PlatformInstagram: {"#instagood", "#reels", "#explorepage"},
	PlatformTikTok:    {"#fyp", "#foryou", "#tiktokmade"},
	PlatformYouTube:   {"#shorts", "#youtube"},
	PlatformLinkedIn:  {"#leadership", "#innovation", "#careers"},
	PlatformTwitter:   {"#trending", "#news"},
	PlatformFacebook:  {"#community", "#viral"},
}

var interestHashtags = map[string][]string{
	"technology":       {"#tech", "#ai", "#innovation"},
	"business":         {"#business", "#entrepreneur", "#growth"},
	"health & fitness": {"#fitness", "#wellness"},
	"fashion & beauty": {"#fashion", "#style"},
	"travel":           {"#travel", "#wanderlust"},
	"food & cooking":   {"#foodie", "#recipes"},
	"education":        {"#learning", "#studytips"},
	"gaming":           {"#gaming", "#esports"},
	"personal finance": {"#investing", "#moneytips"},
	"family":           {"#familylife", "#parenting"},
}

const maxGeneratedHashtags = 10

// buildHashtags assembles the hashtag set for a signal set: per-platform
// seeds for every recommended platform, trending-derived tags, and interest
// category tags. Deduplicated, insertion order preserved, capped.
func buildHashtags(signals SignalSet) []string {
	out := make([]string, 0, maxGeneratedHashtags)
	seen := map[string]struct{}{}
	add := func(tag string) {
		if len(out) >= maxGeneratedHashtags {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	for _, rec := range signals.Platforms {
		for _, tag := range platformHashtagSeeds[rec.Platform] {
			add(tag)
		}
	}
	for _, kw := range signals.Keywords.Trending {
		add("#" + strings.ReplaceAll(kw, " ", ""))
	}
	for _, interest := range signals.Audience.Interests {
		for _, tag := range interestHashtags[interest] {
			add(tag)
		}
	}
	return out
}

// dedupe removes duplicates preserving first occurrence. Audience lists keep
// their raw order-of-detection inside the classifier; dedup happens only at
// the orchestrator boundary when a downstream stage needs clean lists.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
