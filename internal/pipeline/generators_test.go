package pipeline

import (
	"math/rand"
	"strings"
	"testing"
)

func testEnhanced(body string) EnhancedText {
	return EnhancedText{
		OriginalText: body,
		EnhancedText: body,
		Variations:   Variations{Short: body},
	}
}

func testSignals(t *testing.T, text string) SignalSet {
	t.Helper()
	signals, err := NewClassifier().Classify(Prompt{Text: text})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	return signals
}

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

func countHashtags(text string) int {
	n := 0
	for _, w := range strings.Fields(text) {
		if strings.HasPrefix(w, "#") {
			n++
		}
	}
	return n
}

func TestGenerateUnknownPlatform(t *testing.T) {
	g := newTestGenerator(1)
	_, err := g.Generate(FormatPost, testEnhanced("hello world"), SignalSet{}, Platform("myspace"), GenerateOptions{})
	if !IsCode(err, CodeUnsupportedPlatform) {
		t.Fatalf("expected unsupported_platform, got %v", err)
	}
}

func TestGenerateUnsupportedFormatOnPlatform(t *testing.T) {
	g := newTestGenerator(1)
	// LinkedIn has no story format.
	_, err := g.Generate(FormatStory, testEnhanced("hello world"), SignalSet{}, PlatformLinkedIn, GenerateOptions{})
	if !IsCode(err, CodeUnsupportedFormat) {
		t.Fatalf("expected unsupported_format, got %v", err)
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	g := newTestGenerator(1)
	_, err := g.Generate(Format("hologram"), testEnhanced("hello world"), SignalSet{}, PlatformInstagram, GenerateOptions{})
	if !IsCode(err, CodeUnsupportedFormat) {
		t.Fatalf("expected unsupported_format, got %v", err)
	}
}

func TestGenerateTwitterRespectsLimits(t *testing.T) {
	g := newTestGenerator(1)
	long := strings.Repeat("a fairly long sentence goes right here ", 30) +
		"\n#one #two #three #four #five"
	signals := testSignals(t, "post a thread about tech on twitter")

	d, err := g.Generate(FormatPost, testEnhanced(long), signals, PlatformTwitter, GenerateOptions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if n := len([]rune(d.Text)); n > 280 {
		t.Errorf("text length = %d runes, want <= 280", n)
	}
	if n := countHashtags(d.Text); n > 2 {
		t.Errorf("hashtags = %d, want <= 2 on twitter", n)
	}
	if len(d.Optimization.Hashtags) > 2 {
		t.Errorf("optimization hashtags = %d, want <= 2", len(d.Optimization.Hashtags))
	}
}

func TestGenerateLinkedInAugmentation(t *testing.T) {
	g := newTestGenerator(1)
	signals := testSignals(t, "share a professional industry update")

	d, err := g.Generate(FormatPost, testEnhanced("Quarterly results are in."), signals, PlatformLinkedIn, GenerateOptions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(d.Text, "💼 ") {
		t.Errorf("linkedin text should carry the briefcase prefix: %q", d.Text)
	}
	if n := countHashtags(d.Text); n > 5 {
		t.Errorf("hashtags = %d, want <= 5 on linkedin", n)
	}
}

func TestGenerateTikTokAugmentation(t *testing.T) {
	g := newTestGenerator(1)
	d, err := g.Generate(FormatReel, testEnhanced("watch this transition"), SignalSet{}, PlatformTikTok, GenerateOptions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(d.Text, "POV: ") {
		t.Errorf("tiktok text should carry the POV prefix: %q", d.Text)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	signals := testSignals(t, "post about our product launch")
	a, err := newTestGenerator(42).Generate(FormatPost, testEnhanced("launch day"), signals, PlatformInstagram, GenerateOptions{IncludeVisuals: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := newTestGenerator(42).Generate(FormatPost, testEnhanced("launch day"), signals, PlatformInstagram, GenerateOptions{IncludeVisuals: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a.Text != b.Text {
		t.Errorf("same seed produced different text:\n%q\n%q", a.Text, b.Text)
	}
	if a.ID == b.ID {
		t.Error("deliverable IDs must be unique")
	}
}

func TestGenerateDescriptorProducers(t *testing.T) {
	g := newTestGenerator(1)
	opts := GenerateOptions{IncludeVisuals: true, IncludeAudio: true, IncludeInteractive: true}

	d, err := g.Generate(FormatReel, testEnhanced("quick reel script"), SignalSet{}, PlatformInstagram, opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(d.Visuals) == 0 {
		t.Fatal("reel should carry a video asset")
	}
	v := d.Visuals[0]
	if v.Width != 1080 || v.Height != 1920 {
		t.Errorf("reel dimensions = %dx%d, want 1080x1920", v.Width, v.Height)
	}
	if !strings.HasPrefix(v.Locator, "placeholder://") {
		t.Errorf("locator = %q, want a placeholder scheme", v.Locator)
	}
	if len(d.Audio) < 2 {
		t.Errorf("reel audio assets = %d, want trending audio plus voice-over", len(d.Audio))
	}
	if len(d.Interactive) == 0 {
		t.Error("reel should carry a caption hook element")
	}
}

func TestGenerateWithoutDescriptors(t *testing.T) {
	g := newTestGenerator(1)
	d, err := g.Generate(FormatPost, testEnhanced("plain text post"), SignalSet{}, PlatformFacebook, GenerateOptions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(d.Visuals) != 0 || len(d.Audio) != 0 || len(d.Interactive) != 0 {
		t.Error("descriptor producers must be opt-in")
	}
}

func TestCarouselSlideCount(t *testing.T) {
	cases := []struct {
		textLen int
		want    int
	}{
		{0, 3},
		{100, 3},
		{650, 4},
		{1000, 5},
		{2500, 10},
		{9000, 10},
	}
	for _, tc := range cases {
		if got := carouselSlideCount(tc.textLen); got != tc.want {
			t.Errorf("carouselSlideCount(%d) = %d, want %d", tc.textLen, got, tc.want)
		}
	}
}

func TestApplyStyle(t *testing.T) {
	if got := applyStyle("big news! really?", "professional"); strings.ContainsAny(got, "!?") {
		t.Errorf("professional style = %q, want punctuation softened", got)
	}
	if got := applyStyle("quiet launch", "dramatic"); !strings.Contains(got, "QUIET LAUNCH") {
		t.Errorf("dramatic style = %q, want upper-cased body", got)
	}
	if got := applyStyle("keep #tag @user it's fine, drop: this!", "minimalist"); strings.ContainsAny(got, ",:!") {
		t.Errorf("minimalist style = %q, want punctuation stripped", got)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	if got := truncateWithEllipsis("short", 280); got != "short" {
		t.Errorf("no-op truncate = %q", got)
	}
	got := truncateWithEllipsis(strings.Repeat("x", 300), 280)
	if n := len([]rune(got)); n > 280 {
		t.Errorf("truncated length = %d, want <= 280", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated text = %q, want ellipsis suffix", got)
	}
}

func TestCapHashtags(t *testing.T) {
	text := "body line\n#a #b #c #d"
	got := capHashtags(text, 2)
	if n := countHashtags(got); n != 2 {
		t.Errorf("hashtags after cap = %d, want 2", n)
	}
	if !strings.Contains(got, "body line") {
		t.Errorf("non-hashtag text must survive: %q", got)
	}
	if capHashtags(text, 10) != text {
		t.Error("under-cap text must be unchanged")
	}
}

func TestBuildOptimization(t *testing.T) {
	signals := testSignals(t, "launch our new product with a big sale")
	profile, err := ProfileFor(PlatformLinkedIn)
	if err != nil {
		t.Fatal(err)
	}
	opt := buildOptimization(testEnhanced("A product launch announcement that runs long enough to need a description."), signals, profile)

	if opt.BestPostingTime == "" {
		t.Error("best posting time should come from the platform windows")
	}
	if opt.CallToAction == "" {
		t.Error("call to action should fall back to the intent table")
	}
	if len([]rune(opt.Description)) > 160 {
		t.Errorf("description length = %d, want <= 160", len([]rune(opt.Description)))
	}
	if opt.Title == "" {
		t.Error("title should derive from the original text")
	}
}
