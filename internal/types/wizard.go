package types

// WizardStep identifies where a session is in the configuration flow.
type WizardStep string

const (
	WizardStepTranscript WizardStep = "transcript"
	WizardStepQuote      WizardStep = "quote"
	WizardStepVoice      WizardStep = "voice"
	WizardStepTheme      WizardStep = "theme"
	WizardStepMood       WizardStep = "mood"
	WizardStepFormat     WizardStep = "format"
	WizardStepConfirm    WizardStep = "confirm"
	WizardStepRendering  WizardStep = "rendering"
	WizardStepDone       WizardStep = "done"
)

// WizardOption is one selectable value for a wizard step. Keywords feed the
// free-form command matcher.
type WizardOption struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Keywords []string `json:"-"`
}

var VoiceOptions = []WizardOption{
	{Code: "warm-shepherd", Label: "Warm Shepherd", Keywords: []string{"warm", "shepherd", "soft", "comforting"}},
	{Code: "bold-evangelist", Label: "Bold Evangelist", Keywords: []string{"bold", "evangelist", "strong", "powerful", "loud"}},
	{Code: "gentle-guide", Label: "Gentle Guide", Keywords: []string{"gentle", "guide", "calm", "quiet", "female"}},
	{Code: "deep-elder", Label: "Deep Elder", Keywords: []string{"deep", "elder", "wise", "gravelly", "old"}},
}

var ThemeOptions = []WizardOption{
	{Code: "mountain-dawn", Label: "Mountain Dawn", Keywords: []string{"mountain", "dawn", "sunrise", "peaks"}},
	{Code: "ocean-waves", Label: "Ocean Waves", Keywords: []string{"ocean", "waves", "sea", "water", "shore"}},
	{Code: "city-lights", Label: "City Lights", Keywords: []string{"city", "lights", "urban", "street", "night"}},
	{Code: "candlelight", Label: "Candlelight", Keywords: []string{"candle", "candlelight", "flame", "warm glow"}},
	{Code: "wilderness", Label: "Wilderness", Keywords: []string{"wilderness", "forest", "desert", "nature", "trees"}},
}

var MoodOptions = []WizardOption{
	{Code: "hopeful", Label: "Hopeful", Keywords: []string{"hopeful", "hope", "uplifting", "encouraging"}},
	{Code: "reflective", Label: "Reflective", Keywords: []string{"reflective", "thoughtful", "contemplative", "quiet"}},
	{Code: "triumphant", Label: "Triumphant", Keywords: []string{"triumphant", "victorious", "epic", "celebration"}},
	{Code: "somber", Label: "Somber", Keywords: []string{"somber", "serious", "mourning", "heavy", "lament"}},
}

var FormatOptions = []WizardOption{
	{Code: "vertical", Label: "Vertical 9:16 (Reels/Shorts)", Keywords: []string{"vertical", "reel", "reels", "shorts", "tiktok", "story", "9:16"}},
	{Code: "square", Label: "Square 1:1 (Feed)", Keywords: []string{"square", "feed", "post", "1:1"}},
	{Code: "horizontal", Label: "Horizontal 16:9 (Landscape)", Keywords: []string{"horizontal", "landscape", "wide", "youtube", "16:9"}},
}

// OptionsForStep returns the selectable catalog for a selection step, or nil
// for steps that take free text or a confirmation.
func OptionsForStep(step WizardStep) []WizardOption {
	switch step {
	case WizardStepVoice:
		return VoiceOptions
	case WizardStepTheme:
		return ThemeOptions
	case WizardStepMood:
		return MoodOptions
	case WizardStepFormat:
		return FormatOptions
	default:
		return nil
	}
}
