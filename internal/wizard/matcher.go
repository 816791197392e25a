package wizard

import (
	"strings"

	"sermonclip/internal/types"

	"github.com/samber/lo"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Levenshtein distance tolerated when a token almost matches a keyword.
// Two edits covers most typos ("vertcal", "hopefull") without letting
// unrelated words through.
const maxFuzzyDistance = 2

// MatchOption interprets a free-form utterance against a step's option
// catalog. Matching is layered: exact code/label, keyword containment, then
// fuzzy token comparison. Returns the matched code and whether anything hit.
func MatchOption(input string, options []types.WizardOption) (string, bool) {
	normalized := normalizeUtterance(input)
	if normalized == "" {
		return "", false
	}

	// Exact code or label match.
	for _, opt := range options {
		if normalized == strings.ToLower(opt.Code) || normalized == strings.ToLower(opt.Label) {
			return opt.Code, true
		}
	}

	// Keyword containment: "make it feel hopeful please" hits "hopeful".
	for _, opt := range options {
		for _, keyword := range opt.Keywords {
			if strings.Contains(normalized, strings.ToLower(keyword)) {
				return opt.Code, true
			}
		}
	}

	// Fuzzy token match for typos.
	tokens := strings.Fields(normalized)
	type candidate struct {
		code     string
		distance int
	}
	var best *candidate
	for _, opt := range options {
		keywords := append([]string{opt.Code}, opt.Keywords...)
		for _, keyword := range keywords {
			kw := strings.ToLower(keyword)
			for _, token := range tokens {
				if len(token) < 4 {
					continue
				}
				d := levenshtein.DistanceForStrings([]rune(token), []rune(kw), levenshtein.DefaultOptions)
				if d <= maxFuzzyDistance && (best == nil || d < best.distance) {
					best = &candidate{code: opt.Code, distance: d}
				}
			}
		}
	}
	if best != nil {
		return best.code, true
	}

	return "", false
}

// OptionCodes lists the codes of a catalog, for prompts and LLM fallbacks.
func OptionCodes(options []types.WizardOption) []string {
	return lo.Map(options, func(opt types.WizardOption, _ int) string {
		return opt.Code
	})
}

func normalizeUtterance(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	replacer := strings.NewReplacer(",", " ", ".", " ", "!", " ", "?", " ")
	return strings.Join(strings.Fields(replacer.Replace(normalized)), " ")
}
