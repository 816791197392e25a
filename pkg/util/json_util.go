package util

import (
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// ExtractJsonFromText pulls the JSON payload out of an LLM reply, which may
// wrap it in markdown fences or conversational filler.
func ExtractJsonFromText(text string) string {
	if matches := codeBlockRe.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := earliestIndex(strings.Index(text, "{"), strings.Index(text, "["))
	if start == -1 {
		return text
	}

	end := latestIndex(strings.LastIndex(text, "}"), strings.LastIndex(text, "]"))
	if end > start {
		return text[start : end+1]
	}
	return text
}

func earliestIndex(a, b int) int {
	switch {
	case a == -1:
		return b
	case b == -1:
		return a
	case a < b:
		return a
	default:
		return b
	}
}

func latestIndex(a, b int) int {
	if a > b {
		return a
	}
	return b
}
