package types

// ScenePrompt is one storyboard entry produced by the LLM: a visual prompt
// for the clip generator plus the narration span it should cover.
type ScenePrompt struct {
	Id     int     `json:"id"`
	Prompt string  `json:"prompt"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}

// StoryboardPrompt instructs the LLM to break a narration into scene prompts.
// The reply must be a strict JSON array so it can be parsed mechanically.
var StoryboardPrompt = `You are a cinematographer planning b-roll for a short social-media video.
The narration below will be spoken over the footage. Split the narration's
duration of %.1f seconds into %d scenes. For each scene write a vivid,
concrete visual prompt for a generative video model. The visuals must match
the theme "%s" and the mood "%s". No on-screen text, no people speaking to
camera.

Output a strict JSON array, nothing else:
[
  {"id": 1, "prompt": "...", "start": 0.0, "end": 4.0}
]

Scene windows must be contiguous, start at 0 and end at the full duration.

Narration:
%s
`

// QuoteExtractionPrompt asks the LLM for shareable quote candidates from a
// sermon transcript.
var QuoteExtractionPrompt = `You are an editor finding shareable quotes in sermon transcripts.
From the transcript below, extract up to %d short quotes that stand alone as
encouraging social-media posts. Use the speaker's exact words, no paraphrase.
Each quote should be one to three sentences.

Output a strict JSON array of strings, nothing else.

Transcript:
%s
`
