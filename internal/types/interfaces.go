package types

import "context"

// ChatCompleter is the LLM collaborator used for quote extraction,
// storyboarding and free-form wizard command interpretation.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SpeechSynthesizer produces narration audio as raw PCM samples in the
// format the caller requested from the provider (24 kHz mono s16le).
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// ClipGenerator renders one storyboard scene into a short video clip file.
type ClipGenerator interface {
	GenerateClip(ctx context.Context, prompt, format, outputPath string) error
}
