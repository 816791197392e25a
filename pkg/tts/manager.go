package tts

import (
	"context"
	"fmt"

	"sermonclip/config"
	"sermonclip/internal/types"
	"sermonclip/log"
	"sermonclip/pkg/gemini"
	"sermonclip/pkg/openai"

	"go.uber.org/zap"
)

// CompositeSynthesizer routes narration synthesis to whichever providers are
// configured, preferring the one selected in config.
type CompositeSynthesizer struct {
	Gemini  *gemini.TtsClient
	OpenAI  *openai.Client
	Default types.SpeechSynthesizer
}

func NewCompositeSynthesizer() *CompositeSynthesizer {
	c := &CompositeSynthesizer{}

	if config.Conf.Tts.Gemini.ApiKey != "" {
		c.Gemini = gemini.NewTtsClient(
			config.Conf.Tts.Gemini.BaseUrl,
			config.Conf.Tts.Gemini.ApiKey,
			config.Conf.Tts.Gemini.Model,
		)
	}
	if config.Conf.Tts.Openai.ApiKey != "" {
		c.OpenAI = openai.NewClient(config.Conf.Tts.Openai.BaseUrl, config.Conf.Tts.Openai.ApiKey, config.Conf.App.Proxy)
	}

	switch config.Conf.Tts.Provider {
	case "openai":
		if c.OpenAI != nil {
			c.Default = c.OpenAI
		}
	default:
		if c.Gemini != nil {
			c.Default = c.Gemini
		}
	}

	// Fall back to whichever provider has credentials.
	if c.Default == nil {
		if c.Gemini != nil {
			c.Default = c.Gemini
		} else if c.OpenAI != nil {
			c.Default = c.OpenAI
		}
	}

	return c
}

func (c *CompositeSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if c.Default == nil {
		return nil, fmt.Errorf("no speech provider configured")
	}

	log.GetLogger().Info("routing narration synthesis",
		zap.String("provider", config.Conf.Tts.Provider),
		zap.String("voice", voice))

	return c.Default.Synthesize(ctx, text, voice)
}
