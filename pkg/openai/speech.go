package openai

import (
	"context"
	"fmt"
	"io"

	"sermonclip/config"
	"sermonclip/log"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Wizard voice codes map onto the provider's fixed voice set.
var voiceMap = map[string]openai.SpeechVoice{
	"warm-shepherd":   openai.VoiceAlloy,
	"bold-evangelist": openai.VoiceOnyx,
	"gentle-guide":    openai.VoiceNova,
	"deep-elder":      openai.VoiceEcho,
}

// Synthesize renders narration text to raw PCM samples. The pcm response
// format is 24 kHz mono s16le, matching audio.NarrationFormat.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	model := openai.SpeechModel(config.Conf.Tts.Openai.Model)
	if model == "" {
		model = openai.TTSModel1
	}

	speechVoice, ok := voiceMap[voice]
	if !ok {
		speechVoice = openai.VoiceAlloy
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          model,
		Input:          text,
		Voice:          speechVoice,
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	pcm, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai speech read body: %w", err)
	}

	log.GetLogger().Info("openai speech synthesized",
		zap.String("voice", string(speechVoice)),
		zap.Int("pcm_bytes", len(pcm)))

	return pcm, nil
}
