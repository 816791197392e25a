// Package gemini implements the Gemini REST clients used for narration
// synthesis and scene clip generation.
package gemini

import (
	"context"
	"fmt"

	"sermonclip/log"
	"sermonclip/pkg/audio"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type TtsClient struct {
	http   *resty.Client
	apiKey string
	model  string
}

// Wizard voice codes map onto the provider's prebuilt voice names.
var voiceMap = map[string]string{
	"warm-shepherd":   "Kore",
	"bold-evangelist": "Fenrir",
	"gentle-guide":    "Aoede",
	"deep-elder":      "Charon",
}

func NewTtsClient(baseUrl, apiKey, model string) *TtsClient {
	if baseUrl == "" {
		baseUrl = defaultBaseURL
	}
	return &TtsClient{
		http:   resty.New().SetBaseURL(baseUrl),
		apiKey: apiKey,
		model:  model,
	}
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Synthesize renders narration text to raw PCM samples. The provider
// transports PCM as base64 at 24 kHz mono s16le (audio.NarrationFormat).
func (c *TtsClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	voiceName, ok := voiceMap[voice]
	if !ok {
		voiceName = "Kore"
	}

	reqBody := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceName},
				},
			},
		},
	}

	var respBody generateContentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&respBody).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		return nil, fmt.Errorf("gemini tts request: %w", err)
	}
	if resp.IsError() {
		if respBody.Error != nil {
			return nil, fmt.Errorf("gemini tts api error %d: %s", respBody.Error.Code, respBody.Error.Message)
		}
		return nil, fmt.Errorf("gemini tts http %d: %s", resp.StatusCode(), resp.String())
	}

	if len(respBody.Candidates) == 0 || len(respBody.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini tts returned no audio candidates")
	}
	data := respBody.Candidates[0].Content.Parts[0].InlineData
	if data == nil || data.Data == "" {
		return nil, fmt.Errorf("gemini tts returned empty audio payload")
	}

	pcm, err := audio.DecodePCM(data.Data)
	if err != nil {
		return nil, err
	}

	log.GetLogger().Info("gemini tts synthesized",
		zap.String("voice", voiceName),
		zap.String("mime", data.MimeType),
		zap.Int("pcm_bytes", len(pcm)))

	return pcm, nil
}
