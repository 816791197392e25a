package handler

import (
	"github.com/gin-gonic/gin"

	"sermonclip/config"
	"sermonclip/internal/response"
)

// configView hides API keys from the settings endpoint.
type configView struct {
	Server struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	} `json:"server"`
	Llm struct {
		BaseUrl   string `json:"base_url"`
		Model     string `json:"model"`
		HasApiKey bool   `json:"has_api_key"`
	} `json:"llm"`
	Tts struct {
		Provider     string `json:"provider"`
		DefaultVoice string `json:"default_voice"`
	} `json:"tts"`
	Video struct {
		Model     string `json:"model"`
		MaxClips  int    `json:"max_clips"`
		HasApiKey bool   `json:"has_api_key"`
	} `json:"video"`
}

func (h Handler) GetConfig(c *gin.Context) {
	var view configView
	view.Server.Host = config.Conf.Server.Host
	view.Server.Port = config.Conf.Server.Port
	view.Llm.BaseUrl = config.Conf.Llm.BaseUrl
	view.Llm.Model = config.Conf.Llm.Model
	view.Llm.HasApiKey = config.Conf.Llm.ApiKey != ""
	view.Tts.Provider = config.Conf.Tts.Provider
	view.Tts.DefaultVoice = config.Conf.Tts.DefaultVoice
	view.Video.Model = config.Conf.Video.Model
	view.Video.MaxClips = config.Conf.Video.MaxClips
	view.Video.HasApiKey = config.Conf.Video.ApiKey != ""
	response.Success(c, view)
}

type updateConfigReq struct {
	LlmApiKey       string `json:"llm_api_key"`
	LlmModel        string `json:"llm_model"`
	TtsProvider     string `json:"tts_provider"`
	TtsDefaultVoice string `json:"tts_default_voice"`
	TtsGeminiApiKey string `json:"tts_gemini_api_key"`
	TtsOpenaiApiKey string `json:"tts_openai_api_key"`
	VideoApiKey     string `json:"video_api_key"`
	VideoModel      string `json:"video_model"`
	VideoMaxClips   int    `json:"video_max_clips"`
}

// UpdateConfig applies partial settings changes and persists them. Empty
// fields leave the current value alone.
func (h Handler) UpdateConfig(c *gin.Context) {
	var req updateConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if req.LlmApiKey != "" {
		config.Conf.Llm.ApiKey = req.LlmApiKey
	}
	if req.LlmModel != "" {
		config.Conf.Llm.Model = req.LlmModel
	}
	if req.TtsProvider != "" {
		config.Conf.Tts.Provider = req.TtsProvider
	}
	if req.TtsDefaultVoice != "" {
		config.Conf.Tts.DefaultVoice = req.TtsDefaultVoice
	}
	if req.TtsGeminiApiKey != "" {
		config.Conf.Tts.Gemini.ApiKey = req.TtsGeminiApiKey
	}
	if req.TtsOpenaiApiKey != "" {
		config.Conf.Tts.Openai.ApiKey = req.TtsOpenaiApiKey
	}
	if req.VideoApiKey != "" {
		config.Conf.Video.ApiKey = req.VideoApiKey
	}
	if req.VideoModel != "" {
		config.Conf.Video.Model = req.VideoModel
	}
	if req.VideoMaxClips > 0 {
		config.Conf.Video.MaxClips = req.VideoMaxClips
	}

	if err := config.SaveConfig(); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
