package service

import (
	"time"

	"sermonclip/config"
	"sermonclip/internal/types"
	"sermonclip/pkg/gemini"
	"sermonclip/pkg/openai"
	"sermonclip/pkg/tts"
)

// Service wires the external providers behind small interfaces so the render
// pipeline can be tested without network access.
type Service struct {
	Chat    types.ChatCompleter
	Speech  types.SpeechSynthesizer
	ClipGen types.ClipGenerator
}

func NewService() *Service {
	return &Service{
		Chat: openai.NewClient(
			config.Conf.Llm.BaseUrl,
			config.Conf.Llm.ApiKey,
			config.Conf.App.Proxy,
		),
		Speech: tts.NewCompositeSynthesizer(),
		ClipGen: gemini.NewVideoClient(
			config.Conf.Video.BaseUrl,
			config.Conf.Video.ApiKey,
			config.Conf.Video.Model,
			time.Duration(config.Conf.Video.PollIntervalSec)*time.Second,
			time.Duration(config.Conf.Video.PollTimeoutSec)*time.Second,
		),
	}
}
