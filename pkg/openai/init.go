package openai

import (
	"net/http"

	"sermonclip/config"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
}

func NewClient(baseUrl, apiKey, proxyAddr string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		cfg.BaseURL = baseUrl
	}

	transport := &http.Transport{}
	if proxyAddr != "" {
		transport.Proxy = http.ProxyURL(config.Conf.App.ParsedProxy)
	}

	cfg.HTTPClient = &http.Client{
		Transport: transport,
		// No timeout here: narration and storyboard requests can run long.
	}

	client := openai.NewClientWithConfig(cfg)
	return &Client{client: client}
}
