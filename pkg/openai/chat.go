package openai

import (
	"context"
	"fmt"

	"sermonclip/config"
	"sermonclip/log"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatCompletion sends a single system+user exchange and returns the reply text.
func (c *Client) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := config.Conf.Llm.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: empty choices")
	}

	log.GetLogger().Debug("openai chat completion done",
		zap.String("model", model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}
