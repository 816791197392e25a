package gemini

import (
	"context"
	"fmt"
	"os"
	"time"

	"sermonclip/log"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type VideoClient struct {
	http         *resty.Client
	apiKey       string
	model        string
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func NewVideoClient(baseUrl, apiKey, model string, pollInterval, pollTimeout time.Duration) *VideoClient {
	if baseUrl == "" {
		baseUrl = defaultBaseURL
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Minute
	}
	return &VideoClient{
		http:         resty.New().SetBaseURL(baseUrl),
		apiKey:       apiKey,
		model:        model,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

var formatAspectRatio = map[string]string{
	"vertical":   "9:16",
	"square":     "1:1",
	"horizontal": "16:9",
}

type startVideoRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

type videoInstance struct {
	Prompt string `json:"prompt"`
}

type videoParameters struct {
	AspectRatio string `json:"aspectRatio"`
}

type operationResponse struct {
	Name     string    `json:"name"`
	Done     bool      `json:"done"`
	Error    *apiError `json:"error,omitempty"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					Uri string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
}

// GenerateClip starts a long-running generation for one scene prompt, polls
// the operation until it finishes and downloads the clip to outputPath.
func (c *VideoClient) GenerateClip(ctx context.Context, prompt, format, outputPath string) error {
	aspectRatio, ok := formatAspectRatio[format]
	if !ok {
		aspectRatio = "9:16"
	}

	var op operationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(startVideoRequest{
			Instances:  []videoInstance{{Prompt: prompt}},
			Parameters: videoParameters{AspectRatio: aspectRatio},
		}).
		SetResult(&op).
		SetError(&op).
		Post(fmt.Sprintf("/models/%s:predictLongRunning", c.model))
	if err != nil {
		return fmt.Errorf("gemini video start: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("gemini video start http %d: %s", resp.StatusCode(), resp.String())
	}
	if op.Name == "" {
		return fmt.Errorf("gemini video start returned no operation name")
	}

	log.GetLogger().Info("gemini video operation started",
		zap.String("operation", op.Name),
		zap.String("aspect_ratio", aspectRatio))

	videoUri, err := c.waitForOperation(ctx, op.Name)
	if err != nil {
		return err
	}
	return c.download(ctx, videoUri, outputPath)
}

func (c *VideoClient) waitForOperation(ctx context.Context, name string) (string, error) {
	deadline := time.Now().Add(c.pollTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("gemini video operation %s timed out after %s", name, c.pollTimeout)
		}

		var op operationResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("key", c.apiKey).
			SetResult(&op).
			Get("/" + name)
		if err != nil {
			return "", fmt.Errorf("gemini video poll: %w", err)
		}
		if resp.IsError() {
			return "", fmt.Errorf("gemini video poll http %d: %s", resp.StatusCode(), resp.String())
		}
		if !op.Done {
			continue
		}
		if op.Error != nil {
			return "", fmt.Errorf("gemini video operation failed: %s", op.Error.Message)
		}
		if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
			return "", fmt.Errorf("gemini video operation finished with no samples")
		}
		return op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.Uri, nil
	}
}

func (c *VideoClient) download(ctx context.Context, uri, outputPath string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetOutput(outputPath).
		Get(uri)
	if err != nil {
		return fmt.Errorf("gemini video download: %w", err)
	}
	if resp.IsError() {
		_ = os.Remove(outputPath)
		return fmt.Errorf("gemini video download http %d", resp.StatusCode())
	}

	log.GetLogger().Info("gemini video clip downloaded", zap.String("path", outputPath))
	return nil
}
