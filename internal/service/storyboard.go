package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"go.uber.org/zap"

	apperrors "sermonclip/pkg/errors"

	"sermonclip/config"
	"sermonclip/internal/types"
	"sermonclip/log"
	"sermonclip/pkg/util"
)

// Target seconds of footage per generated scene.
const secondsPerScene = 4.0

// sceneCountFor sizes the storyboard from the narration length. Always at
// least one scene, never more than the configured clip cap.
func sceneCountFor(duration float64) int {
	count := int(math.Ceil(duration / secondsPerScene))
	if count < 1 {
		count = 1
	}
	maxClips := config.Conf.Video.MaxClips
	if maxClips > 0 && count > maxClips {
		count = maxClips
	}
	return count
}

// GenerateStoryboard asks the language model to split the narration into
// scene prompts for the video generator.
func (s Service) GenerateStoryboard(ctx context.Context, quote, themeCode, moodCode string, duration float64) ([]types.ScenePrompt, error) {
	count := sceneCountFor(duration)
	prompt := fmt.Sprintf(types.StoryboardPrompt, duration, count, themeCode, moodCode, quote)

	reply, err := s.Chat.ChatCompletion(ctx, "", prompt)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStoryboardFailed, "storyboard request failed", err)
	}

	var scenes []types.ScenePrompt
	if err = json.Unmarshal([]byte(util.ExtractJsonFromText(reply)), &scenes); err != nil {
		log.GetLogger().Error("storyboard returned unparseable reply",
			zap.String("reply", reply), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.CodeLLMBadResponse, "storyboard reply was not a JSON array", err)
	}
	if len(scenes) == 0 {
		return nil, apperrors.New(apperrors.CodeStoryboardFailed, "storyboard returned no scenes")
	}

	normalizeScenes(scenes, duration)
	return scenes, nil
}

// normalizeScenes forces the windows the model returned into a contiguous
// cover of [0, duration]. Models drift on arithmetic, the manifest must not.
func normalizeScenes(scenes []types.ScenePrompt, duration float64) {
	per := duration / float64(len(scenes))
	current := 0.0
	for i := range scenes {
		scenes[i].Id = i + 1
		width := scenes[i].End - scenes[i].Start
		if width <= 0 {
			width = per
		}
		scenes[i].Start = current
		scenes[i].End = current + width
		current = scenes[i].End
	}
	// Rescale so the last window lands exactly on the narration end.
	if current > 0 && current != duration {
		scale := duration / current
		walk := 0.0
		for i := range scenes {
			width := (scenes[i].End - scenes[i].Start) * scale
			scenes[i].Start = walk
			scenes[i].End = walk + width
			walk = scenes[i].End
		}
		scenes[len(scenes)-1].End = duration
	}
}
