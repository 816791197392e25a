package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "sermonclip/pkg/errors"

	"sermonclip/config"
	"sermonclip/internal/appdirs"
	"sermonclip/internal/caption"
	"sermonclip/internal/dto"
	"sermonclip/internal/progress"
	"sermonclip/internal/storage"
	"sermonclip/internal/types"
	"sermonclip/log"
	"sermonclip/pkg/audio"
)

// Dispatcher hands a persisted task off for execution, either to the redis
// queue or to the in-process runner.
type Dispatcher interface {
	Dispatch(taskId string) error
}

// Dispatch is set during server wiring. When nil the pipeline runs in a
// plain goroutine, which is what the tests use.
var Dispatch Dispatcher

var resolveRenderDir = appdirs.ResolveRenderDir

const (
	clipConcurrency = 2
	// A task survives individual clip failures up to this fraction.
	clipFailureThreshold = 3
)

// Manifest is the render output contract consumed by the web player: one
// narration track, a caption timeline and an ordered list of scene clips.
type Manifest struct {
	TaskId    string            `json:"task_id"`
	Quote     string            `json:"quote"`
	Format    string            `json:"format"`
	Duration  float64           `json:"duration"`
	AudioFile string            `json:"audio_file"`
	Captions  []caption.Segment `json:"captions"`
	Clips     []ManifestClip    `json:"clips"`
}

type ManifestClip struct {
	Idx   int     `json:"idx"`
	File  string  `json:"file"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// StartRenderTask persists a new task and hands it to the dispatcher. The
// heavy work happens asynchronously, callers poll or subscribe for progress.
func (s Service) StartRenderTask(req dto.StartRenderTaskReq) (string, error) {
	quote := caption.Normalize(req.Quote)
	if quote == "" {
		return "", apperrors.New(apperrors.CodeInvalidParams, "quote must not be empty")
	}

	taskId := strings.TrimSpace(req.ReuseTaskId)
	if taskId == "" {
		taskId = uuid.NewString()
	}

	renderDir, err := resolveRenderDir(taskId)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeFileWriteError, "failed to resolve render directory", err)
	}
	if err = os.MkdirAll(renderDir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.CodeFileWriteError, "failed to create render directory", err)
	}

	task := &types.RenderTask{
		TaskId:    taskId,
		Status:    types.RenderTaskStatusProcessing,
		StatusMsg: "Queued",
		Quote:     quote,
		VoiceCode: withDefault(req.VoiceCode, config.Conf.Tts.DefaultVoice),
		ThemeCode: withDefault(req.ThemeCode, "mountain-dawn"),
		MoodCode:  withDefault(req.MoodCode, "hopeful"),
		Format:    withDefault(req.Format, "vertical"),
	}
	if err = storage.SaveTask(task); err != nil {
		return "", err
	}

	if Dispatch != nil {
		if err = Dispatch.Dispatch(taskId); err != nil {
			return "", err
		}
	} else {
		go func() {
			if execErr := s.ExecuteRenderTask(context.Background(), taskId); execErr != nil {
				log.GetLogger().Error("render task failed", zap.String("task_id", taskId), zap.Error(execErr))
			}
		}()
	}
	return taskId, nil
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// ExecuteRenderTask runs the full pipeline for a persisted task: narration,
// captions, storyboard, scene clips, manifest.
func (s Service) ExecuteRenderTask(ctx context.Context, taskId string) (err error) {
	if err = storage.ClearTaskArtifacts(taskId); err != nil {
		return err
	}
	task, err := storage.GetTask(taskId)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render pipeline panic: %v", r)
		}
		if err != nil {
			task.Status = types.RenderTaskStatusFailed
			task.FailReason = err.Error()
			s.publishTask(task)
			if saveErr := storage.SaveTask(task); saveErr != nil {
				log.GetLogger().Error("failed to persist task failure",
					zap.String("task_id", taskId), zap.Error(saveErr))
			}
		}
	}()

	renderDir, err := resolveRenderDir(taskId)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFileWriteError, "failed to resolve render directory", err)
	}
	if err = os.MkdirAll(renderDir, 0o755); err != nil {
		return apperrors.Wrap(apperrors.CodeFileWriteError, "failed to create render directory", err)
	}

	format := audio.Format{
		SampleRate: config.Conf.Tts.SampleRate,
		Channels:   config.Conf.Tts.Channels,
		BitDepth:   config.Conf.Tts.BitDepth,
	}
	if format.SampleRate <= 0 || format.Channels <= 0 || format.BitDepth <= 0 {
		format = audio.NarrationFormat
	}

	// Narration.
	s.step(task, 10, "Synthesizing narration")
	pcm, err := s.Speech.Synthesize(ctx, task.Quote, task.VoiceCode)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeNarrationFailed, "narration synthesis failed", err)
	}
	task.NarrationDuration = format.Duration(len(pcm))
	task.AudioPath = filepath.Join(renderDir, types.NarrationAudioFileName)
	if err = audio.SaveWAV(task.AudioPath, pcm, format); err != nil {
		return apperrors.Wrap(apperrors.CodeFileWriteError, "failed to write narration audio", err)
	}

	// Captions.
	s.step(task, 30, "Building captions")
	segments := caption.Timeline(task.Quote, task.NarrationDuration)
	task.CaptionCues = task.CaptionCues[:0]
	for i, seg := range segments {
		task.CaptionCues = append(task.CaptionCues, types.CaptionCue{
			RenderTaskId: task.Id,
			Idx:          i,
			Text:         seg.Text,
			Start:        seg.Start,
			End:          seg.End,
		})
	}
	if err = writeJson(filepath.Join(renderDir, types.CaptionTimelineFileName), segments); err != nil {
		return err
	}

	// Storyboard.
	s.step(task, 40, "Planning scenes")
	scenes, err := s.GenerateStoryboard(ctx, task.Quote, task.ThemeCode, task.MoodCode, task.NarrationDuration)
	if err != nil {
		return err
	}

	// Scene clips, bounded concurrency.
	s.step(task, 50, "Generating scene clips")
	clips, err := s.generateClips(ctx, task, renderDir, scenes)
	if err != nil {
		return err
	}
	task.Clips = clips

	// Manifest.
	s.step(task, 95, "Writing manifest")
	manifest := Manifest{
		TaskId:    task.TaskId,
		Quote:     task.Quote,
		Format:    task.Format,
		Duration:  task.NarrationDuration,
		AudioFile: types.NarrationAudioFileName,
		Captions:  segments,
	}
	for _, clip := range clips {
		scene := scenes[clip.Idx-1]
		manifest.Clips = append(manifest.Clips, ManifestClip{
			Idx:   clip.Idx,
			File:  filepath.Base(clip.FilePath),
			Start: scene.Start,
			End:   scene.End,
		})
	}
	task.ManifestPath = filepath.Join(renderDir, types.ManifestFileName)
	if err = writeJson(task.ManifestPath, manifest); err != nil {
		return err
	}

	task.Status = types.RenderTaskStatusSuccess
	task.ProcessPct = 100
	task.StatusMsg = "Done"
	s.publishTask(task)
	return storage.SaveTask(task)
}

// generateClips renders every scene through the clip generator. Individual
// scenes may fail, the task only fails once too many are lost.
func (s Service) generateClips(ctx context.Context, task *types.RenderTask, renderDir string, scenes []types.ScenePrompt) ([]types.RenderClip, error) {
	var (
		mu       sync.Mutex
		done     atomic.Int64
		failures atomic.Int64
		clips    = make([]types.RenderClip, len(scenes))
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(clipConcurrency)
	for i, scene := range scenes {
		i, scene := i, scene
		group.Go(func() error {
			fileName := fmt.Sprintf("clip_%02d.mp4", i+1)
			outputPath := filepath.Join(renderDir, fileName)
			if err := s.ClipGen.GenerateClip(groupCtx, scene.Prompt, task.Format, outputPath); err != nil {
				log.GetLogger().Warn("scene clip generation failed",
					zap.String("task_id", task.TaskId), zap.Int("scene", i+1), zap.Error(err))
				failures.Add(1)
				if int(failures.Load()) > len(scenes)/clipFailureThreshold {
					return apperrors.Wrap(apperrors.CodeClipGenFailed, "too many scene clips failed", err)
				}
				return nil
			}
			mu.Lock()
			clips[i] = types.RenderClip{
				RenderTaskId: task.Id,
				Idx:          i + 1,
				ScenePrompt:  scene.Prompt,
				FilePath:     outputPath,
				DownloadUrl:  fmt.Sprintf("/api/file/%s/%s", task.TaskId, fileName),
			}
			mu.Unlock()

			finished := done.Add(1)
			pct := 50 + uint8(float64(finished)/float64(len(scenes))*40)
			mu.Lock()
			s.step(task, pct, fmt.Sprintf("Generated %d of %d clips", finished, len(scenes)))
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	kept := make([]types.RenderClip, 0, len(clips))
	for _, clip := range clips {
		if clip.FilePath != "" {
			kept = append(kept, clip)
		}
	}
	if len(kept) == 0 {
		return nil, apperrors.New(apperrors.CodeClipGenFailed, "no scene clips were generated")
	}
	return kept, nil
}

// step persists and broadcasts a progress checkpoint. Persistence failures
// are logged but do not abort the pipeline.
func (s Service) step(task *types.RenderTask, pct uint8, msg string) {
	task.ProcessPct = pct
	task.StatusMsg = msg
	s.publishTask(task)
	if err := storage.SaveTask(task); err != nil {
		log.GetLogger().Warn("failed to persist task progress",
			zap.String("task_id", task.TaskId), zap.Error(err))
	}
}

func (s Service) publishTask(task *types.RenderTask) {
	msg := task.StatusMsg
	if task.Status == types.RenderTaskStatusFailed {
		msg = task.FailReason
	}
	progress.Publish(progress.Update{
		TaskId:     task.TaskId,
		Status:     task.Status,
		ProcessPct: task.ProcessPct,
		Message:    msg,
	})
}

func writeJson(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFileWriteError, "failed to encode json", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.Wrap(apperrors.CodeFileWriteError, "failed to write "+filepath.Base(path), err)
	}
	return nil
}

// GetTaskStatus loads a task and shapes it for the API.
func (s Service) GetTaskStatus(taskId string) (*dto.GetRenderTaskResData, error) {
	task, err := storage.GetTask(taskId)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "task not found", err)
	}

	res := &dto.GetRenderTaskResData{
		TaskId:            task.TaskId,
		Status:            task.Status,
		StatusMsg:         task.StatusMsg,
		ProcessPercent:    task.ProcessPct,
		Quote:             task.Quote,
		NarrationDuration: task.NarrationDuration,
	}
	if task.Status == types.RenderTaskStatusFailed {
		res.StatusMsg = task.FailReason
	}
	if task.AudioPath != "" {
		res.AudioDownloadUrl = fmt.Sprintf("/api/file/%s/%s", task.TaskId, types.NarrationAudioFileName)
	}
	if task.ManifestPath != "" {
		res.ManifestUrl = fmt.Sprintf("/api/file/%s/%s", task.TaskId, types.ManifestFileName)
	}
	for _, cue := range task.CaptionCues {
		res.Captions = append(res.Captions, dto.CaptionCueInfo{Text: cue.Text, Start: cue.Start, End: cue.End})
	}
	for _, clip := range task.Clips {
		res.Clips = append(res.Clips, dto.ClipInfo{Idx: clip.Idx, ScenePrompt: clip.ScenePrompt, DownloadUrl: clip.DownloadUrl})
	}
	return res, nil
}

// RetryRenderTask re-runs a failed task under its original id with its
// original settings.
func (s Service) RetryRenderTask(taskId string) (string, error) {
	task, err := storage.GetTask(taskId)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeNotFound, "task not found", err)
	}
	return s.StartRenderTask(dto.StartRenderTaskReq{
		Quote:       task.Quote,
		VoiceCode:   task.VoiceCode,
		ThemeCode:   task.ThemeCode,
		MoodCode:    task.MoodCode,
		Format:      task.Format,
		ReuseTaskId: task.TaskId,
	})
}

// GetTaskHistory lists recent tasks, newest first.
func (s Service) GetTaskHistory(limit int) ([]dto.GetRenderTaskResData, error) {
	if limit <= 0 {
		limit = 20
	}
	tasks, err := storage.GetTaskHistory(limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.GetRenderTaskResData, 0, len(tasks))
	for _, task := range tasks {
		item, err := s.GetTaskStatus(task.TaskId)
		if err != nil {
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

// DeleteTask removes a task's record and its render directory.
func (s Service) DeleteTask(taskId string) error {
	if err := storage.ClearTaskArtifacts(taskId); err != nil {
		return err
	}
	if err := storage.DeleteTask(taskId); err != nil {
		return err
	}
	progress.Forget(taskId)

	renderDir, err := resolveRenderDir(taskId)
	if err != nil {
		return nil
	}
	if err = os.RemoveAll(renderDir); err != nil {
		log.GetLogger().Warn("failed to remove render directory",
			zap.String("task_id", taskId), zap.Error(err))
	}
	return nil
}
