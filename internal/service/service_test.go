package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "sermonclip/pkg/errors"

	"sermonclip/config"
	"sermonclip/internal/dto"
	"sermonclip/internal/mocks"
	"sermonclip/internal/storage"
	"sermonclip/internal/types"
	"sermonclip/log"
	"sermonclip/pkg/audio"
)

func TestMain(m *testing.M) {
	log.Logger = zap.NewNop()

	config.Conf = config.Config{
		Tts: config.Tts{
			Provider:     "gemini",
			DefaultVoice: "warm-shepherd",
			SampleRate:   24000,
			Channels:     1,
			BitDepth:     16,
		},
		Video: config.Video{MaxClips: 6},
	}

	db, err := gorm.Open(sqlite.Open("file:service_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&types.RenderTask{}, &types.CaptionCue{}, &types.RenderClip{}); err != nil {
		panic(err)
	}
	storage.DB = db

	os.Exit(m.Run())
}

type fixture struct {
	svc     Service
	chat    *mocks.MockChatCompleter
	speech  *mocks.MockSpeechSynthesizer
	clipGen *mocks.MockClipGenerator
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	previous := resolveRenderDir
	resolveRenderDir = func(taskId string) (string, error) {
		return filepath.Join(dir, taskId), nil
	}
	t.Cleanup(func() { resolveRenderDir = previous })

	chat := new(mocks.MockChatCompleter)
	speech := new(mocks.MockSpeechSynthesizer)
	clipGen := new(mocks.MockClipGenerator)
	return &fixture{
		svc:     Service{Chat: chat, Speech: speech, ClipGen: clipGen},
		chat:    chat,
		speech:  speech,
		clipGen: clipGen,
		dir:     dir,
	}
}

const sermonQuote = "Faith is not about everything turning out okay. It's about trusting God even when it doesn't."

const storyboardReply = `[
  {"id": 1, "prompt": "sunrise over misty mountain peaks", "start": 0.0, "end": 3.0},
  {"id": 2, "prompt": "golden light breaking through clouds", "start": 3.0, "end": 6.0}
]`

func TestExtractQuotes(t *testing.T) {
	f := newFixture(t)
	f.chat.On("ChatCompletion", mock.Anything, "", mock.Anything).
		Return(`["First quote.", "Second quote.", "  ", "Third quote."]`, nil)

	quotes, err := f.svc.ExtractQuotes(context.Background(), "some transcript", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"First quote.", "Second quote."}, quotes)
}

func TestExtractQuotesEmptyTranscript(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ExtractQuotes(context.Background(), "   ", 5)
	assert.True(t, apperrors.Is(err, apperrors.CodeTranscriptEmpty))
}

func TestExtractQuotesBadReply(t *testing.T) {
	f := newFixture(t)
	f.chat.On("ChatCompletion", mock.Anything, "", mock.Anything).
		Return("I could not find any quotes, sorry!", nil)

	_, err := f.svc.ExtractQuotes(context.Background(), "some transcript", 5)
	assert.True(t, apperrors.Is(err, apperrors.CodeLLMBadResponse))
}

func TestExtractQuotesFencedReply(t *testing.T) {
	f := newFixture(t)
	f.chat.On("ChatCompletion", mock.Anything, "", mock.Anything).
		Return("```json\n[\"Only quote.\"]\n```", nil)

	quotes, err := f.svc.ExtractQuotes(context.Background(), "some transcript", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Only quote."}, quotes)
}

func TestSceneCountFor(t *testing.T) {
	tests := []struct {
		duration float64
		want     int
	}{
		{0, 1},
		{0.5, 1},
		{6.0, 2},
		{9.5, 3},
		{100, 6},
	}
	for _, tt := range tests {
		if got := sceneCountFor(tt.duration); got != tt.want {
			t.Errorf("sceneCountFor(%v) = %d, want %d", tt.duration, got, tt.want)
		}
	}
}

func TestGenerateStoryboardNormalizesWindows(t *testing.T) {
	f := newFixture(t)
	// Windows from the model drift past the narration end.
	f.chat.On("ChatCompletion", mock.Anything, "", mock.Anything).
		Return(`[
  {"id": 1, "prompt": "scene one", "start": 0.0, "end": 4.0},
  {"id": 2, "prompt": "scene two", "start": 4.0, "end": 9.0}
]`, nil)

	scenes, err := f.svc.GenerateStoryboard(context.Background(), sermonQuote, "mountain-dawn", "hopeful", 6.0)
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.Equal(t, 0.0, scenes[0].Start)
	assert.InDelta(t, 6.0, scenes[1].End, 1e-9)
	assert.InDelta(t, scenes[0].End, scenes[1].Start, 1e-9)
}

func startTask(t *testing.T, svc Service) string {
	t.Helper()
	// Park dispatch on a recorder so the pipeline can be run synchronously.
	previous := Dispatch
	Dispatch = dispatchRecorder{}
	t.Cleanup(func() { Dispatch = previous })

	taskId, err := svc.StartRenderTask(dto.StartRenderTaskReq{Quote: sermonQuote})
	require.NoError(t, err)
	return taskId
}

type dispatchRecorder struct{}

func (dispatchRecorder) Dispatch(string) error { return nil }

func TestExecuteRenderTask(t *testing.T) {
	f := newFixture(t)

	narrationFormat := audio.Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
	pcm := make([]byte, 6*narrationFormat.BytesPerSecond())
	f.speech.On("Synthesize", mock.Anything, sermonQuote, "warm-shepherd").Return(pcm, nil)
	f.chat.On("ChatCompletion", mock.Anything, "", mock.Anything).Return(storyboardReply, nil)
	f.clipGen.On("GenerateClip", mock.Anything, mock.Anything, "vertical", mock.Anything).Return(nil)

	taskId := startTask(t, f.svc)
	require.NoError(t, f.svc.ExecuteRenderTask(context.Background(), taskId))

	task, err := storage.GetTask(taskId)
	require.NoError(t, err)
	assert.Equal(t, types.RenderTaskStatusSuccess, task.Status)
	assert.Equal(t, uint8(100), task.ProcessPct)
	assert.InDelta(t, 6.0, task.NarrationDuration, 1e-9)

	// Captions cover the narration end to end.
	require.NotEmpty(t, task.CaptionCues)
	assert.Equal(t, 0.0, task.CaptionCues[0].Start)
	assert.InDelta(t, 6.0, task.CaptionCues[len(task.CaptionCues)-1].End, 1e-6)

	require.Len(t, task.Clips, 2)
	assert.Equal(t, "/api/file/"+taskId+"/clip_01.mp4", task.Clips[0].DownloadUrl)

	renderDir := filepath.Join(f.dir, taskId)
	for _, name := range []string{types.NarrationAudioFileName, types.CaptionTimelineFileName, types.ManifestFileName} {
		if _, statErr := os.Stat(filepath.Join(renderDir, name)); statErr != nil {
			t.Errorf("expected %s in render dir: %v", name, statErr)
		}
	}
}

func TestExecuteRenderTaskNarrationFailure(t *testing.T) {
	f := newFixture(t)
	f.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("tts unavailable"))

	taskId := startTask(t, f.svc)
	err := f.svc.ExecuteRenderTask(context.Background(), taskId)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNarrationFailed))

	task, getErr := storage.GetTask(taskId)
	require.NoError(t, getErr)
	assert.Equal(t, types.RenderTaskStatusFailed, task.Status)
	assert.NotEmpty(t, task.FailReason)
}

func TestExecuteRenderTaskClipFailures(t *testing.T) {
	f := newFixture(t)

	pcm := make([]byte, 6*48000)
	f.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).Return(pcm, nil)
	f.chat.On("ChatCompletion", mock.Anything, "", mock.Anything).Return(storyboardReply, nil)
	f.clipGen.On("GenerateClip", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("model overloaded"))

	taskId := startTask(t, f.svc)
	err := f.svc.ExecuteRenderTask(context.Background(), taskId)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeClipGenFailed))
}

func TestGetTaskStatus(t *testing.T) {
	f := newFixture(t)

	pcm := make([]byte, 6*48000)
	f.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).Return(pcm, nil)
	f.chat.On("ChatCompletion", mock.Anything, "", mock.Anything).Return(storyboardReply, nil)
	f.clipGen.On("GenerateClip", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	taskId := startTask(t, f.svc)
	require.NoError(t, f.svc.ExecuteRenderTask(context.Background(), taskId))

	res, err := f.svc.GetTaskStatus(taskId)
	require.NoError(t, err)
	assert.Equal(t, taskId, res.TaskId)
	assert.Equal(t, types.RenderTaskStatusSuccess, res.Status)
	assert.NotEmpty(t, res.Captions)
	assert.NotEmpty(t, res.Clips)
	assert.Equal(t, "/api/file/"+taskId+"/"+types.ManifestFileName, res.ManifestUrl)
	assert.Equal(t, "/api/file/"+taskId+"/"+types.NarrationAudioFileName, res.AudioDownloadUrl)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)

	taskId := startTask(t, f.svc)
	require.NoError(t, f.svc.DeleteTask(taskId))

	_, err := storage.GetTask(taskId)
	assert.Error(t, err)
}

func TestStartRenderTaskRejectsEmptyQuote(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.StartRenderTask(dto.StartRenderTaskReq{Quote: "   "})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidParams))
}
