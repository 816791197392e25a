package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sermonclip/internal/mocks"
	"sermonclip/internal/types"
	"sermonclip/log"
)

func TestMain(m *testing.M) {
	log.Logger = zap.NewNop()
	m.Run()
}

const testTranscript = "Today we talked about faith. Faith is not about everything turning out okay. It's about trusting God even when it doesn't."

var testQuotes = []string{
	"Faith is not about everything turning out okay. It's about trusting God even when it doesn't.",
	"Today we talked about faith.",
}

func newTestManager(t *testing.T) (*Manager, *mocks.MockQuoteExtractor, *mocks.MockChatCompleter) {
	t.Helper()
	extractor := new(mocks.MockQuoteExtractor)
	chat := new(mocks.MockChatCompleter)
	return NewManager(extractor, chat), extractor, chat
}

func TestCreateSessionWithTranscript(t *testing.T) {
	manager, extractor, _ := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, testTranscript, maxSessionQuotes).Return(testQuotes, nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepQuote, result.Session.Step)
	assert.Contains(t, result.Reply, "1. "+testQuotes[0])
	assert.Contains(t, result.Reply, "2. "+testQuotes[1])
	extractor.AssertExpectations(t)
}

func TestCreateSessionWithoutTranscript(t *testing.T) {
	manager, extractor, _ := newTestManager(t)

	result, err := manager.CreateSession(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepTranscript, result.Session.Step)
	assert.Contains(t, result.Reply, "transcript")

	extractor.On("ExtractQuotes", mock.Anything, testTranscript, maxSessionQuotes).Return(testQuotes, nil)
	result, err = manager.Handle(context.Background(), result.Session.Id, testTranscript)
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepQuote, result.Session.Step)
}

func TestHandleUnknownSession(t *testing.T) {
	manager, _, _ := newTestManager(t)
	_, err := manager.Handle(context.Background(), "no-such-session", "hello")
	assert.Error(t, err)
}

func TestFullFlowToRender(t *testing.T) {
	manager, extractor, _ := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, testTranscript, maxSessionQuotes).Return(testQuotes, nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)
	id := result.Session.Id

	// Quote by number.
	result, err = manager.Handle(context.Background(), id, "1")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepVoice, result.Session.Step)
	assert.Equal(t, testQuotes[0], result.Session.Selections[SelQuote])
	assert.Len(t, result.Options, len(types.VoiceOptions))

	result, err = manager.Handle(context.Background(), id, "the warm one")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepTheme, result.Session.Step)
	assert.Equal(t, "warm-shepherd", result.Session.Selections[SelVoice])

	result, err = manager.Handle(context.Background(), id, "ocean waves please")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepMood, result.Session.Step)
	assert.Equal(t, "ocean-waves", result.Session.Selections[SelTheme])

	result, err = manager.Handle(context.Background(), id, "hopeful")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepFormat, result.Session.Step)

	result, err = manager.Handle(context.Background(), id, "for instagram reels")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepConfirm, result.Session.Step)
	assert.Equal(t, "vertical", result.Session.Selections[SelFormat])
	assert.Contains(t, result.Reply, "Warm Shepherd")
	assert.Contains(t, result.Reply, testQuotes[0])

	result, err = manager.Handle(context.Background(), id, "yes")
	require.NoError(t, err)
	assert.True(t, result.ReadyToRender)
}

func TestCustomQuote(t *testing.T) {
	manager, extractor, _ := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).Return(testQuotes, nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)

	custom := "Grace carries us when our own strength gives out."
	result, err = manager.Handle(context.Background(), result.Session.Id, custom)
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepVoice, result.Session.Step)
	assert.Equal(t, custom, result.Session.Selections[SelQuote])
}

func TestQuoteByFragment(t *testing.T) {
	manager, extractor, _ := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).Return(testQuotes, nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)

	result, err = manager.Handle(context.Background(), result.Session.Id, "trusting God even when")
	require.NoError(t, err)
	assert.Equal(t, testQuotes[0], result.Session.Selections[SelQuote])
}

func TestQuoteIndexOutOfRange(t *testing.T) {
	manager, extractor, _ := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).Return(testQuotes, nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)

	result, err = manager.Handle(context.Background(), result.Session.Id, "7")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepQuote, result.Session.Step)
	assert.Empty(t, result.Session.Selections[SelQuote])
}

func TestLlmFallbackInterpretation(t *testing.T) {
	manager, extractor, chat := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).Return(testQuotes, nil)
	chat.On("ChatCompletion", mock.Anything, mock.Anything, "a snug intimate vibe like a prayer room").
		Return("candlelight", nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)
	id := result.Session.Id

	_, err = manager.Handle(context.Background(), id, "1")
	require.NoError(t, err)
	_, err = manager.Handle(context.Background(), id, "warm")
	require.NoError(t, err)

	result, err = manager.Handle(context.Background(), id, "a snug intimate vibe like a prayer room")
	require.NoError(t, err)
	assert.Equal(t, "candlelight", result.Session.Selections[SelTheme])
	assert.Equal(t, types.WizardStepMood, result.Session.Step)
	chat.AssertExpectations(t)
}

func TestUnclearOptionStaysOnStep(t *testing.T) {
	manager, extractor, chat := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).Return(testQuotes, nil)
	chat.On("ChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("UNCLEAR", nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)
	id := result.Session.Id

	_, err = manager.Handle(context.Background(), id, "1")
	require.NoError(t, err)

	result, err = manager.Handle(context.Background(), id, "qqq")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepVoice, result.Session.Step)
	assert.True(t, strings.HasPrefix(result.Reply, "I did not catch that."))
	assert.Len(t, result.Options, len(types.VoiceOptions))
}

func TestLlmErrorIsNotFatal(t *testing.T) {
	manager, extractor, chat := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).Return(testQuotes, nil)
	chat.On("ChatCompletion", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("model unavailable"))

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)
	id := result.Session.Id

	_, err = manager.Handle(context.Background(), id, "1")
	require.NoError(t, err)

	result, err = manager.Handle(context.Background(), id, "qqq")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepVoice, result.Session.Step)
}

func TestBackAndRestart(t *testing.T) {
	manager, extractor, _ := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).Return(testQuotes, nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)
	id := result.Session.Id

	_, err = manager.Handle(context.Background(), id, "1")
	require.NoError(t, err)
	_, err = manager.Handle(context.Background(), id, "bold")
	require.NoError(t, err)

	// Back from theme clears the voice selection.
	result, err = manager.Handle(context.Background(), id, "back")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepVoice, result.Session.Step)
	assert.Empty(t, result.Session.Selections[SelVoice])

	result, err = manager.Handle(context.Background(), id, "restart")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepTranscript, result.Session.Step)
	assert.Empty(t, result.Session.Selections)
	assert.Empty(t, result.Session.Quotes)
}

func TestConfirmJumpToSetting(t *testing.T) {
	manager, extractor, _ := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).Return(testQuotes, nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)
	id := result.Session.Id

	for _, msg := range []string{"1", "warm", "ocean", "hopeful", "square"} {
		_, err = manager.Handle(context.Background(), id, msg)
		require.NoError(t, err)
	}

	result, err = manager.Handle(context.Background(), id, "change the mood")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepMood, result.Session.Step)
	assert.Empty(t, result.Session.Selections[SelMood])

	// Format was already chosen, so the flow returns straight to confirm.
	result, err = manager.Handle(context.Background(), id, "somber")
	require.NoError(t, err)
	assert.Equal(t, types.WizardStepConfirm, result.Session.Step)
	assert.Equal(t, "somber", result.Session.Selections[SelMood])
	assert.Equal(t, "square", result.Session.Selections[SelFormat])
}

func TestExtractionErrorPropagates(t *testing.T) {
	manager, extractor, _ := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("llm timeout"))

	_, err := manager.CreateSession(context.Background(), testTranscript)
	assert.Error(t, err)
}

func TestBindTask(t *testing.T) {
	manager, extractor, _ := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).Return(testQuotes, nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)
	id := result.Session.Id

	manager.BindTask(id, "task-123")
	session, err := manager.GetSession(id)
	require.NoError(t, err)
	assert.Equal(t, "task-123", session.TaskId)
	assert.Equal(t, types.WizardStepRendering, session.Step)
}

func TestConcurrentMessagesOneSession(t *testing.T) {
	manager, extractor, chat := newTestManager(t)
	extractor.On("ExtractQuotes", mock.Anything, mock.Anything, mock.Anything).Return(testQuotes, nil)
	chat.On("ChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("UNCLEAR", nil)

	result, err := manager.CreateSession(context.Background(), testTranscript)
	require.NoError(t, err)
	id := result.Session.Id

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, handleErr := manager.Handle(context.Background(), id, "1")
			assert.NoError(t, handleErr)
		}()
	}
	wg.Wait()

	session, err := manager.GetSession(id)
	require.NoError(t, err)
	assert.Equal(t, testQuotes[0], session.Selections[SelQuote])
}
