package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "sermonclip/pkg/errors"

	"sermonclip/internal/types"
	"sermonclip/log"
)

const maxSessionQuotes = 5

// QuoteExtractor pulls shareable quote candidates out of a transcript.
type QuoteExtractor interface {
	ExtractQuotes(ctx context.Context, transcript string, maxQuotes int) ([]string, error)
}

// Result is what a wizard turn hands back to the transport layer.
type Result struct {
	Session       *Session
	Reply         string
	Options       []types.WizardOption
	ReadyToRender bool
}

// Manager owns all live wizard sessions and drives the step machine.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	extractor QuoteExtractor
	chat      types.ChatCompleter
}

func NewManager(extractor QuoteExtractor, chat types.ChatCompleter) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		extractor: extractor,
		chat:      chat,
	}
}

// CreateSession opens a new session. When a transcript is supplied the
// quote step is prepared immediately, otherwise the session waits for
// the transcript as the first message.
func (m *Manager) CreateSession(ctx context.Context, transcript string) (*Result, error) {
	session := &Session{
		Id:         uuid.NewString(),
		Step:       types.WizardStepTranscript,
		Selections: make(map[string]string),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	m.mu.Lock()
	m.sessions[session.Id] = session
	m.mu.Unlock()

	session.mu.Lock()
	defer session.mu.Unlock()

	if strings.TrimSpace(transcript) == "" {
		return &Result{
			Session: session.snapshot(),
			Reply:   "Paste the sermon transcript you would like to turn into a clip.",
		}, nil
	}
	result, err := m.acceptTranscript(ctx, session, transcript)
	if err != nil {
		return nil, err
	}
	result.Session = session.snapshot()
	return result, nil
}

func (m *Manager) lookup(sessionId string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionId]
	if !ok {
		return nil, apperrors.New(apperrors.CodeSessionNotFound, "wizard session not found")
	}
	return session, nil
}

// GetSession returns a copy of a session's current state.
func (m *Manager) GetSession(sessionId string) (*Session, error) {
	session, err := m.lookup(sessionId)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.snapshot(), nil
}

// BindTask records the render task created for a finished session.
func (m *Manager) BindTask(sessionId, taskId string) {
	session, err := m.lookup(sessionId)
	if err != nil {
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.TaskId = taskId
	session.Step = types.WizardStepRendering
	session.UpdatedAt = time.Now()
}

// Handle processes one user message and advances the session. The
// session lock is held for the whole turn, so concurrent messages to
// the same session are applied one at a time.
func (m *Manager) Handle(ctx context.Context, sessionId, text string) (*Result, error) {
	session, err := m.lookup(sessionId)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	result, err := m.advance(ctx, session, text)
	if err != nil {
		return nil, err
	}
	result.Session = session.snapshot()
	return result, nil
}

func (m *Manager) advance(ctx context.Context, session *Session, text string) (*Result, error) {
	session.UpdatedAt = time.Now()

	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)

	switch lowered {
	case "restart", "start over":
		return m.restart(session), nil
	case "back", "go back":
		return m.stepBack(session), nil
	}

	switch session.Step {
	case types.WizardStepTranscript:
		return m.acceptTranscript(ctx, session, trimmed)
	case types.WizardStepQuote:
		return m.acceptQuote(ctx, session, trimmed)
	case types.WizardStepVoice, types.WizardStepTheme, types.WizardStepMood, types.WizardStepFormat:
		return m.acceptOption(ctx, session, trimmed)
	case types.WizardStepConfirm:
		return m.acceptConfirm(session, lowered)
	case types.WizardStepRendering, types.WizardStepDone:
		return &Result{
			Session: session,
			Reply:   "Your clip is already being rendered. Say restart to begin a new one.",
		}, nil
	default:
		return nil, apperrors.New(apperrors.CodeCommandUnclear, "wizard session is in an unknown state")
	}
}

func (m *Manager) restart(session *Session) *Result {
	session.Step = types.WizardStepTranscript
	session.Transcript = ""
	session.Quotes = nil
	session.Selections = make(map[string]string)
	session.TaskId = ""
	return &Result{
		Session: session,
		Reply:   "Starting over. Paste the sermon transcript you would like to turn into a clip.",
	}
}

func (m *Manager) stepBack(session *Session) *Result {
	prev := previousStep(session.Step)
	if key := selectionKeyForStep(prev); key != "" {
		delete(session.Selections, key)
	}
	session.Step = prev
	return m.promptForStep(session)
}

func (m *Manager) acceptTranscript(ctx context.Context, session *Session, transcript string) (*Result, error) {
	if strings.TrimSpace(transcript) == "" {
		return &Result{
			Session: session,
			Reply:   "The transcript looks empty. Paste the sermon text to continue.",
		}, nil
	}
	session.Transcript = transcript

	quotes, err := m.extractor.ExtractQuotes(ctx, transcript, maxSessionQuotes)
	if err != nil {
		log.GetLogger().Error("wizard quote extraction failed", zap.String("session_id", session.Id), zap.Error(err))
		return nil, err
	}
	session.Quotes = quotes
	session.Step = types.WizardStepQuote

	var sb strings.Builder
	sb.WriteString("Here are the most shareable moments I found. Pick one by number, or type your own quote.\n")
	for i, quote := range quotes {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, quote))
	}
	return &Result{Session: session, Reply: sb.String()}, nil
}

func (m *Manager) acceptQuote(ctx context.Context, session *Session, text string) (*Result, error) {
	if text == "" {
		return &Result{
			Session: session,
			Reply:   "Pick a quote by number, or type the quote you want to use.",
		}, nil
	}

	if idx, err := strconv.Atoi(text); err == nil {
		if idx < 1 || idx > len(session.Quotes) {
			return &Result{
				Session: session,
				Reply:   fmt.Sprintf("There are %d quotes to choose from. Pick a number in that range, or type your own quote.", len(session.Quotes)),
			}, nil
		}
		session.Selections[SelQuote] = session.Quotes[idx-1]
	} else if quote, ok := m.matchQuote(session, text); ok {
		session.Selections[SelQuote] = quote
	} else {
		// Anything longer than a short command is treated as a custom quote.
		if len(strings.Fields(text)) < 3 {
			return &Result{
				Session: session,
				Reply:   "I did not catch that. Pick a quote by number, or paste the quote you want to use.",
			}, nil
		}
		session.Selections[SelQuote] = text
	}

	session.Step = m.firstUnansweredStep(session)
	return m.promptForStep(session), nil
}

// matchQuote matches a pasted fragment back to one of the extracted quotes.
func (m *Manager) matchQuote(session *Session, text string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if len(needle) < 10 {
		return "", false
	}
	for _, quote := range session.Quotes {
		hay := strings.ToLower(quote)
		if strings.Contains(hay, needle) || strings.Contains(needle, hay) {
			return quote, true
		}
	}
	return "", false
}

func (m *Manager) acceptOption(ctx context.Context, session *Session, text string) (*Result, error) {
	options := types.OptionsForStep(session.Step)
	key := selectionKeyForStep(session.Step)

	code, ok := MatchOption(text, options)
	if !ok {
		code, ok = m.interpretWithLlm(ctx, text, session.Step, options)
	}
	if !ok {
		return &Result{
			Session: session,
			Reply:   "I did not catch that. " + promptText(session.Step),
			Options: options,
		}, nil
	}

	session.Selections[key] = code
	session.Step = m.firstUnansweredStep(session)
	return m.promptForStep(session), nil
}

// firstUnansweredStep finds the next step still missing a selection, so a
// user who changed one setting from the confirm screen lands straight back
// on confirm instead of repeating the rest of the flow.
func (m *Manager) firstUnansweredStep(session *Session) types.WizardStep {
	step := nextStep(session.Step)
	for step != types.WizardStepConfirm {
		key := selectionKeyForStep(step)
		if key == "" || session.Selections[key] == "" {
			return step
		}
		step = nextStep(step)
	}
	return types.WizardStepConfirm
}

// interpretWithLlm asks the language model to map a free form request
// onto one of the option codes. Used only after rule based matching
// fails, so most turns never hit the model.
func (m *Manager) interpretWithLlm(ctx context.Context, text string, step types.WizardStep, options []types.WizardOption) (string, bool) {
	if m.chat == nil {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString("You map a user's request to exactly one option code.\nOptions:\n")
	for _, opt := range options {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", opt.Code, opt.Label))
	}
	sb.WriteString("Reply with only the code. If no option fits, reply with only the word UNCLEAR.")

	reply, err := m.chat.ChatCompletion(ctx, sb.String(), text)
	if err != nil {
		log.GetLogger().Warn("wizard llm interpretation failed", zap.String("step", string(step)), zap.Error(err))
		return "", false
	}
	code := strings.ToLower(strings.TrimSpace(reply))
	if lo.Contains(OptionCodes(options), code) {
		return code, true
	}
	return "", false
}

func (m *Manager) acceptConfirm(session *Session, lowered string) (*Result, error) {
	switch lowered {
	case "yes", "y", "go", "render", "looks good", "confirm", "ok":
		return &Result{
			Session:       session,
			Reply:         "Rendering your clip now. This takes a few minutes.",
			ReadyToRender: true,
		}, nil
	case "no", "n":
		return m.stepBack(session), nil
	default:
		// A named setting jumps back to that step.
		for _, step := range []types.WizardStep{types.WizardStepVoice, types.WizardStepTheme, types.WizardStepMood, types.WizardStepFormat} {
			if strings.Contains(lowered, string(step)) {
				if key := selectionKeyForStep(step); key != "" {
					delete(session.Selections, key)
				}
				session.Step = step
				return m.promptForStep(session), nil
			}
		}
		return &Result{
			Session: session,
			Reply:   "Say yes to render, no to go back, or name the setting you want to change.",
		}, nil
	}
}

func (m *Manager) promptForStep(session *Session) *Result {
	if session.Step == types.WizardStepConfirm {
		return &Result{Session: session, Reply: confirmSummary(session)}
	}
	return &Result{
		Session: session,
		Reply:   promptText(session.Step),
		Options: types.OptionsForStep(session.Step),
	}
}

func promptText(step types.WizardStep) string {
	switch step {
	case types.WizardStepTranscript:
		return "Paste the sermon transcript you would like to turn into a clip."
	case types.WizardStepQuote:
		return "Pick a quote by number, or type the quote you want to use."
	case types.WizardStepVoice:
		return "Which narration voice would you like?"
	case types.WizardStepTheme:
		return "Which visual theme should the clip use?"
	case types.WizardStepMood:
		return "What mood should the clip carry?"
	case types.WizardStepFormat:
		return "Which format do you need?"
	default:
		return ""
	}
}

func confirmSummary(session *Session) string {
	label := func(step types.WizardStep, key string) string {
		code := session.Selections[key]
		for _, opt := range types.OptionsForStep(step) {
			if opt.Code == code {
				return opt.Label
			}
		}
		return code
	}
	return fmt.Sprintf(
		"Here is your clip:\nQuote: %q\nVoice: %s\nTheme: %s\nMood: %s\nFormat: %s\nSay yes to render, or name the setting you want to change.",
		session.Selections[SelQuote],
		label(types.WizardStepVoice, SelVoice),
		label(types.WizardStepTheme, SelTheme),
		label(types.WizardStepMood, SelMood),
		label(types.WizardStepFormat, SelFormat),
	)
}
