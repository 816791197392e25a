package wizard

import (
	"maps"
	"slices"
	"sync"
	"time"

	"sermonclip/internal/types"
)

// Session tracks one user's progress through the configuration wizard.
// Sessions live in memory only; the durable artifact is the render task
// created at the end of the flow.
type Session struct {
	mu         sync.Mutex
	Id         string
	Step       types.WizardStep
	Transcript string
	Quotes     []string
	Selections map[string]string
	TaskId     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// snapshot copies the session state so callers can read it after the
// session lock is released. Callers must hold s.mu.
func (s *Session) snapshot() *Session {
	return &Session{
		Id:         s.Id,
		Step:       s.Step,
		Transcript: s.Transcript,
		Quotes:     slices.Clone(s.Quotes),
		Selections: maps.Clone(s.Selections),
		TaskId:     s.TaskId,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// Selection keys within Session.Selections.
const (
	SelQuote  = "quote"
	SelVoice  = "voice"
	SelTheme  = "theme"
	SelMood   = "mood"
	SelFormat = "format"
)

var stepOrder = []types.WizardStep{
	types.WizardStepTranscript,
	types.WizardStepQuote,
	types.WizardStepVoice,
	types.WizardStepTheme,
	types.WizardStepMood,
	types.WizardStepFormat,
	types.WizardStepConfirm,
}

func previousStep(step types.WizardStep) types.WizardStep {
	for i, s := range stepOrder {
		if s == step && i > 0 {
			return stepOrder[i-1]
		}
	}
	return stepOrder[0]
}

func nextStep(step types.WizardStep) types.WizardStep {
	for i, s := range stepOrder {
		if s == step && i < len(stepOrder)-1 {
			return stepOrder[i+1]
		}
	}
	return types.WizardStepConfirm
}

func selectionKeyForStep(step types.WizardStep) string {
	switch step {
	case types.WizardStepQuote:
		return SelQuote
	case types.WizardStepVoice:
		return SelVoice
	case types.WizardStepTheme:
		return SelTheme
	case types.WizardStepMood:
		return SelMood
	case types.WizardStepFormat:
		return SelFormat
	default:
		return ""
	}
}
