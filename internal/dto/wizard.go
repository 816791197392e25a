package dto

import "sermonclip/internal/types"

// CreateWizardSessionReq opens a new conversational session. The transcript
// may be supplied up front or pasted as the first message.
type CreateWizardSessionReq struct {
	Transcript string `json:"transcript,omitempty"`
}

// WizardMessageReq is one free-form user utterance within a session.
type WizardMessageReq struct {
	Text string `json:"text" binding:"required"`
}

// WizardStateResData is the session snapshot returned after every exchange.
type WizardStateResData struct {
	SessionId  string               `json:"session_id"`
	Step       types.WizardStep     `json:"step"`
	Reply      string               `json:"reply"`
	Options    []types.WizardOption `json:"options,omitempty"`
	Quotes     []string             `json:"quotes,omitempty"`
	Selections map[string]string    `json:"selections"`
	TaskId     string               `json:"task_id,omitempty"`
}
