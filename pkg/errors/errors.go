// Package errors provides structured error handling for the application.
// It defines AppError type with error codes for consistent API responses.
package errors

import (
	"errors"
	"fmt"
)

// Error codes organized by category
const (
	// General errors (1000-1099)
	CodeSuccess       = 0
	CodeUnknown       = 1000
	CodeInvalidParams = 1001
	CodeNotFound      = 1002
	CodeUnauthorized  = 1003

	// Quote extraction errors (1100-1199)
	CodeQuoteExtractFailed = 1100
	CodeTranscriptEmpty    = 1101
	CodeLLMQuotaExceeded   = 1102
	CodeLLMBadResponse     = 1103

	// Narration/TTS errors (1200-1299)
	CodeNarrationFailed   = 1200
	CodeNarrationTimeout  = 1201
	CodeTTSQuotaExceeded  = 1202
	CodeVoiceNotFound     = 1203
	CodeAudioDecodeFailed = 1204

	// Caption errors (1300-1399)
	CodeCaptionFailed = 1300

	// Video generation errors (1400-1499)
	CodeClipGenFailed    = 1400
	CodeClipGenTimeout   = 1401
	CodeStoryboardFailed = 1402

	// Composition errors (1500-1599)
	CodeComposeFailed  = 1500
	CodeFileNotFound   = 1501
	CodeFileWriteError = 1502

	// Storage errors (1600-1699)
	CodeDBError = 1600

	// Wizard/session errors (1700-1799)
	CodeSessionNotFound = 1700
	CodeStepMismatch    = 1701
	CodeCommandUnclear  = 1702
)

// AppError represents a structured application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetail wraps an error with additional detail
func WrapWithDetail(code int, message string, detail string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
	}
}

// Is checks if the target error is an AppError with the specified code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts error code from error, returns CodeUnknown if not AppError
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMessage extracts message from error
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Predefined common errors
var (
	ErrInvalidParams = New(CodeInvalidParams, "Invalid parameters")
	ErrNotFound      = New(CodeNotFound, "Resource not found")
	ErrUnauthorized  = New(CodeUnauthorized, "Unauthorized")

	// Quote extraction
	ErrQuoteExtractFailed = New(CodeQuoteExtractFailed, "Quote extraction failed")
	ErrTranscriptEmpty    = New(CodeTranscriptEmpty, "Transcript is empty")
	ErrLLMQuotaExceeded   = New(CodeLLMQuotaExceeded, "LLM quota exceeded")

	// Narration
	ErrNarrationFailed   = New(CodeNarrationFailed, "Narration synthesis failed")
	ErrTTSQuotaExceeded  = New(CodeTTSQuotaExceeded, "TTS quota exceeded")
	ErrVoiceNotFound     = New(CodeVoiceNotFound, "Voice not found")
	ErrAudioDecodeFailed = New(CodeAudioDecodeFailed, "Audio payload decode failed")

	// Video generation
	ErrClipGenFailed    = New(CodeClipGenFailed, "Clip generation failed")
	ErrStoryboardFailed = New(CodeStoryboardFailed, "Storyboard generation failed")

	// Storage
	ErrDBError      = New(CodeDBError, "Database error")
	ErrFileNotFound = New(CodeFileNotFound, "File not found")

	// Wizard
	ErrSessionNotFound = New(CodeSessionNotFound, "Session not found")
	ErrCommandUnclear  = New(CodeCommandUnclear, "Could not understand the request")
)
