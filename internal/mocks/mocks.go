// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockChatCompleter is a mock implementation of types.ChatCompleter
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

// MockQuoteExtractor is a mock implementation of wizard.QuoteExtractor
type MockQuoteExtractor struct {
	mock.Mock
}

func (m *MockQuoteExtractor) ExtractQuotes(ctx context.Context, transcript string, maxQuotes int) ([]string, error) {
	args := m.Called(ctx, transcript, maxQuotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockSpeechSynthesizer is a mock implementation of types.SpeechSynthesizer
type MockSpeechSynthesizer struct {
	mock.Mock
}

func (m *MockSpeechSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	args := m.Called(ctx, text, voice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockClipGenerator is a mock implementation of types.ClipGenerator
type MockClipGenerator struct {
	mock.Mock
}

func (m *MockClipGenerator) GenerateClip(ctx context.Context, prompt, format, outputPath string) error {
	args := m.Called(ctx, prompt, format, outputPath)
	return args.Error(0)
}
