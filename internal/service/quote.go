package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "sermonclip/pkg/errors"

	"sermonclip/internal/types"
	"sermonclip/log"
	"sermonclip/pkg/util"
)

const defaultMaxQuotes = 5

// ExtractQuotes asks the language model for shareable quote candidates and
// parses its JSON reply.
func (s Service) ExtractQuotes(ctx context.Context, transcript string, maxQuotes int) ([]string, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, apperrors.ErrTranscriptEmpty
	}
	if maxQuotes <= 0 {
		maxQuotes = defaultMaxQuotes
	}

	prompt := fmt.Sprintf(types.QuoteExtractionPrompt, maxQuotes, transcript)
	reply, err := s.Chat.ChatCompletion(ctx, "", prompt)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeQuoteExtractFailed, "quote extraction request failed", err)
	}

	var quotes []string
	if err = json.Unmarshal([]byte(util.ExtractJsonFromText(reply)), &quotes); err != nil {
		log.GetLogger().Error("quote extraction returned unparseable reply",
			zap.String("reply", reply), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.CodeLLMBadResponse, "quote extraction reply was not a JSON array", err)
	}

	cleaned := make([]string, 0, len(quotes))
	for _, quote := range quotes {
		quote = strings.TrimSpace(quote)
		if quote == "" {
			continue
		}
		cleaned = append(cleaned, quote)
		if len(cleaned) == maxQuotes {
			break
		}
	}
	if len(cleaned) == 0 {
		return nil, apperrors.New(apperrors.CodeLLMBadResponse, "quote extraction returned no usable quotes")
	}
	return cleaned, nil
}
