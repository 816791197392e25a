// Package caption splits narration text into readable on-screen chunks and
// assigns each a playback window proportional to its share of the text.
//
// The speech providers return no word-level timestamps, so screen time is
// apportioned by character density: longer chunks hold the screen longer,
// which tracks speaking pace closely enough for short narrations.
package caption

import "strings"

const (
	// A chunk is closed at sentence punctuation or once it grows past
	// maxChunkChars, but never before it holds minBreakWords words.
	maxChunkChars = 25
	minBreakWords = 2
	// Forced ceiling when punctuation is sparse.
	maxChunkWords = 6
)

// Segment is one caption cue: a chunk of the narration text with the playback
// window it should be on screen for. Windows are contiguous: each segment's
// End equals the next segment's Start.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Normalize collapses whitespace runs to single spaces and trims the ends.
// Chunking and timing both operate on this normalized form.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split partitions normalized narration text into caption chunks. Every chunk
// except possibly the last has at least two words; no chunk exceeds six.
func Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	for _, word := range words {
		current = append(current, word)
		joined := strings.Join(current, " ")

		if len(current) >= minBreakWords && (len(joined) > maxChunkChars || endsSentence(word)) {
			chunks = append(chunks, joined)
			current = current[:0]
			continue
		}
		if len(current) >= maxChunkWords {
			chunks = append(chunks, joined)
			current = current[:0]
		}
	}
	// Trailing fragment keeps whatever is left, even a single word.
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// Timeline produces the caption cues for a narration of the given total
// duration. Empty text yields an empty list; a zero duration yields zero-width
// windows, which the lookup side treats as "no caption".
func Timeline(text string, totalDuration float64) []Segment {
	chunks := Split(Normalize(text))
	if len(chunks) == 0 {
		return nil
	}

	totalChars := 0
	for _, chunk := range chunks {
		totalChars += len(chunk)
	}
	if totalChars == 0 {
		return nil
	}

	segments := make([]Segment, 0, len(chunks))
	currentTime := 0.0
	for _, chunk := range chunks {
		duration := float64(len(chunk)) / float64(totalChars) * totalDuration
		segments = append(segments, Segment{
			Text:  chunk,
			Start: currentTime,
			End:   currentTime + duration,
		})
		currentTime += duration
	}
	// Close the timeline exactly on the audio duration instead of carrying
	// accumulated float error into the last window.
	segments[len(segments)-1].End = totalDuration
	return segments
}

// ActiveAt returns the caption to display at playback time t: the first
// segment whose window contains t, boundaries inclusive. The second return is
// false when no window matches, which callers render as no caption.
func ActiveAt(segments []Segment, t float64) (Segment, bool) {
	for _, seg := range segments {
		if seg.Start <= t && t <= seg.End {
			return seg, true
		}
	}
	return Segment{}, false
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}
