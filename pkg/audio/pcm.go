// Package audio handles the raw PCM narration payloads returned by the speech
// providers: duration estimation from byte counts and WAV container framing.
package audio

import (
	"encoding/base64"
	"fmt"
)

// Format describes linear PCM sample data.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// NarrationFormat is what the speech providers are asked to return:
// 24 kHz mono signed 16-bit little-endian.
var NarrationFormat = Format{
	SampleRate: 24000,
	Channels:   1,
	BitDepth:   16,
}

func (f Format) BytesPerSample() int {
	return f.BitDepth / 8
}

// BytesPerSecond is the stream rate of interleaved PCM at this format.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.Channels * f.BytesPerSample()
}

// Duration converts a PCM byte count into playable seconds. A zero-length
// buffer is zero seconds, not an error.
func (f Format) Duration(byteLength int) float64 {
	bps := f.BytesPerSecond()
	if bps <= 0 || byteLength <= 0 {
		return 0
	}
	return float64(byteLength) / float64(bps)
}

func (f Format) validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", f.Channels)
	}
	if f.BitDepth <= 0 || f.BitDepth%8 != 0 {
		return fmt.Errorf("invalid bit depth: %d", f.BitDepth)
	}
	return nil
}

// DecodePCM decodes the base64 audio payload the providers transport PCM in.
func DecodePCM(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode base64 pcm: %w", err)
	}
	return data, nil
}
