package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// WriteWAV frames raw PCM samples into a canonical RIFF/WAVE container so the
// browser player can seek the narration track.
func WriteWAV(w io.Writer, pcm []byte, format Format) error {
	if err := format.validate(); err != nil {
		return err
	}

	dataLen := uint32(len(pcm))
	blockAlign := uint16(format.Channels * format.BytesPerSample())

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataLen)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(format.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(format.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(format.BytesPerSecond()))
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], uint16(format.BitDepth))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataLen)

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	return nil
}

// SaveWAV writes the container to a file.
func SaveWAV(path string, pcm []byte, format Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	defer file.Close()
	return WriteWAV(file, pcm, format)
}
