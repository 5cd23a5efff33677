// Package wav writes 16-bit stereo PCM WAVE files whose length isn't known
// up front: the chunk sizes are patched in by Finish.
// See http://soundfile.sapp.org/doc/WaveFormat/ for the format.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	// PCM is the audio format tag of uncompressed samples.
	PCM = 1

	channels      = 2
	bitsPerSample = 16
	headerSize    = 44

	riffSizeOffset = 4
	dataSizeOffset = 40
)

var (
	// ErrFinished is returned when writing after Finish.
	ErrFinished = errors.New("wav: writer finished")
	// ErrTooLarge is returned by Finish when the chunk sizes do not fit the
	// 32-bit size fields.
	ErrTooLarge = errors.New("wav: file too large")
)

// Format is the body of the fmt chunk.
type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// Writer streams samples into a WAVE file.
type Writer struct {
	ws       io.WriteSeeker
	frames   int64
	finished bool
}

// NewWriter writes a header with zero sizes to ws.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	format := Format{
		AudioFormat:   PCM,
		Channels:      channels,
		SampleRate:    uint32(sampleRate),
		BitsPerSample: bitsPerSample,
	}
	format.BlockAlign = channels * bitsPerSample / 8
	format.ByteRate = uint32(sampleRate) * uint32(format.BlockAlign)

	header := []any{
		[]byte("RIFF"), int32(0), []byte("WAVE"),
		[]byte("fmt "), int32(16), format,
		[]byte("data"), int32(0),
	}
	for _, field := range header {
		if err := binary.Write(ws, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("writing wav header: %w", err)
		}
	}
	return &Writer{ws: ws}, nil
}

// Write appends interleaved stereo samples. A trailing odd sample is
// rejected.
func (w *Writer) Write(samples []int16) error {
	if w.finished {
		return ErrFinished
	}
	if len(samples)%channels != 0 {
		return fmt.Errorf("wav: %d samples is not a whole number of stereo frames", len(samples))
	}
	if err := binary.Write(w.ws, binary.LittleEndian, samples); err != nil {
		return err
	}
	w.frames += int64(len(samples) / channels)
	return nil
}

// Frames returns the number of stereo frames written so far.
func (w *Writer) Frames() int64 {
	return w.frames
}

// Finish patches the chunk sizes and returns the file length. The writer
// must not be used afterwards.
func (w *Writer) Finish() (int64, error) {
	if w.finished {
		return 0, ErrFinished
	}
	w.finished = true

	wlen, err := w.ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	riff, data, err := chunkSizes(wlen)
	if err != nil {
		return 0, err
	}
	patches := []struct {
		offset int64
		value  uint32
	}{
		{riffSizeOffset, riff},
		{dataSizeOffset, data},
	}
	for _, p := range patches {
		if _, err := w.ws.Seek(p.offset, io.SeekStart); err != nil {
			return 0, err
		}
		if err := binary.Write(w.ws, binary.LittleEndian, p.value); err != nil {
			return 0, err
		}
	}
	if _, err := w.ws.Seek(wlen, io.SeekStart); err != nil {
		return 0, err
	}
	return wlen, nil
}

// chunkSizes returns the RIFF and data chunk sizes of a file wlen bytes long.
func chunkSizes(wlen int64) (riff, data uint32, err error) {
	if wlen < headerSize {
		return 0, 0, fmt.Errorf("wav: %d bytes is shorter than the header", wlen)
	}
	if wlen-8 > math.MaxUint32 {
		return 0, 0, fmt.Errorf("%w: %d bytes", ErrTooLarge, wlen)
	}
	return uint32(wlen - 8), uint32(wlen - headerSize), nil
}
