package backend

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavBitDepth = 16

// WAVSink encodes written samples into a mono 16-bit PCM WAV file.
type WAVSink struct {
	file *os.File
	enc  *wav.Encoder
	buf  *audio.IntBuffer
}

// NewWAVSink creates the file at path and prepares the encoder. The file
// header is finalized by Close; an unclosed sink leaves a truncated file.
func NewWAVSink(path string, sampleRate int) (*WAVSink, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("non-positive sample rate %d", sampleRate)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create wav file: %w", err)
	}
	return &WAVSink{
		file: f,
		enc:  wav.NewEncoder(f, sampleRate, wavBitDepth, 1, 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

// Write implements engine.Sink, converting float samples in [-1,1] to
// 16-bit PCM. Values outside the range are clamped here and only here.
func (s *WAVSink) Write(samples []float64) error {
	if cap(s.buf.Data) < len(samples) {
		s.buf.Data = make([]int, len(samples))
	}
	s.buf.Data = s.buf.Data[:len(samples)]
	for i, v := range samples {
		s.buf.Data[i] = int(clamp(v) * 32767)
	}
	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}

// Close finalizes the WAV header and closes the file.
func (s *WAVSink) Close() error {
	if err := s.enc.Close(); err != nil {
		s.file.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	return s.file.Close()
}
