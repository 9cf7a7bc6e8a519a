package backend

import (
	"fmt"

	pa "github.com/gordonklaus/portaudio"
)

// PortAudioSink streams written samples to the default output device as a
// mono float32 stream. Construction initializes portaudio; Close tears it
// down again, so at most one sink should be alive per process.
type PortAudioSink struct {
	stream  *pa.Stream
	out     []float32
	started bool
}

// NewPortAudioSink opens the default output stream. framesPerBuffer fixes
// the chunk size every subsequent Write must match.
func NewPortAudioSink(sampleRate float64, framesPerBuffer int) (*PortAudioSink, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	s := &PortAudioSink{out: make([]float32, framesPerBuffer)}
	stream, err := pa.OpenDefaultStream(0, 1, sampleRate, framesPerBuffer, &s.out)
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("open default output stream: %w", err)
	}
	s.stream = stream
	return s, nil
}

// Write implements engine.Sink. The first write starts the stream; the
// call blocks until the device has consumed the buffer, which is what
// paces the engine's tick loop against the hardware clock.
func (s *PortAudioSink) Write(samples []float64) error {
	if len(samples) != len(s.out) {
		return fmt.Errorf("buffer size %d does not match stream size %d", len(samples), len(s.out))
	}
	if !s.started {
		if err := s.stream.Start(); err != nil {
			return fmt.Errorf("start stream: %w", err)
		}
		s.started = true
	}
	for i, v := range samples {
		s.out[i] = float32(clamp(v))
	}
	if err := s.stream.Write(); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}

// Close stops the stream and terminates portaudio.
func (s *PortAudioSink) Close() error {
	var firstErr error
	if s.started {
		if err := s.stream.Stop(); err != nil {
			firstErr = err
		}
	}
	if err := s.stream.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := pa.Terminate(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
