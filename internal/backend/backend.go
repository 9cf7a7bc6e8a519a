// Package backend provides the sample sinks the engine streams into: an
// in-memory buffer, a WAV file encoder, and a portaudio output device.
// The core applies no limiting; out-of-range samples are clamped only at
// the 16-bit/float32 conversion boundary of the device-facing sinks.
package backend

import "github.com/modgrid/modgrid/internal/engine"

var (
	_ engine.Sink = (*MemorySink)(nil)
	_ engine.Sink = (*WAVSink)(nil)
	_ engine.Sink = (*PortAudioSink)(nil)
)

// clamp bounds a sample to [-1, 1] for hardware-facing formats.
func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
