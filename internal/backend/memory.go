package backend

// MemorySink accumulates every written sample in memory. It backs offline
// rendering and tests; it is not bounded, so callers own the tick budget.
type MemorySink struct {
	samples []float64
}

// NewMemorySink creates an empty sink with the given capacity hint.
func NewMemorySink(capacity int) *MemorySink {
	return &MemorySink{samples: make([]float64, 0, capacity)}
}

// Write implements engine.Sink.
func (s *MemorySink) Write(samples []float64) error {
	s.samples = append(s.samples, samples...)
	return nil
}

// Close implements engine.Sink.
func (s *MemorySink) Close() error { return nil }

// Samples returns everything written so far. The slice is owned by the
// sink; callers must not mutate it.
func (s *MemorySink) Samples() []float64 { return s.samples }
