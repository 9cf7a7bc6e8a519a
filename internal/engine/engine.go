// Package engine drives a built execution graph one tick at a time,
// producing one output sample per tick.
//
// The engine is single-threaded and pull-based: Run and Render own the
// calling goroutine until they return. The per-tick path performs no
// allocation, no locking, and no I/O; everything it needs is sized when a
// graph is installed, outside the real-time loop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/modgrid/modgrid/internal/builder"
)

var (
	// ErrNonFinite reports a module that computed NaN or ±Inf. Emitting
	// such a sample to hardware is worse than silence, so the engine stops
	// instead of propagating it.
	ErrNonFinite = errors.New("non-finite module output")
	// ErrAlreadyRunning reports a Run/Render call while the engine is
	// mid-run. Running is re-entered only by starting over after a stop.
	ErrAlreadyRunning = errors.New("engine already running")
)

// State is the engine lifecycle state.
type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// prepared bundles a graph with the per-tick working memory sized for it.
// Building one happens off the hot path (New or Swap), so installing a
// graph at a tick boundary costs a pointer exchange and nothing else.
type prepared struct {
	graph *builder.Graph
	// out holds the current tick's outputs, prev the previous tick's,
	// both indexed by arena index. They trade places after every tick.
	out, prev []float64
	// scratch is the input-gathering buffer, sized to the widest fan-in.
	scratch []float64
	// ticked is false until the graph has produced its first sample; the
	// aux pass is skipped until then so parameters keep their configured
	// values at tick 0.
	ticked bool
}

func prepare(g *builder.Graph) *prepared {
	return &prepared{
		graph:   g,
		out:     make([]float64, len(g.Nodes)),
		prev:    make([]float64, len(g.Nodes)),
		scratch: make([]float64, g.MaxInputs()),
	}
}

// Engine evaluates an execution graph at audio rate.
type Engine struct {
	cur     *prepared
	pending atomic.Pointer[prepared]
	state   atomic.Int32
	probe   Probe
	tick    uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithProbe installs a per-module-compute callback. Probes are debug
// instrumentation: they run on the real-time path and must never alter
// computed values.
func WithProbe(p Probe) Option {
	return func(e *Engine) { e.probe = p }
}

// New creates an engine for the given graph, in the Stopped state.
func New(g *builder.Graph, opts ...Option) *Engine {
	e := &Engine{cur: prepare(g)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Swap stages a replacement graph. It is applied as a whole at the next
// tick boundary; the live graph's topology is never mutated in place. Safe
// to call from a non-real-time goroutine while the engine runs.
func (e *Engine) Swap(g *builder.Graph) {
	e.pending.Store(prepare(g))
}

// step evaluates one tick: apply auxiliary modulation from the previous
// tick's outputs, walk the topological order computing every module, then
// emit the sink's output.
func (e *Engine) step() (float64, error) {
	if p := e.pending.Swap(nil); p != nil {
		e.cur = p
	}
	p := e.cur
	g := p.graph

	if p.ticked {
		for i := range g.Aux {
			route := &g.Aux[i]
			// Out-of-range modulation values are rejected by the
			// parameter, which keeps its previous value; that is the
			// documented clamping behaviour, not an engine fault.
			_ = g.Nodes[route.Target].Module.SetParameter(route.Param, route.Apply(p.prev[route.Source]))
		}
	}

	for _, idx := range g.Order {
		n := g.Nodes[idx]
		inputs := p.scratch[:len(n.Inputs)]
		for slot, src := range n.Inputs {
			inputs[slot] = p.out[src]
		}
		v := n.Module.Compute(inputs)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: module %d (%s) at tick %d", ErrNonFinite, n.ID, n.Module.Name(), e.tick)
		}
		p.out[idx] = v
		if e.probe != nil {
			e.probe(n, e.tick, v)
		}
	}

	sample := p.out[g.Sink]
	p.out, p.prev = p.prev, p.out
	p.ticked = true
	e.tick++
	return sample, nil
}

// Render transitions to Running, fills buf with one sample per tick, and
// transitions back to Stopped. The context is checked between ticks;
// cancellation aborts with the context's error. A fatal compute error
// stops the engine and is returned; no tick is ever retried or skipped.
func (e *Engine) Render(ctx context.Context, buf []float64) error {
	if !e.state.CompareAndSwap(int32(Stopped), int32(Running)) {
		return ErrAlreadyRunning
	}
	defer e.state.Store(int32(Stopped))
	return e.fill(ctx, buf)
}

// Run transitions to Running and streams samples to sink in chunks of
// bufSize until the context is cancelled (returning nil, a clean stop) or
// a fatal error occurs.
func (e *Engine) Run(ctx context.Context, sink Sink, bufSize int) error {
	if bufSize <= 0 {
		return fmt.Errorf("non-positive buffer size %d", bufSize)
	}
	if !e.state.CompareAndSwap(int32(Stopped), int32(Running)) {
		return ErrAlreadyRunning
	}
	defer e.state.Store(int32(Stopped))

	buf := make([]float64, bufSize)
	for {
		if err := e.fill(ctx, buf); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if err := sink.Write(buf); err != nil {
			return fmt.Errorf("backend write: %w", err)
		}
	}
}

func (e *Engine) fill(ctx context.Context, buf []float64) error {
	for i := range buf {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		sample, err := e.step()
		if err != nil {
			return err
		}
		buf[i] = sample
	}
	return nil
}

// Sink consumes finished sample buffers. It is the engine's view of the
// audio backend; implementations live in internal/backend.
type Sink interface {
	Write(samples []float64) error
	Close() error
}
