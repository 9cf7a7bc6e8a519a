package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/modgrid/modgrid/internal/backend"
	"github.com/modgrid/modgrid/internal/builder"
	"github.com/modgrid/modgrid/internal/ctxlog"
	"github.com/modgrid/modgrid/internal/engine"
)

// Run renders and/or plays the loaded layout. With -out it renders the
// configured duration into a WAV file; with -play it streams the graph to
// the default output device in real time. With neither it renders into
// memory and reports a summary, which is useful for validating a layout.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	ticks := a.cfg.DurationMS * a.cfg.SampleRate / 1000
	a.logger.Debug("App.Run started.", "ticks", ticks, "sample_rate", a.cfg.SampleRate)

	if a.cfg.OutPath != "" {
		if err := a.renderWAV(ctx, ticks); err != nil {
			return err
		}
	}
	if a.cfg.Play {
		if err := a.play(ctx); err != nil {
			return err
		}
	}
	if a.cfg.OutPath == "" && !a.cfg.Play {
		samples, err := a.renderBuffer(ctx, ticks)
		if err != nil {
			return err
		}
		peak := 0.0
		for _, s := range samples {
			if abs := math.Abs(s); abs > peak {
				peak = abs
			}
		}
		fmt.Fprintf(a.outW, "rendered %d samples, peak %.4f\n", len(samples), peak)
	}
	return nil
}

// buildEngine constructs a fresh graph and engine pair. Each output target
// gets its own build so state (oscillator phase) always starts from zero.
func (a *App) buildEngine(ctx context.Context) (*engine.Engine, error) {
	graph, err := builder.Build(ctx, a.model, a.registry, float64(a.cfg.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	var opts []engine.Option
	if a.cfg.TraceModules {
		opts = append(opts, engine.WithProbe(engine.LogProbe(a.logger)))
	}
	return engine.New(graph, opts...), nil
}

func (a *App) renderBuffer(ctx context.Context, ticks int) ([]float64, error) {
	eng, err := a.buildEngine(ctx)
	if err != nil {
		return nil, err
	}
	buf := make([]float64, ticks)
	if err := eng.Render(ctx, buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf, nil
}

func (a *App) renderWAV(ctx context.Context, ticks int) error {
	samples, err := a.renderBuffer(ctx, ticks)
	if err != nil {
		return err
	}
	sink, err := backend.NewWAVSink(a.cfg.OutPath, a.cfg.SampleRate)
	if err != nil {
		return err
	}
	if err := sink.Write(samples); err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}
	a.logger.Info("WAV file written.", "path", a.cfg.OutPath, "samples", len(samples))
	return nil
}

// play streams a freshly built graph to the default output device for the
// configured duration (or until the context is cancelled).
func (a *App) play(ctx context.Context) error {
	eng, err := a.buildEngine(ctx)
	if err != nil {
		return err
	}
	sink, err := backend.NewPortAudioSink(float64(a.cfg.SampleRate), a.cfg.BufferSize)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	defer sink.Close()

	playCtx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.DurationMS)*time.Millisecond)
	defer cancel()

	a.logger.Info("Playing layout.", "duration_ms", a.cfg.DurationMS)
	if err := eng.Run(playCtx, sink, a.cfg.BufferSize); err != nil {
		return fmt.Errorf("playback: %w", err)
	}
	return nil
}
