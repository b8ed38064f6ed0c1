package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Stub produces deterministic segments without invoking whisper.cpp. It backs
// tests and builds where the native backend is not compiled in.
type Stub struct {
	log    *slog.Logger
	model  string
	params map[string]any

	lastElapsed time.Duration
}

// NewStub returns a stub engine carrying the resolved parameters so the
// Params contract (including n_threads) still holds.
func NewStub(model string, resolved map[string]any) *Stub {
	p := map[string]any{"n_threads": 4}
	for k, v := range resolved {
		p[k] = v
	}
	return &Stub{
		log:    slog.Default().With("component", "engine.stub", "model", model),
		model:  model,
		params: p,
	}
}

// TranscribeFile emits two fixed segments derived from the file name. The
// file must exist so missing-input errors still surface per file.
func (e *Stub) TranscribeFile(ctx context.Context, path string, processors int) ([]Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	start := time.Now()
	name := filepath.Base(path)
	segs := []Segment{
		{Start: 0, End: 2 * time.Second, Text: fmt.Sprintf("[stub:%s] %s part one", e.model, name)},
		{Start: 2 * time.Second, End: 4 * time.Second, Text: fmt.Sprintf("[stub:%s] %s part two", e.model, name)},
	}
	e.lastElapsed = time.Since(start)
	e.log.Debug("stub transcription", "file", name, "processors", processors)
	return segs, nil
}

// TranscribePCM emits a single segment covering the buffer duration.
func (e *Stub) TranscribePCM(ctx context.Context, samples []float32, processors int) ([]Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, nil
	}
	start := time.Now()
	dur := time.Duration(len(samples)) * time.Second / SampleRate
	segs := []Segment{
		{Start: 0, End: dur, Text: fmt.Sprintf("[stub:%s] received %d samples", e.model, len(samples))},
	}
	e.lastElapsed = time.Since(start)
	return segs, nil
}

func (e *Stub) Params() map[string]any { return e.params }

func (e *Stub) SystemInfo() string { return "stub backend (whisper.cpp not compiled in)" }

func (e *Stub) LogTimings() {
	e.log.Info("timings", "total", e.lastElapsed)
}

func (e *Stub) Close() error { return nil }
