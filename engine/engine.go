// Package engine wraps the whisper.cpp transcription backend behind a narrow
// interface so the CLI and batch layers stay testable without the native
// library. The native backend is compiled in with the `whispercpp` build tag;
// a deterministic stub is always available.
package engine

import (
	"context"
	"fmt"
	"time"
)

// SampleRate is the PCM sample rate every backend expects.
const SampleRate = 16000

// Segment is a timestamped unit of transcribed text. Segments are produced
// by the engine and read-only to everything above it.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// String renders the segment the way the CLI enumerates results.
func (s Segment) String() string {
	return fmt.Sprintf("t0=%s, t1=%s, text=%s", s.Start, s.End, s.Text)
}

// Engine is the contract the batch layer consumes. Implementations own model
// loading, audio decoding and any internal parallelism; processors is only a
// hint forwarded to the backend.
type Engine interface {
	// TranscribeFile decodes and transcribes a media file.
	TranscribeFile(ctx context.Context, path string, processors int) ([]Segment, error)
	// TranscribePCM transcribes raw 16 kHz mono float32 samples.
	TranscribePCM(ctx context.Context, samples []float32, processors int) ([]Segment, error)
	// Params reports the effective engine parameters. The map always
	// contains an "n_threads" entry.
	Params() map[string]any
	// SystemInfo describes the compiled backend capabilities.
	SystemInfo() string
	// LogTimings emits the backend's timing instrumentation for the last
	// transcription.
	LogTimings()
	// Close releases the model and any native resources.
	Close() error
}
