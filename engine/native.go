//go:build whispercpp

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/wav"
)

// NativeAvailable reports whether the whisper.cpp backend is compiled in.
func NativeAvailable() bool { return true }

// Native drives whisper.cpp through the official Go bindings.
type Native struct {
	log    *slog.Logger
	model  whisper.Model
	wctx   whisper.Context
	params map[string]any
}

// NewNative loads the ggml model and configures a whisper context from the
// resolved parameter structure.
func NewNative(modelPath string, resolved map[string]any) (*Native, error) {
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", modelPath, err)
	}
	wctx, err := model.NewContext()
	if err != nil {
		model.Close()
		return nil, fmt.Errorf("create whisper context: %w", err)
	}

	e := &Native{
		log:    slog.Default().With("component", "engine.native"),
		model:  model,
		wctx:   wctx,
		params: map[string]any{"n_threads": 4},
	}
	if err := e.apply(resolved); err != nil {
		model.Close()
		return nil, err
	}
	return e, nil
}

// apply pushes the resolved parameters onto the whisper context. Unknown
// entries are ignored; the engine owns validation of the values themselves.
func (e *Native) apply(resolved map[string]any) error {
	for name, value := range resolved {
		e.params[name] = value
		switch name {
		case "n_threads":
			if n, ok := value.(int); ok && n > 0 {
				e.wctx.SetThreads(uint(n))
			}
		case "language":
			if lang, ok := value.(string); ok && lang != "" {
				if err := e.wctx.SetLanguage(lang); err != nil {
					return fmt.Errorf("set language %q: %w", lang, err)
				}
			}
		case "translate":
			if b, ok := value.(bool); ok {
				e.wctx.SetTranslate(b)
			}
		case "offset_ms":
			if n, ok := value.(int); ok {
				e.wctx.SetOffset(time.Duration(n) * time.Millisecond)
			}
		case "duration_ms":
			if n, ok := value.(int); ok {
				e.wctx.SetDuration(time.Duration(n) * time.Millisecond)
			}
		case "token_timestamps":
			if b, ok := value.(bool); ok {
				e.wctx.SetTokenTimestamps(b)
			}
		case "split_on_word":
			if b, ok := value.(bool); ok {
				e.wctx.SetSplitOnWord(b)
			}
		case "max_len":
			if n, ok := value.(int); ok && n > 0 {
				e.wctx.SetMaxSegmentLength(uint(n))
			}
		case "max_tokens":
			if n, ok := value.(int); ok && n > 0 {
				e.wctx.SetMaxTokensPerSegment(uint(n))
			}
		case "audio_ctx":
			if n, ok := value.(int); ok && n > 0 {
				e.wctx.SetAudioCtx(uint(n))
			}
		case "initial_prompt":
			if s, ok := value.(string); ok && s != "" {
				e.wctx.SetInitialPrompt(s)
			}
		case "temperature":
			if f, ok := value.(float64); ok {
				e.wctx.SetTemperature(float32(f))
			}
		case "temperature_inc":
			if f, ok := value.(float64); ok {
				e.wctx.SetTemperatureFallback(float32(f))
			}
		case "entropy_thold":
			if f, ok := value.(float64); ok {
				e.wctx.SetEntropyThold(float32(f))
			}
		case "thold_pt":
			if f, ok := value.(float64); ok {
				e.wctx.SetTokenThreshold(float32(f))
			}
		case "thold_ptsum":
			if f, ok := value.(float64); ok {
				e.wctx.SetTokenSumThreshold(float32(f))
			}
		case "beam_search":
			if nested, ok := value.(map[string]any); ok {
				if n, ok := nested["beam_size"].(int); ok && n > 0 {
					e.wctx.SetBeamSize(n)
				}
			}
		}
	}
	return nil
}

// TranscribeFile decodes a 16 kHz mono WAV file and transcribes it.
func (e *Native) TranscribeFile(ctx context.Context, path string, processors int) ([]Segment, error) {
	samples, err := decodeWAV(path)
	if err != nil {
		return nil, err
	}
	return e.TranscribePCM(ctx, samples, processors)
}

// TranscribePCM runs whisper over raw samples and collects the segments.
// The processors hint is accepted for interface parity; the Go bindings do
// not expose whisper_full_parallel, so parallelism stays thread-level.
func (e *Native) TranscribePCM(ctx context.Context, samples []float32, processors int) ([]Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if processors > 1 {
		e.log.Debug("processors hint not supported by bindings, using threads", "processors", processors)
	}

	e.wctx.ResetTimings()
	if err := e.wctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("whisper process: %w", err)
	}

	var segs []Segment
	for {
		s, err := e.wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read segment: %w", err)
		}
		segs = append(segs, Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return segs, nil
}

func (e *Native) Params() map[string]any { return e.params }

func (e *Native) SystemInfo() string { return e.wctx.SystemInfo() }

func (e *Native) LogTimings() { e.wctx.PrintTimings() }

func (e *Native) Close() error { return e.model.Close() }

// decodeWAV reads a WAV file into mono 16 kHz float32 samples. Other rates
// or layouts are rejected rather than resampled; conversion belongs to the
// caller's media tooling.
func decodeWAV(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav %s: %w", path, err)
	}
	if dec.SampleRate != SampleRate {
		return nil, fmt.Errorf("unsupported sample rate %d (want %d)", dec.SampleRate, SampleRate)
	}
	if dec.NumChans != 1 {
		return nil, fmt.Errorf("unsupported channel count %d (want mono)", dec.NumChans)
	}
	return buf.AsFloat32Buffer().Data, nil
}
