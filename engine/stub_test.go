package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"markestedt/whisperbatch/engine"
)

func TestStubTranscribeFile(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "a.wav")
	if err := os.WriteFile(media, []byte("not really audio"), 0644); err != nil {
		t.Fatal(err)
	}

	eng := engine.NewStub("tiny", nil)
	segs, err := eng.TranscribeFile(context.Background(), media, 1)
	if err != nil {
		t.Fatalf("TranscribeFile() returned error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].End > segs[1].Start {
		t.Error("segments must be ordered")
	}
}

func TestStubTranscribeMissingFile(t *testing.T) {
	eng := engine.NewStub("tiny", nil)
	if _, err := eng.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), 1); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStubHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := engine.NewStub("tiny", nil)
	if _, err := eng.TranscribeFile(ctx, "a.wav", 1); err == nil {
		t.Fatal("expected context error")
	}
}

func TestStubParamsCarryResolvedValues(t *testing.T) {
	eng := engine.NewStub("tiny", map[string]any{
		"language": "sv",
		"greedy":   map[string]any{"best_of": 5},
	})

	p := eng.Params()
	if _, ok := p["n_threads"]; !ok {
		t.Fatal("params must always contain n_threads")
	}
	if p["language"] != "sv" {
		t.Errorf("language = %v, want sv", p["language"])
	}
}

func TestModelPath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "custom.bin")
	if err := os.WriteFile(existing, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if got := engine.ModelPath(dir, existing); got != existing {
		t.Errorf("existing path should be used as-is, got %q", got)
	}
	if got := engine.ModelPath(dir, "tiny"); got != filepath.Join(dir, "ggml-tiny.bin") {
		t.Errorf("ModelPath(tiny) = %q", got)
	}
	if got := engine.ModelPath(dir, "ggml-base.bin"); got != filepath.Join(dir, "ggml-base.bin") {
		t.Errorf("ModelPath(ggml-base.bin) = %q", got)
	}
}
