package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrNativeUnavailable indicates the native whisper backend is not compiled
// into this binary.
var ErrNativeUnavailable = errors.New("engine: native whisper backend not compiled in")

// New constructs an engine for the given model with the resolved parameter
// structure. The native backend is used when compiled in; otherwise the stub
// engine is returned with a warning so the surrounding tooling keeps working.
func New(model string, resolved map[string]any) (Engine, error) {
	if NativeAvailable() {
		eng, err := NewNative(model, resolved)
		if err != nil {
			return nil, fmt.Errorf("init native engine: %w", err)
		}
		return eng, nil
	}
	slog.Warn("native whisper backend unavailable, using stub engine", "model", model)
	return NewStub(model, resolved), nil
}

// ModelPath resolves a model argument to a file path. An existing path is
// used as-is; a bare name like "tiny" resolves to ggml-<name>.bin under dir.
func ModelPath(dir, model string) string {
	if _, err := os.Stat(model); err == nil {
		return model
	}
	name := model
	if !strings.HasPrefix(name, "ggml-") {
		name = "ggml-" + name
	}
	// Model names may contain dots ("base.en"), so check the real suffix.
	if !strings.HasSuffix(name, ".bin") {
		name += ".bin"
	}
	return filepath.Join(dir, name)
}
