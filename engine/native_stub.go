//go:build !whispercpp

package engine

// NativeAvailable reports whether the whisper.cpp backend is compiled in.
func NativeAvailable() bool { return false }

// NewNative returns an error when the native backend is not built.
func NewNative(modelPath string, resolved map[string]any) (Engine, error) {
	return nil, ErrNativeUnavailable
}
