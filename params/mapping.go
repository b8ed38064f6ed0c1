package params

import "strings"

// PathSep separates the group and field segments of a canonical dotted path.
// Paths decompose into exactly two segments.
const PathSep = "."

// Mapping maps canonical dotted option paths to their externally facing flat
// names. Every flat name resolves to exactly one canonical path.
var Mapping = map[string]string{
	"greedy.best_of":              "best_of",
	"beam_search.beam_size":       "beam_size",
	"beam_search.patience":        "beam_patience",
	"vad.speed_up":                "speed_up",
	"vad.threshold":               "vad_threshold",
	"vad.min_speech_duration_ms":  "vad_min_speech_ms",
	"vad.min_silence_duration_ms": "vad_min_silence_ms",
}

// inverse is the flat-name -> canonical-path lookup, built once at init.
var inverse = func() map[string]string {
	inv := make(map[string]string, len(Mapping))
	for path, name := range Mapping {
		inv[name] = path
	}
	return inv
}()

// Canonical returns the canonical dotted path for a flat external name, or
// false when the name is not mapped.
func Canonical(flat string) (string, bool) {
	path, ok := inverse[flat]
	return path, ok
}

// SplitPath splits a canonical dotted path into its group and field parts.
// The second return is empty when the path has no separator.
func SplitPath(path string) (group, field string) {
	group, field, _ = strings.Cut(path, PathSep)
	return group, field
}

// FlagName converts a canonical or mapped option name into its CLI flag
// spelling (underscores become hyphens).
func FlagName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// ArgName is the reverse of FlagName: the flag spelling back to the option
// name used for resolution.
func ArgName(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}
