// Package params translates the flat CLI flag surface into the nested
// parameter structure the whisper engine expects. The schema is a load-time
// table of typed option descriptors; no reflection is involved.
package params

// Kind is the value type of a schema option.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	// KindGroup marks an option whose default is a nested set of fields.
	// Grouped fields are only reachable through their mapped flat names.
	KindGroup
)

// Option describes a single canonical engine parameter.
type Option struct {
	Kind    Kind
	Default any
	Help    string
}

// Schema maps canonical option names to their descriptors. The nested
// defaults of group entries mirror the engine's sampling and VAD structs.
var Schema = map[string]Option{
	"n_threads":        {KindInt, 4, "number of threads used for decoding"},
	"n_max_text_ctx":   {KindInt, 16384, "max tokens to use from past text as prompt"},
	"offset_ms":        {KindInt, 0, "start offset in milliseconds"},
	"duration_ms":      {KindInt, 0, "audio duration to process in milliseconds (0 = all)"},
	"translate":        {KindBool, false, "translate from source language to English"},
	"no_context":       {KindBool, false, "do not use past transcription as prompt"},
	"single_segment":   {KindBool, false, "force a single segment of output"},
	"print_special":    {KindBool, false, "print special tokens"},
	"print_progress":   {KindBool, false, "print progress information"},
	"print_realtime":   {KindBool, false, "print results from within whisper.cpp"},
	"print_timestamps": {KindBool, true, "print timestamps for each text segment"},
	"token_timestamps": {KindBool, false, "enable token-level timestamps"},
	"thold_pt":         {KindFloat, 0.01, "timestamp token probability threshold"},
	"thold_ptsum":      {KindFloat, 0.01, "timestamp token sum probability threshold"},
	"max_len":          {KindInt, 0, "max segment length in characters"},
	"split_on_word":    {KindBool, false, "split on word rather than on token"},
	"max_tokens":       {KindInt, 0, "max tokens per segment (0 = no limit)"},
	"audio_ctx":        {KindInt, 0, "overwrite the audio context size (0 = all)"},
	"initial_prompt":   {KindString, "", "initial prompt fed to the decoder"},
	"language":         {KindString, "en", "spoken language ('auto' for auto-detection)"},
	"suppress_blank":   {KindBool, true, "suppress blank outputs"},
	"temperature":      {KindFloat, 0.0, "initial decoding temperature"},
	"max_initial_ts":   {KindFloat, 1.0, "max initial timestamp"},
	"length_penalty":   {KindFloat, -1.0, "length penalty (-1 = disabled)"},
	"temperature_inc":  {KindFloat, 0.2, "temperature increase on fallback"},
	"entropy_thold":    {KindFloat, 2.4, "entropy threshold for decoder fallback"},
	"logprob_thold":    {KindFloat, -1.0, "log probability threshold for decoder fallback"},
	"no_speech_thold":  {KindFloat, 0.6, "no-speech probability threshold"},

	"greedy": {KindGroup, map[string]any{
		"best_of": 2,
	}, "greedy sampling parameters"},
	"beam_search": {KindGroup, map[string]any{
		"beam_size": -1,
		"patience":  -1.0,
	}, "beam search parameters"},
	"vad": {KindGroup, map[string]any{
		"speed_up":                false,
		"threshold":               0.5,
		"min_speech_duration_ms":  250,
		"min_silence_duration_ms": 100,
	}, "voice activity detection parameters"},
}
