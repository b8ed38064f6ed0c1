package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"markestedt/whisperbatch/audio"
	"markestedt/whisperbatch/config"
	"markestedt/whisperbatch/engine"
)

// Recordings quieter than this RMS level are usually a muted or wrong input
// device.
const quietThreshold = 500

var flagSaveWav string

var recordCmd = &cobra.Command{
	Use:   "record duration_seconds",
	Short: "Record from the microphone and transcribe the recording",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecord,
}

func init() {
	recordCmd.Flags().StringVarP(&flagModel, "model", "m", "", "path to the ggml model, or just the model name")
	recordCmd.Flags().StringVar(&flagSaveWav, "save", "", "also save the recording as a wav file")
}

func runRecord(cmd *cobra.Command, args []string) error {
	fmt.Printf(header, version)

	seconds, err := strconv.Atoi(args[0])
	if err != nil || seconds <= 0 {
		return fmt.Errorf("invalid duration %q (want seconds)", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Audio.MaxSeconds > 0 && seconds > cfg.Audio.MaxSeconds {
		return fmt.Errorf("duration %ds exceeds audio.max_seconds (%d)", seconds, cfg.Audio.MaxSeconds)
	}

	model := flagModel
	if model == "" {
		model = cfg.Model.Name
	}

	eng, err := engine.New(engine.ModelPath(cfg.Model.Dir, model), map[string]any{
		"print_realtime": true,
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer eng.Close()

	recorder, err := audio.NewRecorder()
	if err != nil {
		return fmt.Errorf("failed to create recorder: %w", err)
	}
	defer recorder.Close()

	slog.Info("Start recording", "duration", time.Duration(seconds)*time.Second)
	// An interrupt during capture stops the recording early; the audio
	// captured so far is still transcribed.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	seg, err := recorder.Record(ctx, time.Duration(seconds)*time.Second)
	stop()
	if err != nil {
		return fmt.Errorf("recording failed: %w", err)
	}
	slog.Info("Recording finished", "bytes", len(seg.Data), "duration", seg.Duration)

	if rms := seg.RMS(); rms < quietThreshold {
		slog.Warn("Recording is very quiet, check your input device", "rms", rms)
	}

	if flagSaveWav != "" {
		if err := os.WriteFile(flagSaveWav, seg.ToWAV(), 0644); err != nil {
			return fmt.Errorf("failed to save wav: %w", err)
		}
		slog.Info("Recording saved", "path", flagSaveWav)
	}

	segs, err := eng.TranscribePCM(cmd.Context(), seg.Samples(), 0)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}
	for i, s := range segs {
		slog.Info("segment", "index", i, "start", s.Start, "end", s.End, "text", s.Text)
	}
	eng.LogTimings()
	return nil
}
