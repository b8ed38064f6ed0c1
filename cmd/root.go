// Package cmd implements the whisperbatch command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"markestedt/whisperbatch/batch"
	"markestedt/whisperbatch/config"
	"markestedt/whisperbatch/engine"
	"markestedt/whisperbatch/output"
	"markestedt/whisperbatch/params"
	"markestedt/whisperbatch/storage"
	"markestedt/whisperbatch/web"
)

// version is shown by --version; override at build time with
// -ldflags "-X markestedt/whisperbatch/cmd.version=...".
var version = "0.1.0-dev"

// LogLevel is the level of the default logger, raised to debug by --verbose.
var LogLevel = new(slog.LevelVar)

var header = `====================================================
whisperbatch
Batch transcription CLI built on whisper.cpp
Version: %s
====================================================
`

var (
	flagModel      string
	flagProcessors int
	flagOutputTxt  bool
	flagOutputVtt  bool
	flagOutputSrt  bool
	flagOutputCsv  bool
	flagListen     string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "whisperbatch media_file...",
	Short:   "Transcribe media files with whisper.cpp",
	Long:    "whisperbatch drives a whisper.cpp engine over one or more media files and writes transcripts as txt, vtt, srt or csv.",
	Args:    cobra.MinimumNArgs(1),
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			LogLevel.Set(slog.LevelDebug)
		}
	},
	RunE: runBatch,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&flagModel, "model", "m", "", "path to the ggml model, or just the model name")
	rootCmd.Flags().IntVar(&flagProcessors, "processors", 0, "number of processors to use during computation")
	rootCmd.Flags().BoolVar(&flagOutputTxt, "output-txt", false, "output result in a text file")
	rootCmd.Flags().BoolVar(&flagOutputVtt, "output-vtt", false, "output result in a vtt file")
	rootCmd.Flags().BoolVar(&flagOutputSrt, "output-srt", false, "output result in a srt file")
	rootCmd.Flags().BoolVar(&flagOutputCsv, "output-csv", false, "output result in a csv file")

	// whisper.cpp spells these -otxt and friends; accept that spelling too.
	// pflag reads a single dash as a shorthand cluster, so the aliases take
	// two dashes. Hidden to keep the help to one flag per format.
	rootCmd.Flags().BoolVar(&flagOutputTxt, "otxt", false, "output result in a text file")
	rootCmd.Flags().BoolVar(&flagOutputVtt, "ovtt", false, "output result in a vtt file")
	rootCmd.Flags().BoolVar(&flagOutputSrt, "osrt", false, "output result in a srt file")
	rootCmd.Flags().BoolVar(&flagOutputCsv, "ocsv", false, "output result in a csv file")
	for _, name := range []string{"otxt", "ovtt", "osrt", "ocsv"} {
		if err := rootCmd.Flags().MarkHidden(name); err != nil {
			panic(err)
		}
	}

	rootCmd.Flags().StringVar(&flagListen, "listen", "", "serve the live transcript view on this address")

	// One flag per engine parameter, derived from the schema
	params.RegisterFlags(rootCmd.Flags())

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(historyCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	fmt.Printf(header, version)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := flagModel
	if model == "" {
		model = cfg.Model.Name
	}
	processors := flagProcessors
	if processors == 0 {
		processors = cfg.Batch.Processors
	}
	listen := flagListen
	if listen == "" {
		listen = cfg.Web.Listen
	}

	resolved := params.Resolve(params.Collect(cmd.Flags()))
	slog.Info("Running with model", "model", model)
	slog.Debug("Resolved engine params", "params", resolved)

	eng, err := engine.New(engine.ModelPath(cfg.Model.Dir, model), resolved)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer eng.Close()

	slog.Info("System info",
		"n_threads", eng.Params()["n_threads"],
		"processors", processors,
		"other", eng.SystemInfo(),
	)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var db *storage.DB
	if cfg.History.Enabled {
		dataDir, err := config.DataDir()
		if err != nil {
			return err
		}
		db, err = storage.Open(dataDir)
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer db.Close()
	}

	var notifier batch.Notifier
	if listen != "" {
		srv := web.NewServer(db, listen)
		go func() {
			if err := srv.Start(ctx); err != nil {
				slog.Error("Live view server failed", "error", err)
			}
		}()
		notifier = srv
	}

	runner := &batch.Runner{
		Engine:     eng,
		Formats:    requestedFormats(),
		Processors: processors,
		Notifier:   notifier,
	}
	results := runner.Run(ctx, args)

	if db != nil {
		if _, err := db.SaveRun(model, processors, results); err != nil {
			slog.Error("Failed to save run history", "error", err)
		}
	}
	return nil
}

// requestedFormats returns the output formats in dispatch order.
func requestedFormats() []output.Format {
	var formats []output.Format
	if flagOutputTxt {
		formats = append(formats, output.FormatTxt)
	}
	if flagOutputVtt {
		formats = append(formats, output.FormatVtt)
	}
	if flagOutputSrt {
		formats = append(formats, output.FormatSrt)
	}
	if flagOutputCsv {
		formats = append(formats, output.FormatCsv)
	}
	return formats
}
