package main

import (
	"log/slog"
	"os"

	"markestedt/whisperbatch/cmd"
)

func main() {
	// Setup logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cmd.LogLevel,
	}))
	slog.SetDefault(logger)

	cmd.Execute()
}
