// Package batch drives the engine over an ordered list of media files with
// per-file failure isolation: one bad file is logged and skipped, a manual
// interrupt aborts the whole batch before the next file.
package batch

import (
	"context"
	"log/slog"
	"time"

	"markestedt/whisperbatch/engine"
	"markestedt/whisperbatch/output"
)

// Status is the per-file processing state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// FileResult is the outcome for a single input file. Results are independent
// across files; a failure never invalidates another file's result.
type FileResult struct {
	Path     string
	Status   Status
	Segments []engine.Segment
	Err      error
	Elapsed  time.Duration
}

// Notifier receives batch progress events. All methods are called from the
// batch goroutine; implementations must not block.
type Notifier interface {
	FileStarted(path string, index, total int)
	FileFinished(res FileResult)
}

// Runner processes files strictly sequentially. Parallelism, if any, is
// delegated to the engine via the Processors hint.
type Runner struct {
	Engine     engine.Engine
	Formats    []output.Format
	Processors int
	Notifier   Notifier // optional
	Log        *slog.Logger
}

// Run transcribes each file in order and returns one result per input file.
// Files never attempted (after an interrupt) remain StatusPending.
func (r *Runner) Run(ctx context.Context, files []string) []FileResult {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}

	results := make([]FileResult, len(files))
	for i, path := range files {
		results[i] = FileResult{Path: path, Status: StatusPending}
	}

	for i := range results {
		if ctx.Err() != nil {
			log.Warn("transcription manually stopped", "remaining", len(results)-i)
			break
		}

		res := &results[i]
		res.Status = StatusProcessing
		log.Info("processing file", "file", res.Path, "index", i+1, "total", len(results))
		if r.Notifier != nil {
			r.Notifier.FileStarted(res.Path, i+1, len(results))
		}

		// Fresh per iteration so a failed file can never re-emit the
		// previous file's segments.
		start := time.Now()
		segs, err := r.Engine.TranscribeFile(ctx, res.Path, r.Processors)
		res.Elapsed = time.Since(start)

		if err != nil {
			res.Status = StatusFailed
			res.Err = err
			if ctx.Err() != nil {
				log.Warn("transcription manually stopped", "file", res.Path)
				r.finish(res)
				break
			}
			log.Error("error while processing file", "file", res.Path, "error", err)
			r.finish(res)
			continue
		}

		res.Status = StatusSucceeded
		res.Segments = segs
		r.Engine.LogTimings()
		r.dispatch(log, res)
		r.finish(res)
	}

	logSummary(log, results)
	return results
}

// dispatch writes the requested output files in fixed order and enumerates
// segments on the console. When csv output is requested the per-segment
// console log is suppressed; the file writers are independent of it.
func (r *Runner) dispatch(log *slog.Logger, res *FileResult) {
	csvRequested := false
	for _, format := range output.Order {
		if !r.wants(format) {
			continue
		}
		if format == output.FormatCsv {
			csvRequested = true
		}
		written, err := output.Write(format, res.Segments, res.Path)
		if err != nil {
			log.Error("saving result failed", "format", string(format), "file", res.Path, "error", err)
			continue
		}
		log.Info("result saved", "format", string(format), "path", written)
	}

	if csvRequested {
		return
	}
	for i, seg := range res.Segments {
		log.Info("segment", "index", i, "start", seg.Start, "end", seg.End, "text", seg.Text)
	}
}

func (r *Runner) wants(format output.Format) bool {
	for _, f := range r.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func (r *Runner) finish(res *FileResult) {
	if r.Notifier != nil {
		r.Notifier.FileFinished(*res)
	}
}

func logSummary(log *slog.Logger, results []FileResult) {
	var succeeded, failed, pending int
	for _, res := range results {
		switch res.Status {
		case StatusSucceeded:
			succeeded++
		case StatusFailed:
			failed++
		default:
			pending++
		}
	}
	log.Info("batch done", "succeeded", succeeded, "failed", failed, "skipped", pending)
}
