// Package output renders transcript segments into the supported file
// formats. Each writer is a pure function from (segments, media path) to the
// path of the written file; the output path is the media path with its
// extension swapped.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"markestedt/whisperbatch/engine"
)

// Format identifies a transcript output format.
type Format string

const (
	FormatTxt Format = "txt"
	FormatVtt Format = "vtt"
	FormatSrt Format = "srt"
	FormatCsv Format = "csv"
)

// Order is the dispatch order for a file's requested formats.
var Order = []Format{FormatTxt, FormatVtt, FormatSrt, FormatCsv}

// Write renders segments in the given format next to mediaPath and returns
// the written path.
func Write(format Format, segs []engine.Segment, mediaPath string) (string, error) {
	switch format {
	case FormatTxt:
		return WriteTxt(segs, mediaPath)
	case FormatVtt:
		return WriteVtt(segs, mediaPath)
	case FormatSrt:
		return WriteSrt(segs, mediaPath)
	case FormatCsv:
		return WriteCsv(segs, mediaPath)
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// WriteTxt writes one segment per line, prefixed with its start/end
// timestamps.
func WriteTxt(segs []engine.Segment, mediaPath string) (string, error) {
	var b strings.Builder
	for _, seg := range segs {
		fmt.Fprintf(&b, "[%s --> %s] %s\n", vttTimestamp(seg.Start), vttTimestamp(seg.End), seg.Text)
	}
	return writeDerived(mediaPath, FormatTxt, []byte(b.String()))
}

// WriteVtt writes a WebVTT subtitle file.
func WriteVtt(segs []engine.Segment, mediaPath string) (string, error) {
	var b strings.Builder
	b.WriteString("WEBVTT\n")
	for _, seg := range segs {
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%s --> %s\n", vttTimestamp(seg.Start), vttTimestamp(seg.End))
		fmt.Fprintf(&b, "%s\n", seg.Text)
	}
	return writeDerived(mediaPath, FormatVtt, []byte(b.String()))
}

// WriteSrt writes a SubRip subtitle file with sequentially numbered cues.
func WriteSrt(segs []engine.Segment, mediaPath string) (string, error) {
	var b strings.Builder
	for i, seg := range segs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", srtTimestamp(seg.Start), srtTimestamp(seg.End))
		fmt.Fprintf(&b, "%s\n", seg.Text)
	}
	return writeDerived(mediaPath, FormatSrt, []byte(b.String()))
}

// WriteCsv writes start,end,text rows with times in milliseconds, matching
// whisper.cpp's csv layout.
func WriteCsv(segs []engine.Segment, mediaPath string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, seg := range segs {
		rec := []string{
			strconv.FormatInt(seg.Start.Milliseconds(), 10),
			strconv.FormatInt(seg.End.Milliseconds(), 10),
			seg.Text,
		}
		if err := w.Write(rec); err != nil {
			return "", fmt.Errorf("encode csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("encode csv: %w", err)
	}
	return writeDerived(mediaPath, FormatCsv, []byte(b.String()))
}

// DerivedPath returns the output path for mediaPath in the given format:
// the media extension replaced by the format's.
func DerivedPath(mediaPath string, format Format) string {
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + "." + string(format)
}

// writeDerived writes data atomically (temp file + rename) so readers never
// observe a partial transcript.
func writeDerived(mediaPath string, format Format, data []byte) (string, error) {
	path := DerivedPath(mediaPath, format)
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}

// vttTimestamp formats a duration as HH:MM:SS.mmm (WebVTT).
func vttTimestamp(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// srtTimestamp formats a duration as HH:MM:SS,mmm (SubRip).
func srtTimestamp(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
