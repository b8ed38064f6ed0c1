package storage_test

import (
	"errors"
	"testing"
	"time"

	"markestedt/whisperbatch/batch"
	"markestedt/whisperbatch/engine"
	"markestedt/whisperbatch/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveRunRoundTrip(t *testing.T) {
	db := openTestDB(t)

	results := []batch.FileResult{
		{
			Path:   "a.wav",
			Status: batch.StatusSucceeded,
			Segments: []engine.Segment{
				{Start: 0, End: time.Second, Text: "hello"},
				{Start: time.Second, End: 2 * time.Second, Text: "world"},
			},
			Elapsed: 1500 * time.Millisecond,
		},
		{
			Path:    "b.wav",
			Status:  batch.StatusFailed,
			Err:     errors.New("decode failed"),
			Elapsed: 10 * time.Millisecond,
		},
	}

	runID, err := db.SaveRun("tiny", 2, results)
	if err != nil {
		t.Fatalf("SaveRun() returned error: %v", err)
	}
	if runID == 0 {
		t.Fatal("SaveRun() returned zero run ID")
	}

	runs, err := db.GetRuns(10)
	if err != nil {
		t.Fatalf("GetRuns() returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	run := runs[0]
	if run.Model != "tiny" || run.Processors != 2 {
		t.Errorf("run = %+v, want model=tiny processors=2", run)
	}
	if run.TotalFiles != 2 || run.Succeeded != 1 || run.Failed != 1 {
		t.Errorf("counters = total %d, ok %d, failed %d", run.TotalFiles, run.Succeeded, run.Failed)
	}
	if len(run.Files) != 2 {
		t.Fatalf("got %d run files, want 2", len(run.Files))
	}
	if run.Files[0].Path != "a.wav" || run.Files[0].SegmentCount != 2 || run.Files[0].ElapsedMs != 1500 {
		t.Errorf("file 1 = %+v", run.Files[0])
	}
	if run.Files[1].Status != string(batch.StatusFailed) || run.Files[1].ErrorMessage != "decode failed" {
		t.Errorf("file 2 = %+v", run.Files[1])
	}
}

func TestGetRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.SaveRun("tiny", 1, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := db.SaveRun("base", 1, nil); err != nil {
		t.Fatal(err)
	}

	runs, err := db.GetRuns(10)
	if err != nil {
		t.Fatalf("GetRuns() returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Model != "base" {
		t.Errorf("newest run first: got %s, want base", runs[0].Model)
	}

	count, err := db.GetRunCount()
	if err != nil {
		t.Fatalf("GetRunCount() returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("GetRunCount() = %d, want 2", count)
	}
}

func TestGetRunsLimit(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 5; i++ {
		if _, err := db.SaveRun("tiny", 1, nil); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := db.GetRuns(3)
	if err != nil {
		t.Fatalf("GetRuns() returned error: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("got %d runs, want 3", len(runs))
	}
}
