package storage

import (
	"database/sql"
	"fmt"
	"time"

	"markestedt/whisperbatch/batch"
)

// Run is a persisted batch run with its per-file outcomes.
type Run struct {
	ID         int64
	StartedAt  time.Time
	Model      string
	Processors int
	TotalFiles int
	Succeeded  int
	Failed     int
	Files      []RunFile
}

// RunFile is the stored outcome for one input file.
type RunFile struct {
	ID           int64
	Path         string
	Status       string
	ErrorMessage string
	SegmentCount int
	ElapsedMs    int64
}

// SaveRun persists a completed batch and its file results in one
// transaction. The run ID is filled in on success.
func (db *DB) SaveRun(model string, processors int, results []batch.FileResult) (int64, error) {
	var succeeded, failed int
	for _, res := range results {
		switch res.Status {
		case batch.StatusSucceeded:
			succeeded++
		case batch.StatusFailed:
			failed++
		}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs (model, processors, total_files, succeeded, failed) VALUES (?, ?, ?, ?, ?)`,
		model, processors, len(results), succeeded, failed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, res := range results {
		errMsg := ""
		if res.Err != nil {
			errMsg = res.Err.Error()
		}
		if _, err := tx.Exec(
			`INSERT INTO run_files (run_id, path, status, error_message, segment_count, elapsed_ms)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, res.Path, string(res.Status), errMsg, len(res.Segments), res.Elapsed.Milliseconds(),
		); err != nil {
			return 0, fmt.Errorf("failed to save run file: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// GetRuns retrieves recent runs, newest first, including their files.
func (db *DB) GetRuns(limit int) ([]Run, error) {
	rows, err := db.conn.Query(
		`SELECT id, started_at, model, processors, total_files, succeeded, failed
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Model, &r.Processors, &r.TotalFiles, &r.Succeeded, &r.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		files, err := db.getRunFiles(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Files = files
	}
	return runs, nil
}

func (db *DB) getRunFiles(runID int64) ([]RunFile, error) {
	rows, err := db.conn.Query(
		`SELECT id, path, status, error_message, segment_count, elapsed_ms
		 FROM run_files WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query run files: %w", err)
	}
	defer rows.Close()

	var files []RunFile
	for rows.Next() {
		var f RunFile
		var errMsg sql.NullString
		if err := rows.Scan(&f.ID, &f.Path, &f.Status, &errMsg, &f.SegmentCount, &f.ElapsedMs); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		if errMsg.Valid {
			f.ErrorMessage = errMsg.String
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// GetRunCount returns the total number of stored runs.
func (db *DB) GetRunCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}
