package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/credenzahq/credenza/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func newJobFromStmt(stmt *sqlite.Stmt) (*db.Job, error) {
	createdAt, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}
	scheduledFor, err := db.TimeParse(stmt.GetText("scheduled_for"))
	if err != nil {
		return nil, fmt.Errorf("error parsing scheduled_for time: %w", err)
	}

	return &db.Job{
		ID:           stmt.GetInt64("id"),
		JobType:      stmt.GetText("job_type"),
		Payload:      json.RawMessage(stmt.GetText("payload")),
		Status:       stmt.GetText("status"),
		Attempts:     int(stmt.GetInt64("attempts")),
		MaxAttempts:  int(stmt.GetInt64("max_attempts")),
		CreatedAt:    createdAt,
		ScheduledFor: scheduledFor,
		LastError:    stmt.GetText("last_error"),
	}, nil
}

func (d *Db) InsertJob(job db.Job) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	maxAttempts := job.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 3
	}
	payload := job.Payload
	if payload == nil {
		payload = json.RawMessage("{}")
	}

	err = sqlitex.Execute(conn,
		`INSERT INTO job_queue (job_type, payload, max_attempts)
		VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{job.JobType, string(payload), maxAttempts},
		})
	if err != nil {
		if isConstraintUnique(err) {
			return db.ErrConstraintUnique
		}
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// Claim marks up to limit due pending jobs as in flight by bumping their
// attempt counter, and returns them. One UPDATE, same single-writer reasoning
// as ConsumeToken: two schedulers cannot claim the same job twice.
func (d *Db) Claim(limit int) ([]*db.Job, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var jobs []*db.Job
	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET attempts = attempts + 1,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id IN (
			SELECT id FROM job_queue
			WHERE status = 'pending'
				AND attempts < max_attempts
				AND scheduled_for <= (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
			ORDER BY scheduled_for
			LIMIT ?
		)
		RETURNING id, job_type, payload, status, attempts, max_attempts, created, scheduled_for, last_error`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				job, err := newJobFromStmt(stmt)
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
				return nil
			},
			Args: []interface{}{limit},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to claim jobs: %w", err)
	}
	return jobs, nil
}

func (d *Db) MarkCompleted(jobID int64) error {
	return d.markJob(jobID,
		`UPDATE job_queue
		SET status = 'completed',
			completed_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		jobID)
}

func (d *Db) MarkFailed(jobID int64, errMsg string) error {
	return d.markJob(jobID,
		`UPDATE job_queue
		SET status = IIF(attempts >= max_attempts, 'failed', 'pending'),
			last_error = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		errMsg, jobID)
}

func (d *Db) markJob(jobID int64, query string, args ...interface{}) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	if err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: args}); err != nil {
		return fmt.Errorf("failed to update job %d: %w", jobID, err)
	}
	return nil
}
