package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const (
	kindJob   = "job"
	kindBatch = "batch"
)

// LogLine is one timestamped entry from a record's append-only log.
type LogLine struct {
	At   time.Time `json:"at"`
	Line string    `json:"line"`
}

// PutJob writes the full job record, overwriting any previous version.
func (s *Store) PutJob(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	return s.putRecord(ctx, job.ID, kindJob, string(job.Status), job.CreatedAt, job)
}

// GetJob fetches a job record by id. A missing record yields (nil, nil).
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	payload, err := s.getPayload(ctx, id, kindJob)
	if err != nil || payload == nil {
		return nil, err
	}
	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

// PutBatch writes the full batch record, overwriting any previous version.
func (s *Store) PutBatch(ctx context.Context, batch *Batch) error {
	if batch == nil {
		return errors.New("batch is nil")
	}
	return s.putRecord(ctx, batch.ID, kindBatch, string(batch.Status), batch.CreatedAt, batch)
}

// GetBatch fetches a batch record by id. A missing record yields (nil, nil).
func (s *Store) GetBatch(ctx context.Context, id string) (*Batch, error) {
	payload, err := s.getPayload(ctx, id, kindBatch)
	if err != nil || payload == nil {
		return nil, err
	}
	var batch Batch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("decode batch %s: %w", id, err)
	}
	return &batch, nil
}

func (s *Store) putRecord(ctx context.Context, id, kind, status string, createdAt time.Time, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", kind, id, err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err = s.execWithRetry(ctx,
		`INSERT INTO records (id, kind, status, payload, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             status = excluded.status,
             payload = excluded.payload,
             updated_at = excluded.updated_at`,
		id, kind, status, string(payload), createdAt.UTC().Format(time.RFC3339Nano), now,
	)
	if err != nil {
		return fmt.Errorf("write %s %s: %w", kind, id, err)
	}
	return nil
}

func (s *Store) getPayload(ctx context.Context, id, kind string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM records WHERE id = ? AND kind = ?`, id, kind)
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", kind, id, err)
	}
	return []byte(payload), nil
}

// AppendLog appends one timestamped line to a record's activity log.
func (s *Store) AppendLog(ctx context.Context, recordID, line string) error {
	err := s.execWithRetry(ctx,
		`INSERT INTO record_logs (record_id, logged_at, line) VALUES (?, ?, ?)`,
		recordID, time.Now().UTC().Format(time.RFC3339Nano), line,
	)
	if err != nil {
		return fmt.Errorf("append log for %s: %w", recordID, err)
	}
	return nil
}

// ReadLog returns a record's log lines in append order.
func (s *Store) ReadLog(ctx context.Context, recordID string) ([]LogLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT logged_at, line FROM record_logs WHERE record_id = ? ORDER BY seq`, recordID)
	if err != nil {
		return nil, fmt.Errorf("read log for %s: %w", recordID, err)
	}
	defer rows.Close()

	var lines []LogLine
	for rows.Next() {
		var at, line string
		if err := rows.Scan(&at, &line); err != nil {
			return nil, fmt.Errorf("scan log line: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			parsed = time.Time{}
		}
		lines = append(lines, LogLine{At: parsed, Line: line})
	}
	return lines, rows.Err()
}

// ListJobs returns jobs filtered by status set (or all jobs when no status is
// provided), ordered by creation time.
func (s *Store) ListJobs(ctx context.Context, statuses ...Status) ([]*Job, error) {
	filters := make([]string, len(statuses))
	for i, status := range statuses {
		filters[i] = string(status)
	}
	payloads, err := s.listPayloads(ctx, kindJob, filters)
	if err != nil {
		return nil, err
	}
	list := make([]*Job, 0, len(payloads))
	for _, payload := range payloads {
		var job Job
		if err := json.Unmarshal(payload, &job); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		list = append(list, &job)
	}
	return list, nil
}

// ListBatches returns all batch records ordered by creation time.
func (s *Store) ListBatches(ctx context.Context) ([]*Batch, error) {
	payloads, err := s.listPayloads(ctx, kindBatch, nil)
	if err != nil {
		return nil, err
	}
	list := make([]*Batch, 0, len(payloads))
	for _, payload := range payloads {
		var batch Batch
		if err := json.Unmarshal(payload, &batch); err != nil {
			return nil, fmt.Errorf("decode batch: %w", err)
		}
		list = append(list, &batch)
	}
	return list, nil
}

func (s *Store) listPayloads(ctx context.Context, kind string, statuses []string) ([][]byte, error) {
	query := `SELECT payload FROM records WHERE kind = ?`
	args := []any{kind}
	if len(statuses) > 0 {
		query += ` AND status IN (`
		for i, status := range statuses {
			if i > 0 {
				query += `, `
			}
			query += `?`
			args = append(args, status)
		}
		query += `)`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", kind, err)
	}
	defer rows.Close()

	var payloads [][]byte
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		payloads = append(payloads, []byte(payload))
	}
	return payloads, rows.Err()
}

// Delete removes a record and its log lines. Used by the sweeper once the
// on-disk directory has been reclaimed.
func (s *Store) Delete(ctx context.Context, recordID string) error {
	if err := s.execWithRetry(ctx, `DELETE FROM record_logs WHERE record_id = ?`, recordID); err != nil {
		return fmt.Errorf("delete logs for %s: %w", recordID, err)
	}
	if err := s.execWithRetry(ctx, `DELETE FROM records WHERE id = ?`, recordID); err != nil {
		return fmt.Errorf("delete record %s: %w", recordID, err)
	}
	return nil
}
