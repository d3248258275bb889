package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/luoyeETH/gogov/internal/practice"
)

// SessionRecord is a persisted completed-session submission, as listed
// by the history surfaces.
type SessionRecord struct {
	SessionID    string
	CategoryID   string
	Mode         practice.Mode
	StartedAt    time.Time
	EndedAt      time.Time
	Total        int
	Correct      int
	Accuracy     float64
	DurationSecs int
	Items        []practice.SubmissionItem
}

// SubmissionRepo is the result-submission collaborator: the engine hands
// it completed payloads and never reads them back itself.
type SubmissionRepo interface {
	// Submit records one completed session.
	Submit(ctx context.Context, payload *practice.SubmissionPayload, summary practice.Summary) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]SessionRecord, error)
}

type submissionRepo struct {
	db *sql.DB
}

// Submit stores the payload with denormalized summary columns for cheap
// listing.
func (r *submissionRepo) Submit(ctx context.Context, payload *practice.SubmissionPayload, summary practice.Summary) error {
	items, err := json.Marshal(payload.Questions)
	if err != nil {
		return fmt.Errorf("encode submission items: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO practice_sessions
		 (session_id, category_id, mode, started_at, ended_at, total, correct, accuracy, duration_secs, items)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payload.SessionID,
		payload.CategoryID,
		string(payload.Mode),
		payload.StartedAt.UTC().Format(time.RFC3339),
		payload.EndedAt.UTC().Format(time.RFC3339),
		summary.Total,
		summary.Correct,
		summary.Accuracy,
		summary.ElapsedSeconds,
		string(items),
	)
	if err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	return nil
}

// Recent lists recorded sessions, newest first.
func (r *submissionRepo) Recent(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, category_id, mode, started_at, ended_at, total, correct, accuracy, duration_secs, items
		 FROM practice_sessions ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var (
			started, ended     string
			mode, encodedItems string
			out                SessionRecord
		)
		if err := rows.Scan(&out.SessionID, &out.CategoryID, &mode, &started, &ended,
			&out.Total, &out.Correct, &out.Accuracy, &out.DurationSecs, &encodedItems); err != nil {
			return nil, fmt.Errorf("scan session record: %w", err)
		}
		out.Mode = practice.Mode(mode)
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			out.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339, ended); err == nil {
			out.EndedAt = t
		}
		if err := json.Unmarshal([]byte(encodedItems), &out.Items); err != nil {
			return nil, fmt.Errorf("decode items for %s: %w", out.SessionID, err)
		}
		records = append(records, out)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}
