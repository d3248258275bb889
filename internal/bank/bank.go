// Package bank supplies practice categories and question batches from a
// SQLite-backed question bank. The session engine treats it as an
// external data feed: it only ever reads categories and sampled batches.
package bank

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/luoyeETH/gogov/internal/practice"
)

// Source is the question-supply boundary consumed by the practice
// screens.
type Source interface {
	// Categories returns every category in display order.
	Categories(ctx context.Context) ([]practice.Category, error)

	// QuestionBatch samples up to n questions from one category.
	QuestionBatch(ctx context.Context, categoryID string, n int) ([]practice.Question, error)
}

// Bank is a Source backed by the gogov SQLite database.
type Bank struct {
	db *sql.DB
}

var _ Source = (*Bank)(nil)

// Open prepares the bank tables on db and returns a Bank over them.
func Open(db *sql.DB) (*Bank, error) {
	const ddl = `
CREATE TABLE IF NOT EXISTS categories (
	id         TEXT PRIMARY KEY,
	group_name TEXT NOT NULL DEFAULT '',
	position   INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS questions (
	id          TEXT PRIMARY KEY,
	category_id TEXT NOT NULL REFERENCES categories(id),
	prompt      TEXT NOT NULL,
	answer      TEXT NOT NULL,
	choices     TEXT NOT NULL DEFAULT '',
	explanation TEXT NOT NULL DEFAULT '',
	shortcut    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category_id);`

	if _, err := db.Exec(ddl); err != nil {
		return nil, fmt.Errorf("create bank tables: %w", err)
	}
	return &Bank{db: db}, nil
}

// Categories returns every category, with repeatable/analysis flags
// derived by the practice package.
func (b *Bank) Categories(ctx context.Context) ([]practice.Category, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT id, group_name FROM categories ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []practice.Category
	for rows.Next() {
		var id, group string
		if err := rows.Scan(&id, &group); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, practice.NewCategory(id, group))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// QuestionBatch samples n random questions from categoryID. Fewer than n
// are returned when the category holds fewer questions; an unknown
// category yields an empty batch, not an error.
func (b *Bank) QuestionBatch(ctx context.Context, categoryID string, n int) ([]practice.Question, error) {
	if n < practice.MinBatchSize {
		n = practice.MinBatchSize
	}
	if n > practice.MaxBatchSize {
		n = practice.MaxBatchSize
	}

	rows, err := b.db.QueryContext(ctx,
		`SELECT id, category_id, prompt, answer, choices, explanation, shortcut
		 FROM questions WHERE category_id = ? ORDER BY RANDOM() LIMIT ?`,
		categoryID, n)
	if err != nil {
		return nil, fmt.Errorf("query question batch: %w", err)
	}
	defer rows.Close()

	var qs []practice.Question
	for rows.Next() {
		var q practice.Question
		var choices string
		if err := rows.Scan(&q.ID, &q.CategoryID, &q.Prompt, &q.Answer, &choices, &q.Explanation, &q.Shortcut); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if choices != "" {
			if err := json.Unmarshal([]byte(choices), &q.Choices); err != nil {
				return nil, fmt.Errorf("decode choices for %s: %w", q.ID, err)
			}
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return qs, nil
}

// QuestionCount returns the total number of questions in the bank.
func (b *Bank) QuestionCount(ctx context.Context) (int, error) {
	var n int
	if err := b.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// Import validates raw bank JSON against the bank schema and upserts its
// categories and questions in one transaction. Existing rows with the
// same ids are replaced.
func (b *Bank) Import(ctx context.Context, raw []byte) (categories, questions int, err error) {
	file, err := parseBankFile(raw)
	if err != nil {
		return 0, 0, err
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for pos, c := range file.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, group_name, position) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET group_name = excluded.group_name, position = excluded.position`,
			c.ID, c.Group, pos); err != nil {
			return 0, 0, fmt.Errorf("upsert category %s: %w", c.ID, err)
		}
		categories++

		for _, q := range c.Questions {
			var choices string
			if len(q.Choices) > 0 {
				enc, err := json.Marshal(q.Choices)
				if err != nil {
					return 0, 0, fmt.Errorf("encode choices for %s: %w", q.ID, err)
				}
				choices = string(enc)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO questions (id, category_id, prompt, answer, choices, explanation, shortcut)
				 VALUES (?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET
					category_id = excluded.category_id,
					prompt      = excluded.prompt,
					answer      = excluded.answer,
					choices     = excluded.choices,
					explanation = excluded.explanation,
					shortcut    = excluded.shortcut`,
				q.ID, c.ID, q.Prompt, q.Answer, choices, q.Explanation, q.Shortcut); err != nil {
				return 0, 0, fmt.Errorf("upsert question %s: %w", q.ID, err)
			}
			questions++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit import: %w", err)
	}
	return categories, questions, nil
}
