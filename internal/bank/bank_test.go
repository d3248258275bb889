package bank

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/luoyeETH/gogov/internal/practice"
)

func openTestBank(t *testing.T) *Bank {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	b, err := Open(db)
	require.NoError(t, err)
	return b
}

func TestSeedIfEmpty(t *testing.T) {
	b := openTestBank(t)
	ctx := context.Background()

	seeded, err := b.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	// Second call is a no-op.
	seeded, err = b.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	n, err := b.QuestionCount(ctx)
	require.NoError(t, err)
	assert.Greater(t, n, 0)
}

func TestCategories_DerivedFlags(t *testing.T) {
	b := openTestBank(t)
	ctx := context.Background()
	_, err := b.SeedIfEmpty(ctx)
	require.NoError(t, err)

	cats, err := b.Categories(ctx)
	require.NoError(t, err)

	byID := make(map[string]practice.Category)
	for _, c := range cats {
		byID[c.ID] = c
	}

	require.Contains(t, byID, "percent-decimal")
	assert.True(t, byID["percent-decimal"].Repeatable)
	assert.False(t, byID["percent-decimal"].AnalysisStyle)

	require.Contains(t, byID, "percent-precision")
	assert.True(t, byID["percent-precision"].Repeatable)
	assert.True(t, byID["percent-precision"].AnalysisStyle)

	require.Contains(t, byID, "growth-rate")
	assert.False(t, byID["growth-rate"].Repeatable)
	assert.True(t, byID["growth-rate"].AnalysisStyle)
}

func TestQuestionBatch(t *testing.T) {
	b := openTestBank(t)
	ctx := context.Background()
	_, err := b.SeedIfEmpty(ctx)
	require.NoError(t, err)

	qs, err := b.QuestionBatch(ctx, "speed-add", 3)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	for _, q := range qs {
		assert.Equal(t, "speed-add", q.CategoryID)
		assert.NotEmpty(t, q.Prompt)
		assert.NotEmpty(t, q.Answer)
	}

	// Asking for more than the category holds returns what exists.
	qs, err = b.QuestionBatch(ctx, "speed-add", 50)
	require.NoError(t, err)
	assert.Len(t, qs, 4)

	// Unknown categories yield an empty batch, not an error.
	qs, err = b.QuestionBatch(ctx, "no-such-cat", 5)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestQuestionBatch_ChoicesDecoded(t *testing.T) {
	b := openTestBank(t)
	ctx := context.Background()
	_, err := b.SeedIfEmpty(ctx)
	require.NoError(t, err)

	qs, err := b.QuestionBatch(ctx, "proportion", 50)
	require.NoError(t, err)

	var foundChoice bool
	for _, q := range qs {
		if q.MultipleChoice() {
			foundChoice = true
			assert.GreaterOrEqual(t, len(q.Choices), 2)
			assert.Contains(t, q.Choices, q.Answer)
		}
	}
	assert.True(t, foundChoice, "seed bank should carry multiple-choice questions")
}

func TestImport_Upsert(t *testing.T) {
	b := openTestBank(t)
	ctx := context.Background()

	const bankJSON = `{
		"categories": [{
			"id": "speed-add",
			"group": "基础速算",
			"questions": [
				{"id": "x1", "prompt": "1 + 1 = ?", "answer": "2"}
			]
		}]
	}`

	ncat, nq, err := b.Import(ctx, []byte(bankJSON))
	require.NoError(t, err)
	assert.Equal(t, 1, ncat)
	assert.Equal(t, 1, nq)

	// Re-importing with a changed answer replaces the row.
	const updated = `{
		"categories": [{
			"id": "speed-add",
			"questions": [
				{"id": "x1", "prompt": "1 + 1 = ?", "answer": "3"}
			]
		}]
	}`
	_, _, err = b.Import(ctx, []byte(updated))
	require.NoError(t, err)

	qs, err := b.QuestionBatch(ctx, "speed-add", 50)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "3", qs[0].Answer)
}

func TestImport_SchemaRejections(t *testing.T) {
	b := openTestBank(t)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{`},
		{"missing categories", `{}`},
		{"empty categories", `{"categories": []}`},
		{"blank answer", `{"categories": [{"id": "c", "questions": [{"id": "q", "prompt": "p", "answer": ""}]}]}`},
		{"missing prompt", `{"categories": [{"id": "c", "questions": [{"id": "q", "answer": "1"}]}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := b.Import(ctx, []byte(tc.raw))
			assert.Error(t, err)
		})
	}
}
