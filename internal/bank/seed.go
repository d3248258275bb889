package bank

import (
	"context"
	_ "embed"
	"fmt"
)

// seedData is the bundled starter bank, imported on first run so the app
// is usable before any external bank file is loaded.
//
//go:embed seed.json
var seedData []byte

// SeedIfEmpty imports the bundled bank when the database holds no
// questions yet. Returns true when seeding happened.
func (b *Bank) SeedIfEmpty(ctx context.Context) (bool, error) {
	n, err := b.QuestionCount(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, _, err := b.Import(ctx, seedData); err != nil {
		return false, fmt.Errorf("seed bank: %w", err)
	}
	return true, nil
}
