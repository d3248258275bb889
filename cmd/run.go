package cmd

import (
	"fmt"
	"os"

	"github.com/luoyeETH/gogov/internal/app"
	"github.com/luoyeETH/gogov/internal/bank"
	"github.com/luoyeETH/gogov/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	qbank, err := bank.Open(st.DB())
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}

	seeded, err := qbank.SeedIfEmpty(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Seeding question bank failed:", err)
	} else if seeded {
		fmt.Fprintln(os.Stderr, "Question bank seeded with the built-in set.")
	}

	return app.Run(app.Options{
		Bank: qbank,
		Repo: st.SubmissionRepo(),
	})
}
