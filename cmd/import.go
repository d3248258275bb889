package cmd

import (
	"fmt"
	"os"

	"github.com/luoyeETH/gogov/internal/bank"
	"github.com/luoyeETH/gogov/internal/store"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import questions from a JSON bank file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read bank file: %w", err)
		}

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

		categories, questions, err := qbank.Import(cmd.Context(), raw)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		fmt.Printf("Imported %d categories, %d questions.\n", categories, questions)
		return nil
	},
}
