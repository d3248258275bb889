package cmd

import (
	"fmt"

	"github.com/luoyeETH/gogov/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent practice runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		records, err := st.SubmissionRepo().Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No runs yet.")
			return nil
		}

		for _, rec := range records {
			fmt.Printf("%s  %-20s  %-5s  %d/%d  %.1f%%  %d:%02d\n",
				rec.EndedAt.Format("2006-01-02 15:04"),
				rec.CategoryID,
				rec.Mode,
				rec.Correct, rec.Total,
				rec.Accuracy,
				rec.DurationSecs/60, rec.DurationSecs%60,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to list")
}
