package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"gifpress/internal/history"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent optimization runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format(time.DateTime),
					filepath.Base(e.SourcePath),
					e.Strategy,
					fmt.Sprintf("%d", e.Quality),
					formatBytes(e.InputBytes),
					formatBytes(e.OutputBytes),
					fmt.Sprintf("%.1f%%", e.SavedPercent()),
					e.Duration.Round(time.Millisecond).String(),
				})
			}

			cmd.Println(renderTable(
				[]string{"When", "Source", "Strategy", "Quality", "In", "Out", "Saved", "Elapsed"},
				rows, 4, 5, 6, 7, 8,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum entries to show")

	return cmd
}
