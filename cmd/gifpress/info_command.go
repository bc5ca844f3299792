package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newInfoCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <input.gif>",
		Short: "Inspect an animation with gifsicle --info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cctx.newClient()
			if err != nil {
				return err
			}

			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}

			meta, err := client.Info(cmd.Context(), path)
			if err != nil {
				return err
			}

			screen := "-"
			if meta.Screen != nil {
				screen = fmt.Sprintf("%dx%d", meta.Screen.Width, meta.Screen.Height)
			}
			loop := "forever"
			if meta.LoopCount > 0 {
				loop = fmt.Sprintf("%d", meta.LoopCount)
			}
			colors := "-"
			if meta.ColorTableSize > 0 {
				colors = fmt.Sprintf("%d", meta.ColorTableSize)
			}

			rows := [][]string{
				{"File", path},
				{"Size", formatBytes(meta.SizeBytes)},
				{"Frames", fmt.Sprintf("%d", meta.FrameCount)},
				{"Screen", screen},
				{"Loop count", loop},
				{"Colors", colors},
				{"Transparency", yesNo(meta.HasTransparency)},
				{"Comments", yesNo(meta.HasComments)},
				{"Extensions", yesNo(meta.HasExtensions)},
			}
			if len(meta.Delays) > 0 {
				rows = append(rows, []string{"Delays", formatDelays(meta.Delays)})
			}

			cmd.Println(renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// formatDelays summarizes frame delays; uniform animations collapse to a
// single figure instead of one entry per frame.
func formatDelays(delays []float64) string {
	uniform := true
	for _, d := range delays[1:] {
		if d != delays[0] {
			uniform = false
			break
		}
	}
	if uniform {
		return fmt.Sprintf("%.2fs per frame", delays[0])
	}

	parts := make([]string, 0, len(delays))
	for _, d := range delays {
		parts = append(parts, fmt.Sprintf("%.2fs", d))
	}
	if len(parts) > 8 {
		parts = append(parts[:8], "...")
	}
	return strings.Join(parts, ", ")
}
