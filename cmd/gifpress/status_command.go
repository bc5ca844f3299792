package main

import (
	"github.com/spf13/cobra"

	"gifpress/internal/preflight"
)

func newStatusCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the environment: gifsicle, scratch space, disk headroom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := cctx.newClient()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, 4)
			for _, check := range preflight.Run(cfg, client) {
				state := "ok"
				if !check.Passed {
					state = "FAIL"
				}
				rows = append(rows, []string{check.Name, state, check.Detail})
			}

			cmd.Println(renderTable([]string{"Check", "State", "Detail"}, rows))
			return nil
		},
	}
}
