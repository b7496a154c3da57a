package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"squeeze/internal/strategy"
)

func newStrategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "strategies",
		Short:       "List available quality and source strategies",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			rows := make([][]string, 0, len(strategy.All()))
			for _, s := range strategy.All() {
				params := s.Params()
				rows = append(rows, []string{
					s.ID(),
					s.Description(),
					fmt.Sprintf("%d", params.CRF),
					fmt.Sprintf("%dk", params.BitrateKbps),
					params.Preset,
					fmt.Sprintf("%.1f", s.EstimatedSecondsPerMB()),
				})
			}
			fmt.Fprintln(out, "Quality strategies:")
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Description", "CRF", "Bitrate", "Preset", "Sec/MB"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight},
			))

			sourceRows := make([][]string, 0, len(strategy.AllSources()))
			for _, s := range strategy.AllSources() {
				sourceRows = append(sourceRows, []string{s.ID(), s.Description(), s.FormatSelector()})
			}
			fmt.Fprintln(out, "Source strategies:")
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Description", "Format selector"},
				sourceRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
