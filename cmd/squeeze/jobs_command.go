package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"squeeze/internal/store"
	"squeeze/internal/textutil"
)

func newJobsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List recorded compression jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Job store is in-memory; set store.path in the configuration to keep job history.")
				return nil
			}

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job store: %w", err)
			}
			defer st.Close()

			jobs, err := st.ListJobs(cmd.Context())
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs recorded.")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					textutil.Truncate(job.ID, 12),
					textutil.Truncate(job.Title, 32),
					job.Strategy,
					job.Stage,
					humanize.Bytes(uint64(job.OriginalBytes)),
					humanize.Bytes(uint64(job.CompressedBytes)),
					job.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Strategy", "Stage", "Original", "Compressed", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
