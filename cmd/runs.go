package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leadharbor/leadgen-cli/internal/store"
)

var (
	runsLimit  int
	runsStatus string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded dedupe runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck

		if err := s.Migrate(ctx); err != nil {
			return err
		}

		runs, err := s.ListRuns(ctx, store.RunFilter{
			Status: store.RunStatus(runsStatus),
			Limit:  runsLimit,
		})
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		fmt.Printf("%-36s  %-9s  %-19s  %7s  %7s  %s\n",
			"ID", "STATUS", "CREATED", "INPUT", "UNIQUE", "SOURCE")
		for _, r := range runs {
			input, accepted := "-", "-"
			if r.Stats != nil {
				input = fmt.Sprintf("%d", r.Stats.Input)
				accepted = fmt.Sprintf("%d", r.Stats.Accepted)
			}
			fmt.Printf("%-36s  %-9s  %-19s  %7s  %7s  %s\n",
				r.ID, r.Status, r.CreatedAt.Format("2006-01-02 15:04:05"),
				input, accepted, r.Source)
		}

		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "filter by status: running, complete, failed")
	rootCmd.AddCommand(runsCmd)
}
