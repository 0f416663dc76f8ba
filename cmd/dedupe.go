package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leadharbor/leadgen-cli/internal/export"
)

var (
	dedupeInput   string
	dedupeOutDir  string
	dedupeFormats []string
	dedupeNoSave  bool
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Filter and deduplicate a batch of scraped leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		batch, err := readLeadsFile(dedupeInput)
		if err != nil {
			return err
		}

		result := runPipeline(batch)

		outDir := dedupeOutDir
		if outDir == "" {
			outDir = cfg.Export.OutputDir
		}
		formats := dedupeFormats
		if len(formats) == 0 {
			formats = cfg.Export.Formats
		}

		exporter := export.New(export.Options{
			Dir:          outDir,
			Formats:      formats,
			CSVDelimiter: cfg.Export.CSVDelimiter,
			CSVEncoding:  cfg.Export.CSVEncoding,
			SQLiteTable:  cfg.Export.SQLiteTable,
		})
		paths, err := exporter.Export(result.Leads)
		if err != nil {
			return err
		}

		if !dedupeNoSave {
			recordRun(ctx, dedupeInput, result)
		}

		fmt.Printf("Input leads:      %d\n", result.Stats.Input)
		for reason, n := range result.Stats.Disqualified {
			fmt.Printf("Disqualified %-12s %d\n", reason+":", n)
		}
		for strategy, n := range result.Stats.Duplicates {
			fmt.Printf("Duplicates %-12s   %d\n", strategy+":", n)
		}
		fmt.Printf("Merged records:   %d\n", result.Stats.Merged)
		fmt.Printf("Unique leads:     %d\n", result.Stats.Accepted)
		for _, p := range paths {
			fmt.Printf("Wrote %s\n", p)
		}

		return nil
	},
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeInput, "input", "", "JSON file with scraped leads (required)")
	dedupeCmd.Flags().StringVar(&dedupeOutDir, "out-dir", "", "output directory (default from config)")
	dedupeCmd.Flags().StringSliceVar(&dedupeFormats, "format", nil, "output formats: csv, json, xlsx, sqlite (default from config)")
	dedupeCmd.Flags().BoolVar(&dedupeNoSave, "no-save", false, "skip recording the run in history")
	dedupeCmd.MarkFlagRequired("input") //nolint:errcheck
	rootCmd.AddCommand(dedupeCmd)
}
