package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadharbor/leadgen-cli/internal/enrich"
	"github.com/leadharbor/leadgen-cli/pkg/nominatim"
)

var (
	enrichInput   string
	enrichOutput  string
	enrichGeocode bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill missing lead fields from their websites",
	Long:  "Fetches each lead's website to extract social profiles and a contact email, and optionally geocodes leads that have an address but no coordinates.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		batch, err := readLeadsFile(enrichInput)
		if err != nil {
			return err
		}

		var geocoder enrich.Geocoder
		if enrichGeocode {
			geocoder = nominatim.New(nominatim.Config{
				BaseURL:   cfg.Nominatim.BaseURL,
				UserAgent: cfg.Nominatim.UserAgent,
				Email:     cfg.Nominatim.Email,
			})
		}

		enricher := enrich.New(enrich.Options{
			UserAgent:      cfg.Enrich.UserAgent,
			Timeout:        time.Duration(cfg.Enrich.TimeoutSecs) * time.Second,
			Concurrency:    cfg.Enrich.Concurrency,
			RequestsPerSec: cfg.Enrich.RequestsPerSec,
		}, geocoder)

		enriched, err := enricher.EnrichAll(ctx, batch)
		if err != nil {
			return err
		}

		geocoded := 0
		if enrichGeocode {
			geocoded = enricher.GeocodeMissing(ctx, batch)
		}

		output := enrichOutput
		if output == "" {
			output = enrichInput
		}
		if err := writeLeadsFile(output, batch); err != nil {
			return err
		}

		fmt.Printf("Leads:    %d\n", len(batch))
		fmt.Printf("Enriched: %d\n", enriched)
		if enrichGeocode {
			fmt.Printf("Geocoded: %d\n", geocoded)
		}
		fmt.Printf("Wrote %s\n", output)

		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "JSON file with leads (required)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "output file (default: overwrite input)")
	enrichCmd.Flags().BoolVar(&enrichGeocode, "geocode", false, "geocode leads missing coordinates via Nominatim")
	enrichCmd.MarkFlagRequired("input") //nolint:errcheck
	rootCmd.AddCommand(enrichCmd)
}
