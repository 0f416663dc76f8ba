package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadharbor/leadgen-cli/internal/dedup"
	"github.com/leadharbor/leadgen-cli/internal/ingest"
	"github.com/leadharbor/leadgen-cli/internal/lead"
	"github.com/leadharbor/leadgen-cli/internal/quality"
	"github.com/leadharbor/leadgen-cli/internal/store"
)

// pipelineResult is the outcome of one quality-filter plus dedupe pass.
type pipelineResult struct {
	Leads []lead.Lead    `json:"leads"`
	Stats store.RunStats `json:"stats"`
}

// runPipeline sanitizes the batch, drops disqualified leads when the
// quality filter is enabled, then deduplicates what survives.
func runPipeline(batch []lead.Lead) pipelineResult {
	for i := range batch {
		batch[i].Sanitize()
	}

	stats := store.RunStats{Input: len(batch)}

	if cfg.Quality.Enabled {
		f := quality.NewFilter(quality.Config{
			Keywords:      cfg.Quality.Keywords,
			RequireSocial: cfg.Quality.RequireSocial,
		})
		batch, stats.Disqualified = f.Apply(batch)
	}

	engine := dedup.NewEngine(dedup.Config{
		FuzzyThreshold: cfg.Dedup.FuzzyThreshold,
		PreferPlaceID:  cfg.Dedup.PreferPlaceID,
		OnDuplicate:    dedup.Policy(cfg.Dedup.OnDuplicate),
	})
	unique := engine.Deduplicate(batch)

	dstats := engine.Stats()
	stats.Accepted = dstats.Accepted
	stats.Duplicates = dstats.Duplicates
	stats.Merged = dstats.Merged

	return pipelineResult{Leads: unique, Stats: stats}
}

// openStore opens the configured run-history backend.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// recordRun persists the run and its output. Persistence failures are
// logged, not fatal, so the exported files are still produced.
func recordRun(ctx context.Context, source string, result pipelineResult) {
	s, err := openStore(ctx)
	if err != nil {
		zap.L().Warn("run history unavailable", zap.Error(err))
		return
	}
	defer s.Close() //nolint:errcheck

	if err := s.Migrate(ctx); err != nil {
		zap.L().Warn("run history migrate failed", zap.Error(err))
		return
	}

	saveRunToStore(ctx, s, source, result)
}

// saveRunToStore persists one run and its output on an already open store.
func saveRunToStore(ctx context.Context, s store.Store, source string, result pipelineResult) {
	run, err := s.CreateRun(ctx, source)
	if err != nil {
		zap.L().Warn("record run failed", zap.Error(err))
		return
	}
	if err := s.SaveLeads(ctx, run.ID, result.Leads); err != nil {
		zap.L().Warn("save run leads failed", zap.String("run_id", run.ID), zap.Error(err))
		_ = s.FailRun(ctx, run.ID)
		return
	}
	if err := s.CompleteRun(ctx, run.ID, &result.Stats); err != nil {
		zap.L().Warn("complete run failed", zap.String("run_id", run.ID), zap.Error(err))
		return
	}

	zap.L().Info("run recorded", zap.String("run_id", run.ID), zap.String("source", source))
}

// readLeadsFile loads a lead batch from a JSON, CSV, or XLSX file.
func readLeadsFile(path string) ([]lead.Lead, error) {
	var delimiter rune
	if cfg.Export.CSVDelimiter != "" {
		delimiter = rune(cfg.Export.CSVDelimiter[0])
	}
	return ingest.ReadFile(path, ingest.Options{
		Delimiter: delimiter,
		Encoding:  cfg.Export.CSVEncoding,
	})
}

// writeLeadsFile writes a JSON array of leads to disk.
func writeLeadsFile(path string, leads []lead.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create output %s", path)
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return eris.Wrapf(enc.Encode(leads), "write output %s", path)
}
