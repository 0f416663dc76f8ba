// Package store persists dedupe runs and their output leads.
package store

import (
	"context"
	"time"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

// RunStatus tracks the lifecycle of a dedupe run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunStats summarizes what a run did to its input batch.
type RunStats struct {
	Input        int            `json:"input"`
	Disqualified map[string]int `json:"disqualified,omitempty"`
	Accepted     int            `json:"accepted"`
	Duplicates   map[string]int `json:"duplicates,omitempty"`
	Merged       int            `json:"merged"`
}

// Run records one dedupe execution.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Status    RunStatus `json:"status"`
	Stats     *RunStats `json:"stats,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status RunStatus `json:"status,omitempty"`
	Source string    `json:"source,omitempty"`
	Limit  int       `json:"limit,omitempty"`
	Offset int       `json:"offset,omitempty"`
}

// Store defines the persistence interface for the dedupe pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string) (*Run, error)
	CompleteRun(ctx context.Context, runID string, stats *RunStats) error
	FailRun(ctx context.Context, runID string) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	// Leads
	SaveLeads(ctx context.Context, runID string, leads []lead.Lead) error
	ListLeads(ctx context.Context, runID string) ([]lead.Lead, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
