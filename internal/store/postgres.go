package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/leadharbor/leadgen-cli/internal/db"
	"github.com/leadharbor/leadgen-cli/internal/lead"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: pool.Close}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	source     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	stats      JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS run_leads (
	id       TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id   TEXT NOT NULL REFERENCES runs(id),
	position INTEGER NOT NULL,
	data     JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
CREATE INDEX IF NOT EXISTS idx_run_leads_run_id ON run_leads(run_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, source string) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, source, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, source, string(RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &Run{
		ID:        id,
		Source:    source,
		Status:    RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, stats *RunStats) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal stats")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET stats = $1, status = $2, updated_at = $3 WHERE id = $4`,
		statsJSON, string(RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(RunStatusFailed), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	var r Run
	var statsNull *[]byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, source, status, stats, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.Source, &r.Status, &statsNull, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}

	if statsNull != nil {
		r.Stats = &RunStats{}
		if err := json.Unmarshal(*statsNull, r.Stats); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal stats")
		}
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `SELECT id, source, status, stats, created_at, updated_at FROM runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Source != "" {
		query += fmt.Sprintf(` AND source = $%d`, argIdx)
		args = append(args, filter.Source)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var statsNull *[]byte

		if err := rows.Scan(&r.ID, &r.Source, &r.Status, &statsNull, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if statsNull != nil {
			r.Stats = &RunStats{}
			if err := json.Unmarshal(*statsNull, r.Stats); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal stats")
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) SaveLeads(ctx context.Context, runID string, leads []lead.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(leads))
	for i, l := range leads {
		data, err := json.Marshal(l)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal lead")
		}
		rows = append(rows, []any{uuid.New().String(), runID, i, data})
	}

	_, err := db.CopyFrom(ctx, s.pool, "run_leads",
		[]string{"id", "run_id", "position", "data"}, rows)
	return eris.Wrapf(err, "postgres: copy leads for run %s", runID)
}

func (s *PostgresStore) ListLeads(ctx context.Context, runID string) ([]lead.Lead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM run_leads WHERE run_id = $1 ORDER BY position ASC`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []lead.Lead
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		var l lead.Lead
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal lead")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

var _ Store = (*PostgresStore)(nil)
var _ Store = (*SQLiteStore)(nil)
