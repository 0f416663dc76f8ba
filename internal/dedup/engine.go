package dedup

import (
	"go.uber.org/zap"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

// Policy selects what happens to a candidate judged to be a duplicate.
type Policy string

// Duplicate-handling policies. Merge fills empty fields of the canonical
// record from the duplicate so a later, richer observation of the same
// business still contributes its data. Drop discards the duplicate
// outright (the behavior of simpler scrapers).
const (
	PolicyMerge Policy = "merge"
	PolicyDrop  Policy = "drop"
)

// Match strategies, in the order they are tried.
const (
	StrategyPlaceID   = "place_id"
	StrategyFuzzy     = "fuzzy"
	StrategySignature = "signature"
)

// Config tunes one deduplication session.
type Config struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	PreferPlaceID  bool    `yaml:"prefer_place_id" mapstructure:"prefer_place_id"`
	OnDuplicate    Policy  `yaml:"on_duplicate" mapstructure:"on_duplicate"`
}

// DefaultConfig returns the standard session configuration.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold: 0.85,
		PreferPlaceID:  true,
		OnDuplicate:    PolicyMerge,
	}
}

// Decision is the outcome of evaluating one candidate.
type Decision struct {
	Accepted bool
	// Index of the matched canonical record when Accepted is false.
	Index int
	// Strategy that produced the match; empty on acceptance.
	Strategy string
}

// Stats summarizes a session.
type Stats struct {
	Evaluated  int            `json:"evaluated"`
	Accepted   int            `json:"accepted"`
	Duplicates map[string]int `json:"duplicates,omitempty"`
	Merged     int            `json:"merged"`
	UniqueKeys int            `json:"unique_keys"`
}

// Engine holds the state of one batch deduplication session: the accepted
// canonical records plus exact-match lookup maps. A session is
// single-threaded and must not be shared across goroutines; the fuzzy
// pass needs a consistent view of everything accepted so far. Create one
// Engine per batch; separate batches can run concurrently on separate
// Engines.
type Engine struct {
	cfg Config

	accepted       []lead.Lead
	seenPlaceIDs   map[string]int
	seenSignatures map[string]int
	seenKeys       map[lead.Key]struct{}
	stats          Stats
}

// NewEngine creates an empty session. A zero threshold falls back to the
// default so a partially populated Config cannot mark everything duplicate.
func NewEngine(cfg Config) *Engine {
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = DefaultConfig().FuzzyThreshold
	}
	if cfg.OnDuplicate == "" {
		cfg.OnDuplicate = PolicyMerge
	}
	return &Engine{
		cfg:            cfg,
		seenPlaceIDs:   make(map[string]int),
		seenSignatures: make(map[string]int),
		seenKeys:       make(map[lead.Key]struct{}),
		stats:          Stats{Duplicates: make(map[string]int)},
	}
}

// Evaluate decides whether the candidate duplicates an already-accepted
// record. Strategies are tried in priority order:
//  1. Exact place-ID match. A candidate carrying a place ID is never
//     fuzzy-matched; the provider ID is authoritative either way.
//  2. Fuzzy similarity against every accepted record, first match at or
//     above the threshold wins (list order, not best score).
//  3. Exact signature match on name|address|phone.
//
// Candidates arrive in batch order and the first-seen record stays
// canonical for its business.
func (e *Engine) Evaluate(candidate lead.Lead) Decision {
	e.stats.Evaluated++

	if e.cfg.PreferPlaceID && candidate.PlaceID != "" {
		if idx, ok := e.seenPlaceIDs[candidate.PlaceID]; ok {
			return e.duplicate(candidate, idx, StrategyPlaceID)
		}
		return e.accept(candidate)
	}

	for i := range e.accepted {
		if Similarity(candidate, e.accepted[i]) >= e.cfg.FuzzyThreshold {
			return e.duplicate(candidate, i, StrategyFuzzy)
		}
	}

	if idx, ok := e.seenSignatures[lead.Signature(candidate)]; ok {
		return e.duplicate(candidate, idx, StrategySignature)
	}

	return e.accept(candidate)
}

// Deduplicate runs every candidate through Evaluate in input order and
// returns the canonical records in first-seen order. Deterministic for a
// fixed input order and configuration; an empty batch yields an empty
// result.
func (e *Engine) Deduplicate(candidates []lead.Lead) []lead.Lead {
	for _, c := range candidates {
		e.Evaluate(c)
	}

	zap.L().Info("deduplication complete",
		zap.Int("candidates", e.stats.Evaluated),
		zap.Int("unique", len(e.accepted)),
		zap.Int("removed", e.stats.Evaluated-len(e.accepted)),
	)

	return e.Accepted()
}

// Accepted returns the canonical records accepted so far, in first-seen order.
func (e *Engine) Accepted() []lead.Lead {
	out := make([]lead.Lead, len(e.accepted))
	copy(out, e.accepted)
	return out
}

// Stats returns the session counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.Accepted = len(e.accepted)
	s.UniqueKeys = len(e.seenKeys)
	return s
}

func (e *Engine) accept(candidate lead.Lead) Decision {
	idx := len(e.accepted)
	e.accepted = append(e.accepted, candidate)

	if candidate.PlaceID != "" {
		e.seenPlaceIDs[candidate.PlaceID] = idx
	}
	e.seenSignatures[lead.Signature(candidate)] = idx
	for _, k := range lead.IdentityKeys(candidate) {
		e.seenKeys[k] = struct{}{}
	}

	return Decision{Accepted: true, Index: idx}
}

func (e *Engine) duplicate(candidate lead.Lead, idx int, strategy string) Decision {
	e.stats.Duplicates[strategy]++

	zap.L().Debug("duplicate candidate",
		zap.String("name", candidate.Name),
		zap.String("strategy", strategy),
		zap.Int("canonical_index", idx),
	)

	if e.cfg.OnDuplicate == PolicyMerge {
		if Fill(&e.accepted[idx], candidate) {
			e.stats.Merged++
			// The canonical record may have gained a place ID or new
			// identity keys; keep the lookup maps in step.
			if id := e.accepted[idx].PlaceID; id != "" {
				if _, ok := e.seenPlaceIDs[id]; !ok {
					e.seenPlaceIDs[id] = idx
				}
			}
			for _, k := range lead.IdentityKeys(e.accepted[idx]) {
				e.seenKeys[k] = struct{}{}
			}
		}
	}

	return Decision{Accepted: false, Index: idx, Strategy: strategy}
}
