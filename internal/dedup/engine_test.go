package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

func TestEngine_PlaceIDDuplicate(t *testing.T) {
	e := NewEngine(DefaultConfig())

	out := e.Deduplicate([]lead.Lead{
		{Name: "Joe's Pizza", Address: "1 Main St", PlaceID: "X1"},
		{Name: "Joe's Pizza", Address: "1 Main St", PlaceID: "X1"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, 1, e.Stats().Duplicates[StrategyPlaceID])
}

func TestEngine_PlaceIDShortCircuitsFuzzy(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Same business by name/address, but distinct provider IDs: the ID is
	// authoritative, so both are accepted without a fuzzy pass.
	out := e.Deduplicate([]lead.Lead{
		{Name: "Joe's Pizza", Address: "1 Main St", PlaceID: "X1"},
		{Name: "Joe's Pizza", Address: "1 Main St", PlaceID: "X2"},
	})

	assert.Len(t, out, 2)
}

func TestEngine_FuzzyDuplicate(t *testing.T) {
	e := NewEngine(DefaultConfig())

	out := e.Deduplicate([]lead.Lead{
		{Name: "Joe's Pizza", Address: "1 Main St, Springfield"},
		{Name: "joes pizza", Address: "1 main st springfield"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "Joe's Pizza", out[0].Name)
	assert.Equal(t, 1, e.Stats().Duplicates[StrategyFuzzy])
}

func TestEngine_SharedPhoneIsNotEnough(t *testing.T) {
	e := NewEngine(DefaultConfig())

	out := e.Deduplicate([]lead.Lead{
		{Name: "A", Phone: "(555) 123-4567"},
		{Name: "B", Phone: "555-123-4567"},
	})

	assert.Len(t, out, 2)
}

// Far-apart coordinates drag the weighted score below the threshold even
// when name, address, and phone agree exactly; the signature fallback
// still catches the pair.
func TestEngine_SignatureFallback(t *testing.T) {
	e := NewEngine(DefaultConfig())

	a := lead.Lead{
		Name: "Joe's Pizza", Address: "1 Main St", Phone: "555-123-4567",
		Latitude: f64(40.0), Longitude: f64(-74.0),
	}
	b := lead.Lead{
		Name: "Joe's Pizza", Address: "1 Main St", Phone: "555-123-4567",
		Latitude: f64(40.1), Longitude: f64(-74.0), // ~11km off: a geocoder miss
	}
	require.Less(t, Similarity(a, b), 0.85)

	out := e.Deduplicate([]lead.Lead{a, b})

	require.Len(t, out, 1)
	assert.Equal(t, 1, e.Stats().Duplicates[StrategySignature])
}

func TestEngine_ThresholdIsInclusive(t *testing.T) {
	a := lead.Lead{Name: "Joe's Pizza", Address: "1 Main St, Springfield"}
	b := lead.Lead{Name: "joes pizza", Address: "1 main st springfield"}
	score := Similarity(a, b)

	e := NewEngine(Config{FuzzyThreshold: score, PreferPlaceID: true, OnDuplicate: PolicyDrop})
	out := e.Deduplicate([]lead.Lead{a, b})

	assert.Len(t, out, 1, "a score exactly at the threshold must count as a match")
}

func TestEngine_FirstSeenWins(t *testing.T) {
	e := NewEngine(DefaultConfig())

	out := e.Deduplicate([]lead.Lead{
		{Name: "First Observation", PlaceID: "X1"},
		{Name: "Second Observation", PlaceID: "X1"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "First Observation", out[0].Name)
}

func TestEngine_MergeFillsEmptyFields(t *testing.T) {
	e := NewEngine(DefaultConfig())

	out := e.Deduplicate([]lead.Lead{
		{Name: "Joe's Pizza", Address: "1 Main St", PlaceID: "X1", Phone: "555-0001"},
		{Name: "Joe's Pizza", Address: "1 Main St", PlaceID: "X1", Phone: "555-9999",
			Email: "info@joespizza.com", Rating: f64(4.5)},
	})

	require.Len(t, out, 1)
	// Filled from the duplicate.
	assert.Equal(t, "info@joespizza.com", out[0].Email)
	require.NotNil(t, out[0].Rating)
	assert.InDelta(t, 4.5, *out[0].Rating, 1e-12)
	// Never overwritten.
	assert.Equal(t, "555-0001", out[0].Phone)
	assert.Equal(t, 1, e.Stats().Merged)
}

func TestEngine_DropPolicyDiscardsDuplicateData(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OnDuplicate = PolicyDrop
	e := NewEngine(cfg)

	out := e.Deduplicate([]lead.Lead{
		{Name: "Joe's Pizza", PlaceID: "X1"},
		{Name: "Joe's Pizza", PlaceID: "X1", Email: "info@joespizza.com"},
	})

	require.Len(t, out, 1)
	assert.Empty(t, out[0].Email)
	assert.Zero(t, e.Stats().Merged)
}

func TestEngine_EmptyBatch(t *testing.T) {
	e := NewEngine(DefaultConfig())
	assert.Empty(t, e.Deduplicate(nil))
	assert.Empty(t, e.Deduplicate([]lead.Lead{}))
}

// Running dedup on its own output must change nothing.
func TestEngine_Idempotent(t *testing.T) {
	batch := []lead.Lead{
		{Name: "Joe's Pizza", Address: "1 Main St, Springfield", PlaceID: "X1"},
		{Name: "joes pizza", Address: "1 main st springfield"},
		{Name: "Mario's Trattoria", Address: "99 Elm Ave", Phone: "555-222-3333"},
		{Name: "Joe's Pizza", Address: "1 Main St, Springfield", PlaceID: "X1", Email: "a@b.co"},
	}

	first := NewEngine(DefaultConfig()).Deduplicate(batch)
	second := NewEngine(DefaultConfig()).Deduplicate(first)

	assert.Equal(t, first, second)
}

func TestEngine_PreferPlaceIDDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreferPlaceID = false
	e := NewEngine(cfg)

	// With the ID strategy off, identical records still collapse via fuzzy.
	out := e.Deduplicate([]lead.Lead{
		{Name: "Joe's Pizza", Address: "1 Main St", PlaceID: "X1"},
		{Name: "Joe's Pizza", Address: "1 Main St", PlaceID: "X2"},
	})

	assert.Len(t, out, 1)
}

func TestEngine_ZeroThresholdFallsBackToDefault(t *testing.T) {
	e := NewEngine(Config{})

	out := e.Deduplicate([]lead.Lead{
		{Name: "Joe's Pizza", Address: "1 Main St"},
		{Name: "Totally Different Business", Address: "99 Elm Ave"},
	})

	assert.Len(t, out, 2)
}
