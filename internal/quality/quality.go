// Package quality gates export quality: it separates genuine, usable
// business leads from placeholder, demo, or hopelessly incomplete records.
package quality

import (
	"strings"

	"go.uber.org/zap"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

// Rejection reason codes.
const (
	ReasonEmptyName   = "empty_name"
	ReasonDemoKeyword = "demo_keyword"
	ReasonNoContact   = "no_contact"
	ReasonNoSocial    = "no_social"
)

// DefaultKeywords are name substrings that mark a record as placeholder or
// test data rather than a real business.
var DefaultKeywords = []string{"demo", "sample", "test", "fake", "placeholder", "lorem ipsum"}

// Config tunes the filter.
type Config struct {
	// Keywords disqualify a lead whose name contains any of them,
	// case-insensitively. Empty means DefaultKeywords.
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`
	// RequireSocial additionally demands at least one social-media link.
	// This conflates "is this scrape enriched" with "is this a real
	// business", so it is a policy flag rather than a hard rule.
	RequireSocial bool `yaml:"require_social" mapstructure:"require_social"`
}

// DefaultConfig returns the source-faithful defaults: keyword gate on,
// social presence required.
func DefaultConfig() Config {
	return Config{Keywords: DefaultKeywords, RequireSocial: true}
}

// Filter classifies leads as usable or not. It is a pure predicate holder;
// no state is kept between calls.
type Filter struct {
	cfg Config
}

// NewFilter creates a filter, falling back to the default keyword list
// when none is configured.
func NewFilter(cfg Config) *Filter {
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultKeywords
	}
	return &Filter{cfg: cfg}
}

// Check reports whether the lead is usable, and the reason code when it
// is not. Total: every record yields a verdict, never an error.
func (f *Filter) Check(l lead.Lead) (bool, string) {
	name := strings.ToLower(strings.TrimSpace(l.Name))
	if name == "" {
		return false, ReasonEmptyName
	}
	for _, kw := range f.cfg.Keywords {
		if strings.Contains(name, strings.ToLower(kw)) {
			return false, ReasonDemoKeyword
		}
	}

	if !l.HasContact() {
		return false, ReasonNoContact
	}

	if f.cfg.RequireSocial && !l.HasSocial() {
		return false, ReasonNoSocial
	}

	return true, ""
}

// IsUsable is Check without the reason.
func (f *Filter) IsUsable(l lead.Lead) bool {
	ok, _ := f.Check(l)
	return ok
}

// Apply filters a batch, returning the usable leads in order plus a count
// of rejections per reason code.
func (f *Filter) Apply(batch []lead.Lead) ([]lead.Lead, map[string]int) {
	kept := make([]lead.Lead, 0, len(batch))
	rejected := make(map[string]int)

	for _, l := range batch {
		ok, reason := f.Check(l)
		if !ok {
			rejected[reason]++
			zap.L().Debug("lead rejected",
				zap.String("name", l.Name),
				zap.String("reason", reason),
			)
			continue
		}
		kept = append(kept, l)
	}

	if len(rejected) > 0 {
		zap.L().Info("quality filter applied",
			zap.Int("kept", len(kept)),
			zap.Int("rejected", len(batch)-len(kept)),
		)
	}

	return kept, rejected
}
