// Package enrich fills in contact and social-media data for leads by
// visiting their websites, and backfills missing coordinates through a
// geocoder. Enrichment runs before deduplication, so the fan-out here is
// safe: each worker touches exactly one record.
package enrich

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

// maxBodyBytes caps how much of a business homepage is read.
const maxBodyBytes = 2 * 1024 * 1024

// Options configures the enricher.
type Options struct {
	UserAgent      string
	Timeout        time.Duration
	Concurrency    int
	RequestsPerSec float64
}

// Geocoder resolves a free-text location to WGS84 coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (latitude, longitude float64, err error)
}

// Enricher visits lead websites and extracts social links and emails.
type Enricher struct {
	client      *http.Client
	limiter     *rate.Limiter
	userAgent   string
	concurrency int
	geocoder    Geocoder
}

// New creates an Enricher. The geocoder may be nil, in which case
// GeocodeMissing is a no-op.
func New(opts Options, geocoder Geocoder) *Enricher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	rps := opts.RequestsPerSec
	if rps <= 0 {
		rps = 2.0
	}
	return &Enricher{
		client:      &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		userAgent:   opts.UserAgent,
		concurrency: concurrency,
		geocoder:    geocoder,
	}
}

// EnrichAll fetches every lead's website concurrently and fills in social
// links and email where missing. A failed fetch leaves its lead untouched
// and never aborts the batch. Returns the number of leads that gained data.
func (e *Enricher) EnrichAll(ctx context.Context, leads []lead.Lead) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	enriched := make([]bool, len(leads))
	for i := range leads {
		if leads[i].Website == "" {
			continue
		}
		g.Go(func() error {
			changed, err := e.enrichOne(gctx, &leads[i])
			if err != nil {
				zap.L().Debug("website enrichment failed",
					zap.String("name", leads[i].Name),
					zap.String("website", leads[i].Website),
					zap.Error(err),
				)
				return nil // skip, don't abort the batch
			}
			enriched[i] = changed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, eris.Wrap(err, "enrich: batch")
	}

	count := 0
	for _, ok := range enriched {
		if ok {
			count++
		}
	}
	zap.L().Info("enrichment complete",
		zap.Int("leads", len(leads)),
		zap.Int("enriched", count),
	)
	return count, nil
}

// enrichOne fetches one website and merges extracted data into the lead.
// Existing field values are never overwritten.
func (e *Enricher) enrichOne(ctx context.Context, l *lead.Lead) (bool, error) {
	body, err := e.fetch(ctx, l.Website)
	if err != nil {
		return false, err
	}

	changed := false

	social, err := ExtractSocialLinks(strings.NewReader(body))
	if err == nil {
		for platform, link := range social {
			if l.Social[platform] == "" {
				l.SetSocial(platform, link)
				changed = true
			}
		}
	}

	if l.Email == "" {
		if email := ExtractEmail(body); email != "" {
			l.Email = email
			changed = true
		}
	}

	return changed, nil
}

// GeocodeMissing fills coordinates for leads that have an address but no
// geocode. Sequential on purpose: public geocoders enforce strict rate
// limits. Returns the number of leads geocoded.
func (e *Enricher) GeocodeMissing(ctx context.Context, leads []lead.Lead) int {
	if e.geocoder == nil {
		return 0
	}

	geocoded := 0
	for i := range leads {
		if leads[i].HasCoordinates() || leads[i].Address == "" {
			continue
		}
		if ctx.Err() != nil {
			return geocoded
		}

		latV, lonV, err := e.geocoder.Geocode(ctx, leads[i].Address)
		if err != nil {
			zap.L().Debug("geocode failed",
				zap.String("address", leads[i].Address),
				zap.Error(err),
			)
			continue
		}
		leads[i].Latitude, leads[i].Longitude = &latV, &lonV
		geocoded++
	}

	if geocoded > 0 {
		zap.L().Info("geocode backfill complete", zap.Int("geocoded", geocoded))
	}
	return geocoded
}

// fetch downloads a page body, rate-limited and size-capped.
func (e *Enricher) fetch(ctx context.Context, rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "enrich: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "enrich: create request")
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "enrich: fetch website")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return "", eris.Errorf("enrich: website returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "enrich: read body")
	}
	return string(body), nil
}
