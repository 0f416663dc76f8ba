// Package nominatim is a minimal client for the OpenStreetMap Nominatim
// search API, used to backfill coordinates for leads that arrive with an
// address but no geocode.
package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Config holds Nominatim client settings. UserAgent is required by the
// OSM usage policy; Email is recommended for high-volume use.
type Config struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	Email     string `yaml:"email" mapstructure:"email"`
}

// searchResult is one entry of the Nominatim search response.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Client queries the Nominatim search endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a Nominatim client. The OSM public instance allows at most
// one request per second, which the built-in limiter enforces.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://nominatim.openstreetmap.org"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Geocode resolves a free-text query to coordinates using the first
// search hit. Returns an error when nothing matches.
func (c *Client) Geocode(ctx context.Context, query string) (float64, float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, 0, eris.Wrap(err, "nominatim: rate limit wait")
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}

	reqURL := c.cfg.BaseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, 0, eris.Wrap(err, "nominatim: build request")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, eris.Wrap(err, "nominatim: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return 0, 0, eris.Errorf("nominatim: returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, eris.Wrap(err, "nominatim: read body")
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return 0, 0, eris.Wrap(err, "nominatim: parse response")
	}
	if len(results) == 0 {
		return 0, 0, eris.Errorf("nominatim: no match for %q", query)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, eris.Wrap(err, "nominatim: parse latitude")
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, eris.Wrap(err, "nominatim: parse longitude")
	}
	return lat, lon, nil
}
