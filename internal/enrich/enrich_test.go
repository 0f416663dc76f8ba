package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

func testOptions() Options {
	return Options{
		UserAgent:      "leadgen-test",
		Timeout:        2 * time.Second,
		Concurrency:    3,
		RequestsPerSec: 1000, // don't throttle tests
	}
}

func TestEnrichAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="https://facebook.com/realcafe">fb</a>
			<p>bookings@realcafe.com</p>
		</body></html>`)
	}))
	defer srv.Close()

	leads := []lead.Lead{
		{Name: "Real Cafe", Website: srv.URL},
		{Name: "No Website Diner"},
	}

	count, err := New(testOptions(), nil).EnrichAll(context.Background(), leads)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, "https://facebook.com/realcafe", leads[0].Social[lead.PlatformFacebook])
	assert.Equal(t, "bookings@realcafe.com", leads[0].Email)
	assert.Empty(t, leads[1].Email)
}

func TestEnrichAll_DoesNotOverwrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="https://facebook.com/scraped"></a><p>scraped@cafe.com</p>`)
	}))
	defer srv.Close()

	leads := []lead.Lead{{
		Name:    "Real Cafe",
		Website: srv.URL,
		Email:   "original@cafe.com",
		Social:  map[string]string{lead.PlatformFacebook: "https://facebook.com/original"},
	}}

	_, err := New(testOptions(), nil).EnrichAll(context.Background(), leads)
	require.NoError(t, err)

	assert.Equal(t, "original@cafe.com", leads[0].Email)
	assert.Equal(t, "https://facebook.com/original", leads[0].Social[lead.PlatformFacebook])
}

func TestEnrichAll_FetchFailureSkipsLead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	leads := []lead.Lead{{Name: "Dead Site Cafe", Website: srv.URL}}

	count, err := New(testOptions(), nil).EnrichAll(context.Background(), leads)
	require.NoError(t, err, "individual fetch failures never abort the batch")
	assert.Zero(t, count)
	assert.Empty(t, leads[0].Email)
}

type stubGeocoder struct {
	lat, lon float64
	err      error
	calls    int
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (float64, float64, error) {
	s.calls++
	return s.lat, s.lon, s.err
}

func TestGeocodeMissing(t *testing.T) {
	geo := &stubGeocoder{lat: 25.2, lon: 55.27}
	e := New(testOptions(), geo)

	lat := 40.0
	lon := -74.0
	leads := []lead.Lead{
		{Name: "Needs Geocode", Address: "1 Main St"},
		{Name: "Has Coords", Address: "2 Main St", Latitude: &lat, Longitude: &lon},
		{Name: "No Address"},
	}

	geocoded := e.GeocodeMissing(context.Background(), leads)

	assert.Equal(t, 1, geocoded)
	assert.Equal(t, 1, geo.calls)
	require.True(t, leads[0].HasCoordinates())
	assert.InDelta(t, 25.2, *leads[0].Latitude, 1e-9)
	// Existing coordinates untouched.
	assert.InDelta(t, 40.0, *leads[1].Latitude, 1e-9)
}

func TestGeocodeMissing_NilGeocoder(t *testing.T) {
	e := New(testOptions(), nil)
	assert.Zero(t, e.GeocodeMissing(context.Background(), []lead.Lead{{Name: "X", Address: "Y"}}))
}
