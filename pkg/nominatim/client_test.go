package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "joe's pizza new york", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "leadgen-test/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"40.7306","lon":"-73.9866","display_name":"Joe's Pizza"}]`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, UserAgent: "leadgen-test/1.0"})
	lat, lon, err := c.Geocode(context.Background(), "joe's pizza new york")
	require.NoError(t, err)
	assert.InDelta(t, 40.7306, lat, 1e-6)
	assert.InDelta(t, -73.9866, lon, 1e-6)
}

func TestGeocodeNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, _, err := c.Geocode(context.Background(), "nowhere at all")
	assert.Error(t, err)
}

func TestGeocodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, _, err := c.Geocode(context.Background(), "anything")
	assert.Error(t, err)
}

func TestGeocodeBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, _, err := c.Geocode(context.Background(), "anything")
	assert.Error(t, err)
}
