package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

func TestFill_AddsMissingFields(t *testing.T) {
	dst := lead.Lead{Name: "Joe's Pizza", Address: "1 Main St"}
	src := lead.Lead{
		Name:        "joes pizza",
		Phone:       "555-123-4567",
		Website:     "https://joespizza.com",
		Category:    "Restaurant",
		Rating:      f64(4.2),
		ReviewCount: intp(31),
		Latitude:    f64(39.78),
		Longitude:   f64(-89.65),
		Social:      map[string]string{lead.PlatformFacebook: "https://fb.com/joespizza"},
	}

	changed := Fill(&dst, src)

	require.True(t, changed)
	assert.Equal(t, "Joe's Pizza", dst.Name, "name of the canonical record is never touched")
	assert.Equal(t, "555-123-4567", dst.Phone)
	assert.Equal(t, "https://joespizza.com", dst.Website)
	assert.Equal(t, "Restaurant", dst.Category)
	assert.True(t, dst.HasCoordinates())
	assert.Equal(t, "https://fb.com/joespizza", dst.Social[lead.PlatformFacebook])
}

func TestFill_NeverOverwrites(t *testing.T) {
	dst := lead.Lead{
		Name:    "Joe's Pizza",
		Phone:   "555-0001",
		Rating:  f64(4.0),
		Social:  map[string]string{lead.PlatformFacebook: "https://fb.com/original"},
		Email:   "first@joespizza.com",
		Website: "https://joespizza.com",
	}
	src := lead.Lead{
		Name:    "Joe's Pizza",
		Phone:   "555-9999",
		Rating:  f64(1.0),
		Social:  map[string]string{lead.PlatformFacebook: "https://fb.com/other"},
		Email:   "second@joespizza.com",
		Website: "https://joes.pizza",
	}

	changed := Fill(&dst, src)

	assert.False(t, changed)
	assert.Equal(t, "555-0001", dst.Phone)
	assert.InDelta(t, 4.0, *dst.Rating, 1e-12)
	assert.Equal(t, "https://fb.com/original", dst.Social[lead.PlatformFacebook])
	assert.Equal(t, "first@joespizza.com", dst.Email)
}

func TestFill_NoChange(t *testing.T) {
	dst := lead.Lead{Name: "Joe's Pizza", Phone: "555-0001"}
	assert.False(t, Fill(&dst, lead.Lead{Name: "Joe's Pizza"}))
}

func intp(v int) *int { return &v }
