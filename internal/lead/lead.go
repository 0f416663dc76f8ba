// Package lead defines the candidate business record produced by scraping
// and enrichment, plus the normalization and identity-key derivation that
// the matching pipeline builds on.
package lead

import (
	"time"
)

// Lead is one observation of a business from one source or enrichment pass.
// String fields use "" for absent; numeric fields use nil so that the
// similarity scorer can distinguish "no value" from a real zero.
type Lead struct {
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
	Category string `json:"category,omitempty"`

	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`

	// WGS84 degrees. Both set or both nil.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// PlaceID is the opaque stable identifier assigned by the map provider.
	PlaceID string `json:"place_id,omitempty"`

	// Social maps a platform name to a profile URL, or for whatsapp a bare
	// phone number.
	Social map[string]string `json:"social,omitempty"`

	// Provenance. Never used for matching.
	MapsURL    string    `json:"maps_url,omitempty"`
	SourceURL  string    `json:"source_url,omitempty"`
	CapturedAt time.Time `json:"captured_at,omitempty"`
}

// Known social platforms.
const (
	PlatformFacebook  = "facebook"
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
	PlatformWhatsApp  = "whatsapp"
)

// Platforms lists the social platforms tracked on a lead, in export order.
var Platforms = []string{
	PlatformFacebook,
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformInstagram,
	PlatformYouTube,
	PlatformTikTok,
	PlatformWhatsApp,
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l *Lead) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// HasContact reports whether at least one contact channel is present.
func (l *Lead) HasContact() bool {
	return l.Website != "" || l.Phone != "" || l.Email != "" || l.Address != ""
}

// HasSocial reports whether at least one social link is present.
func (l *Lead) HasSocial() bool {
	for _, v := range l.Social {
		if v != "" {
			return true
		}
	}
	return false
}

// SetSocial stores a social link, allocating the map on first use.
func (l *Lead) SetSocial(platform, value string) {
	if value == "" {
		return
	}
	if l.Social == nil {
		l.Social = make(map[string]string, 1)
	}
	l.Social[platform] = value
}

// Sanitize enforces field invariants on a freshly decoded record: a rating
// outside [0,5] is a parse failure and becomes absent (not clamped), and a
// half-missing coordinate pair is dropped entirely.
func (l *Lead) Sanitize() {
	if l.Rating != nil && (*l.Rating < 0 || *l.Rating > 5) {
		l.Rating = nil
	}
	if l.ReviewCount != nil && *l.ReviewCount < 0 {
		l.ReviewCount = nil
	}
	if (l.Latitude == nil) != (l.Longitude == nil) {
		l.Latitude = nil
		l.Longitude = nil
	}
}
