package dedup

import (
	"github.com/leadharbor/leadgen-cli/internal/lead"
)

// Fill enriches dst with any field the duplicate src has and dst lacks.
// Populated fields are never overwritten; the first-seen record stays
// canonical, later observations only add information. Reports whether
// anything changed.
func Fill(dst *lead.Lead, src lead.Lead) bool {
	changed := false

	fill := func(d *string, s string) {
		if *d == "" && s != "" {
			*d = s
			changed = true
		}
	}

	fill(&dst.Address, src.Address)
	fill(&dst.Phone, src.Phone)
	fill(&dst.Email, src.Email)
	fill(&dst.Website, src.Website)
	fill(&dst.Category, src.Category)
	fill(&dst.PlaceID, src.PlaceID)
	fill(&dst.MapsURL, src.MapsURL)

	if dst.Rating == nil && src.Rating != nil {
		v := *src.Rating
		dst.Rating = &v
		changed = true
	}
	if dst.ReviewCount == nil && src.ReviewCount != nil {
		v := *src.ReviewCount
		dst.ReviewCount = &v
		changed = true
	}
	if !dst.HasCoordinates() && src.HasCoordinates() {
		latV, lonV := *src.Latitude, *src.Longitude
		dst.Latitude, dst.Longitude = &latV, &lonV
		changed = true
	}

	for _, platform := range lead.Platforms {
		if v := src.Social[platform]; v != "" && dst.Social[platform] == "" {
			dst.SetSocial(platform, v)
			changed = true
		}
	}

	return changed
}
