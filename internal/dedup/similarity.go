// Package dedup implements the multi-strategy deduplication engine that
// reduces noisy, multi-source business observations to one canonical
// record per real-world business.
package dedup

import (
	"math"

	"github.com/agext/levenshtein"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

// Field weights for the similarity score. Phone agreement alone (0.2 of a
// 0.6 total when only name and phone overlap) can never clear the default
// threshold on its own; that is deliberate.
const (
	weightName    = 0.4
	weightAddress = 0.4
	weightPhone   = 0.2
	weightCoords  = 0.3
)

// metersPerDegree treats degrees as locally planar (1 degree ~ 111 km).
// Fine at the sub-kilometer thresholds used below; not valid for distances
// beyond a few hundred kilometers.
const metersPerDegree = 111000.0

var levParams = levenshtein.NewParams()

// Similarity scores how likely two records describe the same business,
// in [0,1]. Only fields present in both records contribute; a field
// missing on either side drops out of both numerator and denominator.
// No comparable fields at all scores 0.
func Similarity(a, b lead.Lead) float64 {
	var weightedSum, totalWeight float64

	nameA, nameB := lead.NormalizeName(a.Name), lead.NormalizeName(b.Name)
	if nameA != "" && nameB != "" {
		weightedSum += stringSimilarity(nameA, nameB) * weightName
		totalWeight += weightName
	}

	addrA, addrB := lead.NormalizeAddress(a.Address), lead.NormalizeAddress(b.Address)
	if addrA != "" && addrB != "" {
		weightedSum += stringSimilarity(addrA, addrB) * weightAddress
		totalWeight += weightAddress
	}

	phoneA, phoneB := lead.NormalizePhone(a.Phone), lead.NormalizePhone(b.Phone)
	if phoneA != "" && phoneB != "" {
		if phoneA == phoneB {
			weightedSum += weightPhone
		}
		totalWeight += weightPhone
	}

	if a.HasCoordinates() && b.HasCoordinates() {
		weightedSum += coordinateSimilarity(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude) * weightCoords
		totalWeight += weightCoords
	}

	if totalWeight == 0 {
		return 0.0
	}
	return weightedSum / totalWeight
}

// stringSimilarity is a symmetric ratio in [0,1] with sim(x,x) == 1.
func stringSimilarity(s1, s2 string) float64 {
	return levenshtein.Similarity(s1, s2, levParams)
}

// coordinateSimilarity buckets planar distance: businesses within 100m are
// almost certainly the same place, within 500m likely, within 1km possibly.
func coordinateSimilarity(lat1, lon1, lat2, lon2 float64) float64 {
	distance := planarDistanceMeters(lat1, lon1, lat2, lon2)
	switch {
	case distance < 100:
		return 1.0
	case distance < 500:
		return 0.8
	case distance < 1000:
		return 0.5
	default:
		return 0.0
	}
}

func planarDistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return math.Sqrt(dLat*dLat+dLon*dLon) * metersPerDegree
}
