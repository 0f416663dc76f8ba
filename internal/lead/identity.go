package lead

// Key is a strong identity signal derived from a record. Two records that
// share any key are treated as the same business. The struct is comparable
// so keys can be used directly as map/set members.
type Key struct {
	Kind  string
	Value string
	// Extra disambiguates within a kind: the second half of a name+address
	// pair, or the platform of a social link.
	Extra string
}

// Identity key kinds.
const (
	KeyPlaceID     = "external_id"
	KeyNameAddress = "name_address"
	KeyPhone       = "phone"
	KeyEmail       = "email"
	KeyWebsite     = "website"
	KeySocial      = "social"
)

// IdentityKeys derives the set of identity keys present on a record.
// A record with no populated contact fields yields no keys.
func IdentityKeys(l Lead) []Key {
	var keys []Key

	if l.PlaceID != "" {
		keys = append(keys, Key{Kind: KeyPlaceID, Value: l.PlaceID})
	}

	name := NormalizeName(l.Name)
	addr := NormalizeAddress(l.Address)
	if name != "" && addr != "" {
		keys = append(keys, Key{Kind: KeyNameAddress, Value: name, Extra: addr})
	}

	if phone := NormalizePhone(l.Phone); phone != "" {
		keys = append(keys, Key{Kind: KeyPhone, Value: phone})
	}
	if l.Email != "" {
		keys = append(keys, Key{Kind: KeyEmail, Value: NormalizeEmail(l.Email)})
	}
	if l.Website != "" {
		keys = append(keys, Key{Kind: KeyWebsite, Value: NormalizeURL(l.Website)})
	}

	for _, platform := range Platforms {
		if v := l.Social[platform]; v != "" {
			keys = append(keys, Key{Kind: KeySocial, Value: NormalizeURL(v), Extra: platform})
		}
	}

	return keys
}

// Signature builds the deterministic exact-match fallback key from the
// normalized core fields.
func Signature(l Lead) string {
	return NormalizeName(l.Name) + "|" + NormalizeAddress(l.Address) + "|" + NormalizePhone(l.Phone)
}
