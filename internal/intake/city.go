package intake

import (
	"regexp"
	"strings"

	"callintake/internal/gazetteer"
)

// fusedDigitRe matches a single digit stuck to the end of a word ("chicago4")
var fusedDigitRe = regexp.MustCompile(`^(.*[a-zA-Z]{3})\d$`)

// CityNormalizer maps suburbs and small cities onto the metro used for
// vehicle search
type CityNormalizer struct {
	tables *gazetteer.Tables
}

// NewCityNormalizer creates a normalizer over the given tables
func NewCityNormalizer(tables *gazetteer.Tables) *CityNormalizer {
	return &CityNormalizer{tables: tables}
}

// Normalize returns the canonical metro for a known suburb. A trailing state
// abbreviation is stripped first; if the bare city misses, the combined
// "city state" key is tried so ambiguous names ("glendale az") still resolve.
func (n *CityNormalizer) Normalize(city string) (string, bool) {
	key := cityKey(city)
	if key == "" {
		return "", false
	}

	bare := key
	if fields := strings.Fields(key); len(fields) > 1 && n.tables.IsStateAbbrev(fields[len(fields)-1]) {
		bare = strings.Join(fields[:len(fields)-1], " ")
	}

	if metro, ok := n.tables.Suburbs[bare]; ok {
		return metro, true
	}
	if metro, ok := n.tables.Suburbs[key]; ok {
		return metro, true
	}
	return "", false
}

// Metro resolves either a suburb or a metro keyword ("dfw", "vegas")
func (n *CityNormalizer) Metro(city string) (string, bool) {
	if metro, ok := n.Normalize(city); ok {
		return metro, true
	}
	key := cityKey(city)
	if fields := strings.Fields(key); len(fields) > 1 && n.tables.IsStateAbbrev(fields[len(fields)-1]) {
		key = strings.Join(fields[:len(fields)-1], " ")
	}
	return n.tables.CityKeyword(key)
}

// CleanLocation strips a single digit fused to the last word ("chicago4" ->
// "chicago"). Space separated numbers ("Gate 12") are left alone.
func CleanLocation(s string) string {
	s = strings.TrimSpace(s)
	if m := fusedDigitRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

func cityKey(city string) string {
	key := strings.ToLower(strings.TrimSpace(city))
	key = strings.Trim(key, ".")
	return strings.Join(strings.Fields(key), " ")
}
