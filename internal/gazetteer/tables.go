// Package gazetteer holds the read-only lookup tables used by the intake
// classifier. Tables are plain data; the classification algorithm lives in
// internal/intake and receives a *Tables so the data can be swapped in tests.
package gazetteer

import (
	"sort"
	"strings"
	"sync"
)

// Alias maps a lowercase needle onto a canonical label
type Alias struct {
	Needle string
	Label  string
}

// Tables is the full set of gazetteers. A *Tables must not be mutated after
// construction; it is shared by every detector and session.
type Tables struct {
	FirstNames    map[string]struct{}
	Suburbs       map[string]string // suburb key ("mesa", "glendale az") -> metro
	CityKeywords  map[string]string // metro keyword ("dallas", "dfw") -> metro
	StateAbbrevs  map[string]string // "az" -> "Arizona"
	StateNames    map[string]string // "arizona" -> "AZ"
	VenueKeywords map[string]struct{}
	StreetWords   map[string]struct{}
	CalendarWords map[string]struct{}
	Events        []Alias // longest needle first
	Vehicles      []Alias // longest needle first
	Agents        map[string]string // lowercase -> display name
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the built-in tables, built once and shared
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables = New(
			firstNames,
			suburbMetros,
			cityKeywords,
			stateAbbrevs,
			venueKeywords,
			streetWords,
			eventAliases,
			vehicleAliases,
			agentRoster,
		)
	})
	return defaultTables
}

// New builds tables from raw data, normalizing keys to lowercase
func New(
	names []string,
	suburbs map[string]string,
	cities map[string]string,
	states map[string]string,
	venues []string,
	streets []string,
	events []Alias,
	vehicles []Alias,
	agents []string,
) *Tables {
	t := &Tables{
		FirstNames:    toSet(names),
		Suburbs:       lowerKeys(suburbs),
		CityKeywords:  lowerKeys(cities),
		StateAbbrevs:  lowerKeys(states),
		StateNames:    make(map[string]string, len(states)),
		VenueKeywords: toSet(venues),
		StreetWords:   toSet(streets),
		CalendarWords: toSet(calendarWords),
		Events:        sortAliases(events),
		Vehicles:      sortAliases(vehicles),
		Agents:        make(map[string]string, len(agents)),
	}
	for abbr, name := range t.StateAbbrevs {
		t.StateNames[strings.ToLower(name)] = strings.ToUpper(abbr)
	}
	for _, a := range agents {
		t.Agents[strings.ToLower(a)] = a
	}
	return t
}

// IsFirstName reports whether the word is a known first name
func (t *Tables) IsFirstName(word string) bool {
	_, ok := t.FirstNames[strings.ToLower(word)]
	return ok
}

// IsStateAbbrev reports whether the token is a two-letter state code
func (t *Tables) IsStateAbbrev(token string) bool {
	_, ok := t.StateAbbrevs[strings.ToLower(token)]
	return ok
}

// StateName resolves a full state name to its abbreviation
func (t *Tables) StateName(name string) (string, bool) {
	abbr, ok := t.StateNames[strings.ToLower(strings.TrimSpace(name))]
	return abbr, ok
}

// CityKeyword resolves a metro keyword to its canonical metro
func (t *Tables) CityKeyword(city string) (string, bool) {
	metro, ok := t.CityKeywords[strings.ToLower(strings.TrimSpace(city))]
	return metro, ok
}

// IsKnownCity reports whether the word is a metro keyword or a known suburb
func (t *Tables) IsKnownCity(word string) bool {
	key := strings.ToLower(strings.TrimSpace(word))
	if _, ok := t.CityKeywords[key]; ok {
		return true
	}
	_, ok := t.Suburbs[key]
	return ok
}

// IsVenueWord reports whether the word is a venue/business keyword
func (t *Tables) IsVenueWord(word string) bool {
	_, ok := t.VenueKeywords[strings.ToLower(word)]
	return ok
}

// IsStreetWord reports whether the word is a street suffix ("st", "blvd")
func (t *Tables) IsStreetWord(word string) bool {
	_, ok := t.StreetWords[strings.Trim(strings.ToLower(word), ".")]
	return ok
}

// IsCalendarWord reports whether the word names a weekday, month or relative day
func (t *Tables) IsCalendarWord(word string) bool {
	_, ok := t.CalendarWords[strings.ToLower(word)]
	return ok
}

// IsEventWord reports whether the word is itself an event keyword
func (t *Tables) IsEventWord(word string) bool {
	return hasNeedle(t.Events, word)
}

// IsVehicleWord reports whether the word is itself a vehicle keyword
func (t *Tables) IsVehicleWord(word string) bool {
	return hasNeedle(t.Vehicles, word)
}

// Agent resolves a roster name
func (t *Tables) Agent(name string) (string, bool) {
	display, ok := t.Agents[strings.ToLower(strings.TrimSpace(name))]
	return display, ok
}

func hasNeedle(aliases []Alias, word string) bool {
	w := strings.ToLower(word)
	for _, a := range aliases {
		if a.Needle == w {
			return true
		}
	}
	return false
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func sortAliases(in []Alias) []Alias {
	out := make([]Alias, len(in))
	for i, a := range in {
		out[i] = Alias{Needle: strings.ToLower(a.Needle), Label: a.Label}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Needle) > len(out[j].Needle)
	})
	return out
}
