// Package intake turns an agent's shorthand into typed, confidence-scored
// items. A Detector runs an explicit ordered list of rules over each
// fragment; the first rule that matches wins.
package intake

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"callintake/internal/gazetteer"
	"callintake/internal/model"
)

// Rule is one guarded extractor in the cascade
type Rule struct {
	Name  string
	Match func(f fragment) (model.DetectedItem, bool)
}

// fragment is what every rule sees: the trimmed text, its lowercase form and
// the reference date for relative expressions
type fragment struct {
	raw   string
	typed string // raw with whitespace collapsed
	lower string
	today time.Time
}

func (f fragment) item(kind model.Kind, value string, confidence float64) model.DetectedItem {
	return model.DetectedItem{
		Kind:       kind,
		Value:      value,
		Confidence: confidence,
		Original:   f.raw,
	}
}

// Option configures a Detector
type Option func(*Detector)

// WithClock sets the source of "today" used by Detect
func WithClock(now func() time.Time) Option {
	return func(d *Detector) { d.now = now }
}

// WithLogger attaches a logger for recovered rule failures
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Detector) { d.logger = logger }
}

// Detector classifies single fragments. It holds no mutable state and is safe
// for concurrent use.
type Detector struct {
	tables *gazetteer.Tables
	cities *CityNormalizer
	now    func() time.Time
	logger zerolog.Logger
	rules  []Rule
}

// NewDetector builds a detector over the given gazetteers
func NewDetector(tables *gazetteer.Tables, opts ...Option) *Detector {
	d := &Detector{
		tables: tables,
		cities: NewCityNormalizer(tables),
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	// Reordering this list changes classification results.
	d.rules = []Rule{
		{Name: "phone", Match: d.matchPhone},
		{Name: "email", Match: d.matchEmail},
		{Name: "website", Match: d.matchWebsite},
		{Name: "zip", Match: d.matchZip},
		{Name: "city_state", Match: d.matchCityState},
		{Name: "known_suburb", Match: d.matchKnownSuburb},
		{Name: "agent", Match: d.matchAgent},
		{Name: "pickup_dropoff", Match: d.matchPickupDropoff},
		{Name: "destination", Match: d.matchDestination},
		{Name: "name_marker", Match: d.matchNameMarker},
		{Name: "two_token_name", Match: d.matchTwoTokenName},
		{Name: "first_name", Match: d.matchFirstName},
		{Name: "time", Match: d.matchTime},
		{Name: "absolute_date", Match: d.matchAbsoluteDate},
		{Name: "relative_date", Match: d.matchRelativeDate},
		{Name: "passengers", Match: d.matchPassengers},
		{Name: "hours", Match: d.matchHours},
		{Name: "event_type", Match: d.matchEvent},
		{Name: "vehicle_type", Match: d.matchVehicle},
		{Name: "venue", Match: d.matchVenue},
		{Name: "city_fallback", Match: d.matchCityFallback},
	}
	return d
}

// RuleNames returns the rule names in evaluation order
func (d *Detector) RuleNames() []string {
	names := make([]string, len(d.rules))
	for i, r := range d.rules {
		names[i] = r.Name
	}
	return names
}

// Cities exposes the detector's city normalizer
func (d *Detector) Cities() *CityNormalizer {
	return d.cities
}

// Detect classifies a fragment relative to the detector's clock
func (d *Detector) Detect(text string) model.DetectedItem {
	return d.DetectAt(text, d.now())
}

// DetectAt classifies a fragment relative to the given day. It always returns
// exactly one item; unknown with confidence 0 when nothing matched.
func (d *Detector) DetectAt(text string, today time.Time) model.DetectedItem {
	f := fragment{
		raw:   strings.TrimSpace(text),
		today: today,
	}
	f.typed = strings.Join(strings.Fields(f.raw), " ")
	f.lower = strings.ToLower(f.typed)
	if f.lower == "" {
		return model.Unknown(f.raw)
	}

	for _, rule := range d.rules {
		if item, ok := d.try(rule, f); ok {
			return item
		}
	}
	return model.Unknown(f.raw)
}

// DetectAll classifies each fragment in order
func (d *Detector) DetectAll(fragments []string, today time.Time) []model.DetectedItem {
	items := make([]model.DetectedItem, 0, len(fragments))
	for _, frag := range fragments {
		items = append(items, d.DetectAt(frag, today))
	}
	return items
}

// try runs one rule, treating a panic inside it as a non-match
func (d *Detector) try(rule Rule, f fragment) (item model.DetectedItem, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Str("rule", rule.Name).
				Str("fragment", f.raw).
				Interface("panic", r).
				Msg("rule panicked, skipping")
			item, ok = model.DetectedItem{}, false
		}
	}()
	return rule.Match(f)
}
