package intake

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"callintake/internal/dateparse"
	"callintake/internal/model"
	"callintake/internal/utils"
)

var phonePrefixes = []string{
	"phone:", "phone", "cell:", "cell", "ph:", "ph", "tel:", "tel",
	"mobile:", "mobile", "number:", "#",
}

var (
	emailRe   = regexp.MustCompile(`^(?:e-?mail:?\s*)?([a-z0-9._%+\-]+@[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.[a-z]{2,})$`)
	websiteRe = regexp.MustCompile(`^(?:(?:website|site|url|web):?\s*)?((?:https?://)?(?:www\.)?[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.(?:com|net|org|io|co|us|biz|info|events|limo|party|travel)(?:/\S*)?)$`)
	zipRe     = regexp.MustCompile(`^(?:zip(?:\s*code)?:?\s*)?(\d{5}(?:-\d{4})?)$`)

	cityStateRe = regexp.MustCompile(`^([A-Za-z][A-Za-z .'\-]*?)\s+([A-Za-z]{2})\.?$`)

	pickupPostfixRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:(?:is|for|as)\s+(?:the\s+)?)?(pu|p/u|pick[\s-]?up|drop[\s-]?off|d/o)$`)
	pickupPrefixRe  = regexp.MustCompile(`(?i)^(pu|p/u|pick[\s-]?up|drop[\s-]?off|drop|d/o)\b[\s:]*(.*)$`)
	destinationRe   = regexp.MustCompile(`(?i)^(?:going\s+to|headed\s+to|heading\s+to|to|destination|dest)\b[\s:]*(.+)$`)
	nameMarkerRe    = regexp.MustCompile(`(?i)^(?:(?:customer|caller|client|contact)(?:\s+name)?|name|(?:his|her|their|my)\s+name)(?:\s*:\s*|\s+is\s+|\s+)(.+)$`)

	passengerUnits   = `(?:people|person|persons|ppl|pax|passengers|passenger|guests|guest|poeple|peolpe|passangers|pasengers|passengars|ppl\.)`
	passengerNumRe   = regexp.MustCompile(`^(?:for\s+|party\s+of\s+)?(\d{1,3})\s*\+?\s*` + passengerUnits + `$`)
	passengerWordRe  = regexp.MustCompile(`^(?:for\s+)?([a-z]+(?:[\s-][a-z]+)?)\s+` + passengerUnits + `$`)
	passengerPartyRe = regexp.MustCompile(`^party\s+of\s+(\d{1,3})$`)
	bareNumberRe     = regexp.MustCompile(`^\d{2,3}$`)

	hoursNumRe  = regexp.MustCompile(`^(?:for\s+)?(\d{1,2}(?:\.\d+)?)\s*(?:hours|hour|hrs|hr|h)$`)
	hoursWordRe = regexp.MustCompile(`^(?:for\s+)?([a-z]+(?:[\s-][a-z]+)?)\s+(?:hours|hour|hrs|hr)$`)
	bareHoursRe = regexp.MustCompile(`^\d{1,2}(?:\.\d+)?$`)

	venueCalledRe = regexp.MustCompile(`^(.+?)\s+(?:called|named)\s+(.+)$`)
	venueNearRe   = regexp.MustCompile(`^(.+?)\s+(?:near|by|at|off|on)\s+(.+)$`)
	streetRe      = regexp.MustCompile(`^\d{1,6}\s+\S.*$`)
)

// connectors that may sit between a pickup/dropoff marker and the location
var locationConnectors = map[string]bool{
	"is": true, "at": true, "from": true, "in": true, "@": true, "the": true,
	"location": true, "address": true, "time": true, "@:": true,
}

var pickupWords = []string{"pickup", "pick up", "pick-up", "pu", "p/u"}

func (d *Detector) matchPhone(f fragment) (model.DetectedItem, bool) {
	rest := f.lower
	for _, p := range phonePrefixes {
		if strings.HasPrefix(rest, p) {
			rest = strings.TrimSpace(rest[len(p):])
			break
		}
	}

	var digits strings.Builder
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case strings.ContainsRune(" -.()+", r):
		default:
			return model.DetectedItem{}, false
		}
	}

	num := digits.String()
	if len(num) == 11 && num[0] == '1' {
		num = num[1:]
	}
	if len(num) != 10 {
		return model.DetectedItem{}, false
	}
	return f.item(model.KindPhone, num[:3]+"-"+num[3:6]+"-"+num[6:], 0.95), true
}

func (d *Detector) matchEmail(f fragment) (model.DetectedItem, bool) {
	m := emailRe.FindStringSubmatch(f.lower)
	if m == nil {
		return model.DetectedItem{}, false
	}
	return f.item(model.KindEmail, m[1], 0.95), true
}

func (d *Detector) matchWebsite(f fragment) (model.DetectedItem, bool) {
	m := websiteRe.FindStringSubmatch(f.lower)
	if m == nil {
		return model.DetectedItem{}, false
	}
	return f.item(model.KindWebsite, m[1], 0.9), true
}

func (d *Detector) matchZip(f fragment) (model.DetectedItem, bool) {
	m := zipRe.FindStringSubmatch(f.lower)
	if m == nil {
		return model.DetectedItem{}, false
	}
	return f.item(model.KindZip, m[1], 0.9), true
}

// matchCityState handles "mesa az" and "Tucson AZ". An unknown city is only
// trusted when the state was typed in upper case.
func (d *Detector) matchCityState(f fragment) (model.DetectedItem, bool) {
	m := cityStateRe.FindStringSubmatch(f.typed)
	if m == nil {
		return model.DetectedItem{}, false
	}
	city, state := strings.TrimSpace(m[1]), m[2]
	if !d.tables.IsStateAbbrev(state) || len(strings.Fields(city)) > 3 {
		return model.DetectedItem{}, false
	}
	for _, tok := range strings.Fields(city) {
		if !utils.IsAlphaWord(strings.Trim(tok, ".")) {
			return model.DetectedItem{}, false
		}
	}

	metro, known := d.cities.Metro(city + " " + state)
	if !known {
		if state != strings.ToUpper(state) || d.isReservedPhrase(city) || d.tables.IsFirstName(city) {
			return model.DetectedItem{}, false
		}
	}

	item := f.item(model.KindCity, utils.TitleCase(city)+", "+strings.ToUpper(state), 0.9)
	item.NormalizedCity = metro
	return item, true
}

func (d *Detector) matchKnownSuburb(f fragment) (model.DetectedItem, bool) {
	metro, ok := d.cities.Normalize(f.lower)
	if !ok {
		return model.DetectedItem{}, false
	}
	item := f.item(model.KindCity, utils.TitleCase(f.lower), 0.9)
	item.NormalizedCity = metro
	return item, true
}

func (d *Detector) matchAgent(f fragment) (model.DetectedItem, bool) {
	name := f.lower
	for _, p := range []string{"agent:", "agent "} {
		if strings.HasPrefix(name, p) {
			name = strings.TrimSpace(name[len(p):])
			break
		}
	}
	display, ok := d.tables.Agent(name)
	if !ok {
		return model.DetectedItem{}, false
	}
	return f.item(model.KindAgent, display, 0.95), true
}

// matchPickupDropoff handles "dallas pu", "topgolf is pickup", "pu at 123
// main", "drop off: airport". A remainder that reads as a time wins over a
// location, so "5pm pu" is a time.
func (d *Detector) matchPickupDropoff(f fragment) (model.DetectedItem, bool) {
	var marker, typedRest string
	if m := pickupPrefixRe.FindStringSubmatch(f.typed); m != nil && strings.TrimSpace(m[2]) != "" {
		marker, typedRest = m[1], m[2]
	} else if m := pickupPostfixRe.FindStringSubmatch(f.typed); m != nil {
		marker, typedRest = m[2], m[1]
	} else {
		return model.DetectedItem{}, false
	}
	marker = strings.ToLower(marker)

	rest, typedRest := stripConnectors(typedRest)
	if rest == "" {
		return model.DetectedItem{}, false
	}

	if clock, ok := dateparse.ParseClock(rest); ok {
		return f.item(model.KindTime, clock.Text, 0.9), true
	}

	kind := model.KindPickupAddress
	if strings.HasPrefix(marker, "drop") || marker == "d/o" {
		kind = model.KindDropoffAddress
	}
	location := CleanLocation(typedRest)
	item := f.item(kind, location, 0.9)
	if metro, ok := d.cities.Metro(location); ok {
		item.NormalizedCity = metro
	}
	return item, true
}

func (d *Detector) matchDestination(f fragment) (model.DetectedItem, bool) {
	m := destinationRe.FindStringSubmatch(f.typed)
	if m == nil {
		return model.DetectedItem{}, false
	}
	rest, typed := stripConnectors(m[1])
	if rest == "" || dateparse.IsTimeExpression(rest) {
		return model.DetectedItem{}, false
	}
	location := CleanLocation(typed)
	item := f.item(model.KindDestination, location, 0.85)
	if metro, ok := d.cities.Metro(location); ok {
		item.NormalizedCity = metro
	}
	return item, true
}

func (d *Detector) matchNameMarker(f fragment) (model.DetectedItem, bool) {
	m := nameMarkerRe.FindStringSubmatch(f.typed)
	if m == nil {
		return model.DetectedItem{}, false
	}
	name := m[1]
	tokens := strings.Fields(name)
	if len(tokens) == 0 || len(tokens) > 3 {
		return model.DetectedItem{}, false
	}
	for _, tok := range tokens {
		if !utils.IsAlphaWord(tok) || d.isReservedWord(tok) {
			return model.DetectedItem{}, false
		}
	}
	if name == strings.ToLower(name) {
		name = utils.TitleCase(name)
	}
	return f.item(model.KindName, strings.Join(strings.Fields(name), " "), 0.95), true
}

// matchTwoTokenName accepts "John Smith" but not "Mesa Arizona", "Party Bus"
// or "Next Friday"
func (d *Detector) matchTwoTokenName(f fragment) (model.DetectedItem, bool) {
	tokens := strings.Fields(f.raw)
	if len(tokens) != 2 {
		return model.DetectedItem{}, false
	}
	for _, tok := range tokens {
		if !utils.IsAlphaWord(tok) || !startsUpper(tok) || d.isReservedWord(tok) {
			return model.DetectedItem{}, false
		}
		if _, ok := d.tables.StateName(tok); ok {
			return model.DetectedItem{}, false
		}
	}
	if d.isReservedPhrase(f.lower) {
		return model.DetectedItem{}, false
	}

	confidence := 0.75
	if d.tables.IsFirstName(tokens[0]) {
		confidence = 0.9
	}
	return f.item(model.KindName, tokens[0]+" "+tokens[1], confidence), true
}

func (d *Detector) matchFirstName(f fragment) (model.DetectedItem, bool) {
	if strings.Contains(f.lower, " ") || !utils.IsAlphaWord(f.lower) {
		return model.DetectedItem{}, false
	}
	if !d.tables.IsFirstName(f.lower) || d.isReservedWord(f.lower) {
		return model.DetectedItem{}, false
	}
	return f.item(model.KindName, utils.TitleCase(f.lower), 0.85), true
}

func (d *Detector) matchTime(f fragment) (model.DetectedItem, bool) {
	clock, ok := dateparse.ParseClock(f.lower)
	if !ok {
		return model.DetectedItem{}, false
	}
	return f.item(model.KindTime, clock.Text, 0.9), true
}

func (d *Detector) matchAbsoluteDate(f fragment) (model.DetectedItem, bool) {
	iso, ok := dateparse.ParseAbsolute(f.lower, f.today)
	if !ok {
		return model.DetectedItem{}, false
	}
	return f.item(model.KindDate, iso, 0.9), true
}

func (d *Detector) matchRelativeDate(f fragment) (model.DetectedItem, bool) {
	iso, ok := dateparse.ResolveRelative(f.lower, f.today)
	if !ok {
		return model.DetectedItem{}, false
	}
	return f.item(model.KindDate, iso, 0.9), true
}

func (d *Detector) matchPassengers(f fragment) (model.DetectedItem, bool) {
	if m := passengerNumRe.FindStringSubmatch(f.lower); m != nil {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			return f.item(model.KindPassengers, strconv.Itoa(n), 0.95), true
		}
	}
	if m := passengerPartyRe.FindStringSubmatch(f.lower); m != nil {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			return f.item(model.KindPassengers, strconv.Itoa(n), 0.9), true
		}
	}
	if m := passengerWordRe.FindStringSubmatch(f.lower); m != nil {
		if n, ok := utils.WordNumber(m[1]); ok {
			return f.item(model.KindPassengers, strconv.Itoa(n), 0.9), true
		}
	}
	if bareNumberRe.MatchString(f.lower) {
		if n, _ := strconv.Atoi(f.lower); n >= 2 && n <= 99 {
			return f.item(model.KindPassengers, strconv.Itoa(n), 0.7), true
		}
	}
	if n, ok := utils.IsStrictWordNumber(f.lower); ok && n >= 2 && n <= 60 {
		return f.item(model.KindPassengers, strconv.Itoa(n), 0.7), true
	}
	return model.DetectedItem{}, false
}

// matchHours only accepts durations in (0, 12]; anything longer is more
// likely a stray number than a rental length
func (d *Detector) matchHours(f fragment) (model.DetectedItem, bool) {
	var (
		hours      float64
		confidence float64
	)
	switch {
	case hoursNumRe.MatchString(f.lower):
		hours, _ = strconv.ParseFloat(hoursNumRe.FindStringSubmatch(f.lower)[1], 64)
		confidence = 0.9
	case hoursWordRe.MatchString(f.lower):
		n, ok := utils.WordNumber(hoursWordRe.FindStringSubmatch(f.lower)[1])
		if !ok {
			return model.DetectedItem{}, false
		}
		hours, confidence = float64(n), 0.9
	case bareHoursRe.MatchString(f.lower):
		hours, _ = strconv.ParseFloat(f.lower, 64)
		confidence = 0.6
	default:
		return model.DetectedItem{}, false
	}

	if hours <= 0 || hours > 12 {
		return model.DetectedItem{}, false
	}
	return f.item(model.KindHours, strconv.FormatFloat(hours, 'f', -1, 64), confidence), true
}

func (d *Detector) matchEvent(f fragment) (model.DetectedItem, bool) {
	for _, alias := range d.tables.Events {
		if utils.ContainsCompound(f.lower, alias.Needle) {
			return f.item(model.KindEventType, alias.Label, 0.9), true
		}
	}
	return model.DetectedItem{}, false
}

func (d *Detector) matchVehicle(f fragment) (model.DetectedItem, bool) {
	for _, alias := range d.tables.Vehicles {
		var hit bool
		if len(alias.Needle) <= 3 {
			hit = utils.ContainsWord(f.lower, alias.Needle)
		} else {
			hit = strings.Contains(f.lower, alias.Needle)
		}
		if hit {
			return f.item(model.KindVehicleType, alias.Label, 0.9), true
		}
	}
	return model.DetectedItem{}, false
}

// matchVenue classifies business names and street addresses as stops, or as
// the pickup address when the fragment also carries pickup wording
func (d *Detector) matchVenue(f fragment) (model.DetectedItem, bool) {
	confidence := 0.0
	tokens := utils.Tokens(f.lower)

	switch {
	case venueCalledRe.MatchString(f.lower) && d.hasVenueWord(venueCalledRe.FindStringSubmatch(f.lower)[1]):
		confidence = 0.85
	case venueNearRe.MatchString(f.lower) && d.hasVenueWord(venueNearRe.FindStringSubmatch(f.lower)[1]):
		confidence = 0.85
	case streetRe.MatchString(f.lower) && len(tokens) > 1 && (d.tables.IsStreetWord(tokens[len(tokens)-1]) || d.hasVenueWord(f.lower)):
		confidence = 0.85
	case len(tokens) > 1 && d.tables.IsKnownCity(strings.Join(tokens[:len(tokens)-1], " ")) && d.tables.IsVenueWord(tokens[len(tokens)-1]):
		confidence = 0.85
	case d.hasVenueWord(f.lower):
		confidence = 0.8
	default:
		return model.DetectedItem{}, false
	}

	value := f.typed
	for _, w := range pickupWords {
		if utils.ContainsWord(f.lower, w) {
			item := f.item(model.KindPickupAddress, value, confidence)
			if metro, ok := d.cities.Metro(tokens[0]); ok {
				item.NormalizedCity = metro
			}
			return item, true
		}
	}
	return f.item(model.KindStop, value, confidence), true
}

// matchCityFallback is the last chance for a location: "dallas texas",
// "mesa arizona", "vegas", or a suburb hidden behind a fused digit
// ("naperville2")
func (d *Detector) matchCityFallback(f fragment) (model.DetectedItem, bool) {
	tokens := strings.Fields(f.lower)
	for n := 2; n >= 1; n-- {
		if len(tokens) <= n {
			continue
		}
		head := strings.Join(tokens[:len(tokens)-n], " ")
		stateText := strings.Join(tokens[len(tokens)-n:], " ")
		abbr, ok := d.tables.StateName(stateText)
		if !ok && n == 1 && d.tables.IsStateAbbrev(stateText) {
			abbr, ok = strings.ToUpper(stateText), true
		}
		if !ok {
			continue
		}
		metro, found := d.tables.CityKeyword(head)
		if !found {
			metro, found = d.cities.Normalize(head + " " + strings.ToLower(abbr))
		}
		if found {
			item := f.item(model.KindCity, utils.TitleCase(head)+", "+abbr, 0.9)
			item.NormalizedCity = metro
			return item, true
		}
	}

	if metro, ok := d.tables.CityKeyword(f.lower); ok {
		item := f.item(model.KindCity, metro, 0.85)
		item.NormalizedCity = metro
		return item, true
	}

	cleaned := CleanLocation(f.lower)
	if cleaned != f.lower {
		if metro, ok := d.cities.Metro(cleaned); ok {
			item := f.item(model.KindCity, utils.TitleCase(cleaned), 0.8)
			item.NormalizedCity = metro
			return item, true
		}
	}
	return model.DetectedItem{}, false
}

// isReservedWord reports whether a single word belongs to a gazetteer other
// than first names, which rules it out as part of a person's name
func (d *Detector) isReservedWord(word string) bool {
	w := strings.ToLower(word)
	return d.tables.IsKnownCity(w) ||
		d.tables.IsVehicleWord(w) ||
		d.tables.IsEventWord(w) ||
		d.tables.IsVenueWord(w) ||
		d.tables.IsCalendarWord(w)
}

// isReservedPhrase is isReservedWord for the whole phrase plus its words
func (d *Detector) isReservedPhrase(phrase string) bool {
	p := strings.ToLower(strings.Join(strings.Fields(phrase), " "))
	if d.tables.IsKnownCity(p) || d.tables.IsVehicleWord(p) || d.tables.IsEventWord(p) {
		return true
	}
	for _, w := range strings.Fields(p) {
		if d.isReservedWord(w) {
			return true
		}
	}
	return false
}

func (d *Detector) hasVenueWord(text string) bool {
	for _, tok := range utils.Tokens(text) {
		if d.tables.IsVenueWord(tok) {
			return true
		}
	}
	return false
}

// stripConnectors drops leading filler words ("at", "is", "from") from a
// typed remainder and returns it both lowercased and as typed
func stripConnectors(typed string) (string, string) {
	typed = strings.TrimSpace(typed)
	for {
		word, rest, found := strings.Cut(typed, " ")
		if !found || !locationConnectors[strings.ToLower(word)] {
			break
		}
		typed = strings.TrimSpace(rest)
	}
	typed = strings.TrimLeft(typed, ":@ ")
	return strings.ToLower(typed), typed
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
