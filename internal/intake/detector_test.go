package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callintake/internal/gazetteer"
	"callintake/internal/model"
)

// wednesday is the reference "today" for every case below
var wednesday = time.Date(2026, time.October, 21, 0, 0, 0, 0, time.UTC)

func newTestDetector() *Detector {
	return NewDetector(gazetteer.Default(), WithClock(func() time.Time { return wednesday }))
}

func TestDetector_RuleOrder(t *testing.T) {
	d := newTestDetector()
	assert.Equal(t, []string{
		"phone", "email", "website", "zip", "city_state", "known_suburb", "agent",
		"pickup_dropoff", "destination", "name_marker", "two_token_name", "first_name",
		"time", "absolute_date", "relative_date", "passengers", "hours", "event_type",
		"vehicle_type", "venue", "city_fallback",
	}, d.RuleNames())
}

func TestDetector_Detect(t *testing.T) {
	tests := []struct {
		input      string
		kind       model.Kind
		value      string
		confidence float64
		metro      string
	}{
		// phone
		{"5551234567", model.KindPhone, "555-123-4567", 0.95, ""},
		{"(602) 555-0199", model.KindPhone, "602-555-0199", 0.95, ""},
		{"1-800-555-0100", model.KindPhone, "800-555-0100", 0.95, ""},
		{"cell: 480.555.1212", model.KindPhone, "480-555-1212", 0.95, ""},
		{"555123456789", model.KindUnknown, "555123456789", 0, ""},

		// email, website, zip
		{"Dana@Example.com", model.KindEmail, "dana@example.com", 0.95, ""},
		{"www.partylimos.com", model.KindWebsite, "www.partylimos.com", 0.9, ""},
		{"85201", model.KindZip, "85201", 0.9, ""},
		{"85201-1234", model.KindZip, "85201-1234", 0.9, ""},

		// cities ahead of names
		{"mesa az", model.KindCity, "Mesa, AZ", 0.9, "Phoenix"},
		{"Flagstaff AZ", model.KindCity, "Flagstaff, AZ", 0.9, ""},
		{"naperville", model.KindCity, "Naperville", 0.9, "Chicago"},

		// agent
		{"agent shae", model.KindAgent, "Shae", 0.95, ""},

		// pickup / dropoff
		{"dallas pu", model.KindPickupAddress, "dallas", 0.9, "Dallas"},
		{"5pm pu", model.KindTime, "5pm", 0.9, ""},
		{"pu at 9pm", model.KindTime, "9pm", 0.9, ""},
		{"topgolf is pickup", model.KindPickupAddress, "topgolf", 0.9, ""},
		{"pick up at 123 Main St", model.KindPickupAddress, "123 Main St", 0.9, ""},
		{"chicago4 pu", model.KindPickupAddress, "chicago", 0.9, "Chicago"},
		{"Gate 12 pickup", model.KindPickupAddress, "Gate 12", 0.9, ""},
		{"hilton drop off", model.KindDropoffAddress, "hilton", 0.9, ""},
		{"drop off: airport", model.KindDropoffAddress, "airport", 0.9, ""},
		{"İstanbul pu", model.KindPickupAddress, "İstanbul", 0.9, ""},
		{"PU AT Hyatt Regency", model.KindPickupAddress, "Hyatt Regency", 0.9, ""},

		// destination
		{"going to Scottsdale", model.KindDestination, "Scottsdale", 0.85, "Phoenix"},

		// names
		{"customer: dana white", model.KindName, "Dana White", 0.95, ""},
		{"John Smith", model.KindName, "John Smith", 0.9, ""},
		{"Zephyr Quill", model.KindName, "Zephyr Quill", 0.75, ""},
		{"jessica", model.KindName, "Jessica", 0.85, ""},

		// time and dates
		{"at 5pm", model.KindTime, "5pm", 0.9, ""},
		{"9:30am", model.KindTime, "9:30am", 0.9, ""},
		{"noon", model.KindTime, "noon", 0.9, ""},
		{"4/30", model.KindDate, "2027-04-30", 0.9, ""},
		{"next friday", model.KindDate, "2026-10-23", 0.9, ""},
		{"Next Friday", model.KindDate, "2026-10-23", 0.9, ""},
		{"tomorrow", model.KindDate, "2026-10-22", 0.9, ""},

		// passengers
		{"20 poeple", model.KindPassengers, "20", 0.95, ""},
		{"30 people", model.KindPassengers, "30", 0.95, ""},
		{"five people", model.KindPassengers, "5", 0.9, ""},
		{"30", model.KindPassengers, "30", 0.7, ""},
		{"12", model.KindPassengers, "12", 0.7, ""},
		{"twelve", model.KindPassengers, "12", 0.7, ""},

		// hours
		{"4 hours", model.KindHours, "4", 0.9, ""},
		{"2.5 hrs", model.KindHours, "2.5", 0.9, ""},
		{"1.5", model.KindHours, "1.5", 0.6, ""},
		{"5", model.KindHours, "5", 0.6, ""},
		{"7", model.KindHours, "7", 0.6, ""},
		{"13 hours", model.KindUnknown, "13 hours", 0, ""},

		// events and vehicles
		{"wedding", model.KindEventType, "Wedding", 0.9, ""},
		{"bdayparty", model.KindEventType, "Birthday", 0.9, ""},
		{"stretch", model.KindVehicleType, "Limousine", 0.9, ""},
		{"party bus", model.KindVehicleType, "Party Bus", 0.9, ""},

		// venues
		{"hyatt near the airport", model.KindStop, "hyatt near the airport", 0.85, ""},
		{"123 main st", model.KindStop, "123 main st", 0.85, ""},
		{"chicago hilton", model.KindStop, "chicago hilton", 0.85, ""},
		{"the marriott", model.KindStop, "the marriott", 0.8, ""},

		// last-resort city
		{"dallas texas", model.KindCity, "Dallas, TX", 0.9, "Dallas"},
		{"Mesa Arizona", model.KindCity, "Mesa, AZ", 0.9, "Phoenix"},
		{"vegas", model.KindCity, "Las Vegas", 0.85, "Las Vegas"},
		{"naperville2", model.KindCity, "Naperville", 0.8, "Chicago"},

		{"blah blah", model.KindUnknown, "blah blah", 0, ""},
	}

	d := newTestDetector()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := d.Detect(tt.input)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.value, got.Value)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.Equal(t, tt.metro, got.NormalizedCity)
			assert.Equal(t, tt.input, got.Original)
		})
	}
}

func TestDetector_TypedRemainderKeepsBytes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  model.Kind
		value string
	}{
		{"lowercase changes length", "İstanbul pu", model.KindPickupAddress, "İstanbul"},
		{"invalid utf8 before marker", "dallas\xff pu", model.KindPickupAddress, "dallas\xff"},
		{"invalid utf8 after marker", "pu at \xffplaza", model.KindPickupAddress, "\xffplaza"},
		{"dotted capital in name", "name: İlker Başbuğ", model.KindName, "İlker Başbuğ"},
		{"destination", "Going To İzmir", model.KindDestination, "İzmir"},
	}

	d := newTestDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.input)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.value, got.Value)
		})
	}
}

func TestDetector_AnyTenDigitsIsPhone(t *testing.T) {
	d := newTestDetector()
	for _, digits := range []string{"0000000000", "9998887777", "2125550100", "4805551234"} {
		got := d.Detect(digits)
		require.Equal(t, model.KindPhone, got.Kind, digits)
		assert.Equal(t, digits[:3]+"-"+digits[3:6]+"-"+digits[6:], got.Value)
		assert.Equal(t, 0.95, got.Confidence)
	}
}

func TestDetector_NextFridayFromSaturday(t *testing.T) {
	d := newTestDetector()
	saturday := time.Date(2026, time.October, 24, 0, 0, 0, 0, time.UTC)

	got := d.DetectAt("next friday", saturday)
	assert.Equal(t, model.KindDate, got.Kind)
	assert.Equal(t, "2026-11-06", got.Value)
}

func TestDetector_HoursNeverAboveTwelve(t *testing.T) {
	d := newTestDetector()
	for _, input := range []string{"13 hours", "15 hrs", "24 hours", "12.5 hours", "0 hours"} {
		assert.NotEqual(t, model.KindHours, d.Detect(input).Kind, input)
	}
	assert.Equal(t, model.KindHours, d.Detect("12 hours").Kind)
}

func TestDetector_Idempotent(t *testing.T) {
	d := newTestDetector()
	for _, input := range []string{"mesa az", "5pm pu", "John Smith", "next friday", "blah", "20 poeple"} {
		assert.Equal(t, d.Detect(input), d.Detect(input), input)
	}
}

func TestDetector_EmptyFragment(t *testing.T) {
	got := newTestDetector().Detect("   ")
	assert.True(t, got.IsUnknown())
	assert.Zero(t, got.Confidence)
}

func TestDetector_RecoversFromPanickingRule(t *testing.T) {
	d := newTestDetector()
	d.rules = append([]Rule{{
		Name: "boom",
		Match: func(fragment) (model.DetectedItem, bool) {
			panic("broken table")
		},
	}}, d.rules...)

	got := d.Detect("wedding")
	assert.Equal(t, model.KindEventType, got.Kind)
}

func TestDetectAll_KeepsFragmentOrder(t *testing.T) {
	d := newTestDetector()
	items := d.DetectAll(Segment("mesa az, wedding, pu at 9pm, 30 people"), wednesday)

	require.Len(t, items, 4)
	assert.Equal(t, model.KindCity, items[0].Kind)
	assert.Equal(t, model.KindEventType, items[1].Kind)
	assert.Equal(t, model.KindTime, items[2].Kind)
	assert.Equal(t, model.KindPassengers, items[3].Kind)
}
