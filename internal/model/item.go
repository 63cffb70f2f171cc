package model

import "strings"

// Kind is the closed set of classifications a fragment can receive
type Kind string

const (
	KindPhone          Kind = "phone"
	KindEmail          Kind = "email"
	KindZip            Kind = "zip"
	KindCity           Kind = "city"
	KindDate           Kind = "date"
	KindTime           Kind = "time"
	KindPassengers     Kind = "passengers"
	KindHours          Kind = "hours"
	KindPickupAddress  Kind = "pickup_address"
	KindDestination    Kind = "destination"
	KindDropoffAddress Kind = "dropoff_address"
	KindEventType      Kind = "event_type"
	KindVehicleType    Kind = "vehicle_type"
	KindName           Kind = "name"
	KindWebsite        Kind = "website"
	KindAgent          Kind = "agent"
	KindStop           Kind = "stop"
	KindUnknown        Kind = "unknown"
)

// AllKinds lists every valid kind in a stable order
var AllKinds = []Kind{
	KindPhone, KindEmail, KindZip, KindCity, KindDate, KindTime,
	KindPassengers, KindHours, KindPickupAddress, KindDestination,
	KindDropoffAddress, KindEventType, KindVehicleType, KindName,
	KindWebsite, KindAgent, KindStop, KindUnknown,
}

// ParseKind maps a loosely formatted label ("Pickup Address", "event-type") onto a Kind
func ParseKind(s string) (Kind, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for _, k := range AllKinds {
		if string(k) == key {
			return k, true
		}
	}
	switch key {
	case "pickup", "pick_up", "pickup_location":
		return KindPickupAddress, true
	case "dropoff", "drop_off", "dropoff_location":
		return KindDropoffAddress, true
	case "event":
		return KindEventType, true
	case "vehicle":
		return KindVehicleType, true
	case "passenger", "passenger_count", "pax":
		return KindPassengers, true
	case "url":
		return KindWebsite, true
	case "customer_name", "person":
		return KindName, true
	case "venue", "location":
		return KindStop, true
	}
	return KindUnknown, false
}

// DetectedItem is one classified fragment
type DetectedItem struct {
	Kind           Kind    `json:"kind"`
	Value          string  `json:"value"`
	Confidence     float64 `json:"confidence"`
	Original       string  `json:"original"`
	NormalizedCity string  `json:"normalizedCity,omitempty"`
}

// Unknown returns the no-match sentinel for a fragment
func Unknown(fragment string) DetectedItem {
	return DetectedItem{
		Kind:       KindUnknown,
		Value:      fragment,
		Confidence: 0,
		Original:   fragment,
	}
}

// IsUnknown reports whether the item is the no-match sentinel
func (d DetectedItem) IsUnknown() bool {
	return d.Kind == KindUnknown
}
