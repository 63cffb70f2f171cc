package chips

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"callintake/internal/dateparse"
	"callintake/internal/model"
	"callintake/internal/utils"
)

// CallRecord is the structured form the agent fills in during a call
type CallRecord struct {
	CallerName     string  `json:"callerName"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	CityOrZip      string  `json:"cityOrZip"`
	Passengers     int     `json:"passengers"`
	Hours          float64 `json:"hours"`
	EventType      string  `json:"eventType"`
	VehicleType    string  `json:"vehicleType"`
	Date           string  `json:"date"`
	PickupTime     string  `json:"pickupTime"`
	PickupAddress  string  `json:"pickupAddress"`
	Destination    string  `json:"destination"`
	DropoffAddress string  `json:"dropoffAddress"`
	WebsiteURL     string  `json:"websiteUrl"`
	TripNotes      string  `json:"tripNotes"`
}

// addNote appends to tripNotes, the only accumulating field
func (r *CallRecord) addNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if r.TripNotes == "" {
		r.TripNotes = note
		return
	}
	r.TripNotes += "; " + note
}

// apply writes a confirmed item into its field. Last writer wins. agent items
// have no field and are handled by the board.
func (r *CallRecord) apply(item model.DetectedItem, today time.Time) {
	v := item.Value
	switch item.Kind {
	case model.KindName:
		r.CallerName = v
	case model.KindPhone:
		r.Phone = v
	case model.KindEmail:
		r.Email = v
	case model.KindZip, model.KindCity:
		r.CityOrZip = v
	case model.KindPassengers:
		if n, ok := parseCount(v); ok {
			r.Passengers = n
		} else {
			r.addNote("Passengers: " + v)
		}
	case model.KindHours:
		if h, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && h > 0 {
			r.Hours = h
		} else {
			r.addNote("Hours: " + v)
		}
	case model.KindEventType:
		r.EventType = v
	case model.KindVehicleType:
		r.VehicleType = v
	case model.KindDate:
		if iso, ok := dateparse.NormalizeDate(v, today); ok {
			v = iso
		}
		r.Date = v
	case model.KindTime:
		if hhmm, ok := dateparse.NormalizeTime(v); ok {
			v = hhmm
		}
		r.PickupTime = v
	case model.KindPickupAddress:
		r.PickupAddress = v
	case model.KindDestination:
		r.Destination = v
	case model.KindDropoffAddress:
		r.DropoffAddress = v
	case model.KindWebsite:
		r.WebsiteURL = v
	case model.KindStop:
		r.addNote(fmt.Sprintf("Stop: %s", v))
	case model.KindUnknown:
		r.addNote(item.Original)
	}
}

func parseCount(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n, true
	}
	return utils.WordNumber(v)
}
