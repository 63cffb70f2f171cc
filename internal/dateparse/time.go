package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockRe = regexp.MustCompile(`^(?:(?:at|@|around|by)\s*)?((\d{1,2})(?::(\d{2}))?\s*(a\.?m\.?|p\.?m\.?|a|p)?)$`)

// Clock is a parsed time of day
type Clock struct {
	Hour   int
	Minute int
	Text   string // the time as typed, without a leading "at"
}

// String renders the 24-hour HH:MM form
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock recognizes "5pm", "5 p", "9:30am", "at 7pm", "17:45", "noon". A bare
// hour without minutes needs a meridiem, otherwise "20" would read as a time.
func ParseClock(expr string) (Clock, bool) {
	s := strings.ToLower(strings.TrimSpace(expr))
	s = strings.Join(strings.Fields(s), " ")
	for _, prefix := range []string{"at ", "@", "around ", "by "} {
		rest := strings.TrimSpace(strings.TrimPrefix(s, prefix))
		switch rest {
		case "noon":
			return Clock{Hour: 12, Minute: 0, Text: rest}, true
		case "midnight":
			return Clock{Hour: 0, Minute: 0, Text: rest}, true
		}
	}

	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return Clock{}, false
	}
	hour, _ := strconv.Atoi(m[2])
	minute := 0
	hasMinutes := m[3] != ""
	if hasMinutes {
		minute, _ = strconv.Atoi(m[3])
	}
	meridiem := strings.ReplaceAll(m[4], ".", "")
	if meridiem == "" && !hasMinutes {
		return Clock{}, false
	}
	if minute > 59 {
		return Clock{}, false
	}

	switch meridiem {
	case "a", "am":
		if hour < 1 || hour > 12 {
			return Clock{}, false
		}
		if hour == 12 {
			hour = 0
		}
	case "p", "pm":
		if hour < 1 || hour > 12 {
			return Clock{}, false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return Clock{}, false
		}
	}

	return Clock{Hour: hour, Minute: minute, Text: m[1]}, true
}

// IsTimeExpression reports whether the text is nothing but a time of day
func IsTimeExpression(expr string) bool {
	_, ok := ParseClock(expr)
	return ok
}

// NormalizeTime converts a typed time to 24-hour HH:MM
func NormalizeTime(raw string) (string, bool) {
	c, ok := ParseClock(raw)
	if !ok {
		return "", false
	}
	return c.String(), true
}
