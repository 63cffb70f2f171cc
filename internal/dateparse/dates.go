// Package dateparse turns typed date and time shorthand into calendar values.
// Every function is pure: "today" is always passed in by the caller.
package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"callintake/internal/model"
)

// ISOLayout is the output format for every resolved date
const ISOLayout = "2006-01-02"

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var (
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{2}|\d{4}))?$`)
	isoDateRe   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	monthDayRe  = regexp.MustCompile(`^(?:on\s+)?([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?$`)
)

// ParseAbsolute handles slash dates ("4/30", "04/30/2027"), ISO dates,
// "Month Day[, Year]" and "on Month Day". Without a year the current year is
// used unless that date has already passed, in which case it rolls forward.
func ParseAbsolute(expr string, today time.Time) (string, bool) {
	s := clean(expr)
	today = dateOnly(today)

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		t, err := calendarDate(y, time.Month(mo), d, today.Location())
		if err != nil {
			return "", false
		}
		return t.Format(ISOLayout), true
	}

	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		t, err := monthDay(time.Month(mo), d, year, today)
		if err != nil {
			return "", false
		}
		return t.Format(ISOLayout), true
	}

	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		month, ok := monthNames[m[1]]
		if !ok {
			return "", false
		}
		d, _ := strconv.Atoi(m[2])
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		t, err := monthDay(month, d, year, today)
		if err != nil {
			return "", false
		}
		return t.Format(ISOLayout), true
	}

	return "", false
}

// monthDay builds a date, inferring the year when year == 0
func monthDay(month time.Month, day, year int, today time.Time) (time.Time, error) {
	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("month %d: %w", month, model.ErrInvalidCalendarDate)
	}
	if year != 0 {
		return calendarDate(year, month, day, today.Location())
	}
	t, err := calendarDate(today.Year(), month, day, today.Location())
	if err != nil {
		// Feb 29 may only exist next year
		return calendarDate(today.Year()+1, month, day, today.Location())
	}
	if t.Before(today) {
		return calendarDate(today.Year()+1, month, day, today.Location())
	}
	return t, nil
}

// calendarDate rejects combinations time.Date would silently normalize (Feb 30)
func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%04d-%02d-%02d: %w", year, month, day, model.ErrInvalidCalendarDate)
	}
	return t, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func clean(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimRight(s, ".!?")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeDate is the last-mile formatter applied when a date chip is written
// to the call record. It accepts anything the detector would classify as a date.
func NormalizeDate(raw string, today time.Time) (string, bool) {
	if iso, ok := ParseAbsolute(raw, today); ok {
		return iso, true
	}
	return ResolveRelative(raw, today)
}
