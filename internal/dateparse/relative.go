package dateparse

import (
	"regexp"
	"strconv"
	"time"

	"callintake/internal/utils"
)

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "weds": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var (
	weekdayRe     = regexp.MustCompile(`^(?:(next|this|on)\s+)?([a-z]+)$`)
	nextMonthDay  = regexp.MustCompile(`^next\s+(.+)$`)
	inOffsetRe    = regexp.MustCompile(`^in\s+(\d+|[a-z]+(?:[\s-][a-z]+)?)\s+(day|days|week|weeks|wk|wks|month|months)$`)
	weekendPhrase = map[string]bool{"next weekend": true, "this weekend": true, "weekend": true, "this coming weekend": true}
)

// ResolveRelative turns a relative date expression into YYYY-MM-DD given
// today. It returns false for anything it does not recognize, including
// impossible calendar dates, so later rules still get a chance.
func ResolveRelative(expr string, today time.Time) (string, bool) {
	s := clean(expr)
	today = dateOnly(today)
	if s == "" {
		return "", false
	}

	switch s {
	case "today", "tonight", "tonite":
		return today.Format(ISOLayout), true
	case "tomorrow", "tmrw", "tmr", "tomorow", "tommorow", "tomorrow night":
		return today.AddDate(0, 0, 1).Format(ISOLayout), true
	case "day after tomorrow", "the day after tomorrow":
		return today.AddDate(0, 0, 2).Format(ISOLayout), true
	case "next month":
		first := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location())
		return first.Format(ISOLayout), true
	}

	if weekendPhrase[s] {
		return today.AddDate(0, 0, daysUntilSaturday(today.Weekday())).Format(ISOLayout), true
	}

	if m := weekdayRe.FindStringSubmatch(s); m != nil {
		if target, ok := weekdayNames[m[2]]; ok {
			offset := weekdayOffset(today.Weekday(), target, m[1] == "next")
			return today.AddDate(0, 0, offset).Format(ISOLayout), true
		}
	}

	// "next april 30" resolves exactly like "april 30": the year only rolls
	// when the date has already passed.
	if m := nextMonthDay.FindStringSubmatch(s); m != nil {
		if iso, ok := ParseAbsolute(m[1], today); ok {
			return iso, true
		}
	}
	if iso, ok := ParseAbsolute(s, today); ok {
		return iso, true
	}

	if m := inOffsetRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			var ok bool
			if n, ok = utils.WordNumber(m[1]); !ok {
				return "", false
			}
		}
		switch m[2] {
		case "day", "days":
			return today.AddDate(0, 0, n).Format(ISOLayout), true
		case "week", "weeks", "wk", "wks":
			return today.AddDate(0, 0, 7*n).Format(ISOLayout), true
		case "month", "months":
			return today.AddDate(0, n, 0).Format(ISOLayout), true
		}
	}

	return "", false
}

// daysUntilSaturday never returns 0: on a Saturday the weekend is a week out
func daysUntilSaturday(wd time.Weekday) int {
	days := (int(time.Saturday) - int(wd) + 7) % 7
	if days == 0 {
		return 7
	}
	return days
}

// weekdayOffset: a bare or "this" weekday is the nearest strictly-future
// occurrence (1..7 days). "next" adds another week only when the weekday has
// already passed in the current week, so from a Wednesday "next friday" is two
// days out while from a Saturday it is thirteen.
func weekdayOffset(today, target time.Weekday, next bool) int {
	raw := int(target) - int(today)
	offset := raw
	if offset <= 0 {
		offset += 7
	}
	if next && raw < 0 && offset < 7 {
		offset += 7
	}
	return offset
}
