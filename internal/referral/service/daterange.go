package service

import (
	"strconv"
	"strings"
	"time"

	dErrors "helptoheat/pkg/domain-errors"
)

// RangeInput is the portal's date range form; each part is free text.
type RangeInput struct {
	FromYear  string `json:"from_year"`
	FromMonth string `json:"from_month"`
	FromDay   string `json:"from_day"`
	ToYear    string `json:"to_year"`
	ToMonth   string `json:"to_month"`
	ToDay     string `json:"to_day"`
}

// ParseDateRange validates the form against today's London date and
// returns the inclusive range as London midnights. Errors carry one
// message per failing form part, keyed like "from-year" or "to".
func ParseDateRange(in RangeInput, now time.Time) (from, to time.Time, err error) {
	today := civil(now.In(London))
	fields := map[string]string{}

	from, fromOK := parseDate("from", "From", in.FromYear, in.FromMonth, in.FromDay, today, fields)
	to, toOK := parseDate("to", "To", in.ToYear, in.ToMonth, in.ToDay, today, fields)
	if fromOK && toOK && from.After(to) {
		fields["to"] = "To must be the same as or after From"
	}
	if len(fields) > 0 {
		return time.Time{}, time.Time{}, dErrors.Validation("invalid date range", fields)
	}
	return from, to, nil
}

func parseDate(key, label, year, month, day string, today time.Time, fields map[string]string) (time.Time, bool) {
	y, yErr := parsePart(year, 1, 9999)
	m, mErr := parsePart(month, 1, 12)
	d, dErr := parsePart(day, 1, 31)
	if yErr {
		fields[key+"-year"] = label + " must include a valid year"
	}
	if mErr {
		fields[key+"-month"] = label + " must include a valid month"
	}
	if dErr {
		fields[key+"-day"] = label + " must include a valid day"
	}
	if yErr || mErr || dErr {
		return time.Time{}, false
	}

	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, London)
	if date.Year() != y || int(date.Month()) != m || date.Day() != d {
		fields[key] = label + " must be a real date"
		return time.Time{}, false
	}
	if date.After(today) {
		fields[key] = label + " must be today or in the past"
		return time.Time{}, false
	}
	return date, true
}

// parsePart reports an error for blank, non-numeric or out of range input.
func parsePart(s string, min, max int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, true
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max {
		return 0, true
	}
	return n, false
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
