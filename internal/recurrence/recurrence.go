package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Frequency string

const (
	Once     Frequency = "once"
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Yearly   Frequency = "yearly"
)

var frequencies = map[string]Frequency{
	"once":     Once,
	"daily":    Daily,
	"weekly":   Weekly,
	"biweekly": Biweekly,
	"monthly":  Monthly,
	"yearly":   Yearly,
}

// ParseFrequency validates a recurrence frequency string.
func ParseFrequency(s string) (Frequency, error) {
	f, ok := frequencies[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown frequency: %q", s)
	}
	return f, nil
}

// Rule describes how a task repeats: a frequency, an optional day-of-week
// set (weekly only, 0=Sunday), and an interval (every N periods).
type Rule struct {
	Freq     Frequency
	Days     []time.Weekday
	Interval int
}

// NewRule builds a rule from the stored task columns. Days outside 0-6 are
// dropped; interval < 1 is normalized to 1. Biweekly is weekly with a
// two-week interval.
func NewRule(freq Frequency, days []int, interval int) Rule {
	r := Rule{Freq: freq, Interval: interval}
	if r.Interval < 1 {
		r.Interval = 1
	}
	if freq == Biweekly {
		r.Freq = Weekly
		r.Interval = 2
	}
	for _, d := range days {
		if d >= 0 && d <= 6 {
			r.Days = append(r.Days, time.Weekday(d))
		}
	}
	return r
}

// DueOn reports whether the rule has an occurrence on date, given the
// task's start date. One-off tasks are due from their start date onward;
// the caller decides when a completion retires them.
func (r Rule) DueOn(start, date time.Time) bool {
	start = truncate(start)
	date = truncate(date)
	if date.Before(start) {
		return false
	}

	switch r.Freq {
	case Once:
		return true

	case Daily:
		days := int(date.Sub(start).Hours() / 24)
		return days%r.Interval == 0

	case Weekly:
		if !r.onDay(date, start) {
			return false
		}
		weeks := weeksBetween(start, date)
		return weeks%r.Interval == 0

	case Monthly:
		if date.Day() != start.Day() {
			return false
		}
		months := (date.Year()-start.Year())*12 + int(date.Month()) - int(start.Month())
		return months%r.Interval == 0

	case Yearly:
		if date.Month() != start.Month() || date.Day() != start.Day() {
			return false
		}
		return (date.Year()-start.Year())%r.Interval == 0
	}
	return false
}

// onDay checks weekday membership; with no explicit day set the rule fires
// on the start date's weekday.
func (r Rule) onDay(date, start time.Time) bool {
	if len(r.Days) == 0 {
		return date.Weekday() == start.Weekday()
	}
	for _, d := range r.Days {
		if date.Weekday() == d {
			return true
		}
	}
	return false
}

// weeksBetween counts whole weeks between the Sundays containing each date,
// so interval math is stable across a day-set week.
func weeksBetween(start, date time.Time) int {
	a := start.AddDate(0, 0, -int(start.Weekday()))
	b := date.AddDate(0, 0, -int(date.Weekday()))
	return int(b.Sub(a).Hours() / 24 / 7)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EncodeDays renders a day set as the comma-separated form stored in the
// tasks table. Empty slice encodes as "".
func EncodeDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// DecodeDays parses the stored comma-separated day set. Malformed entries
// are skipped rather than failing the whole task row.
func DecodeDays(s string) []int {
	if s == "" {
		return nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		days = append(days, n)
	}
	return days
}
