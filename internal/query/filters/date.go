package filters

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDateLiteral parses a three-field date literal in Y-M-D, Y/M/D,
// D-M-Y, or D/M/Y order, per spec.md's dm:/dc: row and the disambiguation
// resolved in SPEC_FULL.md §11 / DESIGN.md Open Question (a):
//  1. A first field of 4+ digits is unambiguously a year: Y-M-D.
//  2. Otherwise a last field of 4+ digits is unambiguously a year: D-M-Y.
//  3. Otherwise, per spec's literal rule ("favoring Y-first when the
//     first field > 12"), a first field > 12 cannot be a month and is
//     read as a (2-digit) year: Y-M-D.
//  4. Otherwise neither end disambiguates: the literal is rejected as
//     ambiguous.
func ParseDateLiteral(s string) (time.Time, error) {
	sep := "-"
	if strings.Contains(s, "/") {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("filters: %q is not a three-field date", s)
	}
	f1, f2, f3 := parts[0], parts[1], parts[2]

	var year, month, day int
	var err error
	switch {
	case len(f1) >= 4:
		year, month, day, err = ymd(f1, f2, f3)
	case len(f3) >= 4:
		day, month, year, err = ymd(f1, f2, f3)
	case mustAtoi(f1) > 12:
		year, month, day, err = ymd(f1, f2, f3)
	default:
		return time.Time{}, fmt.Errorf("filters: ambiguous date literal %q", s)
	}
	if err != nil {
		return time.Time{}, err
	}
	year = expandYear(year)
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

func ymd(a, b, c string) (x, y, z int, err error) {
	x, err = strconv.Atoi(a)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("filters: invalid date field %q", a)
	}
	y, err = strconv.Atoi(b)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("filters: invalid date field %q", b)
	}
	z, err = strconv.Atoi(c)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("filters: invalid date field %q", c)
	}
	return x, y, z, nil
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// expandYear applies the conventional two-digit-year pivot (POSIX
// strptime's %y rule): 00-68 -> 2000-2068, 69-99 -> 1969-1999.
func expandYear(y int) int {
	if y >= 100 {
		return y
	}
	if y <= 68 {
		return 2000 + y
	}
	return 1900 + y
}

// DateRange returns the [lo, hi) window for a date keyword (today,
// yesterday, pastweek, pastmonth, thisyear, lastyear), per SPEC_FULL.md
// §11: pastweek is now-7*24h..now; pastmonth is a calendar month back
// (AddDate, not 30 days); today/yesterday compare the local calendar
// date; thisyear/lastyear compare the calendar year.
func DateRange(keyword string, now time.Time) (lo, hi time.Time, ok bool) {
	switch strings.ToLower(keyword) {
	case "today":
		d := truncateToDate(now)
		return d, d.AddDate(0, 0, 1), true
	case "yesterday":
		d := truncateToDate(now).AddDate(0, 0, -1)
		return d, d.AddDate(0, 0, 1), true
	case "pastweek":
		return now.AddDate(0, 0, -7), now, true
	case "pastmonth":
		return now.AddDate(0, -1, 0), now, true
	case "thisyear":
		y := now.Year()
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.Local), time.Date(y+1, 1, 1, 0, 0, 0, 0, time.Local), true
	case "lastyear":
		y := now.Year() - 1
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.Local), time.Date(y+1, 1, 1, 0, 0, 0, 0, time.Local), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
