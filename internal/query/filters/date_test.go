package filters

import (
	"testing"
	"time"
)

func TestParseDateLiteral_YMDWithFourDigitYear(t *testing.T) {
	got, err := ParseDateLiteral("2024-03-05")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 5 {
		t.Fatalf("got %v", got)
	}
}

func TestParseDateLiteral_DMYWithFourDigitYearLast(t *testing.T) {
	got, err := ParseDateLiteral("05-03-2024")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 5 {
		t.Fatalf("got %v", got)
	}
}

func TestParseDateLiteral_SlashSeparator(t *testing.T) {
	got, err := ParseDateLiteral("2024/03/05")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if got.Year() != 2024 {
		t.Fatalf("got %v", got)
	}
}

func TestParseDateLiteral_FirstFieldOver12IsYearFirst(t *testing.T) {
	got, err := ParseDateLiteral("25-03-10")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 10 {
		t.Fatalf("got %v", got)
	}
}

func TestParseDateLiteral_AmbiguousIsRejected(t *testing.T) {
	if _, err := ParseDateLiteral("05-03-10"); err == nil {
		t.Fatal("expected ambiguous date literal to be rejected")
	}
}

func TestDateRange_Today(t *testing.T) {
	now := time.Date(2026, 7, 31, 15, 30, 0, 0, time.Local)
	lo, hi, ok := DateRange("today", now)
	if !ok {
		t.Fatal("expected ok")
	}
	if lo.Hour() != 0 || lo.Day() != 31 {
		t.Fatalf("lo = %v", lo)
	}
	if hi.Day() != 1 || hi.Month() != time.August {
		t.Fatalf("hi = %v", hi)
	}
}

func TestDateRange_PastWeekIsSevenDays(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.Local)
	lo, hi, ok := DateRange("pastweek", now)
	if !ok {
		t.Fatal("expected ok")
	}
	if !hi.Equal(now) {
		t.Fatalf("hi = %v, want now", hi)
	}
	if lo.Day() != 24 {
		t.Fatalf("lo = %v, want 7 days back", lo)
	}
}

func TestDateRange_PastMonthUsesCalendarMonth(t *testing.T) {
	now := time.Date(2026, 3, 31, 0, 0, 0, 0, time.Local)
	lo, _, ok := DateRange("pastmonth", now)
	if !ok {
		t.Fatal("expected ok")
	}
	// Feb has no 31st; AddDate(0,-1,0) normalizes by overflowing into March 3.
	if lo.Month() == time.February && lo.Day() == 31 {
		t.Fatalf("lo = %v, expected Go's AddDate overflow normalization", lo)
	}
}

func TestDateRange_ThisYearVsLastYear(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	loThis, hiThis, _ := DateRange("thisyear", now)
	loLast, hiLast, _ := DateRange("lastyear", now)
	if loThis.Year() != 2026 || hiThis.Year() != 2027 {
		t.Fatalf("thisyear = %v..%v", loThis, hiThis)
	}
	if loLast.Year() != 2025 || hiLast.Year() != 2026 {
		t.Fatalf("lastyear = %v..%v", loLast, hiLast)
	}
}
