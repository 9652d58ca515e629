package utils

import (
	"testing"
	"time"
)

func TestSameDayAroundMidnight(t *testing.T) {
	loc := time.Local
	lateNight := time.Date(2026, 3, 14, 23, 59, 0, 0, loc)
	justAfter := time.Date(2026, 3, 15, 0, 1, 0, 0, loc)

	if SameDay(lateNight, justAfter) {
		t.Fatal("23:59 and next-day 00:01 must not share a calendar day")
	}
	if !SameDay(lateNight, time.Date(2026, 3, 14, 0, 0, 1, 0, loc)) {
		t.Fatal("times on the same calendar day should match")
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, 1, 31, 22, 0, 0, 0, time.Local)
	end := time.Date(2026, 2, 2, 1, 0, 0, 0, time.Local)
	if got := DaysBetween(start, end); got != 2 {
		t.Fatalf("DaysBetween = %d, want 2", got)
	}
}

func TestDayKey(t *testing.T) {
	d := time.Date(2026, 7, 4, 16, 30, 0, 0, time.Local)
	if got := DayKey(d); got != "2026-07-04" {
		t.Fatalf("DayKey = %q", got)
	}
}
