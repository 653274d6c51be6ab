package recurrence

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFrequency(t *testing.T) {
	for _, s := range []string{"once", "daily", "weekly", "biweekly", "monthly", "yearly"} {
		if _, err := ParseFrequency(s); err != nil {
			t.Errorf("ParseFrequency(%q) error: %v", s, err)
		}
	}
	if _, err := ParseFrequency("fortnightly"); err == nil {
		t.Error("expected error for unknown frequency")
	}
	f, err := ParseFrequency(" Weekly ")
	if err != nil || f != Weekly {
		t.Errorf("ParseFrequency(\" Weekly \") = %v, %v", f, err)
	}
}

func TestOnceDueFromStart(t *testing.T) {
	r := NewRule(Once, nil, 1)
	start := date(2026, time.March, 10)

	if r.DueOn(start, date(2026, time.March, 9)) {
		t.Error("due before start")
	}
	if !r.DueOn(start, start) {
		t.Error("not due on start date")
	}
	if !r.DueOn(start, date(2026, time.March, 20)) {
		t.Error("one-off should stay due after start")
	}
}

func TestDailyInterval(t *testing.T) {
	r := NewRule(Daily, nil, 3)
	start := date(2026, time.January, 1)

	due := []int{1, 4, 7}
	notDue := []int{2, 3, 5, 6}
	for _, d := range due {
		if !r.DueOn(start, date(2026, time.January, d)) {
			t.Errorf("expected due on Jan %d", d)
		}
	}
	for _, d := range notDue {
		if r.DueOn(start, date(2026, time.January, d)) {
			t.Errorf("expected not due on Jan %d", d)
		}
	}
}

func TestWeeklyDaySet(t *testing.T) {
	// Mon/Wed/Fri, starting Monday 2026-01-05.
	r := NewRule(Weekly, []int{1, 3, 5}, 1)
	start := date(2026, time.January, 5)

	if !r.DueOn(start, date(2026, time.January, 7)) { // Wednesday
		t.Error("expected due on Wednesday")
	}
	if !r.DueOn(start, date(2026, time.January, 9)) { // Friday
		t.Error("expected due on Friday")
	}
	if r.DueOn(start, date(2026, time.January, 6)) { // Tuesday
		t.Error("expected not due on Tuesday")
	}
}

func TestWeeklyDefaultsToStartWeekday(t *testing.T) {
	r := NewRule(Weekly, nil, 1)
	start := date(2026, time.January, 5) // Monday

	if !r.DueOn(start, date(2026, time.January, 12)) {
		t.Error("expected due next Monday")
	}
	if r.DueOn(start, date(2026, time.January, 13)) {
		t.Error("expected not due on Tuesday")
	}
}

func TestBiweeklyIsWeeklyIntervalTwo(t *testing.T) {
	r := NewRule(Biweekly, nil, 1)
	if r.Freq != Weekly || r.Interval != 2 {
		t.Fatalf("biweekly normalized to %v interval %d", r.Freq, r.Interval)
	}

	start := date(2026, time.January, 5) // Monday
	if r.DueOn(start, date(2026, time.January, 12)) {
		t.Error("expected not due on the off week")
	}
	if !r.DueOn(start, date(2026, time.January, 19)) {
		t.Error("expected due two weeks out")
	}
}

func TestMonthlyByStartDay(t *testing.T) {
	r := NewRule(Monthly, nil, 1)
	start := date(2026, time.January, 15)

	if !r.DueOn(start, date(2026, time.February, 15)) {
		t.Error("expected due on the 15th of next month")
	}
	if r.DueOn(start, date(2026, time.February, 14)) {
		t.Error("expected not due on the 14th")
	}
}

func TestYearly(t *testing.T) {
	r := NewRule(Yearly, nil, 1)
	start := date(2024, time.June, 1)

	if !r.DueOn(start, date(2026, time.June, 1)) {
		t.Error("expected due on the anniversary")
	}
	if r.DueOn(start, date(2026, time.June, 2)) {
		t.Error("expected not due the day after")
	}
}

func TestDayCodecRoundTrip(t *testing.T) {
	encoded := EncodeDays([]int{1, 3, 5})
	if encoded != "1,3,5" {
		t.Errorf("EncodeDays = %q, want %q", encoded, "1,3,5")
	}
	decoded := DecodeDays(encoded)
	if len(decoded) != 3 || decoded[0] != 1 || decoded[1] != 3 || decoded[2] != 5 {
		t.Errorf("DecodeDays = %v", decoded)
	}
	if DecodeDays("") != nil {
		t.Error("empty string should decode to nil")
	}
	if got := DecodeDays("2,x,4"); len(got) != 2 {
		t.Errorf("malformed entry should be skipped, got %v", got)
	}
}
