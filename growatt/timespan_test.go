package growatt

import (
	"errors"
	"testing"
	"time"
)

func TestTimespanWireCodes(t *testing.T) {
	// codes are part of the wire contract
	codes := map[Timespan]string{
		TimespanHour:  "0",
		TimespanDay:   "1",
		TimespanMonth: "2",
	}

	for ts, want := range codes {
		if got := ts.param(); got != want {
			t.Errorf("%s.param() = %s, want %s", ts, got, want)
		}
	}
}

func TestDateString(t *testing.T) {
	date := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tc := []struct {
		ts   Timespan
		want string
	}{
		{TimespanHour, "2024-03-15"},
		{TimespanDay, "2024-03-15"},
		{TimespanMonth, "2024-03"},
	}

	for _, tc := range tc {
		got, err := dateString(tc.ts, date)
		if err != nil {
			t.Fatalf("dateString(%s): %v", tc.ts, err)
		}
		if got != tc.want {
			t.Errorf("dateString(%s) = %s, want %s", tc.ts, got, tc.want)
		}
	}
}

func TestDateStringZeroDateIsNow(t *testing.T) {
	got, err := dateString(TimespanDay, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Now().Format("2006-01-02"); got != want {
		t.Errorf("dateString(day, zero) = %s, want %s", got, want)
	}
}

func TestDateStringInvalidTimespan(t *testing.T) {
	for _, ts := range []Timespan{-1, 3, 42} {
		if _, err := dateString(ts, time.Now()); !errors.Is(err, ErrInvalidTimespan) {
			t.Errorf("dateString(%d) error = %v, want ErrInvalidTimespan", ts, err)
		}
	}
}
