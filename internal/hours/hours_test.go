package hours

import (
	"testing"
	"time"
)

func TestAtEpochBoundaries(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want Hour
	}{
		{"epoch", Epoch, 0},
		{"one hour later", Epoch.Add(time.Hour), 1},
		{"just before one hour", Epoch.Add(time.Hour - time.Millisecond), 0},
		{"next day", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 24},
		{"just before epoch", Epoch.Add(-time.Millisecond), -1},
		{"one hour before epoch", Epoch.Add(-time.Hour), -1},
		{"leap day", time.Date(2024, 2, 29, 12, 30, 0, 0, time.UTC), (31+28)*24 + 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := At(tt.at); got != tt.want {
				t.Fatalf("At(%s) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestStartRoundTrip(t *testing.T) {
	for _, h := range []Hour{-49, -1, 0, 1, 24, 8783, 8784} {
		if got := At(h.Start()); got != h {
			t.Fatalf("At(%d.Start()) = %d", h, got)
		}
	}
}

func TestCalendar(t *testing.T) {
	c := Hour(24).Calendar()
	if c != (Calendar{Year: 2024, Month: 0, Day: 1, HourOfDay: 0}) {
		t.Fatalf("unexpected calendar for 24: %+v", c)
	}

	// 2024 is a leap year, so 366 days land on 2025-01-01.
	c = Hour(366 * 24).Calendar()
	if c != (Calendar{Year: 2025, Month: 0, Day: 0, HourOfDay: 0}) {
		t.Fatalf("unexpected calendar for 366 days: %+v", c)
	}

	for _, h := range []Hour{0, 23, 1439, 8783, 20000} {
		if got := FromCalendar(h.Calendar()); got != h {
			t.Fatalf("FromCalendar(%d) = %d", h, got)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2024, 0, 31},
		{2024, 1, 29},
		{2023, 1, 28},
		{1900, 1, 28},
		{2000, 1, 29},
		{2024, 3, 30},
		{2024, 11, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestFarBuckets(t *testing.T) {
	// 3,000,000 hours is exactly 125,000 days.
	h := Hour(3000000)
	want := Epoch.AddDate(0, 0, 125000)
	if got := h.Start(); !got.Equal(want) {
		t.Fatalf("Start() = %s, want %s", got, want)
	}
	if c := h.Calendar(); c.Year != 2366 || c.HourOfDay != 0 {
		t.Fatalf("unexpected calendar %+v", c)
	}
	if got := At(h.Start()); got != h {
		t.Fatalf("At(Start()) = %d", got)
	}
	if got := At((-h).Start()); got != -h {
		t.Fatalf("At((-h).Start()) = %d", got)
	}

	for _, h := range []Hour{Min, Max} {
		if !h.InRange() {
			t.Fatalf("%d should be in range", h)
		}
		if got := At(h.Start()); got != h {
			t.Fatalf("At(%d.Start()) = %d", h, got)
		}
	}
	if (Max + 1).InRange() || (Min - 1).InRange() {
		t.Fatal("bounds should be inclusive")
	}
	if !Hour(1 << 62).Start().Equal(Max.Start()) {
		t.Fatal("Start should clamp buckets past Max")
	}
}
