// Package hours converts between wall-clock instants and hour buckets.
//
// An hour bucket is the number of whole hours elapsed since
// 2024-01-01T00:00:00Z. Buckets before the epoch are negative.
package hours

import "time"

// Hour is a bucket number.
type Hour int64

// Epoch is the instant of bucket zero.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const msPerHour = int64(time.Hour / time.Millisecond)

// Min and Max bound the buckets whose instants fit in Unix milliseconds
// with room left for a window of buckets on either side.
const (
	Max Hour = 1 << 40
	Min Hour = -Max
)

// InRange reports whether h lies within Min..Max.
func (h Hour) InRange() bool {
	return h >= Min && h <= Max
}

// At returns the bucket containing t, flooring toward negative infinity.
func At(t time.Time) Hour {
	return FromMillis(t.UnixMilli())
}

// FromMillis returns the bucket containing the Unix millisecond instant ms.
func FromMillis(ms int64) Hour {
	d := ms - Epoch.UnixMilli()
	h := d / msPerHour
	if d%msPerHour != 0 && d < 0 {
		h--
	}
	return Hour(h)
}

// Start returns the first instant of the bucket. Buckets outside Min..Max
// are clamped to the nearest bound.
func (h Hour) Start() time.Time {
	h = max(Min, min(h, Max))
	return time.UnixMilli(Epoch.UnixMilli() + int64(h)*msPerHour).UTC()
}

// Calendar describes a bucket in UTC calendar terms. Month and Day are
// zero-based, the way browser clients address them.
type Calendar struct {
	Year      int `json:"year"`
	Month     int `json:"month"`
	Day       int `json:"day"`
	HourOfDay int `json:"hourOfDay"`
}

// Calendar returns the UTC calendar position of the bucket.
func (h Hour) Calendar() Calendar {
	t := h.Start()
	return Calendar{
		Year:      t.Year(),
		Month:     int(t.Month()) - 1,
		Day:       t.Day() - 1,
		HourOfDay: t.Hour(),
	}
}

// FromCalendar is the inverse of Hour.Calendar. Out-of-range components
// carry over into the next unit.
func FromCalendar(c Calendar) Hour {
	t := time.Date(c.Year, time.Month(c.Month+1), c.Day+1, c.HourOfDay, 0, 0, 0, time.UTC)
	return At(t)
}

// IsLeapYear reports whether year has a February 29th.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the day count for a zero-based month.
func DaysInMonth(year, month int) int {
	switch month {
	case 3, 5, 8, 10:
		return 30
	case 1:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}
