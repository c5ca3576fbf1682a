package report

import (
	"fmt"
	"strings"
	"time"
)

// Bucket is a calendar-aligned reporting window relative to "now"
type Bucket string

const (
	BucketToday   Bucket = "TODAY"
	BucketWeek    Bucket = "WEEK"
	BucketMonth   Bucket = "MONTH"
	BucketYear    Bucket = "YEAR"
	BucketOverall Bucket = "OVERALL"
)

// Buckets lists every bucket from narrowest to widest
var Buckets = []Bucket{BucketToday, BucketWeek, BucketMonth, BucketYear, BucketOverall}

// IsValid checks if the bucket is a valid Bucket
func (b Bucket) IsValid() bool {
	switch b {
	case BucketToday, BucketWeek, BucketMonth, BucketYear, BucketOverall:
		return true
	}
	return false
}

// String returns the string representation of Bucket
func (b Bucket) String() string {
	return string(b)
}

// ParseBucket reads a bucket name case-insensitively. Empty means OVERALL.
func ParseBucket(s string) (Bucket, error) {
	if s == "" {
		return BucketOverall, nil
	}
	b := Bucket(strings.ToUpper(strings.TrimSpace(s)))
	if !b.IsValid() {
		return "", fmt.Errorf("unknown bucket %q", s)
	}
	return b, nil
}

// Calendar holds the locale settings bucketing depends on
type Calendar struct {
	Location  *time.Location
	WeekStart time.Weekday
}

// NewCalendar creates a calendar. A nil location means time.Local.
func NewCalendar(loc *time.Location, weekStart time.Weekday) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Location: loc, WeekStart: weekStart}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// StartOfDay returns local midnight of t's day
func (c Calendar) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.location())
}

// weekdayOffset is how many days t's weekday lies after the week start (0-6)
func (c Calendar) weekdayOffset(t time.Time) int {
	return (int(t.In(c.location()).Weekday()) - int(c.WeekStart) + 7) % 7
}

// Window returns the half-open interval [start, end) of bucket b around now.
// ok is false for OVERALL, which has no bounds.
func (c Calendar) Window(b Bucket, now time.Time) (start, end time.Time, ok bool) {
	loc := c.location()
	y, m, d := now.In(loc).Date()

	switch b {
	case BucketToday:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
		end = time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	case BucketWeek:
		first := d - c.weekdayOffset(now)
		start = time.Date(y, m, first, 0, 0, 0, 0, loc)
		end = time.Date(y, m, first+7, 0, 0, 0, 0, loc)
	case BucketMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	case BucketYear:
		start = time.Date(y, 1, 1, 0, 0, 0, 0, loc)
		end = time.Date(y+1, 1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Contains reports whether ts falls in bucket b around now
func (c Calendar) Contains(b Bucket, ts, now time.Time) bool {
	start, end, ok := c.Window(b, now)
	if !ok {
		return b == BucketOverall
	}
	return !ts.Before(start) && ts.Before(end)
}

// Membership is the set of buckets a timestamp belongs to
type Membership struct {
	Today bool `json:"today"`
	Week  bool `json:"week"`
	Month bool `json:"month"`
	Year  bool `json:"year"`
}

// Classify returns the bucket membership of ts relative to now
func (c Calendar) Classify(ts, now time.Time) Membership {
	return Membership{
		Today: c.Contains(BucketToday, ts, now),
		Week:  c.Contains(BucketWeek, ts, now),
		Month: c.Contains(BucketMonth, ts, now),
		Year:  c.Contains(BucketYear, ts, now),
	}
}

// Has reports membership in b. Everything belongs to OVERALL.
func (m Membership) Has(b Bucket) bool {
	switch b {
	case BucketToday:
		return m.Today
	case BucketWeek:
		return m.Week
	case BucketMonth:
		return m.Month
	case BucketYear:
		return m.Year
	case BucketOverall:
		return true
	}
	return false
}

// SubBucket returns the chart slot of ts within bucket b:
//
//	TODAY   hour of day, 0-23
//	WEEK    days since the week start, 0-6
//	MONTH   day of month, 1-31
//	YEAR    month, 1-12
//	OVERALL year
func (c Calendar) SubBucket(b Bucket, ts time.Time) int {
	local := ts.In(c.location())
	switch b {
	case BucketToday:
		return local.Hour()
	case BucketWeek:
		return c.weekdayOffset(ts)
	case BucketMonth:
		return local.Day()
	case BucketYear:
		return int(local.Month())
	default:
		return local.Year()
	}
}

// WeekdayAt returns the weekday of slot offset in a WEEK series
func (c Calendar) WeekdayAt(offset int) time.Weekday {
	return time.Weekday((int(c.WeekStart) + offset) % 7)
}

// DaysInMonth returns the number of days in now's month
func (c Calendar) DaysInMonth(now time.Time) int {
	y, m, _ := now.In(c.location()).Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, c.location()).Day()
}
