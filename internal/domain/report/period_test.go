package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 2024-05-15 14:30 in Manila
var (
	manila = time.FixedZone("PHT", 8*3600)
	now    = time.Date(2024, 5, 15, 14, 30, 0, 0, manila)
)

func TestParseBucket(t *testing.T) {
	tests := []struct {
		in      string
		want    Bucket
		wantErr bool
	}{
		{"", BucketOverall, false},
		{"today", BucketToday, false},
		{" Week ", BucketWeek, false},
		{"MONTH", BucketMonth, false},
		{"year", BucketYear, false},
		{"decade", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBucket(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalendar_Window(t *testing.T) {
	monday := NewCalendar(manila, time.Monday)
	sunday := NewCalendar(manila, time.Sunday)

	tests := []struct {
		name   string
		cal    Calendar
		bucket Bucket
		start  time.Time
		end    time.Time
	}{
		{"today", monday, BucketToday, time.Date(2024, 5, 15, 0, 0, 0, 0, manila), time.Date(2024, 5, 16, 0, 0, 0, 0, manila)},
		{"monday week", monday, BucketWeek, time.Date(2024, 5, 13, 0, 0, 0, 0, manila), time.Date(2024, 5, 20, 0, 0, 0, 0, manila)},
		{"sunday week", sunday, BucketWeek, time.Date(2024, 5, 12, 0, 0, 0, 0, manila), time.Date(2024, 5, 19, 0, 0, 0, 0, manila)},
		{"month", monday, BucketMonth, time.Date(2024, 5, 1, 0, 0, 0, 0, manila), time.Date(2024, 6, 1, 0, 0, 0, 0, manila)},
		{"year", monday, BucketYear, time.Date(2024, 1, 1, 0, 0, 0, 0, manila), time.Date(2025, 1, 1, 0, 0, 0, 0, manila)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := tt.cal.Window(tt.bucket, now)
			require.True(t, ok)
			assert.True(t, tt.start.Equal(start), "start %s", start)
			assert.True(t, tt.end.Equal(end), "end %s", end)
		})
	}

	_, _, ok := monday.Window(BucketOverall, now)
	assert.False(t, ok)
}

func TestCalendar_WeekCrossesMonthBoundary(t *testing.T) {
	cal := NewCalendar(time.UTC, time.Monday)
	// Friday 2024-03-01; week starts Monday 2024-02-26
	start, end, ok := cal.Window(BucketWeek, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), end)
}

func TestCalendar_Classify(t *testing.T) {
	cal := NewCalendar(manila, time.Monday)

	tests := []struct {
		name string
		ts   time.Time
		want Membership
	}{
		{"this morning", time.Date(2024, 5, 15, 0, 0, 0, 0, manila), Membership{true, true, true, true}},
		{"yesterday late", time.Date(2024, 5, 14, 23, 59, 59, 0, manila), Membership{false, true, true, true}},
		{"last week", time.Date(2024, 5, 12, 10, 0, 0, 0, manila), Membership{false, false, true, true}},
		{"last month", time.Date(2024, 4, 30, 10, 0, 0, 0, manila), Membership{false, false, false, true}},
		{"last year", time.Date(2023, 12, 31, 23, 0, 0, 0, manila), Membership{}},
		{"utc instant that is today in manila", time.Date(2024, 5, 14, 16, 0, 0, 0, time.UTC), Membership{true, true, true, true}},
		{"tomorrow", time.Date(2024, 5, 16, 0, 0, 0, 0, manila), Membership{false, true, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.Classify(tt.ts, now)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Has(BucketOverall))
		})
	}
}

func TestCalendar_MembershipPartition(t *testing.T) {
	cal := NewCalendar(manila, time.Sunday)
	startOfToday := cal.StartOfDay(now)

	// walk 400 days either side in 7h steps
	for ts := now.AddDate(0, 0, -400); ts.Before(now.AddDate(0, 0, 400)); ts = ts.Add(7 * time.Hour) {
		m := cal.Classify(ts, now)
		before := ts.Before(startOfToday)

		if m.Today {
			assert.False(t, before)
			assert.True(t, m.Week && m.Month && m.Year, "today implies wider buckets at %s", ts)
		}
		if m.Month {
			assert.True(t, m.Year)
		}

		// the day belongs to exactly one week and one month window
		weeks, months := 0, 0
		for _, ref := range []time.Time{ts.AddDate(0, 0, -7), ts, ts.AddDate(0, 0, 7)} {
			if cal.Contains(BucketWeek, ts, ref) {
				weeks++
			}
		}
		y, mon, _ := ts.In(manila).Date()
		for _, ref := range []time.Time{
			time.Date(y, mon-1, 1, 0, 0, 0, 0, manila),
			ts,
			time.Date(y, mon+1, 1, 0, 0, 0, 0, manila),
		} {
			if cal.Contains(BucketMonth, ts, ref) {
				months++
			}
		}
		assert.Equal(t, 1, weeks, "week count at %s", ts)
		assert.Equal(t, 1, months, "month count at %s", ts)
	}
}

func TestCalendar_SubBucket(t *testing.T) {
	cal := NewCalendar(manila, time.Monday)
	ts := time.Date(2024, 5, 15, 14, 30, 0, 0, manila) // Wednesday

	assert.Equal(t, 14, cal.SubBucket(BucketToday, ts))
	assert.Equal(t, 2, cal.SubBucket(BucketWeek, ts))
	assert.Equal(t, 15, cal.SubBucket(BucketMonth, ts))
	assert.Equal(t, 5, cal.SubBucket(BucketYear, ts))
	assert.Equal(t, 2024, cal.SubBucket(BucketOverall, ts))

	sunday := NewCalendar(manila, time.Sunday)
	assert.Equal(t, 3, sunday.SubBucket(BucketWeek, ts))
	assert.Equal(t, time.Wednesday, sunday.WeekdayAt(3))
	assert.Equal(t, time.Sunday, cal.WeekdayAt(6))
}

func TestCalendar_DaysInMonth(t *testing.T) {
	cal := NewCalendar(time.UTC, time.Monday)
	assert.Equal(t, 29, cal.DaysInMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 28, cal.DaysInMonth(time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, cal.DaysInMonth(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
}
