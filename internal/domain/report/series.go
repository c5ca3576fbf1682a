package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
)

// Point is one slot of a chart series
type Point struct {
	Slot     int               `json:"slot"`
	Label    string            `json:"label"`
	Sales    valueobject.Money `json:"sales"`
	Paid     valueobject.Money `json:"paid"`
	Expenses valueobject.Money `json:"expenses"`
}

// Series splits a bucket into chart slots (see Calendar.SubBucket) and totals
// sales, payments and expenses per slot. Every slot is present even when
// empty. OVERALL runs from the earliest year in the data to now's year.
// Cancelled records are left out, as in Summarize.
func (a *Aggregator) Series(records []*billing.MonetaryRecord, expenses []*billing.Expense, bucket Bucket, now time.Time) []Point {
	if bucket == "" {
		bucket = BucketOverall
	}
	records = a.RecordsIn(records, bucket, now)
	expenses = a.ExpensesIn(expenses, bucket, now)

	points := a.slots(records, expenses, bucket, now)
	if len(points) == 0 {
		return points
	}
	first := points[0].Slot

	for _, r := range records {
		if r.Status == billing.StatusCancelled {
			continue
		}
		p := &points[a.calendar.SubBucket(bucket, RecordTime(r))-first]
		p.Sales = p.Sales.Add(r.TotalAmount)
		p.Paid = p.Paid.Add(r.PaidAmount)
	}
	for _, e := range expenses {
		p := &points[a.calendar.SubBucket(bucket, ExpenseTime(e))-first]
		p.Expenses = p.Expenses.Add(e.TotalAmount)
	}
	return points
}

func (a *Aggregator) slots(records []*billing.MonetaryRecord, expenses []*billing.Expense, bucket Bucket, now time.Time) []Point {
	var from, to int
	label := strconv.Itoa

	switch bucket {
	case BucketToday:
		from, to = 0, 23
		label = func(h int) string { return fmt.Sprintf("%02d:00", h) }
	case BucketWeek:
		from, to = 0, 6
		label = func(i int) string { return a.calendar.WeekdayAt(i).String()[:3] }
	case BucketMonth:
		from, to = 1, a.calendar.DaysInMonth(now)
	case BucketYear:
		from, to = 1, 12
		label = func(m int) string { return time.Month(m).String()[:3] }
	default:
		to = a.calendar.SubBucket(BucketOverall, now)
		from = to
		widen := func(ts time.Time) {
			year := a.calendar.SubBucket(BucketOverall, ts)
			from, to = min(from, year), max(to, year)
		}
		for _, r := range records {
			widen(RecordTime(r))
		}
		for _, e := range expenses {
			widen(ExpenseTime(e))
		}
	}

	points := make([]Point, 0, to-from+1)
	for slot := from; slot <= to; slot++ {
		points = append(points, Point{
			Slot:     slot,
			Label:    label(slot),
			Sales:    valueobject.Zero(),
			Paid:     valueobject.Zero(),
			Expenses: valueobject.Zero(),
		})
	}
	return points
}
