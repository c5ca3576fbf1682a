package report

import (
	"time"

	"github.com/jobbook/backend/internal/domain/billing"
	"golang.org/x/text/language"
)

// Query selects what Aggregate returns
type Query struct {
	Bucket Bucket `json:"bucket"`
	Search string `json:"search,omitempty"`
	Sort   Sort   `json:"sort"`
}

// Result is the table and summary for one Query
type Result struct {
	Bucket   Bucket             `json:"bucket"`
	Rows     []Row              `json:"rows"`
	Expenses []*billing.Expense `json:"expenses"`
	Summary  Summary            `json:"summary"`
}

// Aggregator turns a snapshot of records and expenses into report views. It
// holds configuration only, so every call recomputes from its inputs and the
// same inputs always give the same output.
type Aggregator struct {
	calendar Calendar
	language language.Tag
}

// NewAggregator creates an aggregator. tag drives string collation when sorting.
func NewAggregator(calendar Calendar, tag language.Tag) *Aggregator {
	return &Aggregator{calendar: calendar, language: tag}
}

// Calendar returns the calendar used for bucketing
func (a *Aggregator) Calendar() Calendar {
	return a.calendar
}

// Aggregate filters records to the bucket and search, sorts them and
// summarises what is left together with the bucket's expenses. The input
// slices are not modified.
func (a *Aggregator) Aggregate(records []*billing.MonetaryRecord, expenses []*billing.Expense, q Query, now time.Time) Result {
	bucket := q.Bucket
	if bucket == "" {
		bucket = BucketOverall
	}

	inBucket := a.RecordsIn(records, bucket, now)
	matched := FilterRecords(inBucket, q.Search)
	bucketExpenses := a.ExpensesIn(expenses, bucket, now)

	rows := make([]Row, len(matched))
	for i, r := range matched {
		rows[i] = NewRow(r)
	}
	SortRows(rows, q.Sort, a.language)

	return Result{
		Bucket:   bucket,
		Rows:     rows,
		Expenses: bucketExpenses,
		Summary:  Summarize(matched, bucketExpenses),
	}
}

// RecordsIn returns the records whose RecordTime falls in bucket
func (a *Aggregator) RecordsIn(records []*billing.MonetaryRecord, bucket Bucket, now time.Time) []*billing.MonetaryRecord {
	out := make([]*billing.MonetaryRecord, 0, len(records))
	for _, r := range records {
		if a.calendar.Contains(bucket, RecordTime(r), now) {
			out = append(out, r)
		}
	}
	return out
}

// ExpensesIn returns the expenses dated in bucket
func (a *Aggregator) ExpensesIn(expenses []*billing.Expense, bucket Bucket, now time.Time) []*billing.Expense {
	out := make([]*billing.Expense, 0, len(expenses))
	for _, e := range expenses {
		if a.calendar.Contains(bucket, ExpenseTime(e), now) {
			out = append(out, e)
		}
	}
	return out
}

// Dashboard holds one summary per bucket
type Dashboard struct {
	Today   Summary `json:"today"`
	Week    Summary `json:"week"`
	Month   Summary `json:"month"`
	Year    Summary `json:"year"`
	Overall Summary `json:"overall"`
}

// Dashboard summarises the snapshot for every bucket at once
func (a *Aggregator) Dashboard(records []*billing.MonetaryRecord, expenses []*billing.Expense, now time.Time) Dashboard {
	summarize := func(b Bucket) Summary {
		return Summarize(a.RecordsIn(records, b, now), a.ExpensesIn(expenses, b, now))
	}
	return Dashboard{
		Today:   summarize(BucketToday),
		Week:    summarize(BucketWeek),
		Month:   summarize(BucketMonth),
		Year:    summarize(BucketYear),
		Overall: summarize(BucketOverall),
	}
}

// ExpenseBreakdown totals the bucket's expenses per category
func (a *Aggregator) ExpenseBreakdown(expenses []*billing.Expense, bucket Bucket, now time.Time) []CategoryTotal {
	return BreakdownByCategory(a.ExpensesIn(expenses, bucket, now))
}
