package report

import (
	"time"

	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
)

// Summary is the per-bucket money overview shown on the dashboard. It is
// derived on every call and never persisted.
type Summary struct {
	TotalSales    valueobject.Money `json:"total_sales"`
	TotalPaid     valueobject.Money `json:"total_paid"`
	TotalDiscount valueobject.Money `json:"total_discount"`
	TotalUnpaid   valueobject.Money `json:"total_unpaid"`
	TotalExpenses valueobject.Money `json:"total_expenses"`
	// CashOnHand and NetProfit are both TotalPaid - TotalExpenses for now.
	CashOnHand   valueobject.Money `json:"cash_on_hand"`
	NetProfit    valueobject.Money `json:"net_profit"`
	RecordCount  int               `json:"record_count"`
	ExpenseCount int               `json:"expense_count"`
	// OverpaidCount is the number of records whose payments exceed their total
	OverpaidCount int `json:"overpaid_count"`
}

// Summarize folds records and expenses into a Summary. Cancelled records are
// skipped. TotalUnpaid sums each record's outstanding balance, so it equals
// TotalSales - TotalPaid; the discount is already inside each total.
func Summarize(records []*billing.MonetaryRecord, expenses []*billing.Expense) Summary {
	s := Summary{
		TotalSales:    valueobject.Zero(),
		TotalPaid:     valueobject.Zero(),
		TotalDiscount: valueobject.Zero(),
		TotalUnpaid:   valueobject.Zero(),
		TotalExpenses: valueobject.Zero(),
	}

	for _, r := range records {
		if r.Status == billing.StatusCancelled {
			continue
		}
		b := r.Balance()
		s.TotalSales = s.TotalSales.Add(r.TotalAmount)
		s.TotalPaid = s.TotalPaid.Add(r.PaidAmount)
		s.TotalDiscount = s.TotalDiscount.Add(r.DiscountAmount)
		s.TotalUnpaid = s.TotalUnpaid.Add(b.Outstanding)
		if b.Overpaid {
			s.OverpaidCount++
		}
		s.RecordCount++
	}

	for _, e := range expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.TotalAmount)
		s.ExpenseCount++
	}

	s.CashOnHand = s.TotalPaid.Sub(s.TotalExpenses)
	s.NetProfit = s.TotalPaid.Sub(s.TotalExpenses)
	return s
}

// RecordTime is the timestamp a record is bucketed by: its start date, or its
// creation time when no start date was entered.
func RecordTime(r *billing.MonetaryRecord) time.Time {
	if r.StartDate != nil && !r.StartDate.IsZero() {
		return *r.StartDate
	}
	return r.CreatedAt
}

// ExpenseTime is the timestamp an expense is bucketed by
func ExpenseTime(e *billing.Expense) time.Time {
	return e.Date
}

// CategoryTotal is one slice of the expense breakdown
type CategoryTotal struct {
	Category billing.ExpenseCategory `json:"category"`
	Label    string                  `json:"label"`
	Total    valueobject.Money       `json:"total"`
	Count    int                     `json:"count"`
}

// BreakdownByCategory totals expenses per category, in the fixed category
// order. Every category is present, including empty ones.
func BreakdownByCategory(expenses []*billing.Expense) []CategoryTotal {
	index := make(map[billing.ExpenseCategory]int, len(billing.ExpenseCategories))
	out := make([]CategoryTotal, len(billing.ExpenseCategories))
	for i, c := range billing.ExpenseCategories {
		index[c] = i
		out[i] = CategoryTotal{Category: c, Label: c.DisplayName(), Total: valueobject.Zero()}
	}

	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			continue
		}
		out[i].Total = out[i].Total.Add(e.TotalAmount)
		out[i].Count++
	}
	return out
}
