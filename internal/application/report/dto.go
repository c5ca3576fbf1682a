package report

import (
	billingapp "github.com/jobbook/backend/internal/application/billing"
	"github.com/jobbook/backend/internal/domain/report"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
)

// RecordsQuery selects the records table
type RecordsQuery struct {
	Bucket    string `form:"bucket" binding:"omitempty,oneof=TODAY WEEK MONTH YEAR OVERALL today week month year overall"`
	Search    string `form:"search" binding:"max=200"`
	Sort      string `form:"sort"`
	Direction string `form:"dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// SummaryDisplay holds the summary amounts rendered for display
type SummaryDisplay struct {
	TotalSales    string `json:"total_sales"`
	TotalPaid     string `json:"total_paid"`
	TotalDiscount string `json:"total_discount"`
	TotalUnpaid   string `json:"total_unpaid"`
	TotalExpenses string `json:"total_expenses"`
	CashOnHand    string `json:"cash_on_hand"`
	NetProfit     string `json:"net_profit"`
}

// SummaryResponse is a summary plus its display strings
type SummaryResponse struct {
	report.Summary
	Display *SummaryDisplay `json:"display,omitempty"`
}

func toSummaryResponse(s report.Summary, f *valueobject.CurrencyFormatter) SummaryResponse {
	resp := SummaryResponse{Summary: s}
	if f != nil {
		resp.Display = &SummaryDisplay{
			TotalSales:    f.Format(s.TotalSales),
			TotalPaid:     f.Format(s.TotalPaid),
			TotalDiscount: f.Format(s.TotalDiscount),
			TotalUnpaid:   f.Format(s.TotalUnpaid),
			TotalExpenses: f.Format(s.TotalExpenses),
			CashOnHand:    f.Format(s.CashOnHand),
			NetProfit:     f.Format(s.NetProfit),
		}
	}
	return resp
}

// RecordsReport is the filtered, sorted records table for one bucket
type RecordsReport struct {
	Bucket   string                       `json:"bucket"`
	Search   string                       `json:"search,omitempty"`
	Sort     report.Sort                  `json:"sort"`
	Rows     []billingapp.RecordResponse  `json:"rows"`
	Expenses []billingapp.ExpenseResponse `json:"expenses"`
	Summary  SummaryResponse              `json:"summary"`
}

// DashboardReport holds one summary per bucket
type DashboardReport struct {
	Today   SummaryResponse `json:"today"`
	Week    SummaryResponse `json:"week"`
	Month   SummaryResponse `json:"month"`
	Year    SummaryResponse `json:"year"`
	Overall SummaryResponse `json:"overall"`
}

// SeriesReport holds chart points for one bucket
type SeriesReport struct {
	Bucket string         `json:"bucket"`
	Points []report.Point `json:"points"`
}

// CategoryTotalResponse is one category of the expense breakdown
type CategoryTotalResponse struct {
	Category     string            `json:"category"`
	CategoryName string            `json:"category_name"`
	Count        int               `json:"count"`
	Total        valueobject.Money `json:"total"`
	DisplayTotal string            `json:"display_total,omitempty"`
}

// ExpenseBreakdownReport totals a bucket's expenses per category
type ExpenseBreakdownReport struct {
	Bucket     string                  `json:"bucket"`
	Categories []CategoryTotalResponse `json:"categories"`
	Total      valueobject.Money       `json:"total"`
}

func toCategoryTotals(totals []report.CategoryTotal, f *valueobject.CurrencyFormatter) ([]CategoryTotalResponse, valueobject.Money) {
	out := make([]CategoryTotalResponse, len(totals))
	sum := valueobject.Zero()
	for i, c := range totals {
		out[i] = CategoryTotalResponse{
			Category:     c.Category.String(),
			CategoryName: c.Label,
			Count:        c.Count,
			Total:        c.Total,
		}
		if f != nil {
			out[i].DisplayTotal = f.Format(c.Total)
		}
		sum = sum.Add(c.Total)
	}
	return out, sum
}
