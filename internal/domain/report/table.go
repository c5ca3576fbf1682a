package report

import (
	"slices"
	"strings"
	"time"

	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField names a sortable column of the records table
type SortField string

const (
	SortByNumber         SortField = "number"
	SortByClientName     SortField = "clientName"
	SortByStatus         SortField = "status"
	SortByKind           SortField = "kind"
	SortByTotalAmount    SortField = "totalAmount"
	SortByPaidAmount     SortField = "paidAmount"
	SortByDiscountAmount SortField = "discountAmount"
	SortByBalance        SortField = "balance"
	SortByStartDate      SortField = "startDate"
	SortByDueDate        SortField = "dueDate"
	SortByChequeDate     SortField = "chequeDate"
	SortByCreatedAt      SortField = "createdAt"
)

// SortDirection is ascending or descending
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort is a (field, direction) pair. The zero value keeps input order.
type Sort struct {
	Field     SortField     `json:"field,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// ParseSort builds a Sort from query parameters. Any direction other than
// "desc" is ascending.
func ParseSort(field, direction string) Sort {
	dir := SortAsc
	if strings.EqualFold(direction, string(SortDesc)) {
		dir = SortDesc
	}
	return Sort{Field: SortField(field), Direction: dir}
}

// Row is one line of the records table: a record and its balance
type Row struct {
	Record  *billing.MonetaryRecord `json:"record"`
	Balance billing.Balance         `json:"balance"`
}

// NewRow pairs a record with its balance from the shared calculator
func NewRow(r *billing.MonetaryRecord) Row {
	return Row{Record: r, Balance: r.Balance()}
}

// matcher does case-insensitive substring search on client name and number
type matcher struct {
	folder cases.Caser
	needle string
}

func newMatcher(search string) *matcher {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil
	}
	folder := cases.Fold()
	return &matcher{folder: folder, needle: folder.String(search)}
}

func (m *matcher) match(r *billing.MonetaryRecord) bool {
	if m == nil {
		return true
	}
	return strings.Contains(m.folder.String(r.ClientName), m.needle) ||
		strings.Contains(m.folder.String(r.Number), m.needle)
}

// FilterRecords keeps records whose client name or number contains search,
// ignoring case. An empty search keeps everything. Input order is preserved.
func FilterRecords(records []*billing.MonetaryRecord, search string) []*billing.MonetaryRecord {
	m := newMatcher(search)
	out := make([]*billing.MonetaryRecord, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortRows stable-sorts rows in place. Strings use locale-aware collation for
// tag, amounts compare numerically and missing dates sort as the Unix epoch.
// An unknown field leaves the rows untouched.
func SortRows(rows []Row, s Sort, tag language.Tag) {
	compare := comparator(s.Field, tag)
	if compare == nil {
		return
	}
	if s.Direction == SortDesc {
		asc := compare
		compare = func(a, b Row) int { return asc(b, a) }
	}
	slices.SortStableFunc(rows, compare)
}

func comparator(field SortField, tag language.Tag) func(a, b Row) int {
	switch field {
	case SortByNumber:
		return byString(tag, func(r Row) string { return r.Record.Number })
	case SortByClientName:
		return byString(tag, func(r Row) string { return r.Record.ClientName })
	case SortByStatus:
		return byString(tag, func(r Row) string { return r.Record.Status.String() })
	case SortByKind:
		return byString(tag, func(r Row) string { return r.Record.Kind.String() })
	case SortByTotalAmount:
		return byMoney(func(r Row) valueobject.Money { return r.Record.TotalAmount })
	case SortByPaidAmount:
		return byMoney(func(r Row) valueobject.Money { return r.Record.PaidAmount })
	case SortByDiscountAmount:
		return byMoney(func(r Row) valueobject.Money { return r.Record.DiscountAmount })
	case SortByBalance:
		return byMoney(func(r Row) valueobject.Money { return r.Balance.Outstanding })
	case SortByStartDate:
		return byTime(func(r Row) *time.Time { return r.Record.StartDate })
	case SortByDueDate:
		return byTime(func(r Row) *time.Time { return r.Record.DueDate })
	case SortByChequeDate:
		return byTime(func(r Row) *time.Time { return r.Record.ChequeDate })
	case SortByCreatedAt:
		return byTime(func(r Row) *time.Time { return &r.Record.CreatedAt })
	}
	return nil
}

func byString(tag language.Tag, key func(Row) string) func(a, b Row) int {
	c := collate.New(tag)
	return func(a, b Row) int {
		return c.CompareString(key(a), key(b))
	}
}

func byMoney(key func(Row) valueobject.Money) func(a, b Row) int {
	return func(a, b Row) int {
		return key(a).Cmp(key(b))
	}
}

var epoch = time.Unix(0, 0).UTC()

func byTime(key func(Row) *time.Time) func(a, b Row) int {
	at := func(r Row) time.Time {
		if t := key(r); t != nil && !t.IsZero() {
			return *t
		}
		return epoch
	}
	return func(a, b Row) int {
		return at(a).Compare(at(b))
	}
}

// IsSortable reports whether field is a known sort column
func IsSortable(field SortField) bool {
	return comparator(field, language.Und) != nil
}
