package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jobbook/backend/internal/domain/shared"
)

const (
	// DefaultJobOrderPrefix is the number prefix for job orders
	DefaultJobOrderPrefix = "JO"
	// DefaultInvoicePrefix is the number prefix for invoices
	DefaultInvoicePrefix = "INV"

	maxSequence = 9999
)

// ErrSequenceExhausted is returned when all 9999 numbers for a day are taken
var ErrSequenceExhausted = shared.NewDomainError("SEQUENCE_EXHAUSTED", "No sequence numbers left for this date")

// SequenceNumberAssigner hands out record numbers
type SequenceNumberAssigner interface {
	// Next returns a code of the form PREFIX-YYYYMMDD-NNNN not present in existing
	Next(prefix string, existing []string, date time.Time) (string, error)
}

// DailySequenceAssigner numbers records per prefix and calendar day, taking the
// first unused number starting at 0001. Gaps left by deleted records are reused.
type DailySequenceAssigner struct {
	location *time.Location
}

// NewDailySequenceAssigner creates an assigner that reads dates in loc.
// A nil loc means time.Local.
func NewDailySequenceAssigner(loc *time.Location) *DailySequenceAssigner {
	if loc == nil {
		loc = time.Local
	}
	return &DailySequenceAssigner{location: loc}
}

// Next implements SequenceNumberAssigner
func (a *DailySequenceAssigner) Next(prefix string, existing []string, date time.Time) (string, error) {
	if prefix == "" {
		return "", shared.NewDomainError("INVALID_PREFIX", "Sequence prefix cannot be empty")
	}

	stem := fmt.Sprintf("%s-%s-", prefix, date.In(a.location).Format("20060102"))
	used := make(map[int]struct{}, len(existing))
	for _, code := range existing {
		suffix, ok := strings.CutPrefix(code, stem)
		if !ok || len(suffix) != 4 {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		used[n] = struct{}{}
	}

	for n := 1; n <= maxSequence; n++ {
		if _, taken := used[n]; !taken {
			return fmt.Sprintf("%s%04d", stem, n), nil
		}
	}
	return "", ErrSequenceExhausted
}

// PrefixFor returns the default number prefix for a record kind
func PrefixFor(kind RecordKind) string {
	if kind == KindInvoice {
		return DefaultInvoicePrefix
	}
	return DefaultJobOrderPrefix
}
