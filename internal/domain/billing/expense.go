package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
)

// ExpenseCategory represents the category of an expense
type ExpenseCategory string

const (
	ExpenseCategoryGeneral      ExpenseCategory = "GENERAL"
	ExpenseCategoryCashAdvance  ExpenseCategory = "CASH_ADVANCE"
	ExpenseCategorySalary       ExpenseCategory = "SALARY"
	ExpenseCategoryFixedExpense ExpenseCategory = "FIXED_EXPENSE"
)

// ExpenseCategories lists every category in display order
var ExpenseCategories = []ExpenseCategory{
	ExpenseCategoryGeneral,
	ExpenseCategoryCashAdvance,
	ExpenseCategorySalary,
	ExpenseCategoryFixedExpense,
}

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryGeneral, ExpenseCategoryCashAdvance, ExpenseCategorySalary, ExpenseCategoryFixedExpense:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the category
func (c ExpenseCategory) DisplayName() string {
	switch c {
	case ExpenseCategoryGeneral:
		return "General"
	case ExpenseCategoryCashAdvance:
		return "Cash Advance"
	case ExpenseCategorySalary:
		return "Salary"
	case ExpenseCategoryFixedExpense:
		return "Fixed Expense"
	default:
		return string(c)
	}
}

// ExpenseItem is one line of an expense
type ExpenseItem struct {
	Description string            `json:"description"`
	Amount      valueobject.Money `json:"amount"`
}

// ExpenseItems is a slice of ExpenseItem stored as a JSON column
type ExpenseItems []ExpenseItem

// Value implements driver.Valuer
func (e ExpenseItems) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (e *ExpenseItems) Scan(value any) error {
	if value == nil {
		*e = ExpenseItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ExpenseItems: unsupported type")
	}

	if len(bytes) == 0 {
		*e = ExpenseItems{}
		return nil
	}
	return json.Unmarshal(bytes, e)
}

// Total sums the item amounts
func (e ExpenseItems) Total() valueobject.Money {
	total := valueobject.Zero()
	for _, item := range e {
		total = total.Add(item.Amount)
	}
	return total
}

// ExpenseInput carries the editable fields of an expense
type ExpenseInput struct {
	Date        time.Time
	Description string
	Category    ExpenseCategory
	Items       []ExpenseItem
}

// Expense is an outgoing payment grouped under one category
type Expense struct {
	shared.OwnedAggregateRoot
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Category    ExpenseCategory   `json:"category"`
	Items       ExpenseItems      `json:"items"`
	TotalAmount valueobject.Money `json:"total_amount"`
}

// NewExpense creates a new expense
func NewExpense(ownerID uuid.UUID, in ExpenseInput) (*Expense, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}

	e := &Expense{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID)}
	if err := e.apply(in); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the editable fields and recomputes the total
func (e *Expense) Update(in ExpenseInput) error {
	if err := e.apply(in); err != nil {
		return err
	}
	e.Touch()
	return nil
}

func (e *Expense) apply(in ExpenseInput) error {
	if !in.Category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Expense category %q is not valid", in.Category))
	}
	if in.Date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}
	if len(in.Description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	items := make(ExpenseItems, len(in.Items))
	for i, item := range in.Items {
		if item.Amount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("Item %d amount cannot be negative", i))
		}
		item.Amount = item.Amount.Round()
		items[i] = item
	}

	e.Date = in.Date
	e.Description = in.Description
	e.Category = in.Category
	e.Items = items
	e.TotalAmount = e.Items.Total()
	return nil
}
