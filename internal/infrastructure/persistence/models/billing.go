package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MonetaryRecordModel is the persistence model for job orders and invoices.
// Derived amounts are stored so reports can be read without recomputing.
type MonetaryRecordModel struct {
	AggregateModel
	OwnerID        uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_record_owner_kind_number,priority:1"`
	Kind           billing.RecordKind    `gorm:"type:varchar(20);not null;uniqueIndex:idx_record_owner_kind_number,priority:2"`
	Number         string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_record_owner_kind_number,priority:3"`
	ClientName     string                `gorm:"type:varchar(200);not null"`
	Items          billing.LineItems     `gorm:"type:text;not null"`
	DiscountValue  *decimal.Decimal      `gorm:"type:decimal(18,4)"`
	DiscountType   *string               `gorm:"type:varchar(10)"`
	TaxValue       *decimal.Decimal      `gorm:"type:decimal(18,4)"`
	TaxType        *string               `gorm:"type:varchar(10)"`
	PaymentStatus  billing.PaymentStatus `gorm:"type:varchar(20)"`
	PaidAmount     valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	DiscountAmount valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	TaxAmount      valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	TotalAmount    valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	Status         billing.DerivedStatus `gorm:"type:varchar(20);not null;index"`
	StartDate      *time.Time            `gorm:"index"`
	DueDate        *time.Time
	ChequeNumber   string `gorm:"type:varchar(50)"`
	ChequeDate     *time.Time
	Remark         string `gorm:"type:text"`
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (MonetaryRecordModel) TableName() string {
	return "monetary_records"
}

// ToDomain converts the persistence model to a domain MonetaryRecord
func (m *MonetaryRecordModel) ToDomain() *billing.MonetaryRecord {
	items := m.Items
	if items == nil {
		items = billing.LineItems{}
	}
	return &billing.MonetaryRecord{
		OwnedAggregateRoot: m.toOwnedAggregateRoot(m.OwnerID),
		Kind:               m.Kind,
		Number:             m.Number,
		ClientName:         m.ClientName,
		Items:              items,
		Discount:           toAdjustment(m.DiscountValue, m.DiscountType),
		Tax:                toAdjustment(m.TaxValue, m.TaxType),
		PaymentStatus:      m.PaymentStatus,
		PaidAmount:         m.PaidAmount,
		DiscountAmount:     m.DiscountAmount,
		TaxAmount:          m.TaxAmount,
		TotalAmount:        m.TotalAmount,
		Status:             m.Status,
		StartDate:          m.StartDate,
		DueDate:            m.DueDate,
		ChequeNumber:       m.ChequeNumber,
		ChequeDate:         m.ChequeDate,
		Remark:             m.Remark,
		CancelledAt:        m.CancelledAt,
		CancelReason:       m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain MonetaryRecord
func (m *MonetaryRecordModel) FromDomain(r *billing.MonetaryRecord) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.OwnerID = r.OwnerID
	m.Kind = r.Kind
	m.Number = r.Number
	m.ClientName = r.ClientName
	m.Items = r.Items
	m.DiscountValue, m.DiscountType = fromAdjustment(r.Discount)
	m.TaxValue, m.TaxType = fromAdjustment(r.Tax)
	m.PaymentStatus = r.PaymentStatus
	m.PaidAmount = r.PaidAmount
	m.DiscountAmount = r.DiscountAmount
	m.TaxAmount = r.TaxAmount
	m.TotalAmount = r.TotalAmount
	m.Status = r.Status
	m.StartDate = r.StartDate
	m.DueDate = r.DueDate
	m.ChequeNumber = r.ChequeNumber
	m.ChequeDate = r.ChequeDate
	m.Remark = r.Remark
	m.CancelledAt = r.CancelledAt
	m.CancelReason = r.CancelReason
}

// MonetaryRecordModelFromDomain creates a new persistence model from domain
func MonetaryRecordModelFromDomain(r *billing.MonetaryRecord) *MonetaryRecordModel {
	m := &MonetaryRecordModel{}
	m.FromDomain(r)
	return m
}

func toAdjustment(value *decimal.Decimal, typ *string) *billing.Adjustment {
	if value == nil || typ == nil {
		return nil
	}
	return &billing.Adjustment{Value: *value, Type: billing.AdjustmentType(*typ)}
}

func fromAdjustment(a *billing.Adjustment) (*decimal.Decimal, *string) {
	if a == nil {
		return nil, nil
	}
	value := a.Value
	typ := string(a.Type)
	return &value, &typ
}

// ExpenseModel is the persistence model for the Expense aggregate root
type ExpenseModel struct {
	AggregateModel
	OwnerID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	Date        time.Time               `gorm:"not null;index"`
	Description string                  `gorm:"type:varchar(500)"`
	Category    billing.ExpenseCategory `gorm:"type:varchar(30);not null;index"`
	Items       billing.ExpenseItems    `gorm:"type:text;not null"`
	TotalAmount valueobject.Money       `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense
func (m *ExpenseModel) ToDomain() *billing.Expense {
	items := m.Items
	if items == nil {
		items = billing.ExpenseItems{}
	}
	return &billing.Expense{
		OwnedAggregateRoot: m.toOwnedAggregateRoot(m.OwnerID),
		Date:               m.Date,
		Description:        m.Description,
		Category:           m.Category,
		Items:              items,
		TotalAmount:        m.TotalAmount,
	}
}

// FromDomain populates the persistence model from a domain Expense
func (m *ExpenseModel) FromDomain(e *billing.Expense) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.OwnerID = e.OwnerID
	m.Date = e.Date
	m.Description = e.Description
	m.Category = e.Category
	m.Items = e.Items
	m.TotalAmount = e.TotalAmount
}

// ExpenseModelFromDomain creates a new persistence model from domain
func ExpenseModelFromDomain(e *billing.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}

// All returns every model for migration
func All() []any {
	return []any{&MonetaryRecordModel{}, &ExpenseModel{}}
}
