package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one line of a record form
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"dgt0"`
	UnitAmount  decimal.Decimal `json:"unit_amount" binding:"dgte0"`
	Status      string          `json:"status" binding:"omitempty,oneof=UNPAID DOWNPAYMENT CHEQUE PAID"`
}

// AdjustmentRequest is a discount or tax as entered on the form
type AdjustmentRequest struct {
	Value decimal.Decimal `json:"value" binding:"dgte0"`
	Type  string          `json:"type" binding:"required,oneof=AMOUNT PERCENT"`
}

// RecordRequest creates or fully edits a job order or invoice
type RecordRequest struct {
	ClientName    string             `json:"client_name" binding:"required,max=200"`
	Items         []LineItemRequest  `json:"items" binding:"dive"`
	Discount      *AdjustmentRequest `json:"discount"`
	Tax           *AdjustmentRequest `json:"tax"`
	PaidAmount    decimal.Decimal    `json:"paid_amount" binding:"dgte0"`
	PaymentStatus string             `json:"payment_status" binding:"omitempty,oneof=UNPAID DOWNPAYMENT CHEQUE PAID"`
	StartDate     *time.Time         `json:"start_date"`
	DueDate       *time.Time         `json:"due_date"`
	ChequeNumber  string             `json:"cheque_number" binding:"max=100"`
	ChequeDate    *time.Time         `json:"cheque_date"`
	Remark        string             `json:"remark" binding:"max=2000"`
}

// ItemStatusRequest changes one job-order item's payment status
type ItemStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=UNPAID DOWNPAYMENT CHEQUE PAID"`
}

// PaymentStatusRequest changes an invoice's payment status
type PaymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=UNPAID DOWNPAYMENT CHEQUE PAID"`
}

// PaymentRequest records a payment against a record
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"dgt0"`
}

// CancelRequest cancels a record
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// RecordDetailsRequest edits a record's header fields. Items and payments are
// left as they are.
type RecordDetailsRequest struct {
	ClientName   string             `json:"client_name" binding:"required,max=200"`
	Discount     *AdjustmentRequest `json:"discount"`
	Tax          *AdjustmentRequest `json:"tax"`
	StartDate    *time.Time         `json:"start_date"`
	DueDate      *time.Time         `json:"due_date"`
	ChequeNumber string             `json:"cheque_number" binding:"max=100"`
	ChequeDate   *time.Time         `json:"cheque_date"`
	Remark       string             `json:"remark" binding:"max=2000"`
}

// ItemsRequest replaces a record's line items
type ItemsRequest struct {
	Items []LineItemRequest `json:"items" binding:"dive"`
}

// PaidAmountRequest corrects a record's cumulative paid amount
type PaidAmountRequest struct {
	PaidAmount decimal.Decimal `json:"paid_amount" binding:"dgte0"`
}

func toLineItems(reqs []LineItemRequest) ([]billing.LineItem, error) {
	items := make([]billing.LineItem, len(reqs))
	for i, it := range reqs {
		if !it.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Item %d quantity must be greater than zero", i))
		}
		if it.UnitAmount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("Item %d unit amount cannot be negative", i))
		}
		items[i] = billing.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitAmount:  valueobject.NewMoney(it.UnitAmount),
			Status:      billing.PaymentStatus(it.Status),
		}
	}
	return items, nil
}

func (r RecordDetailsRequest) toDetails() (billing.RecordDetails, error) {
	discount, err := r.Discount.toAdjustment("discount")
	if err != nil {
		return billing.RecordDetails{}, err
	}
	tax, err := r.Tax.toAdjustment("tax")
	if err != nil {
		return billing.RecordDetails{}, err
	}
	return billing.RecordDetails{
		ClientName:   r.ClientName,
		Discount:     discount,
		Tax:          tax,
		StartDate:    r.StartDate,
		DueDate:      r.DueDate,
		ChequeNumber: r.ChequeNumber,
		ChequeDate:   r.ChequeDate,
		Remark:       r.Remark,
	}, nil
}

// toInput checks the numeric rules the form enforces and converts the request
// into a domain RecordInput.
func (r RecordRequest) toInput() (billing.RecordInput, error) {
	items, err := toLineItems(r.Items)
	if err != nil {
		return billing.RecordInput{}, err
	}
	if r.PaidAmount.IsNegative() {
		return billing.RecordInput{}, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	discount, err := r.Discount.toAdjustment("discount")
	if err != nil {
		return billing.RecordInput{}, err
	}
	tax, err := r.Tax.toAdjustment("tax")
	if err != nil {
		return billing.RecordInput{}, err
	}

	return billing.RecordInput{
		ClientName:    r.ClientName,
		Items:         items,
		Discount:      discount,
		Tax:           tax,
		PaidAmount:    valueobject.NewMoney(r.PaidAmount),
		PaymentStatus: billing.PaymentStatus(r.PaymentStatus),
		StartDate:     r.StartDate,
		DueDate:       r.DueDate,
		ChequeNumber:  r.ChequeNumber,
		ChequeDate:    r.ChequeDate,
		Remark:        r.Remark,
	}, nil
}

func (a *AdjustmentRequest) toAdjustment(name string) (*billing.Adjustment, error) {
	if a == nil {
		return nil, nil
	}
	t := billing.AdjustmentType(a.Type)
	if !t.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", fmt.Sprintf("%s type must be AMOUNT or PERCENT", name))
	}
	if a.Value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("%s cannot be negative", name))
	}
	return &billing.Adjustment{Value: a.Value, Type: t}, nil
}

// LineItemResponse is a line item with its computed amount
type LineItemResponse struct {
	Description string            `json:"description"`
	Quantity    decimal.Decimal   `json:"quantity"`
	UnitAmount  valueobject.Money `json:"unit_amount"`
	Amount      valueobject.Money `json:"amount"`
	Status      string            `json:"status"`
}

// DisplayAmounts are the record amounts rendered for display
type DisplayAmounts struct {
	Subtotal    string `json:"subtotal"`
	Discount    string `json:"discount"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
	Paid        string `json:"paid"`
	Outstanding string `json:"outstanding"`
}

// RecordResponse represents a job order or invoice in API responses
type RecordResponse struct {
	ID             uuid.UUID           `json:"id"`
	OwnerID        uuid.UUID           `json:"owner_id"`
	Kind           string              `json:"kind"`
	Number         string              `json:"number"`
	ClientName     string              `json:"client_name"`
	Items          []LineItemResponse  `json:"items"`
	Discount       *billing.Adjustment `json:"discount,omitempty"`
	Tax            *billing.Adjustment `json:"tax,omitempty"`
	PaymentStatus  string              `json:"payment_status,omitempty"`
	Subtotal       valueobject.Money   `json:"subtotal"`
	DiscountAmount valueobject.Money   `json:"discount_amount"`
	TaxAmount      valueobject.Money   `json:"tax_amount"`
	TotalAmount    valueobject.Money   `json:"total_amount"`
	PaidAmount     valueobject.Money   `json:"paid_amount"`
	Balance        billing.Balance     `json:"balance"`
	Status         string              `json:"status"`
	Display        DisplayAmounts      `json:"display"`
	Warnings       []billing.Warning   `json:"warnings,omitempty"`
	StartDate      *time.Time          `json:"start_date,omitempty"`
	DueDate        *time.Time          `json:"due_date,omitempty"`
	ChequeNumber   string              `json:"cheque_number,omitempty"`
	ChequeDate     *time.Time          `json:"cheque_date,omitempty"`
	Remark         string              `json:"remark,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Version        int                 `json:"version"`
}

// ToRecordResponse converts a record to its response shape
func ToRecordResponse(r *billing.MonetaryRecord, f *valueobject.CurrencyFormatter) RecordResponse {
	items := make([]LineItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = LineItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitAmount:  it.UnitAmount,
			Amount:      it.Amount(),
			Status:      it.EffectiveStatus().String(),
		}
	}
	subtotal := billing.Subtotal(r.Items)
	balance := r.Balance()

	resp := RecordResponse{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		Kind:           r.Kind.String(),
		Number:         r.Number,
		ClientName:     r.ClientName,
		Items:          items,
		Discount:       r.Discount,
		Tax:            r.Tax,
		Subtotal:       subtotal,
		DiscountAmount: r.DiscountAmount,
		TaxAmount:      r.TaxAmount,
		TotalAmount:    r.TotalAmount,
		PaidAmount:     r.PaidAmount,
		Balance:        balance,
		Status:         r.Status.String(),
		Warnings:       r.Warnings(),
		StartDate:      r.StartDate,
		DueDate:        r.DueDate,
		ChequeNumber:   r.ChequeNumber,
		ChequeDate:     r.ChequeDate,
		Remark:         r.Remark,
		CancelledAt:    r.CancelledAt,
		CancelReason:   r.CancelReason,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Version:        r.Version,
	}
	if r.Kind == billing.KindInvoice {
		resp.PaymentStatus = r.PaymentStatus.String()
	}
	if f != nil {
		resp.Display = DisplayAmounts{
			Subtotal:    f.Format(subtotal),
			Discount:    f.Format(r.DiscountAmount),
			Tax:         f.Format(r.TaxAmount),
			Total:       f.Format(r.TotalAmount),
			Paid:        f.Format(r.PaidAmount),
			Outstanding: f.Format(balance.Outstanding),
		}
	}
	return resp
}

// ExpenseItemRequest is one line of an expense
type ExpenseItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"dgte0"`
}

// ExpenseRequest creates or edits an expense
type ExpenseRequest struct {
	Date        time.Time            `json:"date" binding:"required"`
	Description string               `json:"description" binding:"max=500"`
	Category    string               `json:"category" binding:"required,oneof=GENERAL CASH_ADVANCE SALARY FIXED_EXPENSE"`
	Items       []ExpenseItemRequest `json:"items" binding:"dive"`
}

func (r ExpenseRequest) toInput() billing.ExpenseInput {
	items := make([]billing.ExpenseItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = billing.ExpenseItem{Description: it.Description, Amount: valueobject.NewMoney(it.Amount)}
	}
	return billing.ExpenseInput{
		Date:        r.Date,
		Description: r.Description,
		Category:    billing.ExpenseCategory(r.Category),
		Items:       items,
	}
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID           uuid.UUID             `json:"id"`
	OwnerID      uuid.UUID             `json:"owner_id"`
	Date         time.Time             `json:"date"`
	Description  string                `json:"description"`
	Category     string                `json:"category"`
	CategoryName string                `json:"category_name"`
	Items        []billing.ExpenseItem `json:"items"`
	TotalAmount  valueobject.Money     `json:"total_amount"`
	DisplayTotal string                `json:"display_total,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Version      int                   `json:"version"`
}

// ToExpenseResponse converts an expense to its response shape
func ToExpenseResponse(e *billing.Expense, f *valueobject.CurrencyFormatter) ExpenseResponse {
	resp := ExpenseResponse{
		ID:           e.ID,
		OwnerID:      e.OwnerID,
		Date:         e.Date,
		Description:  e.Description,
		Category:     e.Category.String(),
		CategoryName: e.Category.DisplayName(),
		Items:        e.Items,
		TotalAmount:  e.TotalAmount,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		Version:      e.Version,
	}
	if f != nil {
		resp.DisplayTotal = f.Format(e.TotalAmount)
	}
	return resp
}
