package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/jobbook/backend/internal/application/billing"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/interfaces/http/dto"
)

// RecordHandler serves one record kind. Job orders and invoices share the
// same endpoints apart from the status route each of them adds.
type RecordHandler struct {
	BaseHandler
	recordService *billingapp.RecordService
	kind          billing.RecordKind
}

// NewRecordHandler creates a RecordHandler for kind
func NewRecordHandler(recordService *billingapp.RecordService, kind billing.RecordKind) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		kind:          kind,
	}
}

// NewJobOrderHandler creates the handler behind /job-orders
func NewJobOrderHandler(recordService *billingapp.RecordService) *RecordHandler {
	return NewRecordHandler(recordService, billing.KindJobOrder)
}

// NewInvoiceHandler creates the handler behind /invoices
func NewInvoiceHandler(recordService *billingapp.RecordService) *RecordHandler {
	return NewRecordHandler(recordService, billing.KindInvoice)
}

// Kind returns the record kind the handler serves
func (h *RecordHandler) Kind() billing.RecordKind {
	return h.kind
}

// List returns all records of the handler's kind, oldest first
func (h *RecordHandler) List(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	records, err := h.recordService.List(c.Request.Context(), ownerID, h.kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewListResponse(records))
}

// Get returns one record
func (h *RecordHandler) Get(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	record, err := h.recordService.Get(c.Request.Context(), ownerID, h.kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Create stores a new record under the next free number
func (h *RecordHandler) Create(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req billingapp.RecordRequest
	if !h.bind(c, &req) {
		return
	}

	record, err := h.recordService.Create(c.Request.Context(), ownerID, h.kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// Update replaces a record's editable fields
func (h *RecordHandler) Update(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billingapp.RecordRequest
	if !h.bind(c, &req) {
		return
	}

	record, err := h.recordService.Update(c.Request.Context(), ownerID, h.kind, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// UpdateDetails edits a record's header fields, keeping items and payments
func (h *RecordHandler) UpdateDetails(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billingapp.RecordDetailsRequest
	if !h.bind(c, &req) {
		return
	}

	record, err := h.recordService.UpdateDetails(c.Request.Context(), ownerID, h.kind, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// ReplaceItems swaps a record's line items
func (h *RecordHandler) ReplaceItems(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billingapp.ItemsRequest
	if !h.bind(c, &req) {
		return
	}

	record, err := h.recordService.ReplaceItems(c.Request.Context(), ownerID, h.kind, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// SetPaidAmount corrects a record's cumulative paid amount
func (h *RecordHandler) SetPaidAmount(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billingapp.PaidAmountRequest
	if !h.bind(c, &req) {
		return
	}

	record, err := h.recordService.SetPaidAmount(c.Request.Context(), ownerID, h.kind, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete removes a record
func (h *RecordHandler) Delete(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.recordService.Delete(c.Request.Context(), ownerID, h.kind, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordPayment adds a payment to a record
func (h *RecordHandler) RecordPayment(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billingapp.PaymentRequest
	if !h.bind(c, &req) {
		return
	}

	record, err := h.recordService.RecordPayment(c.Request.Context(), ownerID, h.kind, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Cancel cancels a record. The body, carrying an optional reason, may be empty.
func (h *RecordHandler) Cancel(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billingapp.CancelRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}

	record, err := h.recordService.Cancel(c.Request.Context(), ownerID, h.kind, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// SetItemStatus changes the payment status of the job-order item at :index
func (h *RecordHandler) SetItemStatus(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	index, ok := h.pathIndex(c, "index")
	if !ok {
		return
	}
	var req billingapp.ItemStatusRequest
	if !h.bind(c, &req) {
		return
	}

	record, err := h.recordService.SetItemStatus(c.Request.Context(), ownerID, id, index, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// SetPaymentStatus changes an invoice's payment status
func (h *RecordHandler) SetPaymentStatus(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billingapp.PaymentStatusRequest
	if !h.bind(c, &req) {
		return
	}

	record, err := h.recordService.SetPaymentStatus(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}
