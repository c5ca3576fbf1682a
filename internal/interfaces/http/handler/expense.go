package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/jobbook/backend/internal/application/billing"
	"github.com/jobbook/backend/internal/interfaces/http/dto"
)

// ExpenseHandler handles the /expenses endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *billingapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *billingapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// List returns the owner's expenses by date
func (h *ExpenseHandler) List(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	expenses, err := h.expenseService.List(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewListResponse(expenses))
}

// Get returns one expense
func (h *ExpenseHandler) Get(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Create stores a new expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req billingapp.ExpenseRequest
	if !h.bind(c, &req) {
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// Update replaces an expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billingapp.ExpenseRequest
	if !h.bind(c, &req) {
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Delete removes an expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), ownerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
