package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/jobbook/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ExpenseService implements the expense use cases
type ExpenseService struct {
	repo      billing.ExpenseRepository
	formatter *valueobject.CurrencyFormatter
	metrics   *telemetry.BillingMetrics
	logger    *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(repo billing.ExpenseRepository, formatter *valueobject.CurrencyFormatter, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{repo: repo, formatter: formatter, logger: logger}
}

// SetMetrics sets the business metrics recorder
func (s *ExpenseService) SetMetrics(metrics *telemetry.BillingMetrics) {
	s.metrics = metrics
}

// Create stores a new expense
func (s *ExpenseService) Create(ctx context.Context, ownerID uuid.UUID, req ExpenseRequest) (resp *ExpenseResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "create",
		telemetry.WithAttribute(telemetry.SpanAttrOwnerID, ownerID.String()),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	expense, err := billing.NewExpense(ownerID, req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}

	s.metrics.ExpenseRecorded(ctx, ownerID, expense.Category.String())
	s.logger.Info("expense created",
		zap.String("owner_id", ownerID.String()),
		zap.String("expense_id", expense.ID.String()),
		zap.String("category", expense.Category.String()),
		zap.String("total", expense.TotalAmount.String()),
	)
	out := ToExpenseResponse(expense, s.formatter)
	return &out, nil
}

// Get returns one expense
func (s *ExpenseService) Get(ctx context.Context, ownerID, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.find(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	out := ToExpenseResponse(expense, s.formatter)
	return &out, nil
}

// List returns every expense owned by ownerID
func (s *ExpenseService) List(ctx context.Context, ownerID uuid.UUID) ([]ExpenseResponse, error) {
	expenses, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = ToExpenseResponse(e, s.formatter)
	}
	return out, nil
}

// Update edits an expense and recomputes its total
func (s *ExpenseService) Update(ctx context.Context, ownerID, id uuid.UUID, req ExpenseRequest) (resp *ExpenseResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "update",
		telemetry.WithAttribute(telemetry.SpanAttrOwnerID, ownerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrExpenseID, id.String()),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	expense, err := s.find(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := expense.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	out := ToExpenseResponse(expense, s.formatter)
	return &out, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.find(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("expense deleted",
		zap.String("owner_id", ownerID.String()),
		zap.String("expense_id", id.String()),
	)
	return nil
}

func (s *ExpenseService) find(ctx context.Context, ownerID, id uuid.UUID) (*billing.Expense, error) {
	expense, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}
	return expense, nil
}
