package billing

import (
	"context"
	"fmt"

	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AuditHandler writes the payment audit trail to the log. Backwards payment
// status changes are accepted by the domain and flagged here at WARN.
type AuditHandler struct {
	logger  *zap.Logger
	metrics *telemetry.BillingMetrics
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(logger *zap.Logger, metrics *telemetry.BillingMetrics) *AuditHandler {
	return &AuditHandler{logger: logger, metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *AuditHandler) EventTypes() []string {
	return []string{
		billing.EventTypePaymentStatusChanged,
		billing.EventTypePaymentRecorded,
		billing.EventTypeRecordCancelled,
	}
}

// Handle records one audit entry
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.PaymentStatusChangedEvent:
		fields := []zap.Field{
			zap.String("owner_id", e.OwnerID().String()),
			zap.String("number", e.Number),
			zap.Int("item", e.Item),
			zap.String("from", e.From.String()),
			zap.String("to", e.To.String()),
			zap.String("status", e.NewStatus.String()),
		}
		if e.Regression {
			h.logger.Warn("payment status moved backwards", fields...)
			h.metrics.WarningRaised(ctx, e.OwnerID(), string(billing.WarningStatusRegression))
			return nil
		}
		h.logger.Info("payment status changed", fields...)
	case *billing.PaymentRecordedEvent:
		h.logger.Info("payment recorded",
			zap.String("owner_id", e.OwnerID().String()),
			zap.String("number", e.Number),
			zap.String("amount", e.Amount.String()),
			zap.String("paid", e.PaidAmount.String()),
			zap.String("outstanding", e.Outstanding.String()),
		)
	case *billing.RecordCancelledEvent:
		h.logger.Info("record cancelled",
			zap.String("owner_id", e.OwnerID().String()),
			zap.String("number", e.Number),
			zap.String("reason", e.Reason),
		)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

var _ shared.EventHandler = (*AuditHandler)(nil)
