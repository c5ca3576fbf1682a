package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/jobbook/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxNumberAttempts bounds retries when a concurrent create takes the same number
const maxNumberAttempts = 3

// RecordServiceConfig holds the number prefixes per record kind
type RecordServiceConfig struct {
	JobOrderPrefix string
	InvoicePrefix  string
}

// RecordService implements the job order and invoice use cases
type RecordService struct {
	repo      billing.RecordRepository
	assigner  billing.SequenceNumberAssigner
	formatter *valueobject.CurrencyFormatter
	publisher shared.EventPublisher
	metrics   *telemetry.BillingMetrics
	logger    *zap.Logger
	prefixes  map[billing.RecordKind]string
	now       func() time.Time
}

// NewRecordService creates a new RecordService
func NewRecordService(
	repo billing.RecordRepository,
	assigner billing.SequenceNumberAssigner,
	formatter *valueobject.CurrencyFormatter,
	logger *zap.Logger,
	cfg RecordServiceConfig,
) *RecordService {
	prefixes := map[billing.RecordKind]string{
		billing.KindJobOrder: billing.PrefixFor(billing.KindJobOrder),
		billing.KindInvoice:  billing.PrefixFor(billing.KindInvoice),
	}
	if cfg.JobOrderPrefix != "" {
		prefixes[billing.KindJobOrder] = cfg.JobOrderPrefix
	}
	if cfg.InvoicePrefix != "" {
		prefixes[billing.KindInvoice] = cfg.InvoicePrefix
	}
	return &RecordService{
		repo:      repo,
		assigner:  assigner,
		formatter: formatter,
		logger:    logger,
		prefixes:  prefixes,
		now:       time.Now,
	}
}

// SetEventPublisher sets the publisher that receives record events
func (s *RecordService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *RecordService) SetMetrics(metrics *telemetry.BillingMetrics) {
	s.metrics = metrics
}

// Create assigns the next number for kind and stores a new record
func (s *RecordService) Create(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, req RecordRequest) (resp *RecordResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "record", "create",
		telemetry.WithAttribute(telemetry.SpanAttrOwnerID, ownerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrRecordKind, kind.String()),
		telemetry.WithAttribute(telemetry.SpanAttrItemCount, len(req.Items)),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Record kind is not valid")
	}
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}

	var record *billing.MonetaryRecord
	for attempt := 1; ; attempt++ {
		record, err = s.newRecord(ctx, ownerID, kind, in)
		if err != nil {
			return nil, err
		}
		err = s.repo.Create(ctx, record)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt == maxNumberAttempts {
			return nil, err
		}
		s.logger.Debug("record number taken, retrying",
			zap.String("number", record.Number),
			zap.Int("attempt", attempt),
		)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrRecordID, record.ID.String(), telemetry.SpanAttrNumber, record.Number)
	s.metrics.RecordCreated(ctx, ownerID, kind.String())
	s.logger.Info("record created",
		zap.String("owner_id", ownerID.String()),
		zap.String("kind", kind.String()),
		zap.String("number", record.Number),
		zap.String("total", record.TotalAmount.String()),
	)
	s.afterSave(ctx, record)
	return s.toResponse(record), nil
}

func (s *RecordService) newRecord(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, in billing.RecordInput) (*billing.MonetaryRecord, error) {
	existing, err := s.repo.ListNumbers(ctx, ownerID, kind)
	if err != nil {
		return nil, err
	}
	number, err := s.assigner.Next(s.prefixes[kind], existing, s.now())
	if err != nil {
		return nil, err
	}
	return billing.NewMonetaryRecord(kind, ownerID, number, in)
}

// Get returns one record. A record of another kind is reported as not found.
func (s *RecordService) Get(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, id uuid.UUID) (*RecordResponse, error) {
	record, err := s.find(ctx, ownerID, kind, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(record), nil
}

// List returns every record of kind owned by ownerID
func (s *RecordService) List(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind) ([]RecordResponse, error) {
	records, err := s.repo.List(ctx, ownerID, kind)
	if err != nil {
		return nil, err
	}
	out := make([]RecordResponse, len(records))
	for i, r := range records {
		out[i] = ToRecordResponse(r, s.formatter)
	}
	return out, nil
}

// Update replaces the editable fields of a record and re-derives its totals
func (s *RecordService) Update(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, id uuid.UUID, req RecordRequest) (*RecordResponse, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "update", ownerID, kind, id, func(r *billing.MonetaryRecord) error {
		return r.Update(in)
	})
}

// UpdateDetails edits the client, dates, discount, tax, cheque and remark of
// a record
func (s *RecordService) UpdateDetails(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, id uuid.UUID, req RecordDetailsRequest) (*RecordResponse, error) {
	details, err := req.toDetails()
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "update_details", ownerID, kind, id, func(r *billing.MonetaryRecord) error {
		return r.UpdateDetails(details)
	})
}

// ReplaceItems swaps a record's line items
func (s *RecordService) ReplaceItems(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, id uuid.UUID, req ItemsRequest) (*RecordResponse, error) {
	items, err := toLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "replace_items", ownerID, kind, id, func(r *billing.MonetaryRecord) error {
		return r.ReplaceItems(items)
	})
}

// SetPaidAmount corrects a record's cumulative paid amount
func (s *RecordService) SetPaidAmount(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, id uuid.UUID, req PaidAmountRequest) (*RecordResponse, error) {
	resp, err := s.mutate(ctx, "set_paid_amount", ownerID, kind, id, func(r *billing.MonetaryRecord) error {
		return r.SetPaidAmount(valueobject.NewMoney(req.PaidAmount))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("paid amount corrected",
		zap.String("owner_id", ownerID.String()),
		zap.String("number", resp.Number),
		zap.String("paid", resp.PaidAmount.String()),
	)
	return resp, nil
}

// SetItemStatus changes one job-order item's payment status
func (s *RecordService) SetItemStatus(ctx context.Context, ownerID, id uuid.UUID, index int, req ItemStatusRequest) (*RecordResponse, error) {
	return s.mutate(ctx, "set_item_status", ownerID, billing.KindJobOrder, id, func(r *billing.MonetaryRecord) error {
		return r.SetItemStatus(index, billing.PaymentStatus(req.Status))
	})
}

// SetPaymentStatus changes an invoice's payment status
func (s *RecordService) SetPaymentStatus(ctx context.Context, ownerID, id uuid.UUID, req PaymentStatusRequest) (*RecordResponse, error) {
	return s.mutate(ctx, "set_payment_status", ownerID, billing.KindInvoice, id, func(r *billing.MonetaryRecord) error {
		return r.SetPaymentStatus(billing.PaymentStatus(req.Status))
	})
}

// RecordPayment adds a payment to a record
func (s *RecordService) RecordPayment(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, id uuid.UUID, req PaymentRequest) (*RecordResponse, error) {
	amount := valueobject.NewMoney(req.Amount)
	resp, err := s.mutate(ctx, "record_payment", ownerID, kind, id, func(r *billing.MonetaryRecord) error {
		return r.RecordPayment(amount)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.PaymentRecorded(ctx, ownerID, kind.String(), amount.Amount())
	return resp, nil
}

// Cancel cancels a record
func (s *RecordService) Cancel(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, id uuid.UUID, req CancelRequest) (*RecordResponse, error) {
	resp, err := s.mutate(ctx, "cancel", ownerID, kind, id, func(r *billing.MonetaryRecord) error {
		return r.Cancel(req.Reason)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCancelled(ctx, ownerID, kind.String())
	return resp, nil
}

// Delete removes a record. Its number becomes free for reuse on the same day.
func (s *RecordService) Delete(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "record", "delete",
		telemetry.WithAttribute(telemetry.SpanAttrOwnerID, ownerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrRecordID, id.String()),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	record, err := s.find(ctx, ownerID, kind, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("record deleted",
		zap.String("owner_id", ownerID.String()),
		zap.String("number", record.Number),
	)
	return nil
}

// mutate loads a record, applies fn and persists the result
func (s *RecordService) mutate(ctx context.Context, op string, ownerID uuid.UUID, kind billing.RecordKind, id uuid.UUID, fn func(*billing.MonetaryRecord) error) (resp *RecordResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "record", op,
		telemetry.WithAttribute(telemetry.SpanAttrOwnerID, ownerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrRecordKind, kind.String()),
		telemetry.WithAttribute(telemetry.SpanAttrRecordID, id.String()),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	record, err := s.find(ctx, ownerID, kind, id)
	if err != nil {
		return nil, err
	}
	if err := fn(record); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	s.afterSave(ctx, record)
	return s.toResponse(record), nil
}

func (s *RecordService) find(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind, id uuid.UUID) (*billing.MonetaryRecord, error) {
	record, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Kind != kind {
		return nil, shared.NewDomainError("NOT_FOUND", kindLabel(kind)+" not found")
	}
	return record, nil
}

// afterSave publishes pending events and logs inconsistent-but-valid states
func (s *RecordService) afterSave(ctx context.Context, record *billing.MonetaryRecord) {
	if events := record.GetDomainEvents(); len(events) > 0 && s.publisher != nil {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish record events",
				zap.String("record_id", record.ID.String()),
				zap.Error(err),
			)
		}
	}
	record.ClearDomainEvents()

	for _, w := range record.Warnings() {
		s.logger.Warn("record in inconsistent state",
			zap.String("owner_id", record.OwnerID.String()),
			zap.String("number", record.Number),
			zap.String("code", string(w.Code)),
			zap.String("detail", w.Message),
		)
		s.metrics.WarningRaised(ctx, record.OwnerID, string(w.Code))
	}
}

func (s *RecordService) toResponse(r *billing.MonetaryRecord) *RecordResponse {
	resp := ToRecordResponse(r, s.formatter)
	return &resp
}

func kindLabel(kind billing.RecordKind) string {
	if kind == billing.KindInvoice {
		return "Invoice"
	}
	return "Job order"
}
