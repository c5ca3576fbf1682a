package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const billingMeterName = "jobbook-backend/billing"

// BillingMetrics holds the business counters of the billing service. A nil
// *BillingMetrics is valid and records nothing.
type BillingMetrics struct {
	recordsCreated   *Counter
	recordsCancelled *Counter
	paymentsRecorded *Counter
	paymentAmount    *Histogram
	warningsRaised   *Counter
	expensesRecorded *Counter
	reportDuration   *Histogram
}

// NewBillingMetrics registers the billing instruments on meter.
func NewBillingMetrics(meter metric.Meter) (*BillingMetrics, error) {
	var err error
	bm := &BillingMetrics{}

	if bm.recordsCreated, err = NewCounter(meter, "billing_records_created_total",
		"Job orders and invoices created", "{record}"); err != nil {
		return nil, err
	}
	if bm.recordsCancelled, err = NewCounter(meter, "billing_records_cancelled_total",
		"Job orders and invoices cancelled", "{record}"); err != nil {
		return nil, err
	}
	if bm.paymentsRecorded, err = NewCounter(meter, "billing_payments_recorded_total",
		"Payments applied to records", "{payment}"); err != nil {
		return nil, err
	}
	if bm.paymentAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "billing_payment_amount",
		Description: "Amount of each recorded payment",
		Unit:        "{currency}",
		Boundaries:  []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
	}); err != nil {
		return nil, err
	}
	if bm.warningsRaised, err = NewCounter(meter, "billing_warnings_total",
		"Derivation warnings such as overpayment", "{warning}"); err != nil {
		return nil, err
	}
	if bm.expensesRecorded, err = NewCounter(meter, "billing_expenses_recorded_total",
		"Expenses created", "{expense}"); err != nil {
		return nil, err
	}
	if bm.reportDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "report_aggregation_duration_seconds",
		Description: "Time spent aggregating a report",
		Unit:        "s",
		Boundaries:  []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}); err != nil {
		return nil, err
	}
	return bm, nil
}

// NewBillingMetricsFromProvider registers the billing instruments on mp's meter.
func NewBillingMetricsFromProvider(mp *MeterProvider) (*BillingMetrics, error) {
	return NewBillingMetrics(mp.Meter(billingMeterName))
}

// RecordCreated counts a new record of kind.
func (bm *BillingMetrics) RecordCreated(ctx context.Context, ownerID uuid.UUID, kind string) {
	if bm == nil {
		return
	}
	bm.recordsCreated.Inc(ctx, AttrOwnerID.String(ownerID.String()), AttrRecordKind.String(kind))
}

// RecordCancelled counts a cancelled record of kind.
func (bm *BillingMetrics) RecordCancelled(ctx context.Context, ownerID uuid.UUID, kind string) {
	if bm == nil {
		return
	}
	bm.recordsCancelled.Inc(ctx, AttrOwnerID.String(ownerID.String()), AttrRecordKind.String(kind))
}

// PaymentRecorded counts a payment and records its amount.
func (bm *BillingMetrics) PaymentRecorded(ctx context.Context, ownerID uuid.UUID, kind string, amount decimal.Decimal) {
	if bm == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrOwnerID.String(ownerID.String()), AttrRecordKind.String(kind)}
	bm.paymentsRecorded.Inc(ctx, attrs...)
	bm.paymentAmount.Record(ctx, amount.InexactFloat64(), attrs...)
}

// WarningRaised counts a derivation warning by code.
func (bm *BillingMetrics) WarningRaised(ctx context.Context, ownerID uuid.UUID, code string) {
	if bm == nil {
		return
	}
	bm.warningsRaised.Inc(ctx, AttrOwnerID.String(ownerID.String()), AttrWarningCode.String(code))
}

// ExpenseRecorded counts a new expense by category.
func (bm *BillingMetrics) ExpenseRecorded(ctx context.Context, ownerID uuid.UUID, category string) {
	if bm == nil {
		return
	}
	bm.expensesRecorded.Inc(ctx, AttrOwnerID.String(ownerID.String()), AttrCategory.String(category))
}

// ReportAggregated records how long a report for bucket took.
func (bm *BillingMetrics) ReportAggregated(ctx context.Context, operation, bucket string, d time.Duration) {
	if bm == nil {
		return
	}
	bm.reportDuration.RecordDuration(ctx, d, AttrOperation.String(operation), AttrBucket.String(bucket))
}
