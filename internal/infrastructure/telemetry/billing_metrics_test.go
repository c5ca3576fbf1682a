package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestBillingMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zaptest.NewLogger(t))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	bm, err := telemetry.NewBillingMetricsFromProvider(mp)
	require.NoError(t, err)

	ctx := context.Background()
	owner := uuid.New()
	bm.RecordCreated(ctx, owner, "JOB_ORDER")
	bm.RecordCreated(ctx, owner, "INVOICE")
	bm.RecordCancelled(ctx, owner, "INVOICE")
	bm.PaymentRecorded(ctx, owner, "JOB_ORDER", decimal.RequireFromString("1500.50"))
	bm.WarningRaised(ctx, owner, "OVERPAID")
	bm.ExpenseRecorded(ctx, owner, "SALARY")
	bm.ReportAggregated(ctx, "records", "MONTH", 20*time.Millisecond)

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, metrics["billing_records_created_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["billing_records_cancelled_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["billing_payments_recorded_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["billing_warnings_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["billing_expenses_recorded_total"]))

	hist, ok := metrics["billing_payment_amount"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.InDelta(t, 1500.50, hist.DataPoints[0].Sum, 0.001)

	_, ok = metrics["report_aggregation_duration_seconds"]
	assert.True(t, ok)
}

func TestBillingMetrics_NilIsNoop(t *testing.T) {
	var bm *telemetry.BillingMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		bm.RecordCreated(ctx, uuid.New(), "JOB_ORDER")
		bm.PaymentRecorded(ctx, uuid.New(), "JOB_ORDER", decimal.NewFromInt(1))
		bm.WarningRaised(ctx, uuid.New(), "OVERPAID")
		bm.ReportAggregated(ctx, "records", "TODAY", time.Second)
	})
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
