package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/jobbook/backend/internal/application/billing"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/report"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/jobbook/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportService loads an owner's records and expenses and hands the snapshot
// to the aggregator. Nothing is cached; every call sees the latest data.
type ReportService struct {
	records    billing.RecordRepository
	expenses   billing.ExpenseRepository
	aggregator *report.Aggregator
	formatter  *valueobject.CurrencyFormatter
	metrics    *telemetry.BillingMetrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	records billing.RecordRepository,
	expenses billing.ExpenseRepository,
	aggregator *report.Aggregator,
	formatter *valueobject.CurrencyFormatter,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		records:    records,
		expenses:   expenses,
		aggregator: aggregator,
		formatter:  formatter,
		logger:     logger,
		now:        time.Now,
	}
}

// SetMetrics sets the business metrics recorder
func (s *ReportService) SetMetrics(metrics *telemetry.BillingMetrics) {
	s.metrics = metrics
}

type snapshot struct {
	records  []*billing.MonetaryRecord
	expenses []*billing.Expense
}

// load fetches records and expenses concurrently
func (s *ReportService) load(ctx context.Context, ownerID uuid.UUID) (snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.records.ListAll(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}
		snap.records = records
		return nil
	})
	g.Go(func() error {
		expenses, err := s.expenses.List(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		snap.expenses = expenses
		return nil
	})
	return snap, g.Wait()
}

func parseBucket(raw string) (report.Bucket, error) {
	b, err := report.ParseBucket(raw)
	if err != nil {
		return "", shared.NewDomainError("INVALID_BUCKET", err.Error())
	}
	return b, nil
}

// Records returns the records table and summary for a bucket
func (s *ReportService) Records(ctx context.Context, ownerID uuid.UUID, q RecordsQuery) (resp *RecordsReport, err error) {
	bucket, err := parseBucket(q.Bucket)
	if err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "records", ownerID, bucket)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	start := time.Now()

	snap, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sort := report.ParseSort(q.Sort, q.Direction)
	if sort.Field != "" && !report.IsSortable(sort.Field) {
		s.logger.Debug("unknown sort field, keeping input order", zap.String("sort", q.Sort))
	}
	result := s.aggregator.Aggregate(snap.records, snap.expenses, report.Query{
		Bucket: bucket,
		Search: q.Search,
		Sort:   sort,
	}, s.now())

	rows := make([]billingapp.RecordResponse, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = billingapp.ToRecordResponse(row.Record, s.formatter)
	}
	expenses := make([]billingapp.ExpenseResponse, len(result.Expenses))
	for i, e := range result.Expenses {
		expenses[i] = billingapp.ToExpenseResponse(e, s.formatter)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrRowCount, len(rows))
	s.metrics.ReportAggregated(ctx, "records", bucket.String(), time.Since(start))
	return &RecordsReport{
		Bucket:   bucket.String(),
		Search:   q.Search,
		Sort:     sort,
		Rows:     rows,
		Expenses: expenses,
		Summary:  toSummaryResponse(result.Summary, s.formatter),
	}, nil
}

// Dashboard returns a summary for every bucket
func (s *ReportService) Dashboard(ctx context.Context, ownerID uuid.UUID) (resp *DashboardReport, err error) {
	ctx, span := s.startSpan(ctx, "dashboard", ownerID, report.BucketOverall)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	start := time.Now()

	snap, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	d := s.aggregator.Dashboard(snap.records, snap.expenses, s.now())

	s.metrics.ReportAggregated(ctx, "dashboard", report.BucketOverall.String(), time.Since(start))
	return &DashboardReport{
		Today:   toSummaryResponse(d.Today, s.formatter),
		Week:    toSummaryResponse(d.Week, s.formatter),
		Month:   toSummaryResponse(d.Month, s.formatter),
		Year:    toSummaryResponse(d.Year, s.formatter),
		Overall: toSummaryResponse(d.Overall, s.formatter),
	}, nil
}

// Series returns chart points for a bucket
func (s *ReportService) Series(ctx context.Context, ownerID uuid.UUID, rawBucket string) (resp *SeriesReport, err error) {
	bucket, err := parseBucket(rawBucket)
	if err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "series", ownerID, bucket)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	start := time.Now()

	snap, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	points := s.aggregator.Series(snap.records, snap.expenses, bucket, s.now())

	s.metrics.ReportAggregated(ctx, "series", bucket.String(), time.Since(start))
	return &SeriesReport{Bucket: bucket.String(), Points: points}, nil
}

// ExpenseBreakdown totals a bucket's expenses per category
func (s *ReportService) ExpenseBreakdown(ctx context.Context, ownerID uuid.UUID, rawBucket string) (resp *ExpenseBreakdownReport, err error) {
	bucket, err := parseBucket(rawBucket)
	if err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "expense_breakdown", ownerID, bucket)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	expenses, err := s.expenses.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	categories, total := toCategoryTotals(s.aggregator.ExpenseBreakdown(expenses, bucket, s.now()), s.formatter)
	return &ExpenseBreakdownReport{Bucket: bucket.String(), Categories: categories, Total: total}, nil
}

func (s *ReportService) startSpan(ctx context.Context, method string, ownerID uuid.UUID, bucket report.Bucket) (context.Context, trace.Span) {
	return telemetry.StartServiceSpan(ctx, "report", method,
		telemetry.WithAttribute(telemetry.SpanAttrOwnerID, ownerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrBucket, bucket.String()),
	)
}
