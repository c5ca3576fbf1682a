package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/jobbook/backend/internal/application/billing"
	reportapp "github.com/jobbook/backend/internal/application/report"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/report"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/jobbook/backend/internal/infrastructure/docstore"
	"github.com/jobbook/backend/internal/interfaces/http/dto"
	"github.com/jobbook/backend/internal/interfaces/http/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testAPI is the full HTTP surface over a miniredis-backed store
type testAPI struct {
	engine *gin.Engine
	mr     *miniredis.Miniredis
	owner  uuid.UUID
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	records := docstore.NewRecordStore(client, "test")
	expenses := docstore.NewExpenseStore(client, "test")
	formatter := valueobject.MustCurrencyFormatter("PHP", "en")
	log := zap.NewNop()

	recordService := billingapp.NewRecordService(records, billing.NewDailySequenceAssigner(time.UTC), formatter, log, billingapp.RecordServiceConfig{})
	expenseService := billingapp.NewExpenseService(expenses, formatter, log)
	aggregator := report.NewAggregator(report.NewCalendar(time.UTC, time.Monday), language.English)
	reportService := reportapp.NewReportService(records, expenses, aggregator, formatter, log)

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())

	api := engine.Group("/api/v1", middleware.Owner())

	jobOrders := NewJobOrderHandler(recordService)
	registerRecordRoutes(api.Group("/job-orders"), jobOrders)
	api.PATCH("/job-orders/:id/items/:index/status", jobOrders.SetItemStatus)

	invoices := NewInvoiceHandler(recordService)
	registerRecordRoutes(api.Group("/invoices"), invoices)
	api.PATCH("/invoices/:id/payment-status", invoices.SetPaymentStatus)

	expenseHandler := NewExpenseHandler(expenseService)
	api.GET("/expenses", expenseHandler.List)
	api.POST("/expenses", expenseHandler.Create)
	api.GET("/expenses/:id", expenseHandler.Get)
	api.PUT("/expenses/:id", expenseHandler.Update)
	api.DELETE("/expenses/:id", expenseHandler.Delete)

	reportHandler := NewReportHandler(reportService)
	api.GET("/reports/records", reportHandler.Records)
	api.GET("/reports/dashboard", reportHandler.Dashboard)
	api.GET("/reports/series", reportHandler.Series)
	api.GET("/reports/expenses", reportHandler.Expenses)

	return &testAPI{engine: engine, mr: mr, owner: uuid.New()}
}

func registerRecordRoutes(g *gin.RouterGroup, h *RecordHandler) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.UpdateDetails)
	g.PUT("/:id/items", h.ReplaceItems)
	g.PUT("/:id/paid-amount", h.SetPaidAmount)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/payments", h.RecordPayment)
	g.POST("/:id/cancel", h.Cancel)
}

// do sends a request as the API's owner and decodes the envelope
func (a *testAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return a.doAs(t, a.owner, method, path, body)
}

func (a *testAPI) doAs(t *testing.T, owner uuid.UUID, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.OwnerIDHeader, owner.String())
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// envelope mirrors dto.Response with the data left raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
}

func (e envelope) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, dst))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// requireAmount compares a decimal string from a response with want
func requireAmount(t *testing.T, want string, got valueobject.Money) {
	t.Helper()
	require.True(t, dec(want).Equal(got.Amount()), "want %s, got %s", want, got.Amount())
}

func jobOrderBody() billingapp.RecordRequest {
	return billingapp.RecordRequest{
		ClientName: "Acme Printing",
		Items: []billingapp.LineItemRequest{
			{Description: "Tarpaulin", Quantity: dec("2"), UnitAmount: dec("1000")},
			{Description: "Layout", Quantity: dec("1"), UnitAmount: dec("500")},
		},
		Discount:   &billingapp.AdjustmentRequest{Value: dec("10"), Type: "PERCENT"},
		PaidAmount: dec("1000"),
	}
}
