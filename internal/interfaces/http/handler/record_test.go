package handler

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	billingapp "github.com/jobbook/backend/internal/application/billing"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var numberPattern = regexp.MustCompile(`^[A-Z]+-\d{8}-\d{4}$`)

func (a *testAPI) createJobOrder(t *testing.T) billingapp.RecordResponse {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/job-orders", jobOrderBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var record billingapp.RecordResponse
	env.decode(t, &record)
	return record
}

func TestRecordHandler_CreateAndGet(t *testing.T) {
	api := newTestAPI(t)

	created := api.createJobOrder(t)
	assert.Regexp(t, numberPattern, created.Number)
	assert.True(t, strings.HasPrefix(created.Number, billing.PrefixFor(billing.KindJobOrder)+"-"))
	assert.Equal(t, "JOB_ORDER", created.Kind)
	requireAmount(t, "2500", created.Subtotal)
	requireAmount(t, "250", created.DiscountAmount)
	requireAmount(t, "2250", created.TotalAmount)
	requireAmount(t, "1250", created.Balance.Outstanding)
	assert.Equal(t, 1, created.Version)

	w, env := api.do(t, http.MethodGet, "/job-orders/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var got billingapp.RecordResponse
	env.decode(t, &got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Number, got.Number)
	requireAmount(t, "2250", got.TotalAmount)
}

func TestRecordHandler_SequentialNumbers(t *testing.T) {
	api := newTestAPI(t)

	first := api.createJobOrder(t)
	second := api.createJobOrder(t)

	assert.Equal(t, "0001", first.Number[len(first.Number)-4:])
	assert.Equal(t, "0002", second.Number[len(second.Number)-4:])

	w, env := api.do(t, http.MethodGet, "/job-orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ListResponse[billingapp.RecordResponse]
	env.decode(t, &list)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, first.Number, list.Items[0].Number)
}

func TestRecordHandler_KindsAreSeparate(t *testing.T) {
	api := newTestAPI(t)
	jobOrder := api.createJobOrder(t)

	w, env := api.do(t, http.MethodGet, "/invoices/"+jobOrder.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeNotFound, env.Error.Code)

	w, env = api.do(t, http.MethodGet, "/invoices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ListResponse[billingapp.RecordResponse]
	env.decode(t, &list)
	assert.Empty(t, list.Items)
}

func TestRecordHandler_OwnerIsolation(t *testing.T) {
	api := newTestAPI(t)
	created := api.createJobOrder(t)

	w, env := api.doAs(t, uuid.New(), http.MethodGet, "/job-orders/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
}

func TestRecordHandler_Validation(t *testing.T) {
	api := newTestAPI(t)

	body := jobOrderBody()
	body.ClientName = ""
	body.Items[0].Quantity = dec("0")

	w, env := api.do(t, http.MethodPost, "/job-orders", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	fields := map[string]bool{}
	for _, d := range env.Error.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["client_name"])
	assert.True(t, fields["items[0].quantity"])
}

func TestRecordHandler_InvalidID(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodGet, "/job-orders/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeInvalidID, env.Error.Code)
}

func TestRecordHandler_Update(t *testing.T) {
	api := newTestAPI(t)
	created := api.createJobOrder(t)

	body := jobOrderBody()
	body.Discount = nil
	body.Tax = &billingapp.AdjustmentRequest{Value: dec("12"), Type: "PERCENT"}

	w, env := api.do(t, http.MethodPut, "/job-orders/"+created.ID.String(), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated billingapp.RecordResponse
	env.decode(t, &updated)
	assert.Equal(t, created.Number, updated.Number)
	requireAmount(t, "300", updated.TaxAmount)
	requireAmount(t, "2800", updated.TotalAmount)
	assert.Equal(t, 2, updated.Version)
}

func TestRecordHandler_PartialEdits(t *testing.T) {
	api := newTestAPI(t)
	created := api.createJobOrder(t)
	path := "/job-orders/" + created.ID.String()

	w, env := api.do(t, http.MethodPatch, path, billingapp.RecordDetailsRequest{
		ClientName: "Acme Printing Co.",
		Remark:     "pick up Friday",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var details billingapp.RecordResponse
	env.decode(t, &details)
	assert.Equal(t, "Acme Printing Co.", details.ClientName)
	assert.Equal(t, "pick up Friday", details.Remark)
	assert.Len(t, details.Items, 2)
	assert.Nil(t, details.Discount, "details replace the discount")
	requireAmount(t, "2500", details.TotalAmount)
	requireAmount(t, "1000", details.PaidAmount)

	w, env = api.do(t, http.MethodPut, path+"/items", billingapp.ItemsRequest{Items: []billingapp.LineItemRequest{
		{Description: "Tarpaulin 4x8", Quantity: dec("3"), UnitAmount: dec("1000")},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var items billingapp.RecordResponse
	env.decode(t, &items)
	require.Len(t, items.Items, 1)
	requireAmount(t, "3000", items.TotalAmount)
	requireAmount(t, "2000", items.Balance.Outstanding)

	w, env = api.do(t, http.MethodPut, path+"/paid-amount", billingapp.PaidAmountRequest{PaidAmount: dec("3000.004")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var paid billingapp.RecordResponse
	env.decode(t, &paid)
	requireAmount(t, "3000", paid.PaidAmount)
	requireAmount(t, "0", paid.Balance.Outstanding)
	assert.Equal(t, created.Number, paid.Number)
	assert.Equal(t, 4, paid.Version)

	w, _ = api.do(t, http.MethodPut, path+"/paid-amount", billingapp.PaidAmountRequest{PaidAmount: dec("-1")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordHandler_RecordPaymentAndCancel(t *testing.T) {
	api := newTestAPI(t)
	created := api.createJobOrder(t)
	path := "/job-orders/" + created.ID.String()

	w, env := api.do(t, http.MethodPost, path+"/payments", billingapp.PaymentRequest{Amount: dec("1250")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var paid billingapp.RecordResponse
	env.decode(t, &paid)
	requireAmount(t, "2250", paid.PaidAmount)
	requireAmount(t, "0", paid.Balance.Outstanding)

	w, env = api.do(t, http.MethodPost, path+"/payments", billingapp.PaymentRequest{Amount: dec("0")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)

	w, env = api.do(t, http.MethodPost, path+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cancelled billingapp.RecordResponse
	env.decode(t, &cancelled)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	w, env = api.do(t, http.MethodPost, path+"/payments", billingapp.PaymentRequest{Amount: dec("10")})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)

	w, env = api.do(t, http.MethodPost, path+"/cancel", billingapp.CancelRequest{Reason: "again"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
}

func TestRecordHandler_SetItemStatus(t *testing.T) {
	api := newTestAPI(t)
	created := api.createJobOrder(t)
	path := "/job-orders/" + created.ID.String() + "/items/"

	w, env := api.do(t, http.MethodPatch, path+"1/status", billingapp.ItemStatusRequest{Status: "PAID"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated billingapp.RecordResponse
	env.decode(t, &updated)
	assert.Equal(t, "PAID", updated.Items[1].Status)

	w, env = api.do(t, http.MethodPatch, path+"5/status", billingapp.ItemStatusRequest{Status: "PAID"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeItemNotFound, env.Error.Code)

	w, _ = api.do(t, http.MethodPatch, path+"-1/status", billingapp.ItemStatusRequest{Status: "PAID"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(t, http.MethodPatch, path+"0/status", billingapp.ItemStatusRequest{Status: "LATER"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
}

func TestRecordHandler_InvoicePaymentStatus(t *testing.T) {
	api := newTestAPI(t)

	body := jobOrderBody()
	body.PaymentStatus = "DOWNPAYMENT"
	w, env := api.do(t, http.MethodPost, "/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var invoice billingapp.RecordResponse
	env.decode(t, &invoice)
	assert.Equal(t, "INVOICE", invoice.Kind)
	assert.Regexp(t, numberPattern, invoice.Number)

	w, env = api.do(t, http.MethodPatch, "/invoices/"+invoice.ID.String()+"/payment-status", billingapp.PaymentStatusRequest{Status: "PAID"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated billingapp.RecordResponse
	env.decode(t, &updated)
	assert.Equal(t, "PAID", updated.PaymentStatus)
}

func TestRecordHandler_DeleteFreesNumber(t *testing.T) {
	api := newTestAPI(t)
	first := api.createJobOrder(t)

	w, _ := api.do(t, http.MethodDelete, "/job-orders/"+first.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w, env := api.do(t, http.MethodGet, "/job-orders/"+first.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)

	again := api.createJobOrder(t)
	assert.Equal(t, first.Number, again.Number)

	w, _ = api.do(t, http.MethodDelete, "/job-orders/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
