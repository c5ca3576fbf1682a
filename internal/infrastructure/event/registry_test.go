package event

import (
	"testing"

	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	r := NewHandlerRegistry()
	payments := newTestHandler()
	audit := newTestHandler()

	r.Register(payments, "PaymentRecorded", "PaymentStatusChanged")
	r.Register(audit)

	assert.Equal(t, []shared.EventHandler{payments, audit}, r.GetHandlers("PaymentRecorded"))
	assert.Equal(t, []shared.EventHandler{payments, audit}, r.GetHandlers("PaymentStatusChanged"))
	assert.Equal(t, []shared.EventHandler{audit}, r.GetHandlers("RecordCancelled"))
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()
	wildcard := newTestHandler()

	r.Register(a, "PaymentRecorded")
	r.Register(b, "PaymentRecorded")
	r.Register(wildcard)

	r.Unregister(a)
	assert.Equal(t, []shared.EventHandler{b, wildcard}, r.GetHandlers("PaymentRecorded"))

	r.Unregister(wildcard)
	r.Unregister(b)
	assert.Empty(t, r.GetHandlers("PaymentRecorded"))
	assert.Empty(t, r.handlers)
}
