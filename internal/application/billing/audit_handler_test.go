package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type otherEvent struct {
	shared.BaseDomainEvent
}

func TestAuditHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewAuditHandler(zap.New(core), nil)
	owner := uuid.New()
	record := existingRecord(t, billing.KindJobOrder, owner, billing.PaymentStatusPaid)

	assert.ElementsMatch(t, []string{
		billing.EventTypePaymentStatusChanged,
		billing.EventTypePaymentRecorded,
		billing.EventTypeRecordCancelled,
	}, h.EventTypes())

	t.Run("regression is logged at warn", func(t *testing.T) {
		e := billing.NewPaymentStatusChangedEvent(record, 0, billing.PaymentStatusPaid, billing.PaymentStatusUnpaid)
		require.NoError(t, h.Handle(context.Background(), e))
		entries := logs.FilterMessage("payment status moved backwards").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
		assert.Equal(t, "PAID", entries[0].ContextMap()["from"])
	})

	t.Run("forward change is logged at info", func(t *testing.T) {
		e := billing.NewPaymentStatusChangedEvent(record, 0, billing.PaymentStatusUnpaid, billing.PaymentStatusCheque)
		require.NoError(t, h.Handle(context.Background(), e))
		assert.Equal(t, 1, logs.FilterMessage("payment status changed").FilterLevelExact(zap.InfoLevel).Len())
	})

	t.Run("payment", func(t *testing.T) {
		e := billing.NewPaymentRecordedEvent(record, valueobject.NewMoneyFromInt(100))
		require.NoError(t, h.Handle(context.Background(), e))
		assert.Equal(t, 1, logs.FilterMessage("payment recorded").Len())
	})

	t.Run("unexpected event", func(t *testing.T) {
		e := &otherEvent{BaseDomainEvent: shared.NewBaseDomainEvent("Other", "X", uuid.New(), owner)}
		assert.Error(t, h.Handle(context.Background(), e))
	})
}
