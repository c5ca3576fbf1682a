package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRecordRepository_RoundTrip(t *testing.T) {
	repo := NewGormRecordRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	owner := uuid.New()

	record := newJobOrder(t, owner, "JO-20240515-0001")
	require.NoError(t, repo.Create(ctx, record))

	got, err := repo.FindByID(ctx, owner, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Number, got.Number)
	assert.Equal(t, billing.KindJobOrder, got.Kind)
	assert.Equal(t, "Acme Printing", got.ClientName)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(2)))
	require.NotNil(t, got.Discount)
	assert.Equal(t, billing.AdjustmentPercent, got.Discount.Type)
	assert.Nil(t, got.Tax)
	assert.Equal(t, "2250.00", got.TotalAmount.String())
	assert.Equal(t, "250.00", got.DiscountAmount.String())
	assert.Equal(t, "1000.00", got.PaidAmount.String())
	assert.Equal(t, record.Status, got.Status)
	assert.Equal(t, "rush", got.Remark)
	assert.Equal(t, 1, got.Version)
	assert.Empty(t, got.GetDomainEvents())
}

func TestGormRecordRepository_FindByID_OtherOwner(t *testing.T) {
	repo := NewGormRecordRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	record := newJobOrder(t, uuid.New(), "JO-20240515-0001")
	require.NoError(t, repo.Create(ctx, record))

	_, err := repo.FindByID(ctx, uuid.New(), record.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormRecordRepository_Create_DuplicateNumber(t *testing.T) {
	repo := NewGormRecordRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	owner := uuid.New()

	require.NoError(t, repo.Create(ctx, newJobOrder(t, owner, "JO-20240515-0001")))

	err := repo.Create(ctx, newJobOrder(t, owner, "JO-20240515-0001"))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	// numbers are scoped per owner
	assert.NoError(t, repo.Create(ctx, newJobOrder(t, uuid.New(), "JO-20240515-0001")))
}

func TestGormRecordRepository_Update(t *testing.T) {
	repo := NewGormRecordRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	owner := uuid.New()
	record := newJobOrder(t, owner, "JO-20240515-0001")
	require.NoError(t, repo.Create(ctx, record))

	loaded, err := repo.FindByID(ctx, owner, record.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.RecordPayment(money("1250")))
	require.NoError(t, loaded.UpdateDetails(billing.RecordDetails{ClientName: "Acme Print Shop"}))
	require.NoError(t, repo.Update(ctx, loaded))
	assert.Equal(t, 2, loaded.Version)

	got, err := repo.FindByID(ctx, owner, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "2250.00", got.PaidAmount.String())
	assert.Equal(t, "Acme Print Shop", got.ClientName)
	assert.Nil(t, got.Discount, "details replace the discount")
	assert.Equal(t, 2, got.Version)
}

func TestGormRecordRepository_Update_StaleVersion(t *testing.T) {
	repo := NewGormRecordRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	owner := uuid.New()
	record := newJobOrder(t, owner, "JO-20240515-0001")
	require.NoError(t, repo.Create(ctx, record))

	first, err := repo.FindByID(ctx, owner, record.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, owner, record.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, first))
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, shared.ErrVersionConflict)
}

func TestGormRecordRepository_Update_Missing(t *testing.T) {
	repo := NewGormRecordRepository(newTestDatabase(t).DB)
	record := newJobOrder(t, uuid.New(), "JO-20240515-0001")

	err := repo.Update(context.Background(), record)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormRecordRepository_ListAndNumbers(t *testing.T) {
	repo := NewGormRecordRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	owner := uuid.New()

	require.NoError(t, repo.Create(ctx, newJobOrder(t, owner, "JO-20240515-0001")))
	require.NoError(t, repo.Create(ctx, newJobOrder(t, owner, "JO-20240515-0002")))
	invoice := newJobOrder(t, owner, "INV-20240515-0001")
	invoice.Kind = billing.KindInvoice
	require.NoError(t, repo.Create(ctx, invoice))
	require.NoError(t, repo.Create(ctx, newJobOrder(t, uuid.New(), "JO-20240515-0003")))

	jobOrders, err := repo.List(ctx, owner, billing.KindJobOrder)
	require.NoError(t, err)
	assert.Len(t, jobOrders, 2)

	all, err := repo.ListAll(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	numbers, err := repo.ListNumbers(ctx, owner, billing.KindJobOrder)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"JO-20240515-0001", "JO-20240515-0002"}, numbers)
}

func TestGormRecordRepository_Delete(t *testing.T) {
	repo := NewGormRecordRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	owner := uuid.New()
	record := newJobOrder(t, owner, "JO-20240515-0001")
	require.NoError(t, repo.Create(ctx, record))

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), record.ID), shared.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, owner, record.ID))
	assert.ErrorIs(t, repo.Delete(ctx, owner, record.ID), shared.ErrNotFound)
}

func TestGormRecordRepository_SQL(t *testing.T) {
	t.Run("ListNumbers filters by owner and kind", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		owner := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "number" FROM "monetary_records" WHERE owner_id = $1 AND kind = $2`)).
			WithArgs(owner, billing.KindInvoice).
			WillReturnRows(sqlmock.NewRows([]string{"number"}).AddRow("INV-20240515-0001"))

		numbers, err := NewGormRecordRepository(db).ListNumbers(context.Background(), owner, billing.KindInvoice)
		require.NoError(t, err)
		assert.Equal(t, []string{"INV-20240515-0001"}, numbers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FindByID scopes to owner", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		owner, id := uuid.New(), uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "monetary_records" WHERE owner_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(owner, id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewGormRecordRepository(db).FindByID(context.Background(), owner, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver errors pass through", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		owner := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "monetary_records" WHERE owner_id = \$1 ORDER BY created_at ASC, number ASC`).
			WithArgs(owner).
			WillReturnError(errors.New("connection reset"))

		_, err := NewGormRecordRepository(db).ListAll(context.Background(), owner)
		assert.EqualError(t, err, "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
