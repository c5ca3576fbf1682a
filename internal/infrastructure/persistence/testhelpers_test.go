package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/jobbook/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDatabase opens a migrated in-memory sqlite database
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newMockDB opens GORM on a postgres dialector backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func money(s string) valueobject.Money {
	return valueobject.NewMoney(decimal.RequireFromString(s))
}

func newJobOrder(t *testing.T, owner uuid.UUID, number string) *billing.MonetaryRecord {
	t.Helper()
	start := time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)
	r, err := billing.NewMonetaryRecord(billing.KindJobOrder, owner, number, billing.RecordInput{
		ClientName: "Acme Printing",
		Items: []billing.LineItem{
			billing.NewLineItem("Tarpaulin 4x6", decimal.NewFromInt(2), money("1000")),
			billing.NewLineItem("Layout", decimal.NewFromInt(1), money("500")),
		},
		Discount:   billing.Percent(decimal.NewFromInt(10)),
		PaidAmount: money("1000"),
		StartDate:  &start,
		Remark:     "rush",
	})
	require.NoError(t, err)
	return r
}

func newExpense(t *testing.T, owner uuid.UUID, date time.Time, amounts ...string) *billing.Expense {
	t.Helper()
	items := make([]billing.ExpenseItem, len(amounts))
	for i, a := range amounts {
		items[i] = billing.ExpenseItem{Description: "item", Amount: money(a)}
	}
	e, err := billing.NewExpense(owner, billing.ExpenseInput{
		Date:        date,
		Description: "supplies",
		Category:    billing.ExpenseCategoryGeneral,
		Items:       items,
	})
	require.NoError(t, err)
	return e
}
