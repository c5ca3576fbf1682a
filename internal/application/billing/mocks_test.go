package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockRecordRepository is a mock implementation of billing.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) List(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind) ([]*billing.MonetaryRecord, error) {
	args := m.Called(ctx, ownerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.MonetaryRecord), args.Error(1)
}

func (m *MockRecordRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]*billing.MonetaryRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.MonetaryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*billing.MonetaryRecord, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.MonetaryRecord), args.Error(1)
}

func (m *MockRecordRepository) Create(ctx context.Context, record *billing.MonetaryRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository) Update(ctx context.Context, record *billing.MonetaryRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockRecordRepository) ListNumbers(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind) ([]string, error) {
	args := m.Called(ctx, ownerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockExpenseRepository is a mock implementation of billing.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*billing.Expense, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*billing.Expense, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *billing.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) Update(ctx context.Context, expense *billing.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

var (
	_ billing.RecordRepository  = (*MockRecordRepository)(nil)
	_ billing.ExpenseRepository = (*MockExpenseRepository)(nil)
	_ shared.EventPublisher     = (*recordingPublisher)(nil)
)
