package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const expensesCollection = "expenses"

// ExpenseStore implements billing.ExpenseRepository on Redis hashes
type ExpenseStore struct {
	client *redis.Client
	keys   keyspace
}

// NewExpenseStore creates an ExpenseStore using keys under prefix
func NewExpenseStore(client *redis.Client, prefix string) *ExpenseStore {
	return &ExpenseStore{client: client, keys: newKeyspace(prefix)}
}

var _ billing.ExpenseRepository = (*ExpenseStore)(nil)

// List returns the owner's expenses by date
func (s *ExpenseStore) List(ctx context.Context, ownerID uuid.UUID) ([]*billing.Expense, error) {
	raw, err := s.client.HVals(ctx, s.keys.collection(ownerID, expensesCollection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := make([]*billing.Expense, 0, len(raw))
	for _, doc := range raw {
		var e billing.Expense
		if err := json.Unmarshal([]byte(doc), &e); err != nil {
			return nil, fmt.Errorf("failed to decode expense: %w", err)
		}
		expenses = append(expenses, &e)
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		a, b := expenses[i], expenses[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return expenses, nil
}

// FindByID finds an expense within the owner's collection
func (s *ExpenseStore) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*billing.Expense, error) {
	var e billing.Expense
	if err := getDocument(ctx, s.client, s.keys.collection(ownerID, expensesCollection), id.String(), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create stores a new expense
func (s *ExpenseStore) Create(ctx context.Context, expense *billing.Expense) error {
	data, err := json.Marshal(expense)
	if err != nil {
		return fmt.Errorf("failed to encode expense: %w", err)
	}
	created, err := s.client.HSetNX(ctx, s.keys.collection(expense.OwnerID, expensesCollection), expense.ID.String(), data).Result()
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	if !created {
		return shared.ErrAlreadyExists
	}
	return nil
}

// Update writes the expense back, guarded by its version
func (s *ExpenseStore) Update(ctx context.Context, expense *billing.Expense) error {
	expected := expense.GetVersion()
	next := *expense
	next.Version = expected + 1

	key := s.keys.collection(expense.OwnerID, expensesCollection)
	if err := replaceDocument(ctx, s.client, key, expense.ID.String(), expected, &next); err != nil {
		return err
	}
	expense.IncrementVersion()
	return nil
}

// Delete removes an expense
func (s *ExpenseStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	removed, err := s.client.HDel(ctx, s.keys.collection(ownerID, expensesCollection), id.String()).Result()
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if removed == 0 {
		return shared.ErrNotFound
	}
	return nil
}
