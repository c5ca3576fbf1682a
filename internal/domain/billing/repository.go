package billing

import (
	"context"

	"github.com/google/uuid"
)

// RecordRepository persists job orders and invoices in per-owner collections.
// Implementations return shared.ErrNotFound for unknown IDs.
type RecordRepository interface {
	// List returns every record of kind owned by ownerID, oldest first
	List(ctx context.Context, ownerID uuid.UUID, kind RecordKind) ([]*MonetaryRecord, error)

	// ListAll returns every record owned by ownerID regardless of kind
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]*MonetaryRecord, error)

	// FindByID retrieves a record by ID within the owner's collection
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*MonetaryRecord, error)

	// Create persists a new record
	Create(ctx context.Context, record *MonetaryRecord) error

	// Update persists changes to an existing record
	Update(ctx context.Context, record *MonetaryRecord) error

	// Delete removes a record
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ListNumbers returns the numbers already used for kind, for sequence assignment
	ListNumbers(ctx context.Context, ownerID uuid.UUID, kind RecordKind) ([]string, error)
}

// ExpenseRepository persists expenses in per-owner collections
type ExpenseRepository interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]*Expense, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Expense, error)
	Create(ctx context.Context, expense *Expense) error
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
