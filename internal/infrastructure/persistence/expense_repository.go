package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExpenseRepository implements billing.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

var _ billing.ExpenseRepository = (*GormExpenseRepository)(nil)

// List returns the owner's expenses ordered by date
func (r *GormExpenseRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*billing.Expense, error) {
	var rows []models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	expenses := make([]*billing.Expense, len(rows))
	for i := range rows {
		expenses[i] = rows[i].ToDomain()
	}
	return expenses, nil
}

// FindByID finds an expense within the owner's collection
func (r *GormExpenseRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*billing.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Create inserts an expense
func (r *GormExpenseRepository) Create(ctx context.Context, expense *billing.Expense) error {
	return r.db.WithContext(ctx).Create(models.ExpenseModelFromDomain(expense)).Error
}

// Update writes every column of expense, guarded by its version
func (r *GormExpenseRepository) Update(ctx context.Context, expense *billing.Expense) error {
	expected := expense.GetVersion()
	model := models.ExpenseModelFromDomain(expense)
	model.Version = expected + 1

	result := r.db.WithContext(ctx).Model(model).
		Where("owner_id = ? AND version = ?", expense.OwnerID, expected).
		Select("*").
		Omit("id", "owner_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return missingOrConflict(r.db.WithContext(ctx), &models.ExpenseModel{}, expense.OwnerID, expense.ID)
	}
	expense.IncrementVersion()
	return nil
}

// Delete removes an expense from the owner's collection
func (r *GormExpenseRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.ExpenseModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
