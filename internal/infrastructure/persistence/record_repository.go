package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRecordRepository implements billing.RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

var _ billing.RecordRepository = (*GormRecordRepository)(nil)

// List returns the owner's records of one kind, oldest first
func (r *GormRecordRepository) List(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind) ([]*billing.MonetaryRecord, error) {
	var rows []models.MonetaryRecordModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Order("created_at ASC, number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

// ListAll returns every record the owner has, oldest first
func (r *GormRecordRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]*billing.MonetaryRecord, error) {
	var rows []models.MonetaryRecordModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func toRecords(rows []models.MonetaryRecordModel) []*billing.MonetaryRecord {
	records := make([]*billing.MonetaryRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records
}

// FindByID finds a record within the owner's collection
func (r *GormRecordRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*billing.MonetaryRecord, error) {
	var model models.MonetaryRecordModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Create inserts a record. A number already used by the owner for the same
// kind yields shared.ErrAlreadyExists.
func (r *GormRecordRepository) Create(ctx context.Context, record *billing.MonetaryRecord) error {
	model := models.MonetaryRecordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Record number %s is already in use", record.Number))
		}
		return err
	}
	return nil
}

// Update writes every column of record, guarded by its version
func (r *GormRecordRepository) Update(ctx context.Context, record *billing.MonetaryRecord) error {
	expected := record.GetVersion()
	model := models.MonetaryRecordModelFromDomain(record)
	model.Version = expected + 1

	result := r.db.WithContext(ctx).Model(model).
		Where("owner_id = ? AND version = ?", record.OwnerID, expected).
		Select("*").
		Omit("id", "owner_id", "kind", "number", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return missingOrConflict(r.db.WithContext(ctx), &models.MonetaryRecordModel{}, record.OwnerID, record.ID)
	}
	record.IncrementVersion()
	return nil
}

// Delete removes a record from the owner's collection
func (r *GormRecordRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.MonetaryRecordModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListNumbers returns every number the owner has used for kind
func (r *GormRecordRepository) ListNumbers(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind) ([]string, error) {
	var numbers []string
	if err := r.db.WithContext(ctx).Model(&models.MonetaryRecordModel{}).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Pluck("number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

// missingOrConflict explains an update that touched no rows
func missingOrConflict(db *gorm.DB, model any, ownerID, id uuid.UUID) error {
	var count int64
	if err := db.Model(model).Where("owner_id = ? AND id = ?", ownerID, id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrVersionConflict
}
