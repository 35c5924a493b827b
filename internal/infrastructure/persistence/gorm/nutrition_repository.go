package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pantrylab/forage/internal/domain/nutrition"
	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

// NutritionRepository implements outbound.NutritionRepository using
// GORM
type NutritionRepository struct {
	db *gorm.DB
}

// NewNutritionRepository creates a new GORM nutrition repository
func NewNutritionRepository(db *gorm.DB) outbound.NutritionRepository {
	return &NutritionRepository{db: db}
}

// FindByNormalizedName loads the catalog record for a name
func (r *NutritionRepository) FindByNormalizedName(ctx context.Context, name string) (*nutrition.Record, error) {
	var model NutritionRecordModel
	err := r.db.WithContext(ctx).Where("normalized_name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("nutrition record")
		}
		return nil, apperrors.NewDatabaseError("find nutrition record", err)
	}
	return toNutritionDomain(&model), nil
}

// Create stores a new catalog record. A duplicate normalized name is a
// persistence conflict, not a database failure.
func (r *NutritionRepository) Create(ctx context.Context, rec *nutrition.Record) error {
	model := toNutritionModel(rec)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewPersistenceConflictError(rec.NormalizedName, err)
		}
		return apperrors.NewDatabaseError("create nutrition record", err)
	}
	rec.ID = model.ID
	return nil
}

// CreateOrGet stores the record, resolving a duplicate normalized name
// by returning the row that won the race
func (r *NutritionRepository) CreateOrGet(ctx context.Context, rec *nutrition.Record) (*nutrition.Record, error) {
	err := r.Create(ctx, rec)
	if err == nil {
		return rec, nil
	}
	if apperrors.Is(err, apperrors.CodePersistenceConflict) {
		return r.FindByNormalizedName(ctx, rec.NormalizedName)
	}
	return nil, err
}

// DistinctNormalizedNames returns every catalog name once
func (r *NutritionRepository) DistinctNormalizedNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&NutritionRecordModel{}).
		Distinct("normalized_name").
		Order("normalized_name").
		Pluck("normalized_name", &names).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("list nutrition names", err)
	}
	return names, nil
}

// FindPending returns records awaiting manual approval
func (r *NutritionRepository) FindPending(ctx context.Context) ([]*nutrition.Record, error) {
	var models []NutritionRecordModel
	err := r.db.WithContext(ctx).Where("approved IS NULL").Order("id").Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("find pending records", err)
	}
	out := make([]*nutrition.Record, 0, len(models))
	for i := range models {
		out = append(out, toNutritionDomain(&models[i]))
	}
	return out, nil
}

// SetApproval resolves a pending record
func (r *NutritionRepository) SetApproval(ctx context.Context, id uint, approved bool) error {
	result := r.db.WithContext(ctx).
		Model(&NutritionRecordModel{}).
		Where("id = ?", id).
		Update("approved", approved)
	if result.Error != nil {
		return apperrors.NewDatabaseError("set approval", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("nutrition record")
	}
	return nil
}
