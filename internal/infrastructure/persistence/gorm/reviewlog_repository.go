package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/pantrylab/forage/internal/domain/ingredient"
	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

// ReviewLogRepository implements outbound.ReviewLogRepository using
// GORM
type ReviewLogRepository struct {
	db *gorm.DB
}

// NewReviewLogRepository creates a new GORM review log repository
func NewReviewLogRepository(db *gorm.DB) outbound.ReviewLogRepository {
	return &ReviewLogRepository{db: db}
}

// Append stores one audit entry. Entries are never updated or deleted.
func (r *ReviewLogRepository) Append(ctx context.Context, entry *ingredient.ReviewLogEntry) error {
	model := toReviewLogModel(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.NewDatabaseError("append review log", err)
	}
	entry.ID = model.ID
	return nil
}

// Recent returns the newest entries first
func (r *ReviewLogRepository) Recent(ctx context.Context, limit int) ([]*ingredient.ReviewLogEntry, error) {
	scope := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		scope = scope.Limit(limit)
	}
	var models []ReviewLogModel
	if err := scope.Find(&models).Error; err != nil {
		return nil, apperrors.NewDatabaseError("query review log", err)
	}
	out := make([]*ingredient.ReviewLogEntry, 0, len(models))
	for i := range models {
		out = append(out, toReviewLogDomain(&models[i]))
	}
	return out, nil
}
