package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

// UsageStore implements outbound.UsageStore with one row per UTC day,
// so the quota survives process restarts
type UsageStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUsageStore creates a new GORM usage store
func NewUsageStore(db *gorm.DB) outbound.UsageStore {
	return &UsageStore{db: db, now: time.Now}
}

func (s *UsageStore) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// CallsToday returns the number of generative calls recorded for the
// current UTC day
func (s *UsageStore) CallsToday(ctx context.Context) (int, error) {
	var model LLMUsageModel
	err := s.db.WithContext(ctx).Where("day = ?", s.today()).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, apperrors.NewDatabaseError("read usage counter", err)
	}
	return model.Calls, nil
}

// Increment records one generative call against today's counter
func (s *UsageStore) Increment(ctx context.Context) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"calls": gorm.Expr("calls + 1")}),
	}).Create(&LLMUsageModel{Day: s.today(), Calls: 1}).Error
	if err != nil {
		return apperrors.NewDatabaseError("increment usage counter", err)
	}
	return nil
}
