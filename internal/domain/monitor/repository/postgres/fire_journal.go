// Package postgres contains the gorm backed fire journal
package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/deps"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
	monerrors "github.com/Conte777/reaction-monitor/internal/domain/monitor/errors"
)

type fireJournal struct {
	db *gorm.DB
}

// NewFireJournal creates a fire journal on db.
// A nil db yields a journal that drops records and reports history as disabled.
func NewFireJournal(db *gorm.DB) deps.FireJournal {
	if db == nil {
		return disabledJournal{}
	}
	return &fireJournal{db: db}
}

// Record saves a fire record
func (r *fireJournal) Record(ctx context.Context, rec *entities.FireRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// ListByOwner retrieves the newest fire records of owner
func (r *fireJournal) ListByOwner(ctx context.Context, owner int64, limit int) ([]entities.FireRecord, error) {
	var records []entities.FireRecord
	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("fired_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

type disabledJournal struct{}

func (disabledJournal) Record(context.Context, *entities.FireRecord) error { return nil }

func (disabledJournal) ListByOwner(context.Context, int64, int) ([]entities.FireRecord, error) {
	return nil, monerrors.ErrHistoryDisabled
}
