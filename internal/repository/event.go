package repository

import (
	"context"

	"capicare-backend/internal/model"

	"gorm.io/gorm"
)

// EventRepository persists the append-only audit trail. Rows are never
// updated after insert except for the processed flag.
type EventRepository interface {
	Create(ctx context.Context, event *model.PurchaseEvent) error
	MarkProcessed(ctx context.Context, eventID uint) error
	ListByEmail(ctx context.Context, email string) ([]*model.PurchaseEvent, error)
}

type eventRepoImpl struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepoImpl{
		db: db,
	}
}

func (r *eventRepoImpl) Create(ctx context.Context, event *model.PurchaseEvent) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepoImpl) MarkProcessed(ctx context.Context, eventID uint) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).
		Model(&model.PurchaseEvent{}).
		Where("id = ?", eventID).
		Update("processed", true).Error
}

func (r *eventRepoImpl) ListByEmail(ctx context.Context, email string) ([]*model.PurchaseEvent, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var events []*model.PurchaseEvent
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}
