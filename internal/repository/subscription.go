package repository

import (
	"context"

	"capicare-backend/internal/model"

	"gorm.io/gorm"
)

// SubscriptionRepository appends to the subscription ledger. One row per
// approved purchase, by design not deduplicated on replay.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) error
	ListByEmail(ctx context.Context, email string) ([]*model.Subscription, error)
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) Create(ctx context.Context, sub *model.Subscription) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepoImpl) ListByEmail(ctx context.Context, email string) ([]*model.Subscription, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var subs []*model.Subscription
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}

	return subs, nil
}
