package repository

import (
	"context"
	"errors"

	"capicare-backend/internal/model"
	"capicare-backend/internal/webhook"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseRepository is the relational side of the access-record store. It
// satisfies storage.Backend.
type PurchaseRepository interface {
	Save(ctx context.Context, record *model.Purchase) error
	Get(ctx context.Context, email string) (*model.Purchase, error)
	List(ctx context.Context) ([]*model.Purchase, error)
	Delete(ctx context.Context, email string) (bool, error)
}

type purchaseRepoImpl struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepoImpl{
		db: db,
	}
}

// Save upserts by email: a repeat purchase for the same address replaces the
// current access record, last write wins.
func (r *purchaseRepoImpl) Save(ctx context.Context, record *model.Purchase) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	record.Email = webhook.NormalizeEmail(record.Email)

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan", "duration", "purchase_date", "expiration_date",
			"transaction_id", "sale_id", "amount", "status", "active", "updated_at",
		}),
	}).Create(record).Error
}

func (r *purchaseRepoImpl) Get(ctx context.Context, email string) (*model.Purchase, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var record model.Purchase
	err := r.db.WithContext(ctx).
		Where("email = ?", webhook.NormalizeEmail(email)).
		Order("created_at DESC").
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

func (r *purchaseRepoImpl) List(ctx context.Context) ([]*model.Purchase, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var records []*model.Purchase
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *purchaseRepoImpl) Delete(ctx context.Context, email string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Where("email = ?", webhook.NormalizeEmail(email)).
		Delete(&model.Purchase{})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
