package repository

import (
	"context"
	"time"

	"capicare-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *model.Profile) error
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
}

type profileRepoImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepoImpl{
		db: db,
	}
}

func (r *profileRepoImpl) Upsert(ctx context.Context, profile *model.Profile) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"full_name":  profile.FullName,
			"phone":      profile.Phone,
			"updated_at": time.Now(),
		}),
	}).Create(profile).Error
}

func (r *profileRepoImpl) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&profile).Error
	if err != nil {
		return nil, err
	}

	return &profile, nil
}
