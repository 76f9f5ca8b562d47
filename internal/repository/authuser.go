package repository

import (
	"context"
	"errors"

	"capicare-backend/internal/model"

	"gorm.io/gorm"
)

type AuthUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.AuthUser, error)
	Create(ctx context.Context, user *model.AuthUser) error
}

type authUserRepoImpl struct {
	db *gorm.DB
}

func NewAuthUserRepository(db *gorm.DB) AuthUserRepository {
	return &authUserRepoImpl{
		db: db,
	}
}

func (r *authUserRepoImpl) FindByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user model.AuthUser
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *authUserRepoImpl) Create(ctx context.Context, user *model.AuthUser) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Create(user).Error
}
