package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"capicare-backend/internal/model"
	"capicare-backend/internal/storage"
	"capicare-backend/internal/webhook"

	"go.uber.org/zap"
)

// AccessInfo is the verification read model: the access record plus derived
// remaining validity.
type AccessInfo struct {
	Record        *model.Purchase
	DaysRemaining int
}

type AccessService interface {
	Verify(ctx context.Context, email string) (*AccessInfo, error)
}

type accessServiceImpl struct {
	store  *storage.UserStore
	logger *zap.Logger
	now    func() time.Time
}

func NewAccessService(store *storage.UserStore, logger *zap.Logger) AccessService {
	return &accessServiceImpl{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Verify is a pure read over the access record: no write, no mutation of the
// stored active flag. Expiration is strict, a record expiring exactly now is
// still valid.
func (s *accessServiceImpl) Verify(ctx context.Context, email string) (*AccessInfo, error) {
	normalized := webhook.NormalizeEmail(email)
	if normalized == "" {
		return nil, ErrEmailRequired
	}

	record, err := s.store.Get(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("lookup access record: %w", err)
	}
	if record == nil {
		s.logger.Info("access not found", zap.String("email", normalized))
		return nil, ErrAccessNotFound
	}

	now := s.now()
	if now.After(record.ExpirationDate) {
		s.logger.Info("access expired",
			zap.String("email", normalized),
			zap.Time("expiration", record.ExpirationDate))
		return nil, ErrAccessExpired
	}

	days := int(math.Ceil(record.ExpirationDate.Sub(now).Hours() / 24))
	return &AccessInfo{Record: record, DaysRemaining: days}, nil
}
