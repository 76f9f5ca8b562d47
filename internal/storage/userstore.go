package storage

import (
	"context"
	"time"

	"capicare-backend/internal/model"

	"go.uber.org/zap"
)

// Backend is the contract both persistence targets implement. Get returns
// (nil, nil) on a miss.
type Backend interface {
	Save(ctx context.Context, record *model.Purchase) error
	Get(ctx context.Context, email string) (*model.Purchase, error)
	List(ctx context.Context) ([]*model.Purchase, error)
	Delete(ctx context.Context, email string) (bool, error)
}

// UserStore selects between the relational primary and the file fallback.
// The primary is preferred when configured, the fallback write is the success
// criterion, and results are never merged across backends.
type UserStore struct {
	primary  Backend // nil in fallback-only mode
	fallback Backend
	logger   *zap.Logger
	now      func() time.Time
}

func NewUserStore(fallback *FileStore, primary Backend, logger *zap.Logger) *UserStore {
	return &UserStore{
		primary:  primary,
		fallback: &fileBackend{store: fallback},
		logger:   logger,
		now:      time.Now,
	}
}

// Save writes to the fallback unconditionally and, when configured, attempts
// the relational upsert. A primary failure is logged and swallowed.
func (s *UserStore) Save(ctx context.Context, record *model.Purchase) error {
	if err := s.fallback.Save(ctx, record); err != nil {
		return err
	}

	if s.primary != nil {
		if err := s.primary.Save(ctx, record); err != nil {
			s.logger.Warn("relational save failed, record kept in fallback store",
				zap.String("email", record.Email), zap.Error(err))
		}
	}
	return nil
}

// Get queries the primary first when configured. On a primary miss or error
// it falls back to the file store. Active is recomputed against the current
// time; the stored flag is never mutated by reads.
func (s *UserStore) Get(ctx context.Context, email string) (*model.Purchase, error) {
	if s.primary != nil {
		record, err := s.primary.Get(ctx, email)
		if err != nil {
			s.logger.Warn("relational lookup failed, falling back",
				zap.String("email", email), zap.Error(err))
		} else if record != nil {
			return s.withEffectiveActive(record), nil
		}
	}

	record, err := s.fallback.Get(ctx, email)
	if err != nil || record == nil {
		return nil, err
	}
	return s.withEffectiveActive(record), nil
}

func (s *UserStore) List(ctx context.Context) ([]*model.Purchase, error) {
	if s.primary != nil {
		records, err := s.primary.List(ctx)
		if err == nil {
			return records, nil
		}
		s.logger.Warn("relational list failed, falling back", zap.Error(err))
	}
	return s.fallback.List(ctx)
}

// Delete removes from the fallback store; the return value reflects whether
// an entry existed there. The relational delete is best-effort.
func (s *UserStore) Delete(ctx context.Context, email string) (bool, error) {
	deleted, err := s.fallback.Delete(ctx, email)
	if err != nil {
		return deleted, err
	}

	if s.primary != nil {
		if _, err := s.primary.Delete(ctx, email); err != nil {
			s.logger.Warn("relational delete failed", zap.String("email", email), zap.Error(err))
		}
	}
	return deleted, nil
}

// Expiration is strict: a record expiring exactly now is still valid.
func (s *UserStore) withEffectiveActive(record *model.Purchase) *model.Purchase {
	cp := *record
	cp.Active = !s.now().After(record.ExpirationDate)
	return &cp
}

// fileBackend adapts FileStore to the Backend contract. File access is
// in-process and does not take a context.
type fileBackend struct {
	store *FileStore
}

func (b *fileBackend) Save(_ context.Context, record *model.Purchase) error {
	return b.store.Save(record)
}

func (b *fileBackend) Get(_ context.Context, email string) (*model.Purchase, error) {
	return b.store.Get(email)
}

func (b *fileBackend) List(_ context.Context) ([]*model.Purchase, error) {
	return b.store.List()
}

func (b *fileBackend) Delete(_ context.Context, email string) (bool, error) {
	return b.store.Delete(email)
}
