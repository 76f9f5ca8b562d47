package service

import (
	"context"
	"fmt"
	"time"

	"capicare-backend/internal/model"
	"capicare-backend/internal/storage"
	"capicare-backend/internal/webhook"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdminService backs the operator-facing diagnostic endpoints: listing and
// deleting access records, forcing a registration when the provider webhook
// failed, and synthesizing a notification through the real pipeline.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*model.Purchase, error)
	DeleteUser(ctx context.Context, email string) (bool, error)
	ForceRegister(ctx context.Context, email, name, plan string, duration int) (*model.Purchase, error)
	SimulatePurchase(ctx context.Context, email, plan string) (*Result, error)
}

type adminServiceImpl struct {
	store       *storage.UserStore
	reconcile   ReconcileService
	defaultPlan string
	logger      *zap.Logger
	now         func() time.Time
}

func NewAdminService(store *storage.UserStore, reconcile ReconcileService, defaultPlan string, logger *zap.Logger) AdminService {
	return &adminServiceImpl{
		store:       store,
		reconcile:   reconcile,
		defaultPlan: defaultPlan,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *adminServiceImpl) ListUsers(ctx context.Context) ([]*model.Purchase, error) {
	return s.store.List(ctx)
}

func (s *adminServiceImpl) DeleteUser(ctx context.Context, email string) (bool, error) {
	normalized := webhook.NormalizeEmail(email)
	if normalized == "" {
		return false, ErrEmailRequired
	}
	return s.store.Delete(ctx, normalized)
}

// ForceRegister writes the access record directly, bypassing the pipeline.
// Emergency path for when the provider webhook never arrived; no audit event,
// identity, profile or subscription is touched.
func (s *adminServiceImpl) ForceRegister(ctx context.Context, email, name, plan string, duration int) (*model.Purchase, error) {
	normalized := webhook.NormalizeEmail(email)
	if normalized == "" || !webhook.ValidEmail(normalized) {
		return nil, ErrEmailRequired
	}

	if plan == "" {
		plan = s.defaultPlan
	}
	if duration <= 0 {
		duration = webhook.DefaultDuration
	}

	purchaseDate := s.now()
	txn := fmt.Sprintf("FORCE-%d", purchaseDate.UnixMilli())
	sale := fmt.Sprintf("FORCE-SALE-%d", purchaseDate.UnixMilli())
	amount := decimal.NewNullDecimal(decimal.NewFromFloat(99.90))

	record := &model.Purchase{
		Email:          normalized,
		Plan:           plan,
		Duration:       duration,
		PurchaseDate:   purchaseDate,
		ExpirationDate: purchaseDate.AddDate(0, 0, duration),
		TransactionID:  &txn,
		SaleID:         &sale,
		Amount:         amount,
		Status:         "APPROVED",
		Active:         true,
	}

	if err := s.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("force register: %w", err)
	}

	s.logger.Info("forced registration",
		zap.String("email", normalized),
		zap.String("name", name),
		zap.String("plan", plan))
	return record, nil
}

// SimulatePurchase builds an approved provider-shaped payload and feeds it
// through the same pipeline a live notification would take.
func (s *adminServiceImpl) SimulatePurchase(ctx context.Context, email, plan string) (*Result, error) {
	if plan == "" {
		plan = s.defaultPlan
	}
	duration := webhook.ResolveDuration(plan)

	amount := 49.0
	switch duration {
	case 60:
		amount = 97.0
	case 90:
		amount = 147.0
	}

	payload := map[string]any{
		"email":             email,
		"status":            "APPROVED",
		"event_description": "Compra aprovada",
		"offer_name":        plan,
		"transaction_id":    fmt.Sprintf("TEST_%d", s.now().UnixMilli()),
		"sale_id":           fmt.Sprintf("SIM-%d", s.now().UnixMilli()),
		"amount":            amount,
		"purchase_date":     s.now().UTC().Format(time.RFC3339),
	}

	return s.reconcile.Process(ctx, payload)
}
