package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"capicare-backend/internal/model"
	"capicare-backend/internal/repository"
	"capicare-backend/internal/storage"
	"capicare-backend/internal/webhook"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	StepAuditEvent   = "audit_event"
	StepIdentity     = "identity"
	StepProfile      = "profile"
	StepSubscription = "subscription"
	StepAccessGrant  = "access_grant"

	eventApproved = "purchase_approved"
	eventPending  = "purchase_pending"
)

// StepResult reports one reconciliation side effect. Non-critical steps may
// fail without aborting the pipeline; the report says which did.
type StepResult struct {
	Step  string `json:"step"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Result is the outcome of processing one inbound notification.
type Result struct {
	Email          string          `json:"email"`
	Approved       bool            `json:"approved"`
	Plan           string          `json:"plan"`
	Duration       int             `json:"duration"`
	PurchaseDate   time.Time       `json:"purchaseDate"`
	ExpirationDate time.Time       `json:"expirationDate"`
	EventID        uint            `json:"eventId"`
	EventType      string          `json:"eventType"`
	Steps          []StepResult    `json:"steps,omitempty"`
	Record         *model.Purchase `json:"record,omitempty"`
}

type ReconcileService interface {
	Process(ctx context.Context, payload map[string]any) (*Result, error)
}

type reconcileServiceImpl struct {
	store            *storage.UserStore
	eventRepo        repository.EventRepository
	authUserRepo     repository.AuthUserRepository
	profileRepo      repository.ProfileRepository
	subscriptionRepo repository.SubscriptionRepository
	defaultPlan      string
	logger           *zap.Logger
	now              func() time.Time
}

func NewReconcileService(
	store *storage.UserStore,
	eventRepo repository.EventRepository,
	authUserRepo repository.AuthUserRepository,
	profileRepo repository.ProfileRepository,
	subscriptionRepo repository.SubscriptionRepository,
	defaultPlan string,
	logger *zap.Logger,
) ReconcileService {
	return &reconcileServiceImpl{
		store:            store,
		eventRepo:        eventRepo,
		authUserRepo:     authUserRepo,
		profileRepo:      profileRepo,
		subscriptionRepo: subscriptionRepo,
		defaultPlan:      defaultPlan,
		logger:           logger,
		now:              time.Now,
	}
}

// Process runs the full reconciliation for one notification:
// extract -> validate -> audit event -> classify -> (if approved) identity,
// profile, subscription, access grant -> mark processed.
//
// Identity, profile and subscription are best-effort; the audit event and the
// access grant are mandatory. No step is rolled back on a later failure:
// replaying the notification is the recovery path.
func (s *reconcileServiceImpl) Process(ctx context.Context, payload map[string]any) (*Result, error) {
	fields := webhook.Extract(payload)

	email := webhook.NormalizeEmail(fields.Email)
	if email == "" || !webhook.ValidEmail(email) {
		return nil, ErrEmailRequired
	}

	planName := fields.OfferName
	if planName == "" {
		planName = s.defaultPlan
	}
	duration := webhook.ResolveDuration(planName)
	approved := webhook.IsApproved(fields.Status, fields.EventDescription)

	s.logger.Info("webhook received",
		zap.String("email", email),
		zap.String("plan", planName),
		zap.Int("duration", duration),
		zap.Bool("approved", approved))

	result := &Result{
		Email:    email,
		Approved: approved,
		Plan:     planName,
		Duration: duration,
	}

	// Audit trail first: every notification leaves a durable trace before
	// the approval branch, approved or not.
	eventType := eventPending
	if approved {
		eventType = eventApproved
	}
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		rawPayload = nil
	}
	event := &model.PurchaseEvent{
		Email:     email,
		PlanDays:  duration,
		EventType: eventType,
		EventData: rawPayload,
		Processed: false,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuditWrite, err)
	}
	result.EventID = event.ID
	result.EventType = eventType
	result.Steps = append(result.Steps, StepResult{Step: StepAuditEvent, OK: true})

	if !approved {
		s.logger.Info("event logged, not an approved purchase",
			zap.String("email", email),
			zap.String("status", fields.Status),
			zap.String("event", fields.EventDescription))
		return result, nil
	}

	purchaseDate := s.now()
	if fields.PurchaseDate != nil {
		purchaseDate = *fields.PurchaseDate
	}
	expirationDate := purchaseDate.AddDate(0, 0, duration)
	result.PurchaseDate = purchaseDate
	result.ExpirationDate = expirationDate

	fullName := fields.FullName
	if fullName == "" {
		fullName = "Usuário"
	}

	result.Steps = append(result.Steps, s.createIdentity(ctx, email, fullName, planName, duration, purchaseDate, expirationDate))
	result.Steps = append(result.Steps, s.upsertProfile(ctx, email, fullName, fields.Phone))
	result.Steps = append(result.Steps, s.appendSubscription(ctx, email, duration, purchaseDate, expirationDate))

	// The access record gates login, so unlike the steps above its failure
	// aborts the request even though they already committed.
	status := fields.Status
	if status == "" {
		status = "APPROVED"
	}
	record := &model.Purchase{
		Email:          email,
		Plan:           planName,
		Duration:       duration,
		PurchaseDate:   purchaseDate,
		ExpirationDate: expirationDate,
		TransactionID:  optional(fields.TransactionID),
		SaleID:         optional(fields.SaleID),
		Amount:         fields.Amount,
		Status:         status,
		Active:         true,
	}
	if err := s.store.Save(ctx, record); err != nil {
		result.Steps = append(result.Steps, StepResult{Step: StepAccessGrant, OK: false, Error: err.Error()})
		return result, fmt.Errorf("%w: %v", ErrAccessGrant, err)
	}
	result.Steps = append(result.Steps, StepResult{Step: StepAccessGrant, OK: true})
	result.Record = record

	if err := s.eventRepo.MarkProcessed(ctx, event.ID); err != nil {
		s.logger.Warn("failed to mark event processed", zap.Uint("eventId", event.ID), zap.Error(err))
	}

	s.logger.Info("purchase reconciled",
		zap.String("email", email),
		zap.String("plan", planName),
		zap.Time("expiration", expirationDate))
	return result, nil
}

// createIdentity is idempotent by email: an existing login principal is left
// untouched, including its denormalized plan metadata.
func (s *reconcileServiceImpl) createIdentity(ctx context.Context, email, fullName, plan string, duration int, purchaseDate, expirationDate time.Time) StepResult {
	existing, err := s.authUserRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("identity lookup failed", zap.String("email", email), zap.Error(err))
		return StepResult{Step: StepIdentity, OK: false, Error: err.Error()}
	}
	if existing != nil {
		return StepResult{Step: StepIdentity, OK: true}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword()), bcrypt.DefaultCost)
	if err != nil {
		return StepResult{Step: StepIdentity, OK: false, Error: err.Error()}
	}

	user := &model.AuthUser{
		ID:             uuid.NewString(),
		Email:          email,
		FullName:       fullName,
		PasswordHash:   string(hash),
		Plan:           plan,
		Duration:       duration,
		PurchaseDate:   purchaseDate,
		ExpirationDate: expirationDate,
	}
	if err := s.authUserRepo.Create(ctx, user); err != nil {
		// Login through this principal won't work until the notification is
		// replayed, but the access grant must still go through.
		s.logger.Warn("identity creation failed", zap.String("email", email), zap.Error(err))
		return StepResult{Step: StepIdentity, OK: false, Error: err.Error()}
	}
	return StepResult{Step: StepIdentity, OK: true}
}

func (s *reconcileServiceImpl) upsertProfile(ctx context.Context, email, fullName, phone string) StepResult {
	profile := &model.Profile{
		Email:    email,
		FullName: fullName,
		Phone:    phone,
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		s.logger.Warn("profile upsert failed", zap.String("email", email), zap.Error(err))
		return StepResult{Step: StepProfile, OK: false, Error: err.Error()}
	}
	return StepResult{Step: StepProfile, OK: true}
}

func (s *reconcileServiceImpl) appendSubscription(ctx context.Context, email string, duration int, purchaseDate, expirationDate time.Time) StepResult {
	sub := &model.Subscription{
		Email:        email,
		PlanDays:     duration,
		PurchaseDate: purchaseDate,
		ExpiryDate:   expirationDate,
		Status:       "active",
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		s.logger.Warn("subscription append failed", zap.String("email", email), zap.Error(err))
		return StepResult{Step: StepSubscription, OK: false, Error: err.Error()}
	}
	return StepResult{Step: StepSubscription, OK: true}
}

// tempPassword generates the one-time credential handed to new identities.
// Users are expected to reset it.
func tempPassword() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "CapiCare" + suffix + "!"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
