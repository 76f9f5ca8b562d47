package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"capicare-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Purchase{},
		&model.PurchaseEvent{},
		&model.AuthUser{},
		&model.Profile{},
		&model.Subscription{},
	))
	return db
}

func TestPurchaseUpsertByEmail(t *testing.T) {
	repo := NewPurchaseRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, &model.Purchase{
		Email:          "User@Example.com",
		Plan:           "App CapiCare 30 Dias",
		Duration:       30,
		PurchaseDate:   now,
		ExpirationDate: now.AddDate(0, 0, 30),
		Status:         "APPROVED",
		Active:         true,
	}))

	require.NoError(t, repo.Save(ctx, &model.Purchase{
		Email:          "user@example.com",
		Plan:           "App CapiCare 90 Dias",
		Duration:       90,
		PurchaseDate:   now,
		ExpirationDate: now.AddDate(0, 0, 90),
		Status:         "APPROVED",
		Active:         true,
	}))

	got, err := repo.Get(ctx, "USER@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "App CapiCare 90 Dias", got.Plan)
	assert.Equal(t, 90, got.Duration)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPurchaseGetMiss(t *testing.T) {
	repo := NewPurchaseRepository(newTestDB(t))

	got, err := repo.Get(context.Background(), "missing@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPurchaseDelete(t *testing.T) {
	repo := NewPurchaseRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, &model.Purchase{
		Email:          "user@example.com",
		Plan:           "App CapiCare 30 Dias",
		Duration:       30,
		PurchaseDate:   now,
		ExpirationDate: now.AddDate(0, 0, 30),
	}))

	deleted, err := repo.Delete(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestQueriesCarryDeadline(t *testing.T) {
	ctx, cancel := withTimeout(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.LessOrEqual(t, time.Until(deadline), queryTimeout)

	// a tighter caller deadline wins
	parent, parentCancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer parentCancel()
	child, childCancel := withTimeout(parent)
	defer childCancel()

	childDeadline, ok := child.Deadline()
	require.True(t, ok)
	parentDeadline, _ := parent.Deadline()
	assert.False(t, childDeadline.After(parentDeadline))
}

func TestCancelledContextFailsFast(t *testing.T) {
	repo := NewPurchaseRepository(newTestDB(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, "user@example.com")
	assert.Error(t, err)
}

func TestAuthUserCreateAndFind(t *testing.T) {
	repo := NewAuthUserRepository(newTestDB(t))
	ctx := context.Background()

	missing, err := repo.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Create(ctx, &model.AuthUser{
		ID:           "11111111-1111-1111-1111-111111111111",
		Email:        "user@example.com",
		FullName:     "Maria Silva",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}))

	found, err := repo.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Maria Silva", found.FullName)
}

func TestProfileUpsert(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.Profile{
		Email:    "user@example.com",
		FullName: "Maria",
	}))
	require.NoError(t, repo.Upsert(ctx, &model.Profile{
		Email:    "user@example.com",
		FullName: "Maria Silva",
		Phone:    "+5511999990000",
	}))

	got, err := repo.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.FullName)
	assert.Equal(t, "+5511999990000", got.Phone)
}

func TestEventMarkProcessed(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	event := &model.PurchaseEvent{
		Email:     "user@example.com",
		PlanDays:  30,
		EventType: "purchase_approved",
		EventData: []byte(`{"email":"user@example.com"}`),
	}
	require.NoError(t, repo.Create(ctx, event))
	require.NotZero(t, event.ID)
	assert.False(t, event.Processed)

	require.NoError(t, repo.MarkProcessed(ctx, event.ID))

	events, err := repo.ListByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Processed)
}
