package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is the access-control record: one current row per email, consulted
// by the login/verify path. Upserted by email on repeat purchases.
type Purchase struct {
	ID             uint                `gorm:"primaryKey" json:"-"`
	Email          string              `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Plan           string              `gorm:"size:255;not null" json:"plan"`
	Duration       int                 `gorm:"not null" json:"duration"` // access window in days
	PurchaseDate   time.Time           `json:"purchaseDate"`
	ExpirationDate time.Time           `json:"expirationDate"`
	TransactionID  *string             `gorm:"size:128" json:"transactionId"`
	SaleID         *string             `gorm:"size:128" json:"saleId"`
	Amount         decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"amount"`
	Status         string              `gorm:"size:64" json:"status"` // raw provider status, informational
	Active         bool                `json:"active"`
	CreatedAt      time.Time           `json:"-"`
	UpdatedAt      time.Time           `json:"-"`
}

// PurchaseEvent is the append-only audit row written for every inbound
// notification, approved or not. Only Processed is ever updated.
type PurchaseEvent struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:255;index"`
	PlanDays  int
	EventType string `gorm:"size:32;index"` // purchase_approved, purchase_pending
	EventData []byte // raw webhook payload
	Processed bool
	CreatedAt time.Time
}

// AuthUser is the login principal, created at most once per email. Plan
// metadata is denormalized at creation time and not kept in sync on renewal.
type AuthUser struct {
	ID             string `gorm:"primaryKey;size:36"`
	Email          string `gorm:"size:255;uniqueIndex;not null"`
	FullName       string `gorm:"size:255"`
	PasswordHash   string `gorm:"size:128;not null"`
	Plan           string `gorm:"size:255"`
	Duration       int
	PurchaseDate   time.Time
	ExpirationDate time.Time
	CreatedAt      time.Time
}

type Profile struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	FullName  string `gorm:"size:255"`
	Phone     string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subscription is a historical ledger: one row appended per approved purchase,
// never upserted. Purchase remains the canonical access record.
type Subscription struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;index;not null"`
	PlanDays     int    `gorm:"not null"`
	PurchaseDate time.Time
	ExpiryDate   time.Time
	Status       string `gorm:"size:32;not null"` // active
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
