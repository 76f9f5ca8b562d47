package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Envelope is the small JSON shape the payment provider and the app see on
// every response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type VerifyRequest struct {
	Email string `json:"email"`
}

type VerifyData struct {
	Email          string              `json:"email"`
	Plan           string              `json:"plan"`
	Duration       int                 `json:"duration"`
	PurchaseDate   time.Time           `json:"purchaseDate"`
	ExpirationDate time.Time           `json:"expirationDate"`
	Active         bool                `json:"active"`
	Status         string              `json:"status"`
	Amount         decimal.NullDecimal `json:"amount"`
	DaysRemaining  int                 `json:"daysRemaining"`
}

type ForceRegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Plan     string `json:"plan"`
	Duration int    `json:"duration"`
}

type SimulateRequest struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

type DeleteUserRequest struct {
	Email string `json:"email"`
}
