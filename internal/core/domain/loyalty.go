package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoyaltyTxnType is the kind of loyalty movement.
type LoyaltyTxnType string

const (
	LoyaltyEarn   LoyaltyTxnType = "EARN"
	LoyaltyRedeem LoyaltyTxnType = "REDEEM"
	LoyaltyExpire LoyaltyTxnType = "EXPIRE"
	LoyaltyAdjust LoyaltyTxnType = "ADJUST"
)

// LoyaltyTransaction is an append-only points movement.
// BalanceAfter == previous BalanceAfter + Points.
type LoyaltyTransaction struct {
	LoyaltyTxnID string          `json:"loyaltyTxnID"`
	Sequence     int64           `json:"sequence"`
	CustomerID   string          `json:"customerID"`
	Type         LoyaltyTxnType  `json:"type"`
	Points       decimal.Decimal `json:"points"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	RefDoc       *RefDoc         `json:"refDoc,omitempty"`
	ExpiresAt    *time.Time      `json:"expiresAt,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// LoyaltySummary aggregates a customer's loyalty history, used for expiry.
type LoyaltySummary struct {
	Balance        decimal.Decimal
	ExpiredEarned  decimal.Decimal // earned points whose expiry is at or before the cut-off
	TotalRedeemed  decimal.Decimal // absolute value
	TotalExpired   decimal.Decimal // absolute value
	NegativeAdjust decimal.Decimal // absolute value of negative adjustments
}
