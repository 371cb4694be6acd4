package dto

import (
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EarnPointsRequest accrues points on a bill total at the configured rate.
type EarnPointsRequest struct {
	BillTotal decimal.Decimal `json:"billTotal"`
	Notes     string          `json:"notes" binding:"max=255"`
}

// RedeemPointsRequest spends points.
type RedeemPointsRequest struct {
	Points decimal.Decimal `json:"points"`
	Notes  string          `json:"notes" binding:"max=255"`
}

// AdjustPointsRequest applies a signed manual correction.
type AdjustPointsRequest struct {
	Points decimal.Decimal `json:"points"`
	Reason string          `json:"reason" binding:"required,max=255"`
}

// ExpirePointsRequest expires points whose expiry is at or before AsOf (now when nil).
type ExpirePointsRequest struct {
	AsOf *time.Time `json:"asOf"`
}

// LoyaltyStatementResponse is a customer's balance with one page of history.
type LoyaltyStatementResponse struct {
	CustomerID             string                      `json:"customerID"`
	Points                 decimal.Decimal             `json:"points"`
	LifetimePointsEarned   decimal.Decimal             `json:"lifetimePointsEarned"`
	LifetimePointsRedeemed decimal.Decimal             `json:"lifetimePointsRedeemed"`
	Transactions           []domain.LoyaltyTransaction `json:"transactions"`
	NextToken              *string                     `json:"nextToken,omitempty"`
}
