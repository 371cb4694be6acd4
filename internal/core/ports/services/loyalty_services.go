package services

import (
	"context"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
)

// LoyaltyWriterSvc moves loyalty points.
type LoyaltyWriterSvc interface {
	EarnPoints(ctx context.Context, customerID string, req dto.EarnPointsRequest, userID string) (*domain.LoyaltyTransaction, error)
	// RedeemPoints fails with *apperrors.InsufficientPointsError when the customer holds fewer points.
	RedeemPoints(ctx context.Context, customerID string, req dto.RedeemPointsRequest, userID string) (*domain.LoyaltyTransaction, error)
	AdjustPoints(ctx context.Context, customerID string, req dto.AdjustPointsRequest, userID string) (*domain.LoyaltyTransaction, error)
	// ExpirePoints returns nil when there is nothing to expire.
	ExpirePoints(ctx context.Context, customerID string, req dto.ExpirePointsRequest, userID string) (*domain.LoyaltyTransaction, error)
}

// LoyaltyReaderSvc defines read operations for loyalty history
type LoyaltyReaderSvc interface {
	GetStatement(ctx context.Context, customerID string, params dto.ListParams) (*dto.LoyaltyStatementResponse, error)
}

// LoyaltySvcFacade combines the loyalty interfaces
type LoyaltySvcFacade interface {
	LoyaltyWriterSvc
	LoyaltyReaderSvc
}
