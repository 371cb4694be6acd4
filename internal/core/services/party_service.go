package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shopspring/decimal"
)

type partyService struct {
	BaseService
	partyRepo portsrepo.PartyRepositoryFacade
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

// NewPartyService creates the customer and supplier service.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade, options ...ServiceOption) portssvc.PartySvcFacade {
	return &partyService{
		BaseService: newBaseService(nil, options...),
		partyRepo:   partyRepo,
	}
}

func (s *partyService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	customer := domain.Customer{
		CustomerID:             uuid.NewString(),
		Name:                   strings.TrimSpace(req.Name),
		Phone:                  req.Phone,
		Email:                  req.Email,
		GSTIN:                  strings.ToUpper(req.GSTIN),
		StateCode:              req.StateCode,
		OutstandingBalance:     decimal.Zero,
		LoyaltyPoints:          decimal.Zero,
		LifetimePointsEarned:   decimal.Zero,
		LifetimePointsRedeemed: decimal.Zero,
		IsActive:               true,
		AuditFields:            domain.NewAuditFields(userID, s.now()),
	}
	if err := s.partyRepo.SaveCustomer(ctx, customer); err != nil {
		s.LogError(ctx, err, "Failed to save customer", slog.String("name", customer.Name))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	s.LogInfo(ctx, "Customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

func (s *partyService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.partyRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find customer", slog.String("customer_id", customerID))
		}
		return nil, err
	}
	return customer, nil
}

func (s *partyService) DeactivateCustomer(ctx context.Context, customerID string, userID string) error {
	return s.partyRepo.DeactivateCustomer(ctx, customerID, userID, s.now())
}

func (s *partyService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	supplier := domain.Supplier{
		SupplierID:         uuid.NewString(),
		Name:               strings.TrimSpace(req.Name),
		Phone:              req.Phone,
		Email:              req.Email,
		GSTIN:              strings.ToUpper(req.GSTIN),
		StateCode:          req.StateCode,
		OutstandingBalance: decimal.Zero,
		IsActive:           true,
		AuditFields:        domain.NewAuditFields(userID, s.now()),
	}
	if err := s.partyRepo.SaveSupplier(ctx, supplier); err != nil {
		s.LogError(ctx, err, "Failed to save supplier", slog.String("name", supplier.Name))
		return nil, fmt.Errorf("failed to save supplier: %w", err)
	}
	s.LogInfo(ctx, "Supplier created", slog.String("supplier_id", supplier.SupplierID))
	return &supplier, nil
}

func (s *partyService) GetSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	supplier, err := s.partyRepo.FindSupplierByID(ctx, supplierID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find supplier", slog.String("supplier_id", supplierID))
		}
		return nil, err
	}
	return supplier, nil
}

func (s *partyService) DeactivateSupplier(ctx context.Context, supplierID string, userID string) error {
	return s.partyRepo.DeactivateSupplier(ctx, supplierID, userID, s.now())
}
