package services

import (
	"context"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
)

// CustomerSvc defines customer master data operations
type CustomerSvc interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	DeactivateCustomer(ctx context.Context, customerID string, userID string) error
}

// SupplierSvc defines supplier master data operations
type SupplierSvc interface {
	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error)
	GetSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error)
	DeactivateSupplier(ctx context.Context, supplierID string, userID string) error
}

// PartySvcFacade combines customer and supplier services
type PartySvcFacade interface {
	CustomerSvc
	SupplierSvc
}
