package dto

import (
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to create a product.
// OpeningStock, when positive, is recorded through the stock ledger.
type CreateProductRequest struct {
	Code          string          `json:"code" binding:"required,max=64"`
	Name          string          `json:"name" binding:"required,max=255"`
	Unit          string          `json:"unit" binding:"omitempty,max=16"`
	HSNCode       string          `json:"hsnCode" binding:"omitempty,max=16"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	MRP           decimal.Decimal `json:"mrp"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	OpeningStock  decimal.Decimal `json:"openingStock"`
}

// UpdateProductRequest defines the master fields that may be changed.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=255"`
	Unit          *string          `json:"unit" binding:"omitempty,max=16"`
	HSNCode       *string          `json:"hsnCode" binding:"omitempty,max=16"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	SellingPrice  *decimal.Decimal `json:"sellingPrice"`
	MRP           *decimal.Decimal `json:"mrp"`
	TaxRate       *decimal.Decimal `json:"taxRate"`
}

// StockAdjustmentRequest moves stock outside of any sale or purchase.
type StockAdjustmentRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason" binding:"required,max=255"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID     string          `json:"productID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	HSNCode       string          `json:"hsnCode"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	MRP           decimal.Decimal `json:"mrp"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	CurrentStock  decimal.Decimal `json:"currentStock"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ListLedgerResponse is one page of stock ledger entries.
type ListLedgerResponse struct {
	Entries   []domain.StockLedgerEntry `json:"entries"`
	NextToken *string                   `json:"nextToken,omitempty"`
}

// StockVerificationResponse compares the materialized stock with the ledger.
type StockVerificationResponse struct {
	ProductID    string          `json:"productID"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	LedgerSum    decimal.Decimal `json:"ledgerSum"`
	Consistent   bool            `json:"consistent"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		Code:          p.Code,
		Name:          p.Name,
		Unit:          p.Unit,
		HSNCode:       p.HSNCode,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		MRP:           p.MRP,
		TaxRate:       p.TaxRate,
		CurrentStock:  p.CurrentStock,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ToProductResponses converts a slice of domain.Product to []ProductResponse.
func ToProductResponses(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
