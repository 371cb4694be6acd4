package dto

import (
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReturnItemRequest is one returned line. Rate and tax come from the original document.
type ReturnItemRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateReturnRequest is the command for a sale return or a purchase return.
type CreateReturnRequest struct {
	Kind          domain.ReturnKind   `json:"kind" binding:"required,oneof=SALE_RETURN PURCHASE_RETURN"`
	OriginalDocID string              `json:"originalDocID" binding:"required"`
	ReturnDate    *time.Time          `json:"returnDate"`
	Reason        string              `json:"reason" binding:"max=255"`
	Items         []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateReturnResponse is returned after a return is committed.
type CreateReturnResponse struct {
	ReturnID     string `json:"returnID"`
	ReturnNumber string `json:"returnNumber"`
}
