package domain

import "github.com/shopspring/decimal"

// Customer is a buyer. OutstandingBalance is what the customer owes; LoyaltyPoints always
// equals the BalanceAfter of the customer's latest loyalty transaction.
type Customer struct {
	CustomerID             string          `json:"customerID"`
	Name                   string          `json:"name"`
	Phone                  string          `json:"phone"`
	Email                  string          `json:"email"`
	GSTIN                  string          `json:"gstin"`
	StateCode              string          `json:"stateCode"`
	OutstandingBalance     decimal.Decimal `json:"outstandingBalance"`
	LoyaltyPoints          decimal.Decimal `json:"loyaltyPoints"`
	LifetimePointsEarned   decimal.Decimal `json:"lifetimePointsEarned"`
	LifetimePointsRedeemed decimal.Decimal `json:"lifetimePointsRedeemed"`
	IsActive               bool            `json:"isActive"`
	AuditFields
}

// Supplier is a vendor. OutstandingBalance is what the store owes the supplier.
type Supplier struct {
	SupplierID         string          `json:"supplierID"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	GSTIN              string          `json:"gstin"`
	StateCode          string          `json:"stateCode"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	IsActive           bool            `json:"isActive"`
	AuditFields
}

// PartyType distinguishes customers from suppliers.
type PartyType string

const (
	PartyCustomer PartyType = "CUSTOMER"
	PartySupplier PartyType = "SUPPLIER"
)
