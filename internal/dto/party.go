package dto

// CreateCustomerRequest defines the data needed to create a customer.
type CreateCustomerRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
	Email     string `json:"email" binding:"omitempty,email"`
	GSTIN     string `json:"gstin" binding:"omitempty,len=15"`
	StateCode string `json:"stateCode" binding:"omitempty,max=4"`
}

// CreateSupplierRequest defines the data needed to create a supplier.
type CreateSupplierRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
	Email     string `json:"email" binding:"omitempty,email"`
	GSTIN     string `json:"gstin" binding:"omitempty,len=15"`
	StateCode string `json:"stateCode" binding:"omitempty,max=4"`
}
