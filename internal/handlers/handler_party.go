package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/middleware"
)

// partyHandler handles customer and supplier master data and the customer loyalty account.
type partyHandler struct {
	partyService   portssvc.PartySvcFacade
	loyaltyService portssvc.LoyaltySvcFacade
}

func newPartyHandler(ps portssvc.PartySvcFacade, ls portssvc.LoyaltySvcFacade) *partyHandler {
	return &partyHandler{partyService: ps, loyaltyService: ls}
}

// registerPartyRoutes registers routes related to customers, suppliers and loyalty.
func registerPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvcFacade, loyaltyService portssvc.LoyaltySvcFacade) {
	h := newPartyHandler(partyService, loyaltyService)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("/:customerID", h.getCustomer)
		customers.DELETE("/:customerID", h.deactivateCustomer)

		loyalty := customers.Group("/:customerID/loyalty")
		loyalty.GET("", h.getLoyaltyStatement)
		loyalty.POST("/earn", h.earnPoints)
		loyalty.POST("/redeem", h.redeemPoints)
		loyalty.POST("/adjust", h.adjustPoints)
		loyalty.POST("/expire", h.expirePoints)
	}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.createSupplier)
		suppliers.GET("/:supplierID", h.getSupplier)
		suppliers.DELETE("/:supplierID", h.deactivateSupplier)
	}
}

// createCustomer godoc
// @Summary Create a customer
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create customer"
// @Security BearerAuth
// @Router /customers [post]
func (h *partyHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCustomerRequest
	if !bindJSON(c, logger, &req, "CreateCustomer") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	customer, err := h.partyService.CreateCustomer(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "create customer")
		return
	}
	logger.Info("Customer created successfully", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusCreated, customer)
}

// getCustomer godoc
// @Summary Get a customer by ID
// @Description Includes the outstanding balance and loyalty point balance
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to retrieve customer"
// @Security BearerAuth
// @Router /customers/{customerID} [get]
func (h *partyHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	customer, err := h.partyService.GetCustomerByID(c.Request.Context(), customerID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("customer_id", customerID)), err, "retrieve customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// deactivateCustomer godoc
// @Summary Deactivate a customer
// @Tags customers
// @Param   customerID path string true "Customer ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to deactivate customer"
// @Security BearerAuth
// @Router /customers/{customerID} [delete]
func (h *partyHandler) deactivateCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	if err := h.partyService.DeactivateCustomer(c.Request.Context(), customerID, userID); err != nil {
		respondWithError(c, logger.With(slog.String("customer_id", customerID)), err, "deactivate customer")
		return
	}
	c.Status(http.StatusNoContent)
}

// createSupplier godoc
// @Summary Create a supplier
// @Tags suppliers
// @Accept  json
// @Produce  json
// @Param   supplier body dto.CreateSupplierRequest true "Supplier details"
// @Success 201 {object} domain.Supplier
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create supplier"
// @Security BearerAuth
// @Router /suppliers [post]
func (h *partyHandler) createSupplier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSupplierRequest
	if !bindJSON(c, logger, &req, "CreateSupplier") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	supplier, err := h.partyService.CreateSupplier(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "create supplier")
		return
	}
	logger.Info("Supplier created successfully", slog.String("supplier_id", supplier.SupplierID))
	c.JSON(http.StatusCreated, supplier)
}

// getSupplier godoc
// @Summary Get a supplier by ID
// @Tags suppliers
// @Produce  json
// @Param   supplierID path string true "Supplier ID"
// @Success 200 {object} domain.Supplier
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Supplier not found"
// @Failure 500 {object} map[string]string "Failed to retrieve supplier"
// @Security BearerAuth
// @Router /suppliers/{supplierID} [get]
func (h *partyHandler) getSupplier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	supplierID := c.Param("supplierID")

	supplier, err := h.partyService.GetSupplierByID(c.Request.Context(), supplierID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("supplier_id", supplierID)), err, "retrieve supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// deactivateSupplier godoc
// @Summary Deactivate a supplier
// @Tags suppliers
// @Param   supplierID path string true "Supplier ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Supplier not found"
// @Failure 500 {object} map[string]string "Failed to deactivate supplier"
// @Security BearerAuth
// @Router /suppliers/{supplierID} [delete]
func (h *partyHandler) deactivateSupplier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	supplierID := c.Param("supplierID")
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	if err := h.partyService.DeactivateSupplier(c.Request.Context(), supplierID, userID); err != nil {
		respondWithError(c, logger.With(slog.String("supplier_id", supplierID)), err, "deactivate supplier")
		return
	}
	c.Status(http.StatusNoContent)
}

// getLoyaltyStatement godoc
// @Summary Get a customer's loyalty statement
// @Description Returns the point balance and a page of loyalty transactions, newest first
// @Tags loyalty
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.LoyaltyStatementResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to retrieve loyalty statement"
// @Security BearerAuth
// @Router /customers/{customerID}/loyalty [get]
func (h *partyHandler) getLoyaltyStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for GetLoyaltyStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	statement, err := h.loyaltyService.GetStatement(c.Request.Context(), customerID, params)
	if err != nil {
		respondWithError(c, logger.With(slog.String("customer_id", customerID)), err, "retrieve loyalty statement")
		return
	}
	c.JSON(http.StatusOK, statement)
}

// earnPoints godoc
// @Summary Earn loyalty points
// @Description Accrues points on a bill total at the configured earn rate
// @Tags loyalty
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   request body dto.EarnPointsRequest true "Bill total"
// @Success 201 {object} domain.LoyaltyTransaction
// @Success 204 "Nothing earned"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to earn points"
// @Security BearerAuth
// @Router /customers/{customerID}/loyalty/earn [post]
func (h *partyHandler) earnPoints(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")
	var req dto.EarnPointsRequest
	if !bindJSON(c, logger, &req, "EarnPoints") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	txn, err := h.loyaltyService.EarnPoints(c.Request.Context(), customerID, req, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("customer_id", customerID)), err, "earn points")
		return
	}
	respondLoyaltyTransaction(c, txn)
}

// redeemPoints godoc
// @Summary Redeem loyalty points
// @Tags loyalty
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   request body dto.RedeemPointsRequest true "Points to redeem"
// @Success 201 {object} domain.LoyaltyTransaction
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 422 {object} map[string]string "Insufficient points"
// @Failure 500 {object} map[string]string "Failed to redeem points"
// @Security BearerAuth
// @Router /customers/{customerID}/loyalty/redeem [post]
func (h *partyHandler) redeemPoints(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")
	var req dto.RedeemPointsRequest
	if !bindJSON(c, logger, &req, "RedeemPoints") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	txn, err := h.loyaltyService.RedeemPoints(c.Request.Context(), customerID, req, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("customer_id", customerID)), err, "redeem points")
		return
	}
	respondLoyaltyTransaction(c, txn)
}

// adjustPoints godoc
// @Summary Adjust loyalty points
// @Description Applies a signed manual correction. The balance may not go negative.
// @Tags loyalty
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   request body dto.AdjustPointsRequest true "Signed adjustment"
// @Success 201 {object} domain.LoyaltyTransaction
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 422 {object} map[string]string "Insufficient points"
// @Failure 500 {object} map[string]string "Failed to adjust points"
// @Security BearerAuth
// @Router /customers/{customerID}/loyalty/adjust [post]
func (h *partyHandler) adjustPoints(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")
	var req dto.AdjustPointsRequest
	if !bindJSON(c, logger, &req, "AdjustPoints") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	txn, err := h.loyaltyService.AdjustPoints(c.Request.Context(), customerID, req, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("customer_id", customerID)), err, "adjust points")
		return
	}
	respondLoyaltyTransaction(c, txn)
}

// expirePoints godoc
// @Summary Expire loyalty points
// @Description Expires earned points that are past their expiry date and still unspent
// @Tags loyalty
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   request body dto.ExpirePointsRequest false "Cut-off, defaults to now"
// @Success 201 {object} domain.LoyaltyTransaction
// @Success 204 "Nothing to expire"
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to expire points"
// @Security BearerAuth
// @Router /customers/{customerID}/loyalty/expire [post]
func (h *partyHandler) expirePoints(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")
	var req dto.ExpirePointsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, logger, &req, "ExpirePoints") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	txn, err := h.loyaltyService.ExpirePoints(c.Request.Context(), customerID, req, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("customer_id", customerID)), err, "expire points")
		return
	}
	respondLoyaltyTransaction(c, txn)
}
