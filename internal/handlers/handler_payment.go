package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/middleware"
)

// paymentHandler records payments against bills, purchases and party accounts.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers the payment routes. The target comes from the path.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	rg.GET("/payments/:paymentID", h.getPayment)

	rg.POST("/bills/:billID/payments", h.recordBillPayment)
	rg.GET("/bills/:billID/payments", h.listBillPayments)

	rg.POST("/purchases/:purchaseID/payments", h.recordPurchasePayment)
	rg.GET("/purchases/:purchaseID/payments", h.listPurchasePayments)

	rg.POST("/customers/:customerID/payments", h.recordCustomerPayment)
	rg.POST("/suppliers/:supplierID/payments", h.recordSupplierPayment)
}

// recordBillPayment godoc
// @Summary Record a payment against a bill
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   billID path string true "Bill ID"
// @Param   payment body dto.PaymentInput true "Payment details"
// @Success 201 {object} domain.Payment
// @Failure 400 {object} map[string]string "Invalid input or amount exceeds the balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 409 {object} map[string]string "Concurrent update"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /bills/{billID}/payments [post]
func (h *paymentHandler) recordBillPayment(c *gin.Context) {
	h.record(c, domain.TargetBill, c.Param("billID"), "")
}

// recordPurchasePayment godoc
// @Summary Record a payment against a purchase
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   purchaseID path string true "Purchase ID"
// @Param   payment body dto.PaymentInput true "Payment details"
// @Success 201 {object} domain.Payment
// @Failure 400 {object} map[string]string "Invalid input or amount exceeds the balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase not found"
// @Failure 409 {object} map[string]string "Concurrent update"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /purchases/{purchaseID}/payments [post]
func (h *paymentHandler) recordPurchasePayment(c *gin.Context) {
	h.record(c, domain.TargetPurchase, c.Param("purchaseID"), "")
}

// recordCustomerPayment godoc
// @Summary Record an on-account payment from a customer
// @Description Reduces the customer's outstanding balance without settling a specific bill
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   payment body dto.PaymentInput true "Payment details"
// @Success 201 {object} domain.Payment
// @Failure 400 {object} map[string]string "Invalid input or amount exceeds the outstanding balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /customers/{customerID}/payments [post]
func (h *paymentHandler) recordCustomerPayment(c *gin.Context) {
	h.record(c, domain.TargetAccount, c.Param("customerID"), domain.PartyCustomer)
}

// recordSupplierPayment godoc
// @Summary Record an on-account payment to a supplier
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   supplierID path string true "Supplier ID"
// @Param   payment body dto.PaymentInput true "Payment details"
// @Success 201 {object} domain.Payment
// @Failure 400 {object} map[string]string "Invalid input or amount exceeds the outstanding balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Supplier not found"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /suppliers/{supplierID}/payments [post]
func (h *paymentHandler) recordSupplierPayment(c *gin.Context) {
	h.record(c, domain.TargetAccount, c.Param("supplierID"), domain.PartySupplier)
}

func (h *paymentHandler) record(c *gin.Context, targetType domain.PaymentTargetType, targetID string, partyType domain.PartyType) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("target_type", string(targetType)),
		slog.String("target_id", targetID))

	var body dto.PaymentInput
	if !bindJSON(c, logger, &body, "RecordPayment") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), body.ToRecordPaymentRequest(targetType, targetID, partyType), userID)
	if err != nil {
		respondWithError(c, logger, err, "record payment")
		return
	}

	logger.Info("Payment recorded successfully",
		slog.String("payment_number", payment.PaymentNumber),
		slog.String("amount", payment.Amount.String()),
		slog.String("remaining_balance", payment.RemainingBalance.String()))
	c.JSON(http.StatusCreated, payment)
}

// listBillPayments godoc
// @Summary List payments for a bill
// @Tags payments
// @Produce  json
// @Param   billID path string true "Bill ID"
// @Success 200 {array} domain.Payment
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /bills/{billID}/payments [get]
func (h *paymentHandler) listBillPayments(c *gin.Context) {
	h.list(c, domain.TargetBill, c.Param("billID"))
}

// listPurchasePayments godoc
// @Summary List payments for a purchase
// @Tags payments
// @Produce  json
// @Param   purchaseID path string true "Purchase ID"
// @Success 200 {array} domain.Payment
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /purchases/{purchaseID}/payments [get]
func (h *paymentHandler) listPurchasePayments(c *gin.Context) {
	h.list(c, domain.TargetPurchase, c.Param("purchaseID"))
}

func (h *paymentHandler) list(c *gin.Context, targetType domain.PaymentTargetType, targetID string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payments, err := h.paymentService.ListPayments(c.Request.Context(), targetType, targetID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("target_id", targetID)), err, "list payments")
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	c.JSON(http.StatusOK, payments)
}

// getPayment godoc
// @Summary Get a payment by ID
// @Tags payments
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payment"
// @Security BearerAuth
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), paymentID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("payment_id", paymentID)), err, "retrieve payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}
