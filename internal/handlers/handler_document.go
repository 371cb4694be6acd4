package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/middleware"
)

// documentHandler handles bills, purchases and returns.
type documentHandler struct {
	billingService portssvc.BillingSvcFacade
}

func newDocumentHandler(bs portssvc.BillingSvcFacade) *documentHandler {
	return &documentHandler{billingService: bs}
}

// registerDocumentRoutes registers the bill, purchase and return routes.
func registerDocumentRoutes(rg *gin.RouterGroup, billingService portssvc.BillingSvcFacade) {
	h := newDocumentHandler(billingService)

	bills := rg.Group("/bills")
	{
		bills.POST("", h.createBill)
		bills.GET("/:billID", h.getBill)
	}

	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.createPurchase)
		purchases.GET("/:purchaseID", h.getPurchase)
	}

	returns := rg.Group("/returns")
	{
		returns.POST("", h.createReturn)
		returns.GET("/:returnID", h.getReturn)
	}
}

// createBill godoc
// @Summary Create a bill
// @Description Sells stock to a customer or walk-in. Stock, numbering, payment, loyalty and outstanding balance commit together or not at all.
// @Tags bills
// @Accept  json
// @Produce  json
// @Param   bill body dto.CreateBillRequest true "Bill details"
// @Success 201 {object} dto.CreateBillResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product or customer not found"
// @Failure 409 {object} map[string]string "Duplicate bill number or concurrent update"
// @Failure 422 {object} map[string]string "Insufficient stock or loyalty points"
// @Failure 500 {object} map[string]string "Failed to create bill"
// @Security BearerAuth
// @Router /bills [post]
func (h *documentHandler) createBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBillRequest
	if !bindJSON(c, logger, &req, "CreateBill") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create bill", slog.Int("line_count", len(req.Items)))
	bill, err := h.billingService.CreateBill(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "create bill")
		return
	}

	logger.Info("Bill created successfully",
		slog.String("bill_id", bill.BillID),
		slog.String("bill_number", bill.BillNumber),
		slog.String("total", bill.Total.String()))
	c.JSON(http.StatusCreated, dto.CreateBillResponse{BillID: bill.BillID, BillNumber: bill.BillNumber})
}

// getBill godoc
// @Summary Get a bill by ID
// @Tags bills
// @Produce  json
// @Param   billID path string true "Bill ID"
// @Success 200 {object} domain.Bill
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Failed to retrieve bill"
// @Security BearerAuth
// @Router /bills/{billID} [get]
func (h *documentHandler) getBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("billID")

	bill, err := h.billingService.GetBillByID(c.Request.Context(), billID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("bill_id", billID)), err, "retrieve bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

// createPurchase godoc
// @Summary Create a purchase
// @Description Receives stock from a supplier and updates the weighted average purchase price
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   purchase body dto.CreatePurchaseRequest true "Purchase details"
// @Success 201 {object} dto.CreatePurchaseResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product or supplier not found"
// @Failure 409 {object} map[string]string "Duplicate purchase number or concurrent update"
// @Failure 500 {object} map[string]string "Failed to create purchase"
// @Security BearerAuth
// @Router /purchases [post]
func (h *documentHandler) createPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePurchaseRequest
	if !bindJSON(c, logger, &req, "CreatePurchase") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	purchase, err := h.billingService.CreatePurchase(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("supplier_id", req.SupplierID)), err, "create purchase")
		return
	}

	logger.Info("Purchase created successfully",
		slog.String("purchase_id", purchase.PurchaseID),
		slog.String("purchase_number", purchase.PurchaseNumber))
	c.JSON(http.StatusCreated, dto.CreatePurchaseResponse{PurchaseID: purchase.PurchaseID, PurchaseNumber: purchase.PurchaseNumber})
}

// getPurchase godoc
// @Summary Get a purchase by ID
// @Tags purchases
// @Produce  json
// @Param   purchaseID path string true "Purchase ID"
// @Success 200 {object} domain.Purchase
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase not found"
// @Failure 500 {object} map[string]string "Failed to retrieve purchase"
// @Security BearerAuth
// @Router /purchases/{purchaseID} [get]
func (h *documentHandler) getPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("purchaseID")

	purchase, err := h.billingService.GetPurchaseByID(c.Request.Context(), purchaseID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("purchase_id", purchaseID)), err, "retrieve purchase")
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// createReturn godoc
// @Summary Create a return
// @Description Returns goods against a bill (SALE_RETURN) or a purchase (PURCHASE_RETURN)
// @Tags returns
// @Accept  json
// @Produce  json
// @Param   return body dto.CreateReturnRequest true "Return details"
// @Success 201 {object} dto.CreateReturnResponse
// @Failure 400 {object} map[string]string "Invalid input format or quantity exceeds what remains returnable"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Original document not found"
// @Failure 409 {object} map[string]string "Concurrent update"
// @Failure 422 {object} map[string]string "Insufficient stock for a purchase return"
// @Failure 500 {object} map[string]string "Failed to create return"
// @Security BearerAuth
// @Router /returns [post]
func (h *documentHandler) createReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReturnRequest
	if !bindJSON(c, logger, &req, "CreateReturn") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("kind", string(req.Kind)), slog.String("original_doc_id", req.OriginalDocID))
	ret, err := h.billingService.CreateReturn(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "create return")
		return
	}

	logger.Info("Return created successfully", slog.String("return_number", ret.ReturnNumber))
	c.JSON(http.StatusCreated, dto.CreateReturnResponse{ReturnID: ret.ReturnID, ReturnNumber: ret.ReturnNumber})
}

// getReturn godoc
// @Summary Get a return by ID
// @Tags returns
// @Produce  json
// @Param   returnID path string true "Return ID"
// @Success 200 {object} domain.Return
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Return not found"
// @Failure 500 {object} map[string]string "Failed to retrieve return"
// @Security BearerAuth
// @Router /returns/{returnID} [get]
func (h *documentHandler) getReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	returnID := c.Param("returnID")

	ret, err := h.billingService.GetReturnByID(c.Request.Context(), returnID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("return_id", returnID)), err, "retrieve return")
		return
	}
	c.JSON(http.StatusOK, ret)
}
