package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/middleware"
)

// productHandler handles HTTP requests related to products and their stock ledger.
type productHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

func newProductHandler(is portssvc.InventorySvcFacade) *productHandler {
	return &productHandler{inventoryService: is}
}

// registerProductRoutes registers routes related to products.
func registerProductRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newProductHandler(inventoryService)

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:productID", h.getProduct)
		products.PUT("/:productID", h.updateProduct)
		products.DELETE("/:productID", h.deactivateProduct)
		products.POST("/:productID/adjustments", h.adjustStock)
		products.GET("/:productID/ledger", h.listLedger)
		products.GET("/:productID/verify", h.verifyStock)
	}
}

// createProduct godoc
// @Summary Create a new product
// @Description Creates a product master record. A positive opening stock is posted to the stock ledger.
// @Tags products
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Product code already exists"
// @Failure 500 {object} map[string]string "Failed to create product"
// @Security BearerAuth
// @Router /products [post]
func (h *productHandler) createProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProductRequest
	if !bindJSON(c, logger, &req, "CreateProduct") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create product", slog.String("code", req.Code))
	product, err := h.inventoryService.CreateProduct(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "create product")
		return
	}

	logger.Info("Product created successfully", slog.String("product_id", product.ProductID))
	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// listProducts godoc
// @Summary List products
// @Description Lists products ordered by code
// @Tags products
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Param   includeInactive query bool false "Include deactivated products"
// @Success 200 {array} dto.ProductResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list products"
// @Security BearerAuth
// @Router /products [get]
func (h *productHandler) listProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset parameter"})
		return
	}
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))

	products, err := h.inventoryService.ListProducts(c.Request.Context(), limit, offset, includeInactive)
	if err != nil {
		respondWithError(c, logger, err, "list products")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponses(products))
}

// getProduct godoc
// @Summary Get a product by ID
// @Tags products
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to retrieve product"
// @Security BearerAuth
// @Router /products/{productID} [get]
func (h *productHandler) getProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	product, err := h.inventoryService.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("product_id", productID)), err, "retrieve product")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// updateProduct godoc
// @Summary Update a product
// @Description Updates master fields. Stock can only change through the ledger.
// @Tags products
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   product body dto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Product is inactive"
// @Failure 500 {object} map[string]string "Failed to update product"
// @Security BearerAuth
// @Router /products/{productID} [put]
func (h *productHandler) updateProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")
	var req dto.UpdateProductRequest
	if !bindJSON(c, logger, &req, "UpdateProduct") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), productID, req, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("product_id", productID)), err, "update product")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// deactivateProduct godoc
// @Summary Deactivate a product
// @Description Soft-deletes a product. Its ledger history is kept.
// @Tags products
// @Param   productID path string true "Product ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to deactivate product"
// @Security BearerAuth
// @Router /products/{productID} [delete]
func (h *productHandler) deactivateProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	if err := h.inventoryService.DeactivateProduct(c.Request.Context(), productID, userID); err != nil {
		respondWithError(c, logger.With(slog.String("product_id", productID)), err, "deactivate product")
		return
	}
	logger.Info("Product deactivated", slog.String("product_id", productID))
	c.Status(http.StatusNoContent)
}

// adjustStock godoc
// @Summary Adjust stock
// @Description Posts a signed manual stock adjustment to the ledger
// @Tags products
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   adjustment body dto.StockAdjustmentRequest true "Adjustment"
// @Success 201 {object} domain.StockLedgerEntry
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Concurrent update, retry"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Failure 500 {object} map[string]string "Failed to adjust stock"
// @Security BearerAuth
// @Router /products/{productID}/adjustments [post]
func (h *productHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")
	var req dto.StockAdjustmentRequest
	if !bindJSON(c, logger, &req, "AdjustStock") {
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("product_id", productID))
	entry, err := h.inventoryService.AdjustStock(c.Request.Context(), productID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "adjust stock")
		return
	}
	logger.Info("Stock adjusted", slog.String("entry_id", entry.EntryID), slog.String("stock_after", entry.StockAfter.String()))
	c.JSON(http.StatusCreated, entry)
}

// listLedger godoc
// @Summary List stock ledger entries
// @Description Lists a product's ledger entries, newest first, with token pagination
// @Tags products
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListLedgerResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to list ledger"
// @Security BearerAuth
// @Router /products/{productID}/ledger [get]
func (h *productHandler) listLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.inventoryService.ListProductLedger(c.Request.Context(), productID, params)
	if err != nil {
		respondWithError(c, logger.With(slog.String("product_id", productID)), err, "list ledger")
		return
	}
	c.JSON(http.StatusOK, page)
}

// verifyStock godoc
// @Summary Verify stock against the ledger
// @Description Compares the product's current stock with the sum of its ledger deltas
// @Tags products
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.StockVerificationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to verify stock"
// @Security BearerAuth
// @Router /products/{productID}/verify [get]
func (h *productHandler) verifyStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	result, err := h.inventoryService.VerifyStock(c.Request.Context(), productID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("product_id", productID)), err, "verify stock")
		return
	}
	c.JSON(http.StatusOK, result)
}
