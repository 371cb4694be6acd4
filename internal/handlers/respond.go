package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/middleware"
)

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientStock), errors.Is(err, apperrors.ErrInsufficientPoints):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrConcurrencyConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes the error body for err. Server errors are logged and hidden behind
// "Failed to <action>".
func respondWithError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action})
		return
	}

	logger.Warn("Request rejected", slog.String("action", action), slog.Int("status", status), slog.String("error", err.Error()))
	body := gin.H{"error": err.Error()}

	var stockErr *apperrors.InsufficientStockError
	var pointsErr *apperrors.InsufficientPointsError
	switch {
	case errors.As(err, &stockErr):
		body["productID"] = stockErr.ProductID
		body["available"] = stockErr.Available
		body["requested"] = stockErr.Requested
	case errors.As(err, &pointsErr):
		body["available"] = pointsErr.Available
		body["requested"] = pointsErr.Requested
	}
	c.JSON(status, body)
}

// bindJSON binds the body into req and answers 400 on failure.
func bindJSON(c *gin.Context, logger *slog.Logger, req any, action string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind JSON for "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

// actingUser returns the authenticated user id or answers 401.
func actingUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// respondLoyaltyTransaction answers 204 when the operation posted nothing.
func respondLoyaltyTransaction(c *gin.Context, txn *domain.LoyaltyTransaction) {
	if txn == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, txn)
}
