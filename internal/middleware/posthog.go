package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/utils"
)

// businessEvents names the committed operations worth reporting, keyed by method and route.
var businessEvents = map[string]string{
	"POST /api/v1/products":                             "product_created",
	"PUT /api/v1/products/:productID":                   "product_updated",
	"DELETE /api/v1/products/:productID":                "product_deactivated",
	"POST /api/v1/products/:productID/adjustments":      "stock_adjusted",
	"POST /api/v1/customers":                            "customer_created",
	"POST /api/v1/suppliers":                            "supplier_created",
	"POST /api/v1/bills":                                "bill_created",
	"POST /api/v1/purchases":                            "purchase_created",
	"POST /api/v1/returns":                              "return_created",
	"POST /api/v1/bills/:billID/payments":               "payment_recorded",
	"POST /api/v1/purchases/:purchaseID/payments":       "payment_recorded",
	"POST /api/v1/customers/:customerID/payments":       "payment_recorded",
	"POST /api/v1/suppliers/:supplierID/payments":       "payment_recorded",
	"POST /api/v1/customers/:customerID/loyalty/earn":   "loyalty_points_earned",
	"POST /api/v1/customers/:customerID/loyalty/redeem": "loyalty_points_redeemed",
	"POST /api/v1/customers/:customerID/loyalty/adjust": "loyalty_points_adjusted",
	"POST /api/v1/customers/:customerID/loyalty/expire": "loyalty_points_expired",
}

// businessEventName returns the event for a request, or "" when it is not tracked.
func businessEventName(method, fullPath string) string {
	return businessEvents[method+" "+fullPath]
}

// PosthogMiddleware creates a Gin middleware handler that reports successful write
// operations (bill created, payment recorded, ...) to PostHog. Reads are not tracked.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		event := businessEventName(c.Request.Method, c.FullPath())
		if event == "" {
			return
		}

		// Set by the auth middleware
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		props := map[string]any{
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		if requestID := c.Writer.Header().Get("X-Request-ID"); requestID != "" {
			props["request_id"] = requestID
		}
		for _, param := range c.Params {
			props[param.Key] = param.Value
		}

		posthogClient.Enqueue(userID, event, props)
	}
}
