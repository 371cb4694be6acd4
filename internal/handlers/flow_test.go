package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func (c *apiClient) call(method, url string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if out != nil && w.Code < http.StatusMultipleChoices && w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestBillingFlowOverHTTP(t *testing.T) {
	container := services.NewServiceContainer(testConfig(), memory.NewRepositoryProvider(memory.NewStore()))
	api := &apiClient{t: t, router: newRouter(container), token: generateTestToken(t, "cashier-7")}

	var product dto.ProductResponse
	status := api.call(http.MethodPost, "/api/v1/products", gin.H{
		"code": "RICE-5", "name": "Rice 5kg", "purchasePrice": "200", "sellingPrice": "250",
		"mrp": "260", "taxRate": "5", "openingStock": "10",
	}, &product)
	require.Equal(t, http.StatusCreated, status)
	requireDecimal(t, "10", product.CurrentStock)

	var customer domain.Customer
	status = api.call(http.MethodPost, "/api/v1/customers", gin.H{"name": "Meena", "stateCode": "29"}, &customer)
	require.Equal(t, http.StatusCreated, status)

	var created dto.CreateBillResponse
	status = api.call(http.MethodPost, "/api/v1/bills", gin.H{
		"customerID":  customer.CustomerID,
		"paymentMode": "CREDIT",
		"items":       []gin.H{{"productID": product.ProductID, "quantity": "4"}},
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, strings.HasPrefix(created.BillNumber, "BILL-"), created.BillNumber)

	var bill domain.Bill
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/v1/bills/"+created.BillID, nil, &bill))
	requireDecimal(t, "1050", bill.Total) // 4 x 250 + 5% GST
	assert.Equal(t, domain.PaymentPending, bill.PaymentStatus)

	var payment domain.Payment
	status = api.call(http.MethodPost, "/api/v1/bills/"+created.BillID+"/payments", gin.H{"amount": "1050", "mode": "UPI"}, &payment)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, payment.IsFullPayment)

	status = api.call(http.MethodPost, "/api/v1/bills", gin.H{
		"paymentMode": "CASH",
		"items":       []gin.H{{"productID": product.ProductID, "quantity": "7"}},
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status, "only 6 units remain")

	var check dto.StockVerificationResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/v1/products/"+product.ProductID+"/verify", nil, &check))
	assert.True(t, check.Consistent)
	requireDecimal(t, "6", check.CurrentStock)

	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/v1/customers/"+customer.CustomerID, nil, &customer))
	requireDecimal(t, "0", customer.OutstandingBalance)
	requireDecimal(t, "10.5", customer.LoyaltyPoints)
}
