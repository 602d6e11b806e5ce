package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/coffee-shop-app/models"
	"gorm.io/gorm"
)

func seedPendingOrder(t *testing.T, db *gorm.DB, orderID string, userID uint) *models.Order {
	t.Helper()
	order := models.Order{
		OrderID:        orderID,
		UserID:         userID,
		Status:         models.OrderStatusPending,
		TotalPrice:     50000,
		DeliveryMethod: models.DeliveryMethodPickup,
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func TestCreatePaymentEndpoint(t *testing.T) {
	db, engine, _ := setupApp(t)
	owner, token := createUser(t, db, "owner", models.RoleUser)
	seedPendingOrder(t, db, "ORD-PAY00001", owner.ID)

	w := doJSON(t, engine, "POST", "/api/v1/payments/create", token, map[string]interface{}{
		"order_id":       "ORD-PAY00001",
		"payment_method": "qris",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "ORD-PAY00001", data["order_id"])
	assert.Equal(t, "https://pay.example/ORD-PAY00001", data["payment_url"])
	assert.Regexp(t, `^TRX-[0-9A-F]{8}$`, data["transaction_id"])

	var reloaded models.Order
	require.NoError(t, db.Where("order_id = ?", "ORD-PAY00001").First(&reloaded).Error)
	assert.Equal(t, models.OrderStatusProcessing, reloaded.Status)
}

func TestCreatePaymentForeignOrderRejected(t *testing.T) {
	db, engine, _ := setupApp(t)
	owner, _ := createUser(t, db, "owner", models.RoleUser)
	_, strangerToken := createUser(t, db, "stranger", models.RoleUser)
	seedPendingOrder(t, db, "ORD-PAY00002", owner.ID)

	w := doJSON(t, engine, "POST", "/api/v1/payments/create", strangerToken, map[string]interface{}{
		"order_id":       "ORD-PAY00002",
		"payment_method": "qris",
	})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestPayForOthersEndpoint(t *testing.T) {
	db, engine, _ := setupApp(t)
	owner, _ := createUser(t, db, "owner", models.RoleUser)
	payer, payerToken := createUser(t, db, "payer", models.RoleUser)
	seedPendingOrder(t, db, "ORD-TREAT001", owner.ID)

	w := doJSON(t, engine, "POST", "/api/v1/payments/pay-for-others", payerToken, map[string]interface{}{
		"order_id":       "ORD-TREAT001",
		"payment_method": "qris",
		"note":           "my treat",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "owner", data["order_owner_name"])
	assert.Equal(t, "payer", data["payer_name"])

	var reloaded models.Order
	require.NoError(t, db.Where("order_id = ?", "ORD-TREAT001").First(&reloaded).Error)
	require.NotNil(t, reloaded.PaidByUserID)
	assert.Equal(t, payer.ID, *reloaded.PaidByUserID)
}

func TestWebhookSettlementEndpoint(t *testing.T) {
	db, engine, _ := setupApp(t)
	owner, token := createUser(t, db, "owner", models.RoleUser)
	seedPendingOrder(t, db, "ORD-HOOK0001", owner.ID)

	w := doJSON(t, engine, "POST", "/api/v1/payments/create", token, map[string]interface{}{
		"order_id":       "ORD-HOOK0001",
		"payment_method": "qris",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, engine, "POST", "/api/v1/payments/notification", "", map[string]interface{}{
		"order_id":           "ORD-HOOK0001",
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "50000.00",
		"signature_key":      "stubbed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", decodeBody(t, w)["status"])

	var reloaded models.Order
	require.NoError(t, db.Where("order_id = ?", "ORD-HOOK0001").First(&reloaded).Error)
	assert.Equal(t, models.OrderStatusCompleted, reloaded.Status)
}

func TestWebhookAlwaysAnswers200(t *testing.T) {
	_, engine, _ := setupApp(t)

	// Unknown order: the body reports the problem but the HTTP status
	// stays 200 so the gateway stops retrying.
	w := doJSON(t, engine, "POST", "/api/v1/payments/notification", "", map[string]interface{}{
		"order_id":           "ORD-NOSUCH01",
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "1.00",
		"signature_key":      "stubbed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ERROR", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestWebhookBadSignatureEndpoint(t *testing.T) {
	db, engine, gateway := setupApp(t)
	owner, token := createUser(t, db, "owner", models.RoleUser)
	seedPendingOrder(t, db, "ORD-HOOK0002", owner.ID)

	w := doJSON(t, engine, "POST", "/api/v1/payments/create", token, map[string]interface{}{
		"order_id":       "ORD-HOOK0002",
		"payment_method": "qris",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	gateway.validSig = false
	w = doJSON(t, engine, "POST", "/api/v1/payments/notification", "", map[string]interface{}{
		"order_id":           "ORD-HOOK0002",
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "50000.00",
		"signature_key":      "forged",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ERROR", decodeBody(t, w)["status"])

	var reloaded models.Order
	require.NoError(t, db.Where("order_id = ?", "ORD-HOOK0002").First(&reloaded).Error)
	assert.Equal(t, models.OrderStatusProcessing, reloaded.Status)
}

func TestPaymentStatusEndpoint(t *testing.T) {
	db, engine, gateway := setupApp(t)
	owner, token := createUser(t, db, "owner", models.RoleUser)
	seedPendingOrder(t, db, "ORD-STAT0001", owner.ID)

	w := doJSON(t, engine, "POST", "/api/v1/payments/create", token, map[string]interface{}{
		"order_id":       "ORD-STAT0001",
		"payment_method": "qris",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	gateway.status = "settlement"
	w = doJSON(t, engine, "GET", "/api/v1/payments/ORD-STAT0001/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, models.TransactionStatusSuccess, data["status"])
}
