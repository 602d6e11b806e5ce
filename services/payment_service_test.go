package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// stubGateway records charges and answers with canned values.
type stubGateway struct {
	chargeErr    error
	status       string
	statusErr    error
	validSig     bool
	chargedOrder string
}

func (s *stubGateway) CreateCharge(orderID string, grossAmount int64, method, customerName, customerEmail string) (*GatewayCharge, error) {
	if s.chargeErr != nil {
		return nil, s.chargeErr
	}
	s.chargedOrder = orderID
	return &GatewayCharge{
		GatewayTransactionID: "gw-" + orderID,
		PaymentURL:           "https://pay.example/" + orderID,
		QRString:             "QR",
	}, nil
}

func (s *stubGateway) CheckStatus(orderID string) (string, error) {
	return s.status, s.statusErr
}

func (s *stubGateway) ValidateSignature(orderID, statusCode, grossAmount, signature string) bool {
	return s.validSig
}

func newPaymentService(db *gorm.DB, gw PaymentGateway) *PaymentService {
	status := NewStatusService(db, nil)
	return NewPaymentService(db, gw, status, nil)
}

func TestCreatePaymentMovesOrderToProcessing(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	gw := &stubGateway{validSig: true}
	svc := newPaymentService(db, gw)

	payment, err := svc.CreatePayment(owner.ID, order.OrderID, "qris")
	require.NoError(t, err)

	assert.Equal(t, order.OrderID, payment.OrderID)
	assert.Equal(t, order.OrderID, gw.chargedOrder)
	assert.Equal(t, int64(50000), payment.GrossAmount)
	assert.Regexp(t, `^TRX-[0-9A-F]{8}$`, payment.TransactionID)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusProcessing, reloaded.Status)

	var trx models.Transaction
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&trx).Error)
	assert.Equal(t, models.TransactionStatusPending, trx.Status)
	assert.True(t, trx.ExpiryTime.After(trx.TransactionTime))
}

func TestCreatePaymentOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	svc := newPaymentService(db, &stubGateway{})
	_, err := svc.CreatePayment(stranger.ID, order.OrderID, "qris")
	require.Error(t, err)
}

func TestCreatePaymentRequiresPendingOrder(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	order := seedOrder(t, db, owner.ID, models.OrderStatusCompleted)

	svc := newPaymentService(db, &stubGateway{})
	_, err := svc.CreatePayment(owner.ID, order.OrderID, "qris")
	require.Error(t, err)
}

func TestPayForOthersClaimIsExclusive(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	first := seedUser(t, db, "first")
	second := seedUser(t, db, "second")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	svc := newPaymentService(db, &stubGateway{})

	resp, err := svc.PayForOthers(first.ID, order.OrderID, "qris", nil)
	require.NoError(t, err)
	assert.Equal(t, "owner", resp.OrderOwnerName)
	assert.Equal(t, "first", resp.PayerName)

	// The order is no longer PENDING and already claimed; the second
	// claimant must lose.
	_, err = svc.PayForOthers(second.ID, order.OrderID, "qris", nil)
	assertDomainCode(t, err, utils.CodeAlreadyClaimed)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.NotNil(t, reloaded.PaidByUserID)
	assert.Equal(t, first.ID, *reloaded.PaidByUserID)
}

func TestPayForOthersRejectsOwnOrder(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	svc := newPaymentService(db, &stubGateway{})
	_, err := svc.PayForOthers(owner.ID, order.OrderID, "qris", nil)
	require.Error(t, err)
}

func TestPayForOthersGatewayFailureReleasesClaim(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	payer := seedUser(t, db, "payer")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	svc := newPaymentService(db, &stubGateway{chargeErr: errors.New("gateway down")})

	_, err := svc.PayForOthers(payer.ID, order.OrderID, "qris", nil)
	assertDomainCode(t, err, utils.CodeGatewayUnavailable)

	// The claim must be released so the order returns to the pool.
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Nil(t, reloaded.PaidByUserID)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)
}

func TestWebhookSettlementCompletesOrder(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	gw := &stubGateway{validSig: true}
	svc := newPaymentService(db, gw)
	_, err := svc.CreatePayment(owner.ID, order.OrderID, "qris")
	require.NoError(t, err)

	payload := WebhookPayload{
		OrderID:           order.OrderID,
		TransactionStatus: GatewayStatusSettlement,
		StatusCode:        "200",
		GrossAmount:       "50000.00",
		SignatureKey:      "stubbed",
	}
	require.NoError(t, svc.HandleNotification(payload))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusCompleted, reloaded.Status)
	assert.NotNil(t, reloaded.PaidAt)

	var trx models.Transaction
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&trx).Error)
	assert.Equal(t, models.TransactionStatusSuccess, trx.Status)
	assert.NotNil(t, trx.PaymentTime)
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	svc := newPaymentService(db, &stubGateway{validSig: true})
	_, err := svc.CreatePayment(owner.ID, order.OrderID, "qris")
	require.NoError(t, err)

	payload := WebhookPayload{
		OrderID:           order.OrderID,
		TransactionStatus: GatewayStatusSettlement,
		StatusCode:        "200",
		GrossAmount:       "50000.00",
		SignatureKey:      "stubbed",
	}
	require.NoError(t, svc.HandleNotification(payload))
	require.NoError(t, svc.HandleNotification(payload), "redelivery must be a no-op")

	var histories int64
	db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", order.ID).Count(&histories)
	// PENDING -> PROCESSING, PROCESSING -> COMPLETED; no third row.
	assert.Equal(t, int64(2), histories)
}

func TestWebhookFailureCancelsAndClearsClaim(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	payer := seedUser(t, db, "payer")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	svc := newPaymentService(db, &stubGateway{validSig: true})
	_, err := svc.PayForOthers(payer.ID, order.OrderID, "qris", nil)
	require.NoError(t, err)

	payload := WebhookPayload{
		OrderID:           order.OrderID,
		TransactionStatus: GatewayStatusExpire,
		StatusCode:        "407",
		GrossAmount:       "50000.00",
		SignatureKey:      "stubbed",
	}
	require.NoError(t, svc.HandleNotification(payload))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)
	assert.Nil(t, reloaded.PaidByUserID, "a failed payment frees the claim")
}

func TestWebhookBadSignatureRejected(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	svc := newPaymentService(db, &stubGateway{validSig: false})
	_, err := svc.CreatePayment(owner.ID, order.OrderID, "qris")
	require.NoError(t, err)

	err = svc.HandleNotification(WebhookPayload{
		OrderID:           order.OrderID,
		TransactionStatus: GatewayStatusSettlement,
		SignatureKey:      "forged",
	})
	require.Error(t, err)
}

func TestGetStatusPullsTerminalStateFromGateway(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	gw := &stubGateway{status: GatewayStatusSettlement, validSig: true}
	svc := newPaymentService(db, gw)
	_, err := svc.CreatePayment(owner.ID, order.OrderID, "qris")
	require.NoError(t, err)

	status, err := svc.GetStatus(owner.ID, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSuccess, status.Status)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusCompleted, reloaded.Status)
}

func TestSweepExpiredFailsOverduePendingTransactions(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	svc := newPaymentService(db, &stubGateway{})
	_, err := svc.CreatePayment(owner.ID, order.OrderID, "qris")
	require.NoError(t, err)

	// Backdate the expiry so the sweep sees it as overdue.
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("order_id = ?", order.ID).
		Update("expiry_time", order.OrderedAt.AddDate(0, 0, -1)).Error)

	monitor := NewPaymentMonitor(db, svc)
	monitor.SweepExpired()

	var trx models.Transaction
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&trx).Error)
	assert.Equal(t, models.TransactionStatusFailed, trx.Status)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)
}
