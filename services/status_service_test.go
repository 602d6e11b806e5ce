package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, userID uint, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderID:        utils.GenerateOrderID(),
		UserID:         userID,
		Status:         status,
		TotalPrice:     50000,
		OrderedAt:      time.Now(),
		DeliveryMethod: models.DeliveryMethodPickup,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestOrderIllegalTransitionWritesNothing(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "staff")
	order := seedOrder(t, db, user.ID, models.OrderStatusPending)

	svc := NewStatusService(db, nil)
	_, err := svc.TransitionOrder(order.ID, nil, models.OrderStatusReady, user.ID, "")
	assertDomainCode(t, err, utils.CodeIllegalTransition)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)

	var histories int64
	db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", order.ID).Count(&histories)
	assert.Zero(t, histories, "a rejected transition leaves no history row")
}

func TestOrderFullLifecycleAppendsHistory(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "staff")
	order := seedOrder(t, db, user.ID, models.OrderStatusPending)

	svc := NewStatusService(db, nil)
	chain := []string{
		models.OrderStatusProcessing,
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusDelivered,
		models.OrderStatusCompleted,
	}
	for _, next := range chain {
		_, err := svc.TransitionOrder(order.ID, nil, next, user.ID, "step")
		require.NoError(t, err, "transition to %s", next)
	}

	var history []models.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", order.ID).
		Order("created_at ASC").Find(&history).Error)
	require.Len(t, history, len(chain))
	assert.Equal(t, models.OrderStatusPending, history[0].OldStatus)
	assert.Equal(t, models.OrderStatusCompleted, history[len(history)-1].NewStatus)
	for _, h := range history {
		assert.Equal(t, user.ID, h.ChangedBy)
	}
}

func TestOrderFromGuardRejectsStaleUpdate(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "staff")
	order := seedOrder(t, db, user.ID, models.OrderStatusProcessing)

	from := models.OrderStatusPending
	svc := NewStatusService(db, nil)
	_, err := svc.TransitionOrder(order.ID, &from, models.OrderStatusCancelled, user.ID, "")
	assertDomainCode(t, err, utils.CodeStale)
}

func TestOrderCancellationClearsClaim(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	payer := seedUser(t, db, "payer")

	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)
	require.NoError(t, db.Model(order).Update("paid_by_user_id", payer.ID).Error)

	svc := NewStatusService(db, nil)
	updated, err := svc.TransitionOrder(order.ID, nil, models.OrderStatusCancelled, owner.ID, "")
	require.NoError(t, err)
	assert.Nil(t, updated.PaidByUserID)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Nil(t, reloaded.PaidByUserID)
}

func TestOrderUnknownStatusRejected(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "staff")
	order := seedOrder(t, db, user.ID, models.OrderStatusPending)

	svc := NewStatusService(db, nil)
	_, err := svc.TransitionOrder(order.ID, nil, "SHIPPED", user.ID, "")
	require.Error(t, err)
}

func TestBookingLifecycleAndTerminality(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "staff")
	shop, _ := seedShop(t, db, nil)

	booking := &models.Booking{
		BookingID:   utils.GenerateBookingID(eveningOf()),
		ShopID:      shop.ID,
		UserID:      user.ID,
		BookingDate: eveningOf(),
		GuestCount:  2,
		Status:      models.BookingStatusNoConfirm,
	}
	require.NoError(t, db.Create(booking).Error)

	svc := NewStatusService(db, nil)

	_, err := svc.TransitionBooking(booking.ID, nil, models.BookingStatusSuccess, user.ID, "")
	assertDomainCode(t, err, utils.CodeIllegalTransition)

	_, err = svc.TransitionBooking(booking.ID, nil, models.BookingStatusConfirm, user.ID, "")
	require.NoError(t, err)
	_, err = svc.TransitionBooking(booking.ID, nil, models.BookingStatusSuccess, user.ID, "")
	require.NoError(t, err)

	// SUCCESS is terminal.
	_, err = svc.TransitionBooking(booking.ID, nil, models.BookingStatusCancelled, user.ID, "")
	assertDomainCode(t, err, utils.CodeIllegalTransition)

	var histories int64
	db.Model(&models.BookingStatusHistory{}).Where("booking_id = ?", booking.ID).Count(&histories)
	assert.Equal(t, int64(2), histories)
}

func TestBulkTransitionReportsPerIDOutcomes(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "staff")

	pending := seedOrder(t, db, user.ID, models.OrderStatusPending)
	completed := seedOrder(t, db, user.ID, models.OrderStatusCompleted)

	svc := NewStatusService(db, nil)
	outcomes := svc.BulkTransitionOrders([]uint{pending.ID, completed.ID, 9999},
		models.OrderStatusProcessing, user.ID, "bulk")

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].OK)
	assert.False(t, outcomes[1].OK)
	assert.Equal(t, utils.CodeIllegalTransition, outcomes[1].Code)
	assert.False(t, outcomes[2].OK)
	assert.Equal(t, utils.CodeNotFound, outcomes[2].Code)
}
