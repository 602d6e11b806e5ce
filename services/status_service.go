package services

import (
	"fmt"

	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// StatusService is the single entry point for order and booking status
// changes: it verifies the transition is legal, updates the entity,
// appends the history row in the same transaction and hands the result
// to the notifier. An optional expected "from" status guards against
// lost updates.
type StatusService struct {
	DB       *gorm.DB
	Notifier *NotificationService
}

func NewStatusService(db *gorm.DB, notifier *NotificationService) *StatusService {
	return &StatusService{DB: db, Notifier: notifier}
}

// TransitionOutcome reports the per-id result of a bulk update.
type TransitionOutcome struct {
	ID     uint   `json:"id"`
	OK     bool   `json:"ok"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// TransitionOrder moves an order to a new status.
func (s *StatusService) TransitionOrder(orderID uint, from *string, to string, actorID uint, notes string) (*models.Order, error) {
	var order models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NotFoundError("order not found")
			}
			return err
		}
		return s.ApplyOrderTransition(tx, &order, from, to, actorID, notes)
	})
	if err != nil {
		return nil, err
	}

	s.notifyOrder(&order, actorID)
	return &order, nil
}

// ApplyOrderTransition runs the transition inside an existing
// transaction. Callers that use it directly must dispatch their own
// notification after commit.
func (s *StatusService) ApplyOrderTransition(tx *gorm.DB, order *models.Order, from *string, to string, actorID uint, notes string) error {
	if !models.IsOrderStatus(to) {
		return utils.ValidationError(fmt.Sprintf("unknown order status %q", to))
	}
	if from != nil && order.Status != *from {
		return utils.DomainError(utils.CodeStale,
			fmt.Sprintf("order is %s, not %s", order.Status, *from))
	}
	if !models.CanTransitionOrder(order.Status, to) {
		return utils.DomainError(utils.CodeIllegalTransition,
			fmt.Sprintf("cannot move an order from %s to %s", order.Status, to))
	}

	updates := map[string]interface{}{"status": to}
	if to == models.OrderStatusCancelled {
		// A cancelled order returns to nobody's payable pool.
		updates["paid_by_user_id"] = nil
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.DomainError(utils.CodeStale, "the order changed underneath this request")
	}

	history := models.OrderStatusHistory{
		OrderID:   order.ID,
		OldStatus: order.Status,
		NewStatus: to,
		ChangedBy: actorID,
		Notes:     notes,
	}
	if err := tx.Create(&history).Error; err != nil {
		return err
	}

	order.Status = to
	if to == models.OrderStatusCancelled {
		order.PaidByUserID = nil
	}
	return nil
}

// TransitionBooking moves a booking to a new status.
func (s *StatusService) TransitionBooking(bookingID uint, from *string, to string, actorID uint, notes string) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NotFoundError("booking not found")
			}
			return err
		}
		return s.ApplyBookingTransition(tx, &booking, from, to, actorID, notes)
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(&booking, actorID)
	return &booking, nil
}

// ApplyBookingTransition is the in-transaction variant for bookings.
func (s *StatusService) ApplyBookingTransition(tx *gorm.DB, booking *models.Booking, from *string, to string, actorID uint, notes string) error {
	if !models.IsBookingStatus(to) {
		return utils.ValidationError(fmt.Sprintf("unknown booking status %q", to))
	}
	if from != nil && booking.Status != *from {
		return utils.DomainError(utils.CodeStale,
			fmt.Sprintf("booking is %s, not %s", booking.Status, *from))
	}
	if !models.CanTransitionBooking(booking.Status, to) {
		return utils.DomainError(utils.CodeIllegalTransition,
			fmt.Sprintf("cannot move a booking from %s to %s", booking.Status, to))
	}

	res := tx.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, booking.Status).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.DomainError(utils.CodeStale, "the booking changed underneath this request")
	}

	history := models.BookingStatusHistory{
		BookingID: booking.ID,
		OldStatus: booking.Status,
		NewStatus: to,
		ChangedBy: actorID,
		Notes:     notes,
	}
	if err := tx.Create(&history).Error; err != nil {
		return err
	}

	booking.Status = to
	return nil
}

// BulkTransitionOrders applies one target status to many orders,
// skipping the ones that would be illegal or stale.
func (s *StatusService) BulkTransitionOrders(ids []uint, to string, actorID uint, notes string) []TransitionOutcome {
	outcomes := make([]TransitionOutcome, 0, len(ids))
	for _, id := range ids {
		_, err := s.TransitionOrder(id, nil, to, actorID, notes)
		outcomes = append(outcomes, outcomeFor(id, err))
	}
	return outcomes
}

// BulkTransitionBookings is the booking counterpart.
func (s *StatusService) BulkTransitionBookings(ids []uint, to string, actorID uint, notes string) []TransitionOutcome {
	outcomes := make([]TransitionOutcome, 0, len(ids))
	for _, id := range ids {
		_, err := s.TransitionBooking(id, nil, to, actorID, notes)
		outcomes = append(outcomes, outcomeFor(id, err))
	}
	return outcomes
}

func outcomeFor(id uint, err error) TransitionOutcome {
	if err == nil {
		return TransitionOutcome{ID: id, OK: true}
	}
	if appErr, ok := err.(*utils.AppError); ok {
		return TransitionOutcome{ID: id, Code: appErr.Code, Detail: appErr.Detail}
	}
	return TransitionOutcome{ID: id, Code: utils.CodeInternal, Detail: err.Error()}
}

func (s *StatusService) notifyOrder(order *models.Order, actorID uint) {
	if s.Notifier != nil {
		s.Notifier.NotifyOrderStatus(order, actorID)
	}
}

func (s *StatusService) notifyBooking(booking *models.Booking, actorID uint) {
	if s.Notifier != nil {
		s.Notifier.NotifyBookingStatus(booking, actorID)
	}
}
