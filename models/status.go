package models

// Order statuses. The uppercase names are the wire contract; they are
// stored and serialised verbatim.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusPreparing  = "PREPARING"
	OrderStatusReady      = "READY"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

// Booking statuses.
const (
	BookingStatusNoConfirm = "NOCONFIRM"
	BookingStatusConfirm   = "CONFIRM"
	BookingStatusSuccess   = "SUCCESS"
	BookingStatusCancelled = "CANCELLED"
)

// Transaction statuses.
const (
	TransactionStatusPending = "PENDING"
	TransactionStatusSuccess = "SUCCESS"
	TransactionStatusFailed  = "FAILED"
)

var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusCompleted},
	OrderStatusConfirmed:  {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:  {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:      {OrderStatusDelivered, OrderStatusCompleted},
	OrderStatusDelivered:  {OrderStatusCompleted},
}

var bookingTransitions = map[string][]string{
	BookingStatusNoConfirm: {BookingStatusConfirm, BookingStatusCancelled},
	BookingStatusConfirm:   {BookingStatusSuccess, BookingStatusCancelled},
}

// CanTransitionOrder reports whether from -> to is a legal order
// status change.
func CanTransitionOrder(from, to string) bool {
	return contains(orderTransitions[from], to)
}

// CanTransitionBooking reports whether from -> to is a legal booking
// status change.
func CanTransitionBooking(from, to string) bool {
	return contains(bookingTransitions[from], to)
}

// IsOrderStatus reports whether s is one of the known order statuses.
func IsOrderStatus(s string) bool {
	if s == OrderStatusCompleted || s == OrderStatusCancelled {
		return true
	}
	_, ok := orderTransitions[s]
	return ok
}

// IsBookingStatus reports whether s is one of the known booking
// statuses.
func IsBookingStatus(s string) bool {
	if s == BookingStatusSuccess || s == BookingStatusCancelled {
		return true
	}
	_, ok := bookingTransitions[s]
	return ok
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
