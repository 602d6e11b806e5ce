package services

import (
	"fmt"

	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// NotificationService renders the per-status templates, stores an
// in-app notification row and hands the rendered message to the mail
// transport. Mail failures are logged, never propagated: a status
// change must not roll back because an email bounced.
type NotificationService struct {
	DB              *gorm.DB
	Mailer          Mailer
	FrontendBaseURL string
}

func NewNotificationService(db *gorm.DB, mailer Mailer, frontendBaseURL string) *NotificationService {
	return &NotificationService{DB: db, Mailer: mailer, FrontendBaseURL: frontendBaseURL}
}

// Templates keyed by "<kind>:<status>". %s is the entity's
// human-visible id.
var statusTemplates = map[string]struct {
	subject string
	body    string
}{
	"order:PROCESSING": {"Payment started", "Payment for order %s has been initiated. Total: %s."},
	"order:CONFIRMED":  {"Order confirmed", "Order %s has been confirmed and queued for the barista."},
	"order:PREPARING":  {"Order being prepared", "Order %s is being prepared."},
	"order:READY":      {"Order ready", "Order %s is ready for pickup."},
	"order:DELIVERED":  {"Order delivered", "Order %s has been delivered."},
	"order:COMPLETED":  {"Order completed", "Order %s is complete. Total paid: %s. Thank you!"},
	"order:CANCELLED":  {"Order cancelled", "Order %s has been cancelled."},

	"booking:CONFIRM":   {"Booking confirmed", "Booking %s has been confirmed. See you there!"},
	"booking:SUCCESS":   {"Booking completed", "Booking %s is settled and complete."},
	"booking:CANCELLED": {"Booking cancelled", "Booking %s has been cancelled."},
}

// NotifyOrderStatus dispatches the template for the order's current
// status to its owner (and the payer, if someone else pays).
func (n *NotificationService) NotifyOrderStatus(order *models.Order, actorID uint) {
	tpl, ok := statusTemplates["order:"+order.Status]
	if !ok {
		return
	}

	total := utils.FormatCurrencyIDR(order.TotalPrice)
	message := fmt.Sprintf(tpl.body, order.OrderID, total)

	n.deliver(order.UserID, "order_status", tpl.subject, message)
	if order.PaidByUserID != nil && *order.PaidByUserID != order.UserID {
		n.deliver(*order.PaidByUserID, "order_status", tpl.subject, message)
	}
}

// NotifyBookingStatus dispatches the template for the booking's
// current status to its owner.
func (n *NotificationService) NotifyBookingStatus(booking *models.Booking, actorID uint) {
	tpl, ok := statusTemplates["booking:"+booking.Status]
	if !ok {
		return
	}
	message := fmt.Sprintf(tpl.body, booking.BookingID)
	n.deliver(booking.UserID, "booking_status", tpl.subject, message)
}

// SendVerificationEmail mails the account-activation link.
func (n *NotificationService) SendVerificationEmail(user *models.User, token string) {
	link := fmt.Sprintf("%s/verify-email?token=%s", n.FrontendBaseURL, token)
	body := fmt.Sprintf("Hi %s,\n\nplease verify your email address within 24 hours:\n%s\n", user.Name, link)
	n.mail(user.Email, "Verify your email", body)
}

// SendPasswordResetEmail mails the reset link.
func (n *NotificationService) SendPasswordResetEmail(user *models.User, token string) {
	link := fmt.Sprintf("%s/reset-password?token=%s", n.FrontendBaseURL, token)
	body := fmt.Sprintf("Hi %s,\n\na password reset was requested for your account. The link is valid for one hour:\n%s\n\nIgnore this mail if you did not ask for it.\n", user.Name, link)
	n.mail(user.Email, "Reset your password", body)
}

// deliver stores the in-app row and mails the owner of the user id.
func (n *NotificationService) deliver(userID uint, kind, subject, message string) {
	notif := models.Notification{
		UserID:  userID,
		Type:    kind,
		Message: message,
	}
	if err := n.DB.Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("failed to store notification for user %d: %v", userID, err)
	}

	var user models.User
	if err := n.DB.First(&user, userID).Error; err != nil {
		utils.ErrorLogger.Printf("notification recipient %d not found: %v", userID, err)
		return
	}
	n.mail(user.Email, subject, message)
}

func (n *NotificationService) mail(to, subject, body string) {
	if n.Mailer == nil {
		return
	}
	if err := n.Mailer.Send(to, subject, body); err != nil {
		utils.ErrorLogger.Printf("failed to send mail to %s: %v", to, err)
	}
}
