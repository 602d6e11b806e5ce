package services

import (
	"fmt"
	"time"

	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// PaymentService coordinates the local transaction record with the
// external gateway: charge creation, the pay-for-others claim, pull
// reconciliation and webhook settlement.
type PaymentService struct {
	DB       *gorm.DB
	Gateway  PaymentGateway
	Status   *StatusService
	Notifier *NotificationService
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway, status *StatusService, notifier *NotificationService) *PaymentService {
	return &PaymentService{DB: db, Gateway: gateway, Status: status, Notifier: notifier}
}

// PaymentResponse is the wire shape returned on charge creation.
type PaymentResponse struct {
	OrderID         string    `json:"order_id"`
	TransactionID   string    `json:"transaction_id"`
	GrossAmount     int64     `json:"gross_amount"`
	PaymentType     string    `json:"payment_type"`
	TransactionTime time.Time `json:"transaction_time"`
	ExpiryTime      time.Time `json:"expiry_time"`
	PaymentURL      string    `json:"payment_url"`
	Token           string    `json:"token,omitempty"`
}

// PayForOthersResponse adds the two parties' names.
type PayForOthersResponse struct {
	PaymentResponse
	OrderOwnerName string `json:"order_owner_name"`
	PayerName      string `json:"payer_name"`
}

// PaymentStatusResponse answers a status query.
type PaymentStatusResponse struct {
	Status      string     `json:"status"`
	PaymentTime *time.Time `json:"payment_time,omitempty"`
}

// CreatePayment creates a gateway charge for the caller's own PENDING
// order, persists the transaction record and moves the order to
// PROCESSING.
func (s *PaymentService) CreatePayment(userID uint, orderID string, method string) (*PaymentResponse, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, utils.ForbiddenError("only the order owner can start this payment")
	}
	if order.Status != models.OrderStatusPending {
		return nil, utils.ValidationError(
			fmt.Sprintf("order %s is %s, only PENDING orders can be paid", order.OrderID, order.Status))
	}

	return s.charge(order, userID, method)
}

// PayForOthers lets a non-owner settle a payable order. The claim is a
// conditional update so exactly one concurrent claimant wins; the
// losers get ALREADY_CLAIMED. A failed gateway call releases the
// claim.
func (s *PaymentService) PayForOthers(userID uint, orderID string, method string, note *string) (*PayForOthersResponse, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == userID {
		return nil, utils.ValidationError("use the regular payment endpoint for your own order")
	}

	res := s.DB.Model(&models.Order{}).
		Where("id = ? AND status = ? AND paid_by_user_id IS NULL", order.ID, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"paid_by_user_id": userID,
			"payment_note":    note,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.DomainError(utils.CodeAlreadyClaimed,
			"someone else is already paying for this order")
	}
	order.PaidByUserID = &userID

	payment, err := s.charge(order, userID, method)
	if err != nil {
		// Release the claim so the order returns to the payable pool.
		s.DB.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{"paid_by_user_id": nil, "payment_note": nil})
		return nil, err
	}

	var owner, payer models.User
	s.DB.First(&owner, order.UserID)
	s.DB.First(&payer, userID)

	return &PayForOthersResponse{
		PaymentResponse: *payment,
		OrderOwnerName:  owner.Name,
		PayerName:       payer.Name,
	}, nil
}

// charge calls the gateway, then persists the transaction row and the
// PENDING -> PROCESSING transition in one local transaction.
func (s *PaymentService) charge(order *models.Order, actorID uint, method string) (*PaymentResponse, error) {
	gw, err := s.Gateway.CreateCharge(order.OrderID, order.TotalPrice, method, order.RecipientName, "")
	if err != nil {
		utils.ErrorLogger.Printf("gateway charge failed for order %s: %v", order.OrderID, err)
		return nil, utils.GatewayError("the payment gateway could not be reached")
	}

	now := time.Now()
	trx := models.Transaction{
		TransactionID:   utils.GenerateTransactionID(),
		OrderID:         order.ID,
		GrossAmount:     order.TotalPrice,
		Status:          models.TransactionStatusPending,
		PaymentMethod:   method,
		PaymentURL:      gw.PaymentURL,
		QRString:        gw.QRString,
		Token:           gw.Token,
		TransactionTime: now,
		ExpiryTime:      now.Add(24 * time.Hour),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}
		from := models.OrderStatusPending
		return s.Status.ApplyOrderTransition(tx, order, &from, models.OrderStatusProcessing,
			actorID, "payment initiated")
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyOrderStatus(order, actorID)
	}

	return &PaymentResponse{
		OrderID:         order.OrderID,
		TransactionID:   trx.TransactionID,
		GrossAmount:     trx.GrossAmount,
		PaymentType:     method,
		TransactionTime: trx.TransactionTime,
		ExpiryTime:      trx.ExpiryTime,
		PaymentURL:      trx.PaymentURL,
		Token:           trx.Token,
	}, nil
}

// GetStatus reports the payment state of an order. A still-PENDING
// transaction triggers a pull to the gateway; a terminal answer is
// applied locally before responding.
func (s *PaymentService) GetStatus(userID uint, orderID string) (*PaymentStatusResponse, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && (order.PaidByUserID == nil || *order.PaidByUserID != userID) {
		return nil, utils.ForbiddenError("not your order")
	}

	trx, err := s.latestTransaction(order.ID)
	if err != nil {
		return nil, err
	}

	if trx.Status == models.TransactionStatusPending {
		gatewayStatus, err := s.Gateway.CheckStatus(order.OrderID)
		if err != nil {
			// The local record stays PENDING; push or a later pull
			// will reconcile.
			utils.ErrorLogger.Printf("status pull failed for order %s: %v", order.OrderID, err)
		} else if local := MapGatewayStatus(gatewayStatus); local != models.TransactionStatusPending {
			if err := s.ApplySettlement(trx.ID, local); err != nil {
				return nil, err
			}
			if err := s.DB.First(trx, trx.ID).Error; err != nil {
				return nil, err
			}
		}
	}

	return &PaymentStatusResponse{Status: trx.Status, PaymentTime: trx.PaymentTime}, nil
}

// WebhookPayload is the subset of the gateway notification body the
// push path needs.
type WebhookPayload struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

// HandleNotification applies a webhook delivery. Redelivery after a
// terminal state is a no-op; unknown orders are an error the caller
// logs but still answers 200 to.
func (s *PaymentService) HandleNotification(payload WebhookPayload) error {
	if !s.Gateway.ValidateSignature(payload.OrderID, payload.StatusCode, payload.GrossAmount, payload.SignatureKey) {
		return fmt.Errorf("invalid webhook signature for order %s", payload.OrderID)
	}

	order, err := s.findOrder(payload.OrderID)
	if err != nil {
		return fmt.Errorf("webhook for unknown order %s", payload.OrderID)
	}

	trx, err := s.latestTransaction(order.ID)
	if err != nil {
		return fmt.Errorf("webhook for order %s without transaction", payload.OrderID)
	}

	local := MapGatewayStatus(payload.TransactionStatus)
	if local == models.TransactionStatusPending {
		return nil
	}
	return s.ApplySettlement(trx.ID, local)
}

// ApplySettlement moves a transaction to a terminal state and
// propagates the outcome into the order lifecycle. The terminal write
// is conditional on the row still being PENDING, which makes repeated
// deliveries no-ops.
func (s *PaymentService) ApplySettlement(trxID uint, terminalStatus string) error {
	if terminalStatus != models.TransactionStatusSuccess && terminalStatus != models.TransactionStatusFailed {
		return utils.ValidationError(fmt.Sprintf("%s is not a terminal transaction status", terminalStatus))
	}

	var order models.Order
	settled := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", trxID, models.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":       terminalStatus,
				"payment_time": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already terminal: idempotent no-op.
			return nil
		}
		settled = true

		var trx models.Transaction
		if err := tx.First(&trx, trxID).Error; err != nil {
			return err
		}
		if err := tx.First(&order, trx.OrderID).Error; err != nil {
			return err
		}

		if terminalStatus == models.TransactionStatusSuccess {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("paid_at", now).Error; err != nil {
				return err
			}
			order.PaidAt = &now
			return s.Status.ApplyOrderTransition(tx, &order, nil, models.OrderStatusCompleted,
				0, "gateway settlement")
		}

		// FAILED: cancel the order; the transition clears any
		// pay-for-others claim.
		return s.Status.ApplyOrderTransition(tx, &order, nil, models.OrderStatusCancelled,
			0, "gateway payment failed")
	})
	if err != nil {
		return err
	}

	if settled && s.Notifier != nil {
		s.Notifier.NotifyOrderStatus(&order, 0)
	}
	return nil
}

func (s *PaymentService) findOrder(orderID string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, utils.NotFoundError("order not found")
	}
	return &order, nil
}

func (s *PaymentService) latestTransaction(orderPK uint) (*models.Transaction, error) {
	var trx models.Transaction
	err := s.DB.Where("order_id = ?", orderPK).Order("id DESC").First(&trx).Error
	if err != nil {
		return nil, utils.NotFoundError("no transaction for this order")
	}
	return &trx, nil
}
