package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/services"
	"github.com/yeremiapane/coffee-shop-app/utils"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

// CreatePayment starts a gateway charge for the caller's own order.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var input struct {
		OrderID       string `json:"order_id" binding:"required"`
		PaymentMethod string `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.Payments.CreatePayment(currentUserID(c), input.OrderID, input.PaymentMethod)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment created", payment)
}

// PayForOthers starts a charge for somebody else's unclaimed order.
func (pc *PaymentController) PayForOthers(c *gin.Context) {
	var input struct {
		OrderID       string  `json:"order_id" binding:"required"`
		PaymentMethod string  `json:"payment_method" binding:"required"`
		Note          *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.Payments.PayForOthers(currentUserID(c), input.OrderID, input.PaymentMethod, input.Note)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment created", payment)
}

// GetStatus answers a payment status query for the owner or the payer.
func (pc *PaymentController) GetStatus(c *gin.Context) {
	status, err := pc.Payments.GetStatus(currentUserID(c), c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment status", status)
}

// HandleNotification is the gateway webhook. The gateway only wants to
// know the delivery arrived, so the handler answers 200 even when the
// payload cannot be applied.
func (pc *PaymentController) HandleNotification(c *gin.Context) {
	var payload services.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.ErrorLogger.Printf("unreadable webhook payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "ERROR", "message": "unreadable payload"})
		return
	}

	if err := pc.Payments.HandleNotification(payload); err != nil {
		utils.ErrorLogger.Printf("webhook rejected: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "ERROR", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
