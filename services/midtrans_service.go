package services

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/yeremiapane/coffee-shop-app/config"
	"github.com/yeremiapane/coffee-shop-app/models"
)

// Gateway-side transaction_status values and their local mapping.
// settlement/capture settle the transaction; expire/cancel/deny and
// friends fail it; everything else stays pending.
const (
	GatewayStatusSettlement = "settlement"
	GatewayStatusCapture    = "capture"
	GatewayStatusPending    = "pending"
	GatewayStatusExpire     = "expire"
	GatewayStatusCancel     = "cancel"
	GatewayStatusDeny       = "deny"
)

// GatewayCharge is what the adapter hands back after creating a
// charge.
type GatewayCharge struct {
	GatewayTransactionID string
	PaymentURL           string
	QRString             string
	Token                string
}

// PaymentGateway abstracts the external payment provider so the
// payment service can be exercised against a stub.
type PaymentGateway interface {
	CreateCharge(orderID string, grossAmount int64, method, customerName, customerEmail string) (*GatewayCharge, error)
	// CheckStatus returns the gateway's raw transaction_status for an
	// order id.
	CheckStatus(orderID string) (string, error)
	ValidateSignature(orderID, statusCode, grossAmount, signature string) bool
}

// MidtransGateway talks to Midtrans through the official core API
// client.
type MidtransGateway struct {
	core      coreapi.Client
	serverKey string
}

func NewMidtransGateway(cfg *config.Config) *MidtransGateway {
	env := midtrans.Sandbox
	if cfg.MidtransProduction {
		env = midtrans.Production
	}

	g := &MidtransGateway{serverKey: cfg.MidtransServerKey}
	g.core.New(cfg.MidtransServerKey, env)
	return g
}

func chargePaymentType(method string) coreapi.CoreapiPaymentType {
	switch method {
	case "gopay":
		return coreapi.PaymentTypeGopay
	case "shopeepay":
		return coreapi.PaymentTypeShopeepay
	case "bank_transfer":
		return coreapi.PaymentTypeBankTransfer
	default:
		return coreapi.PaymentTypeQris
	}
}

func (g *MidtransGateway) CreateCharge(orderID string, grossAmount int64, method, customerName, customerEmail string) (*GatewayCharge, error) {
	req := &coreapi.ChargeReq{
		PaymentType: chargePaymentType(method),
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmount,
		},
		CustomerDetails: &midtrans.CustomerDetails{
			FName: customerName,
			Email: customerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderID,
				Price: grossAmount,
				Qty:   1,
				Name:  "Coffee order",
			},
		},
	}
	if req.PaymentType == coreapi.PaymentTypeBankTransfer {
		req.BankTransfer = &coreapi.BankTransferDetails{Bank: midtrans.BankBca}
	}

	resp, mErr := g.core.ChargeTransaction(req)
	if mErr != nil {
		return nil, fmt.Errorf("midtrans charge: %w", mErr)
	}

	charge := &GatewayCharge{
		GatewayTransactionID: resp.TransactionID,
		QRString:             resp.QRString,
	}
	for _, action := range resp.Actions {
		switch action.Name {
		case "deeplink-redirect":
			charge.PaymentURL = action.URL
		case "generate-qr-code":
			if charge.PaymentURL == "" {
				charge.PaymentURL = action.URL
			}
		}
	}
	return charge, nil
}

func (g *MidtransGateway) CheckStatus(orderID string) (string, error) {
	resp, mErr := g.core.CheckTransaction(orderID)
	if mErr != nil {
		return "", fmt.Errorf("midtrans status check: %w", mErr)
	}
	return resp.TransactionStatus, nil
}

// ValidateSignature checks the sha512 webhook signature per the
// Midtrans documentation: sha512(order_id + status_code +
// gross_amount + server_key).
func (g *MidtransGateway) ValidateSignature(orderID, statusCode, grossAmount, signature string) bool {
	h := sha512.New()
	h.Write([]byte(orderID + statusCode + grossAmount + g.serverKey))
	return hex.EncodeToString(h.Sum(nil)) == signature
}

// MapGatewayStatus translates a gateway transaction_status into the
// local transaction status. Unknown values map to PENDING so a new
// gateway state never settles anything by accident.
func MapGatewayStatus(status string) string {
	switch status {
	case GatewayStatusSettlement, GatewayStatusCapture:
		return models.TransactionStatusSuccess
	case GatewayStatusExpire, GatewayStatusCancel, GatewayStatusDeny, "failure":
		return models.TransactionStatusFailed
	default:
		return models.TransactionStatusPending
	}
}
