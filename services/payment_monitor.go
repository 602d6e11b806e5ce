package services

import (
	"time"

	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// PaymentMonitor sweeps the 24h payment window: transactions that are
// still PENDING past their expiry are failed, which cancels their
// PROCESSING orders and releases any pay-for-others claim.
type PaymentMonitor struct {
	db       *gorm.DB
	payments *PaymentService
	Interval time.Duration
	stop     chan struct{}
}

func NewPaymentMonitor(db *gorm.DB, payments *PaymentService) *PaymentMonitor {
	return &PaymentMonitor{
		db:       db,
		payments: payments,
		Interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
}

func (pm *PaymentMonitor) Start() {
	go pm.run()
	utils.InfoLogger.Println("Payment expiry monitor started")
}

func (pm *PaymentMonitor) Stop() {
	close(pm.stop)
}

func (pm *PaymentMonitor) run() {
	ticker := time.NewTicker(pm.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pm.SweepExpired()
		case <-pm.stop:
			return
		}
	}
}

// SweepExpired fails every PENDING transaction whose window has
// closed. Each settlement runs in its own transaction so one bad row
// does not stall the sweep.
func (pm *PaymentMonitor) SweepExpired() {
	var expired []models.Transaction
	err := pm.db.
		Where("status = ? AND expiry_time < ?", models.TransactionStatusPending, time.Now()).
		Find(&expired).Error
	if err != nil {
		utils.ErrorLogger.Printf("expiry sweep query failed: %v", err)
		return
	}

	for _, trx := range expired {
		if err := pm.payments.ApplySettlement(trx.ID, models.TransactionStatusFailed); err != nil {
			utils.ErrorLogger.Printf("failed to expire transaction %s: %v", trx.TransactionID, err)
		} else {
			utils.InfoLogger.Printf("transaction %s expired, order cancelled", trx.TransactionID)
		}
	}
}
