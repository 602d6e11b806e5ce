package models

import "time"

// Transaction mirrors one gateway charge for an order. Terminal
// states (SUCCESS/FAILED) are write-once.
type Transaction struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TransactionID string `gorm:"type:varchar(20);unique;not null" json:"transaction_id"`

	OrderID uint  `gorm:"not null;index" json:"order_id"`
	Order   Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	GrossAmount int64  `gorm:"not null" json:"gross_amount"`
	Status      string `gorm:"type:varchar(10);not null;default:'PENDING';index" json:"status"`

	PaymentMethod string `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentURL    string `gorm:"type:text" json:"payment_url"`
	QRString      string `gorm:"type:text" json:"qr_string"`
	Token         string `gorm:"type:varchar(255)" json:"token,omitempty"`

	TransactionTime time.Time  `gorm:"not null" json:"transaction_time"`
	ExpiryTime      time.Time  `gorm:"not null" json:"expiry_time"`
	PaymentTime     *time.Time `json:"payment_time,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
