package models

import "time"

const (
	DeliveryMethodDelivery = "delivery"
	DeliveryMethodPickup   = "pickup"
)

type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID string `gorm:"type:varchar(20);unique;not null" json:"order_id"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	// PaidByUserID is set when another user claims the payment
	// (pay-for-others). NULL means the owner pays or nobody yet.
	PaidByUserID *uint `gorm:"index" json:"paid_by_user_id,omitempty"`
	PaidByUser   *User `gorm:"foreignKey:PaidByUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	BookingID *uint    `gorm:"index" json:"booking_id,omitempty"`
	Booking   *Booking `gorm:"foreignKey:BookingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	TotalPrice int64      `gorm:"not null;default:0" json:"total_price"`
	OrderedAt  time.Time  `gorm:"not null;index" json:"ordered_at"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`

	PaymentNote *string `gorm:"type:text" json:"payment_note,omitempty"`

	DeliveryMethod string `gorm:"type:varchar(10);not null;default:'pickup'" json:"delivery_method"`
	RecipientName  string `gorm:"type:varchar(255)" json:"recipient_name"`
	RecipientPhone string `gorm:"type:varchar(20)" json:"recipient_phone"`
	Address        string `gorm:"type:text" json:"address"`
	Notes          string `gorm:"type:text" json:"notes"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;references:ID" json:"order_items"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
