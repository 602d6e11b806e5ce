package models

import "time"

type Booking struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BookingID string `gorm:"type:varchar(30);unique;not null" json:"booking_id"`

	ShopID uint       `gorm:"not null;index" json:"coffee_shop_id"`
	Shop   CoffeeShop `gorm:"foreignKey:ShopID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	BookingDate time.Time `gorm:"not null;index" json:"booking_date"`
	GuestCount  int       `gorm:"not null" json:"guest_count"`
	TableCount  int       `gorm:"not null;default:0" json:"table_count"`
	Status      string    `gorm:"type:varchar(20);not null;default:'NOCONFIRM';index" json:"status"`

	ReminderSent bool `gorm:"not null;default:false" json:"reminder_sent"`

	OrderID *uint  `gorm:"index" json:"order_id,omitempty"`
	Order   *Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	Tables []Table `gorm:"many2many:booking_tables;" json:"tables"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
