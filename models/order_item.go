package models

import "time"

type OrderItem struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"not null;index" json:"order_id"`
	Order   Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	MenuID uint `gorm:"not null" json:"coffee_id"`
	Menu   Menu `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`

	Quantity int   `gorm:"not null" json:"quantity"`
	Subtotal int64 `gorm:"not null" json:"subtotal"`

	Variants []OrderItemVariant `gorm:"foreignKey:OrderItemID;references:ID" json:"variants"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// OrderItemVariant captures one chosen variant of an order item.
type OrderItemVariant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderItemID uint      `gorm:"not null;index" json:"order_item_id"`
	OrderItem   OrderItem `gorm:"foreignKey:OrderItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	VariantID   uint      `gorm:"not null" json:"variant_id"`
	Variant     Variant   `gorm:"foreignKey:VariantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"variant"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
