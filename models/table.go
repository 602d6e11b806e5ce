package models

import "time"

type Table struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ShopID      uint       `gorm:"not null;index" json:"coffee_shop_id"`
	Shop        CoffeeShop `gorm:"foreignKey:ShopID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableNumber string     `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity    int        `gorm:"not null" json:"capacity"`
	IsAvailable bool       `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}
