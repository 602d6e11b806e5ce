package models

import "time"

type TimeSlot struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ShopID      uint       `gorm:"not null;index" json:"coffee_shop_id"`
	Shop        CoffeeShop `gorm:"foreignKey:ShopID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	StartTime   string     `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string     `gorm:"type:varchar(5);not null" json:"end_time"`
	MaxCapacity int        `gorm:"not null" json:"max_capacity"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

// Contains reports whether an "HH:MM" clock value falls inside the
// slot. Start is inclusive, end exclusive.
func (ts *TimeSlot) Contains(clock string) bool {
	return ts.StartTime <= clock && clock < ts.EndTime
}
