package models

import "time"

// OperatingHour stores the opening window for one weekday of a shop.
// Times are "HH:MM" strings so ordering works with plain string
// comparison both in SQL and in Go.
type OperatingHour struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ShopID      uint       `gorm:"not null;uniqueIndex:idx_shop_weekday" json:"coffee_shop_id"`
	Shop        CoffeeShop `gorm:"foreignKey:ShopID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Weekday     string     `gorm:"type:varchar(3);not null;uniqueIndex:idx_shop_weekday" json:"weekday"`
	OpeningTime string     `gorm:"type:varchar(5);not null" json:"opening_time"`
	ClosingTime string     `gorm:"type:varchar(5);not null" json:"closing_time"`
	IsOpen      bool       `gorm:"not null" json:"is_open"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

var weekdayCodes = [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// WeekdayCode maps a date to the MON..SUN code used by OperatingHour.
func WeekdayCode(t time.Time) string {
	return weekdayCodes[int(t.Weekday())]
}
