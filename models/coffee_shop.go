package models

import "time"

type CoffeeShop struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Address     string    `gorm:"type:text" json:"address"`
	Phone       string    `gorm:"type:varchar(20)" json:"phone"`
	RatingAvg   float64   `gorm:"type:decimal(3,2);not null;default:0" json:"rating_avg"`
	RatingCount int       `gorm:"not null;default:0" json:"rating_count"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
