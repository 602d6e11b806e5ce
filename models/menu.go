package models

import (
	"encoding/json"
	"time"
)

type Menu struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ShopID      uint       `gorm:"not null;index" json:"coffee_shop_id"`
	Shop        CoffeeShop `gorm:"foreignKey:ShopID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Price       int64      `gorm:"not null" json:"price"`
	IsAvailable bool       `gorm:"not null" json:"is_available"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"type:varchar(100);index" json:"category"`
	Tags        string     `gorm:"type:text" json:"-"`

	PreparationTime int    `json:"preparation_time"`
	Caffeine        string `gorm:"type:varchar(50)" json:"caffeine"`
	Origin          string `gorm:"type:varchar(100)" json:"origin"`
	Roast           string `gorm:"type:varchar(50)" json:"roast"`

	RatingAvg   float64 `gorm:"type:decimal(3,2);not null;default:0" json:"rating_avg"`
	RatingCount int     `gorm:"not null;default:0" json:"rating_count"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName keeps the table name the schema has always used.
func (Menu) TableName() string {
	return "coffee_menus"
}

// SetTags stores the ordered tag list as JSON.
func (m *Menu) SetTags(tags []string) error {
	b, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	m.Tags = string(b)
	return nil
}

// GetTags returns the ordered tag list.
func (m *Menu) GetTags() []string {
	if m.Tags == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(m.Tags), &tags); err != nil {
		return nil
	}
	return tags
}

// MarshalJSON adds the decoded tags next to the regular fields.
func (m Menu) MarshalJSON() ([]byte, error) {
	type alias Menu
	return json.Marshal(struct {
		alias
		Tags []string `json:"tags"`
	}{alias(m), m.GetTags()})
}
