package models

import "time"

// VariantType groups variants (size, sugar, milk, temperature). A
// required type forces every order item to pick exactly one of its
// variants.
type VariantType struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(100);unique;not null" json:"name"`
	IsRequired bool      `gorm:"not null;default:false" json:"is_required"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

type Variant struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	VariantTypeID   uint        `gorm:"not null;index" json:"variant_type_id"`
	VariantType     VariantType `gorm:"foreignKey:VariantTypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"variant_type"`
	Name            string      `gorm:"type:varchar(100);not null" json:"name"`
	AdditionalPrice int64       `gorm:"not null;default:0" json:"additional_price"`
	IsAvailable     bool        `gorm:"not null" json:"is_available"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}

// MenuVariant whitelists a variant for a menu item.
type MenuVariant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MenuID    uint      `gorm:"not null;uniqueIndex:idx_menu_variant" json:"coffee_id"`
	Menu      Menu      `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	VariantID uint      `gorm:"not null;uniqueIndex:idx_menu_variant" json:"variant_id"`
	Variant   Variant   `gorm:"foreignKey:VariantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"variant"`
	IsDefault bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
