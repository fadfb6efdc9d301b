package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tax slabs (percent) accepted for a menu item.
var TaxSlabs = []int{0, 5, 12, 18}

func ValidTaxSlab(slab int) bool {
	for _, s := range TaxSlabs {
		if s == slab {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	BranchID    uint              `gorm:"index;not null" json:"branch_id"`
	CategoryID  uint              `gorm:"index;not null" json:"category_id"`
	Category    MenuCategory      `gorm:"foreignKey:CategoryID" json:"-"`
	Name        string            `gorm:"type:varchar(255);not null" json:"name"`
	Description string            `gorm:"type:text" json:"description"`
	BasePrice   decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"base_price"`
	TaxSlab     int               `gorm:"not null" json:"tax_slab"`
	TaxCode     string            `gorm:"type:varchar(16)" json:"tax_code"`
	IsVeg       bool              `gorm:"not null" json:"is_veg"`
	SpiceLevel  string            `gorm:"type:varchar(20)" json:"spice_level,omitempty"`
	IsAvailable bool              `gorm:"index;not null" json:"is_available"`
	Variants    []MenuItemVariant `gorm:"foreignKey:MenuItemID" json:"variants,omitempty"`
	Modifiers   []MenuModifier    `gorm:"foreignKey:MenuItemID" json:"modifiers,omitempty"`
	CreatedAt   time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null" json:"updated_at"`
}

type MenuItemVariant struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	MenuItemID  uint            `gorm:"index;not null" json:"menu_item_id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null" json:"is_available"`
}

// MenuModifier is an add-on such as extra cheese; PriceDelta is added to the unit price.
type MenuModifier struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	MenuItemID  uint            `gorm:"index;not null" json:"menu_item_id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	PriceDelta  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_delta"`
	IsAvailable bool            `gorm:"not null" json:"is_available"`
}
