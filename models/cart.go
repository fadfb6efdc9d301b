package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartOpen       CartStatus = "OPEN"
	CartCheckedOut CartStatus = "CHECKED_OUT"
	CartAbandoned  CartStatus = "ABANDONED"
)

// Cart holds the draft order of a session. Totals are always derived from Lines.
type Cart struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	SessionID     uint            `gorm:"index;not null" json:"session_id"`
	Status        CartStatus      `gorm:"type:varchar(15);index;not null" json:"status"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CGST          decimal.Decimal `gorm:"column:cgst_amount;type:decimal(10,2);not null" json:"cgst_amount"`
	SGST          decimal.Decimal `gorm:"column:sgst_amount;type:decimal(10,2);not null" json:"sgst_amount"`
	ServiceCharge decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"service_charge"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	RoundOff      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"round_off"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Lines         []CartLine      `gorm:"foreignKey:CartID" json:"lines"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

type CartLine struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	CartID     uint               `gorm:"index;not null" json:"cart_id"`
	MenuItemID uint               `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem           `gorm:"foreignKey:MenuItemID" json:"menu_item"`
	VariantID  *uint              `json:"variant_id,omitempty"`
	Variant    *MenuItemVariant   `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Quantity   int                `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Notes      string             `gorm:"type:text" json:"notes,omitempty"`
	LineTotal  decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"line_total"`
	Modifiers  []CartLineModifier `gorm:"foreignKey:CartLineID" json:"modifiers,omitempty"`
	CreatedAt  time.Time          `gorm:"not null" json:"created_at"`
}

// CartLineModifier snapshots the modifier name and price at the time it was added.
type CartLineModifier struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	CartLineID         uint            `gorm:"index;not null" json:"cart_line_id"`
	ModifierID         uint            `gorm:"not null" json:"modifier_id"`
	NameSnapshot       string          `gorm:"type:varchar(100);not null" json:"name"`
	PriceDeltaSnapshot decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_delta"`
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
