package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderNew       OrderStatus = "NEW"
	OrderAccepted  OrderStatus = "ACCEPTED"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderServed    OrderStatus = "SERVED"
	OrderCancelled OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderNew:       {OrderAccepted, OrderCancelled},
	OrderAccepted:  {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderServed},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderNew, OrderAccepted, OrderPreparing, OrderReady, OrderServed, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the kitchen may move an order from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is immutable once placed, apart from Status.
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	BranchID      uint            `gorm:"index;not null" json:"branch_id"`
	TableID       uint            `gorm:"index;not null" json:"table_id"`
	Table         Table           `gorm:"foreignKey:TableID" json:"table"`
	SessionID     uint            `gorm:"index;not null" json:"session_id"`
	OrderNumber   string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	CartHash      string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	ParentOrderID *uint           `gorm:"index" json:"parent_order_id,omitempty"`
	Status        OrderStatus     `gorm:"type:varchar(20);index;not null" json:"status"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CGST          decimal.Decimal `gorm:"column:cgst_amount;type:decimal(10,2);not null" json:"cgst_amount"`
	SGST          decimal.Decimal `gorm:"column:sgst_amount;type:decimal(10,2);not null" json:"sgst_amount"`
	ServiceCharge decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"service_charge"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	RoundOff      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"round_off"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Lines         []OrderLine     `gorm:"foreignKey:OrderID" json:"lines"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

type OrderLine struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	OrderID             uint                `gorm:"index;not null" json:"order_id"`
	MenuItemID          uint                `gorm:"not null" json:"menu_item_id"`
	VariantID           *uint               `json:"variant_id,omitempty"`
	ItemNameSnapshot    string              `gorm:"type:varchar(255);not null" json:"item_name"`
	VariantNameSnapshot string              `gorm:"type:varchar(100)" json:"variant_name,omitempty"`
	Quantity            int                 `gorm:"not null" json:"quantity"`
	UnitPrice           decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TaxSlabSnapshot     int                 `gorm:"not null" json:"tax_slab"`
	TaxCodeSnapshot     string              `gorm:"type:varchar(16)" json:"tax_code"`
	Notes               string              `gorm:"type:text" json:"notes,omitempty"`
	LineTotal           decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"line_total"`
	Modifiers           []OrderLineModifier `gorm:"foreignKey:OrderLineID" json:"modifiers,omitempty"`
}

type OrderLineModifier struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	OrderLineID        uint            `gorm:"index;not null" json:"order_line_id"`
	ModifierID         uint            `gorm:"not null" json:"modifier_id"`
	NameSnapshot       string          `gorm:"type:varchar(100);not null" json:"name"`
	PriceDeltaSnapshot decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_delta"`
}
