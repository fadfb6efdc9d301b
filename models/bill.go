package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillUnpaid BillStatus = "UNPAID"
	BillPaid   BillStatus = "PAID"
)

// Bill consolidates every non-cancelled order of a session.
type Bill struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	BranchID      uint            `gorm:"index;not null" json:"branch_id"`
	TableID       uint            `gorm:"not null" json:"table_id"`
	SessionID     uint            `gorm:"index;not null" json:"session_id"`
	BillNumber    string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"bill_number"`
	Status        BillStatus      `gorm:"type:varchar(10);not null" json:"status"`
	OrderCount    int             `gorm:"not null" json:"order_count"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CGST          decimal.Decimal `gorm:"column:cgst_amount;type:decimal(10,2);not null" json:"cgst_amount"`
	SGST          decimal.Decimal `gorm:"column:sgst_amount;type:decimal(10,2);not null" json:"sgst_amount"`
	ServiceCharge decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"service_charge"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	RoundOff      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"round_off"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
	Payments      []Payment       `gorm:"foreignKey:BillID" json:"payments,omitempty"`
	Orders        []Order         `gorm:"-" json:"orders,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}
