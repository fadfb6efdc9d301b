package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCard PaymentMethod = "CARD"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentUPI || m == PaymentCard
}

type Payment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BillID     uint            `gorm:"index;not null" json:"bill_id"`
	Method     PaymentMethod   `gorm:"type:varchar(10);not null" json:"method"`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Reference  string          `gorm:"type:varchar(100)" json:"reference,omitempty"`
	ReceivedBy *uint           `json:"received_by,omitempty"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}
