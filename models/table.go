package models

import "time"

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BranchID    uint      `gorm:"index;not null" json:"branch_id"`
	Branch      Branch    `gorm:"foreignKey:BranchID" json:"-"`
	TableNumber string    `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// TableQRToken is the credential printed in a table's QR code.
type TableQRToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TableID   uint       `gorm:"index;not null" json:"table_id"`
	Table     Table      `gorm:"foreignKey:TableID" json:"-"`
	Token     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	IsRevoked bool       `gorm:"not null" json:"is_revoked"`
	ValidFrom time.Time  `gorm:"not null" json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}

// ValidAt reports whether the token may be used to pair at t.
func (q *TableQRToken) ValidAt(t time.Time) bool {
	if q.IsRevoked || t.Before(q.ValidFrom) {
		return false
	}
	return q.ValidTo == nil || !t.After(*q.ValidTo)
}
