package models

import "time"

type SessionStatus string

const (
	SessionActive SessionStatus = "ACTIVE"
	SessionClosed SessionStatus = "CLOSED"
)

// Session mengikat satu customer ke satu meja selama kunjungan.
type Session struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	RestaurantID   uint          `gorm:"index;not null" json:"restaurant_id"`
	BranchID       uint          `gorm:"index;not null" json:"branch_id"`
	Branch         Branch        `gorm:"foreignKey:BranchID" json:"-"`
	TableID        uint          `gorm:"index;not null" json:"table_id"`
	Table          Table         `gorm:"foreignKey:TableID" json:"table"`
	CustomerID     uint          `gorm:"index:idx_session_customer_status,priority:1;not null" json:"customer_id"`
	Customer       Customer      `gorm:"foreignKey:CustomerID" json:"customer"`
	Status         SessionStatus `gorm:"type:varchar(10);index:idx_session_customer_status,priority:2;not null" json:"status"`
	StartedAt      time.Time     `gorm:"not null" json:"started_at"`
	LastActivityAt time.Time     `gorm:"not null" json:"last_activity_at"`
	ClosedAt       *time.Time    `json:"closed_at,omitempty"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string {
	return "table_sessions"
}

func (s *Session) IsActive() bool {
	return s.Status == SessionActive
}
