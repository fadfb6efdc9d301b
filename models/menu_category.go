package models

import "time"

type MenuCategory struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	BranchID             uint      `gorm:"index;not null" json:"branch_id"`
	Name                 string    `gorm:"type:varchar(100);not null" json:"name"`
	SortOrder            int       `gorm:"not null" json:"sort_order"`
	EstimatedPrepMinutes *int      `json:"estimated_prep_minutes,omitempty"`
	IsActive             bool      `gorm:"not null" json:"is_active"`
	CreatedAt            time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null" json:"updated_at"`
}
