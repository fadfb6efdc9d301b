package models

import "time"

type Customer struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	RestaurantID      uint      `gorm:"uniqueIndex:idx_customer_identity;not null" json:"restaurant_id"`
	WAUserID          string    `gorm:"column:wa_user_id;type:varchar(32);uniqueIndex:idx_customer_identity;not null" json:"wa_user_id"`
	Name              string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	PreferredLanguage string    `gorm:"type:varchar(5);not null" json:"preferred_language"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}
