package models

import "time"

// Restaurant adalah tenant. Satu nomor WhatsApp Business dipetakan ke satu restaurant.
type Restaurant struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	WAPhoneNumberID string    `gorm:"column:wa_phone_number_id;type:varchar(64);uniqueIndex;not null" json:"wa_phone_number_id"`
	WAAccessToken   string    `gorm:"column:wa_access_token;type:text" json:"-"`
	WAAppSecret     string    `gorm:"column:wa_app_secret;type:varchar(255)" json:"-"`
	WAVerifyToken   string    `gorm:"column:wa_verify_token;type:varchar(255)" json:"-"`
	IsActive        bool      `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
	Branches        []Branch  `gorm:"foreignKey:RestaurantID" json:"branches,omitempty"`
}

type Branch struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Address      string    `gorm:"type:text" json:"address"`
	City         string    `gorm:"type:varchar(100)" json:"city"`
	State        string    `gorm:"type:varchar(100)" json:"state"`
	Pincode      string    `gorm:"type:varchar(10)" json:"pincode"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
