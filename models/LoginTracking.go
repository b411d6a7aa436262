package models

import (
	"time"

	"gorm.io/gorm"
)

type LoginTracking struct {
	gorm.Model
	UserID    uint      `gorm:"index" json:"user_id"`
	IPAddress string    `json:"ip_address"`
	Device    string    `json:"device"`
	Method    string    `gorm:"size:20;default:'password'" json:"method"`
	Timestamp time.Time `json:"timestamp"`
}
