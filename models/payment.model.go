package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
)

type Payment struct {
	gorm.Model
	OrderID        string         `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	UserID         uint           `gorm:"index;not null" json:"user_id"`
	EnrollmentID   uint           `gorm:"index;not null" json:"enrollment_id"`
	Amount         float64        `json:"amount"`
	Tax            float64        `json:"tax"`
	Total          float64        `json:"total"`
	Gateway        string         `gorm:"size:20" json:"gateway"`
	Status         string         `gorm:"size:20;default:'PENDING'" json:"status"`
	GatewayToken   string         `json:"gateway_token,omitempty"`
	RedirectURL    string         `json:"redirect_url,omitempty"`
	GatewayPayload datatypes.JSON `json:"-"`
	PaidAt         *time.Time     `json:"paid_at"`
}
