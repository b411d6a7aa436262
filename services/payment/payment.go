package paymentService

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"portal/models"
	"portal/models/course"
	courseService "portal/services/course"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrAlreadyPaid      = errors.New("this course is already paid for")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrUnknownStatus    = errors.New("unknown transaction status")
	ErrPaymentFinalized = errors.New("payment already finalized")
	ErrInvalidSignature = errors.New("invalid notification signature")
	ErrAmountMismatch   = errors.New("notification amount does not match the payment")
)

type Pricing struct {
	Price   float64 `json:"price"`
	TaxRate float64 `json:"tax_rate"`
	Tax     float64 `json:"tax"`
	Total   float64 `json:"total"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Quote prices a course: tax = price * rate, total = price + tax, both to cents.
func Quote(price, rate float64) Pricing {
	tax := round2(price * rate)
	return Pricing{Price: price, TaxRate: rate, Tax: tax, Total: round2(price + tax)}
}

// Pay settles the user's enrollment in courseID. Free courses and the stub
// gateway mark the enrollment paid at once; real gateways leave a PENDING
// payment that the notification callback completes.
func Pay(db *gorm.DB, gw Gateway, user *models.User, courseID uint, taxRate float64, now time.Time) (*models.Payment, *course.Enrollment, error) {
	enrollment, err := courseService.GetEnrollment(db, user.ID, courseID)
	if err != nil {
		return nil, nil, err
	}
	if enrollment.IsPaid {
		return nil, enrollment, ErrAlreadyPaid
	}

	if enrollment.Course.Price <= 0 {
		if err := markPaid(db, enrollment.ID, now); err != nil {
			return nil, nil, err
		}
		enrollment.IsPaid, enrollment.PaidAt = true, &now
		return nil, enrollment, nil
	}

	quote := Quote(enrollment.Course.Price, taxRate)
	p := &models.Payment{
		OrderID:      uuid.NewString(),
		UserID:       user.ID,
		EnrollmentID: enrollment.ID,
		Amount:       quote.Price,
		Tax:          quote.Tax,
		Total:        quote.Total,
		Gateway:      gw.Name(),
		Status:       models.PaymentPending,
	}
	if err := db.Create(p).Error; err != nil {
		return nil, nil, errors.Wrap(err, "create payment")
	}

	charge, err := gw.Charge(p, enrollment.Course.Title, Customer{Name: user.Name, Email: user.Email, Phone: user.PhoneNumber})
	if err != nil {
		log.Printf("[PAYMENT] %s charge for order %s failed: %v", gw.Name(), p.OrderID, err)
		if uerr := db.Model(p).Update("status", models.PaymentFailed).Error; uerr != nil {
			log.Printf("[PAYMENT] Error marking order %s failed: %v", p.OrderID, uerr)
		}
		return nil, nil, err
	}

	p.GatewayToken, p.RedirectURL = charge.Token, charge.RedirectURL
	updates := map[string]interface{}{"gateway_token": charge.Token, "redirect_url": charge.RedirectURL}
	if charge.Paid {
		updates["status"] = models.PaymentPaid
		updates["paid_at"] = now
		p.Status, p.PaidAt = models.PaymentPaid, &now
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(p).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "update payment")
		}
		if charge.Paid {
			return markPaid(tx, enrollment.ID, now)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if charge.Paid {
		enrollment.IsPaid, enrollment.PaidAt = true, &now
	}
	return p, enrollment, nil
}

func markPaid(db *gorm.DB, enrollmentID uint, now time.Time) error {
	err := db.Model(&course.Enrollment{}).Where("id = ?", enrollmentID).
		Updates(map[string]interface{}{"is_paid": true, "paid_at": now}).Error
	return errors.Wrap(err, "mark enrollment paid")
}

// Notification is a gateway status callback as midtrans posts it.
type Notification struct {
	OrderID           string
	TransactionStatus string
	StatusCode        string
	GrossAmount       string
	SignatureKey      string
	Payload           map[string]interface{}
}

// SignatureKey is the midtrans notification signature: the hex SHA-512 of
// order_id, status_code, gross_amount and the server key.
func SignatureKey(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func validSignature(serverKey string, n Notification) bool {
	if serverKey == "" || n.SignatureKey == "" {
		return false
	}
	want := SignatureKey(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(n.SignatureKey))) == 1
}

// HandleNotification applies a signed gateway status callback to its payment.
// capture and settlement pay the enrollment; deny, cancel and expire fail it.
// Without a server key no callback can be trusted and all are rejected.
func HandleNotification(db *gorm.DB, serverKey string, n Notification, now time.Time) (*models.Payment, error) {
	if !validSignature(serverKey, n) {
		return nil, ErrInvalidSignature
	}

	var p models.Payment
	if err := db.Where("order_id = ?", n.OrderID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, errors.Wrap(err, "load payment")
	}

	var newStatus string
	switch n.TransactionStatus {
	case "capture", "settlement":
		newStatus = models.PaymentPaid
	case "deny", "cancel", "expire", "failure":
		newStatus = models.PaymentFailed
	case "pending":
		return &p, nil
	default:
		return nil, ErrUnknownStatus
	}

	gross, err := strconv.ParseFloat(n.GrossAmount, 64)
	if err != nil || math.Round(gross) != math.Round(p.Total) {
		return nil, ErrAmountMismatch
	}

	if p.Status == newStatus {
		return &p, nil
	}
	if p.Status == models.PaymentPaid {
		return nil, ErrPaymentFinalized
	}

	raw, err := sonic.Marshal(n.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode notification payload")
	}
	updates := map[string]interface{}{"status": newStatus, "gateway_payload": datatypes.JSON(raw)}
	if newStatus == models.PaymentPaid {
		updates["paid_at"] = now
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "update payment")
		}
		if newStatus == models.PaymentPaid {
			return markPaid(tx, p.EnrollmentID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.Status = newStatus
	log.Printf("[PAYMENT] Order %s is now %s", p.OrderID, newStatus)
	return &p, nil
}
