package authService

import (
	"log"
	"strings"
	"time"

	"portal/config"
	"portal/models"
	"portal/services/notify"
	"portal/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"
)

const OTPLength = 6

// IssueOTP stores a fresh single-use code for user and delivers it over channel.
// Delivery failures are logged; the code stays valid so the user can ask again.
func IssueOTP(db *gorm.DB, user *models.User, channel string, now time.Time) (*models.OTP, error) {
	if channel != models.ChannelEmail && channel != models.ChannelSMS {
		return nil, ErrMethodUnsupported
	}

	code, err := utils.GenerateOTP(OTPLength)
	if err != nil {
		return nil, errors.Wrap(err, "generate otp")
	}

	lifetime := config.AppConfig.OTPLifetime
	rec := &models.OTP{
		UserID:    user.ID,
		Code:      code,
		Channel:   channel,
		CreatedAt: now,
		ExpiresAt: now.Add(lifetime),
	}
	if err := db.Create(rec).Error; err != nil {
		return nil, errors.Wrap(err, "store otp")
	}

	minutes := int(lifetime / time.Minute)
	switch channel {
	case models.ChannelEmail:
		err = notify.Default.SendOTPEmail(user.Email, code, minutes)
	case models.ChannelSMS:
		phone := user.PhoneNumber
		if phone == "" {
			phone = "N/A"
		}
		err = notify.Default.SendOTPSMS(phone, code, minutes)
	}
	if err != nil {
		log.Printf("[AUTH] Error sending %s OTP to user %d: %v", channel, user.ID, err)
	}
	return rec, nil
}

// VerifyOTP consumes the code identified by otpID. It succeeds once, only
// before expiry, and only when code matches.
func VerifyOTP(db *gorm.DB, userID uint, otpID, code string, now time.Time) (*models.User, error) {
	id, err := uuid.Parse(otpID)
	if err != nil {
		return nil, ErrOTPInvalid
	}

	var rec models.OTP
	if err := db.Where("id = ? AND user_id = ? AND used = ?", id, userID, false).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPInvalid
		}
		return nil, errors.Wrap(err, "load otp")
	}
	if rec.IsExpired(now) || rec.Code != strings.TrimSpace(code) {
		return nil, ErrOTPInvalid
	}

	res := db.Model(&models.OTP{}).Where("id = ? AND used = ?", rec.ID, false).Update("used", true)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mark otp used")
	}
	if res.RowsAffected == 0 {
		return nil, ErrOTPInvalid
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	return &user, nil
}

func totpOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    30,
		Skew:      config.AppConfig.TOTPSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// ValidateTOTP accepts codes from the current 30 second step and TOTP_SKEW
// steps either side.
func ValidateTOTP(secret, code string, now time.Time) bool {
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), secret, now, totpOpts())
	return err == nil && ok
}

// VerifyTOTP checks an authenticator code for the pending user.
func VerifyTOTP(db *gorm.DB, userID uint, code string, now time.Time) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	if user.TOTPSecret == "" {
		return nil, ErrTOTPNotConfigured
	}
	if !ValidateTOTP(user.TOTPSecret, code, now) {
		return nil, ErrTOTPInvalid
	}
	return &user, nil
}

type TwoFactorSetup struct {
	Method     string `json:"method"`
	Secret     string `json:"secret,omitempty"`
	OTPAuthURL string `json:"otpauth_url,omitempty"`
}

// SetupTwoFactor records the chosen method without enabling it. For TOTP a
// new secret is generated and returned once.
func SetupTwoFactor(db *gorm.DB, user *models.User, method, phone string) (*TwoFactorSetup, error) {
	updates := map[string]interface{}{"two_factor_method": method}
	setup := &TwoFactorSetup{Method: method}

	switch method {
	case models.TwoFactorEmail:
	case models.TwoFactorSMS:
		if phone == "" && user.PhoneNumber == "" {
			return nil, ErrPhoneRequired
		}
	case models.TwoFactorTOTP:
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      config.AppConfig.TOTPIssuer,
			AccountName: user.Email,
		})
		if err != nil {
			return nil, errors.Wrap(err, "generate totp secret")
		}
		updates["totp_secret"] = key.Secret()
		setup.Secret = key.Secret()
		setup.OTPAuthURL = key.URL()
	default:
		return nil, ErrMethodUnsupported
	}
	if phone != "" {
		updates["phone_number"] = phone
	}
	// switching methods disables 2FA until the new one is confirmed
	updates["two_factor_enabled"] = false

	if err := db.Model(user).Updates(updates).Error; err != nil {
		return nil, errors.Wrap(err, "save two-factor setup")
	}
	user.TwoFactorMethod = method
	user.TwoFactorEnabled = false
	if phone != "" {
		user.PhoneNumber = phone
	}
	if setup.Secret != "" {
		user.TOTPSecret = setup.Secret
	}
	return setup, nil
}

// EnableTwoFactor turns on the configured method. TOTP requires a valid code
// proving the authenticator app holds the secret.
func EnableTwoFactor(db *gorm.DB, user *models.User, code string, now time.Time) error {
	switch user.TwoFactorMethod {
	case models.TwoFactorTOTP:
		if user.TOTPSecret == "" {
			return ErrTOTPNotConfigured
		}
		if !ValidateTOTP(user.TOTPSecret, code, now) {
			return ErrTOTPInvalid
		}
	case models.TwoFactorSMS:
		if user.PhoneNumber == "" {
			return ErrPhoneRequired
		}
	case models.TwoFactorEmail:
		if user.Email == "" {
			return ErrMethodUnsupported
		}
	default:
		return ErrMethodUnsupported
	}
	if err := db.Model(user).Update("two_factor_enabled", true).Error; err != nil {
		return errors.Wrap(err, "enable two-factor")
	}
	user.TwoFactorEnabled = true
	return nil
}

func DisableTwoFactor(db *gorm.DB, user *models.User, password string) error {
	if !CheckPassword(user.Password, password) {
		return ErrInvalidCredentials
	}
	err := db.Model(user).Updates(map[string]interface{}{
		"two_factor_enabled": false,
		"two_factor_method":  "",
		"totp_secret":        "",
	}).Error
	if err != nil {
		return errors.Wrap(err, "disable two-factor")
	}
	user.TwoFactorEnabled = false
	user.TwoFactorMethod = ""
	user.TOTPSecret = ""
	return nil
}
