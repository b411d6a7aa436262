package authController

import (
	"fmt"
	"log"
	"time"

	"portal/database"
	"portal/middleware"
	"portal/models"
	authService "portal/services/auth"
	"portal/services/notify"
	"portal/utils"
	authValidator "portal/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"
)

func Signup(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSignup").(*authValidator.SignupRequest)
	db := database.Database.Db

	user, err := authService.Signup(db, authService.SignupInput{
		Username: reqData.Username,
		Email:    reqData.Email,
		Name:     reqData.Name,
		Password: reqData.Password,
		Role:     reqData.UserType,
	})
	if err != nil {
		var weak *authService.WeakPasswordError
		switch {
		case errors.As(err, &weak):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Password is not strong enough!", fiber.Map{"password": weak.Problems})
		case errors.Is(err, authService.ErrUserExists):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username or email already exists.", nil)
		case errors.Is(err, authService.ErrInvalidRole):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Invalid user type selected.", nil)
		}
		log.Printf("[AUTH] Error creating user %s: %v", reqData.Username, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	token, err := authService.CompleteLogin(db, user, c.IP(), c.Get("User-Agent"), "signup", time.Now())
	if err != nil {
		log.Printf("[AUTH] Error completing signup login for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	mail := notify.Default
	notify.Go("MAIL", func() error {
		return mail.SendWelcomeEmail(user.Email, user.Name)
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Account created successfully!", fiber.Map{
		"token": token,
		"user":  user,
		"next":  authService.LandingPage(user.Role),
	})
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	db := database.Database.Db
	now := time.Now()

	user, err := authService.Authenticate(db, reqData.Username, reqData.Password, now)
	if err != nil {
		var locked *authService.LockedError
		switch {
		case errors.As(err, &locked):
			return middleware.JsonResponse(c, fiber.StatusLocked, false,
				fmt.Sprintf("Account locked until %s. Please try again later.", locked.Until.Format(time.RFC1123)),
				fiber.Map{"lockout_until": locked.Until})
		case errors.Is(err, authService.ErrInvalidCredentials):
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid username or password.", nil)
		case errors.Is(err, authService.ErrInactive):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your account has been disabled. Contact support.", nil)
		}
		log.Printf("[AUTH] Error authenticating %s: %v", reqData.Username, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if user.TwoFactorEnabled {
		return startTwoFactor(c, user, now)
	}
	return finishLogin(c, user, "password", now)
}

func startTwoFactor(c *fiber.Ctx, user *models.User, now time.Time) error {
	sess, err := middleware.Sessions.Get(c)
	if err != nil {
		log.Printf("[AUTH] Error loading session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	sess.Set(middleware.SessionPre2FAUserID, user.ID)
	sess.Set(middleware.SessionPre2FAMethod, user.TwoFactorMethod)
	sess.Delete(middleware.SessionPre2FAOTPID)

	message := "Enter the code from your authenticator app."
	switch user.TwoFactorMethod {
	case models.TwoFactorEmail, models.TwoFactorSMS:
		rec, err := authService.IssueOTP(database.Database.Db, user, user.TwoFactorMethod, now)
		if err != nil {
			log.Printf("[AUTH] Error issuing OTP for user %d: %v", user.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send verification code!", nil)
		}
		sess.Set(middleware.SessionPre2FAOTPID, rec.ID.String())
		message = fmt.Sprintf("A verification code has been sent via %s.", user.TwoFactorMethod)
	}

	if err := sess.Save(); err != nil {
		log.Printf("[AUTH] Error saving session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"two_factor_required": true,
		"method":              user.TwoFactorMethod,
		"next":                "two_factor_challenge",
	})
}

func finishLogin(c *fiber.Ctx, user *models.User, method string, now time.Time) error {
	token, err := authService.CompleteLogin(database.Database.Db, user, c.IP(), c.Get("User-Agent"), method, now)
	if err != nil {
		log.Printf("[AUTH] Error completing login for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	ip, device := c.IP(), c.Get("User-Agent")
	mail := notify.Default
	notify.Go("MAIL", func() error {
		return mail.SendLoginNotificationEmail(user.Email, user.Name, ip, device, now)
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, authService.WelcomeMessage(user.Role), fiber.Map{
		"token": token,
		"user":  user,
		"next":  authService.LandingPage(user.Role),
	})
}

func clearTwoFactor(sess *session.Session) {
	sess.Delete(middleware.SessionPre2FAUserID)
	sess.Delete(middleware.SessionPre2FAMethod)
	sess.Delete(middleware.SessionPre2FAOTPID)
	if err := sess.Save(); err != nil {
		log.Printf("[AUTH] Error saving session: %v", err)
	}
}

// VerifyTwoFactor completes a login paused by Login for its second factor.
func VerifyTwoFactor(c *fiber.Ctx) error {
	reqData := c.Locals("validatedToken").(*authValidator.TokenRequest)
	db := database.Database.Db
	now := time.Now()

	sess, err := middleware.Sessions.Get(c)
	if err != nil {
		log.Printf("[AUTH] Error loading session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	userID, _ := sess.Get(middleware.SessionPre2FAUserID).(uint)
	method, _ := sess.Get(middleware.SessionPre2FAMethod).(string)
	if userID == 0 || method == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No 2FA authentication in progress.", nil)
	}

	var user *models.User
	switch method {
	case models.TwoFactorEmail, models.TwoFactorSMS:
		otpID, _ := sess.Get(middleware.SessionPre2FAOTPID).(string)
		user, err = authService.VerifyOTP(db, userID, otpID, reqData.Token, now)
	case models.TwoFactorTOTP:
		user, err = authService.VerifyTOTP(db, userID, reqData.Token, now)
	default:
		err = authService.ErrMethodUnsupported
	}

	if err != nil {
		switch {
		case errors.Is(err, authService.ErrOTPInvalid), errors.Is(err, authService.ErrTOTPInvalid):
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid verification code. Please try again.", nil)
		case errors.Is(err, authService.ErrTOTPNotConfigured), errors.Is(err, authService.ErrMethodUnsupported):
			clearTwoFactor(sess)
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Two-factor authentication is not configured for this account.", nil)
		}
		log.Printf("[AUTH] Error verifying 2FA for user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	clearTwoFactor(sess)
	return finishLogin(c, user, method, now)
}

func currentUser(c *fiber.Ctx) (*models.User, error) {
	var user models.User
	err := database.Database.Db.First(&user, middleware.CurrentUserID(c)).Error
	return &user, err
}

func SetupTwoFactor(c *fiber.Ctx) error {
	reqData := c.Locals("validatedTwoFactorSetup").(*authValidator.SetupTwoFactorRequest)
	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	setup, err := authService.SetupTwoFactor(database.Database.Db, user, reqData.Method, reqData.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrPhoneRequired):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Phone number required for SMS verification.", nil)
		case errors.Is(err, authService.ErrMethodUnsupported):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Unsupported two-factor method.", nil)
		}
		log.Printf("[AUTH] Error setting up 2FA for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to set up two-factor authentication!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Two-factor method saved. Confirm it to enable.", setup)
}

func EnableTwoFactor(c *fiber.Ctx) error {
	reqData := c.Locals("validatedToken").(*authValidator.TokenRequest)
	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if err := authService.EnableTwoFactor(database.Database.Db, user, reqData.Token, time.Now()); err != nil {
		switch {
		case errors.Is(err, authService.ErrTOTPInvalid):
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid authenticator code.", nil)
		case errors.Is(err, authService.ErrTOTPNotConfigured), errors.Is(err, authService.ErrMethodUnsupported):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Set up a two-factor method first.", nil)
		case errors.Is(err, authService.ErrPhoneRequired):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Phone number required for SMS verification.", nil)
		}
		log.Printf("[AUTH] Error enabling 2FA for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enable two-factor authentication!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Two-factor authentication enabled.", fiber.Map{"method": user.TwoFactorMethod})
}

func DisableTwoFactor(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPassword").(*authValidator.PasswordRequest)
	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if err := authService.DisableTwoFactor(database.Database.Db, user, reqData.Password); err != nil {
		if errors.Is(err, authService.ErrInvalidCredentials) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Incorrect password.", nil)
		}
		log.Printf("[AUTH] Error disabling 2FA for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to disable two-factor authentication!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Two-factor authentication disabled.", nil)
}

func Logout(c *fiber.Ctx) error {
	sess, err := middleware.Sessions.Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			log.Printf("[AUTH] Error destroying session: %v", err)
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "You have been logged out.", nil)
}

func LoginHistoryList(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	page, limit, offset := utils.Paginate(c, 10)

	db := database.Database.Db

	var total int64
	if err := db.Model(&models.LoginTracking{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	var history []models.LoginTracking
	if err := db.Where("user_id = ?", userID).Order("timestamp DESC, id DESC").Offset(offset).Limit(limit).Find(&history).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched successfully!", fiber.Map{
		"history": history,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
