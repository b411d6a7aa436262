package middleware

import (
	"portal/config"

	"github.com/gofiber/fiber/v2/middleware/session"
)

// Session keys holding a login that still waits for its second factor.
const (
	SessionPre2FAUserID = "pre_2fa_user_id"
	SessionPre2FAMethod = "pre_2fa_method"
	SessionPre2FAOTPID  = "pre_2fa_otp_id"
)

// Sessions is the server-side store for pending two-factor logins.
var Sessions *session.Store

func InitSessionStore() *session.Store {
	Sessions = session.New(session.Config{
		Expiration:     config.AppConfig.SessionExpiration,
		KeyLookup:      "cookie:session_id",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	return Sessions
}
