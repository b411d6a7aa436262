package notify

import (
	"fmt"
	"strings"
	"time"
)

const defaultBrand = "Job Portal"

// layout wraps body in the shared HTML email frame.
func layout(brand, title, body string) string {
	if brand == "" {
		brand = defaultBrand
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
		.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
		.header { background-color: #1F3A5F; padding: 30px; text-align: center; }
		.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
		.content { padding: 40px 30px; color: #1F3A5F; line-height: 1.6; }
		.content h2 { margin-top: 0; }
		.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; margin: 20px 0; }
		.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>%s</h1></div>
		<div class="content">
			<h2>%s</h2>
			%s
		</div>
		<div class="footer">&copy; %d %s. All rights reserved.</div>
	</div>
</body>
</html>`, strings.ToUpper(brand), title, body, time.Now().Year(), brand)
}

// SendWelcomeEmail greets a newly registered user.
func (n *Notifier) SendWelcomeEmail(email, name string) error {
	brand := n.brand()
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>Welcome to <strong>%s</strong>! Your account has been created.</p>
<p>You can now browse jobs, take screening quizzes and enroll in courses.</p>`, name, brand)

	return n.Mail.Send(EmailMessage{
		To:      email,
		Name:    name,
		Subject: "Welcome to " + brand,
		Text:    fmt.Sprintf("Dear %s, welcome to %s! Your account has been created.", name, brand),
		HTML:    layout(brand, "Welcome Onboard!", body),
	})
}

// SendLoginNotificationEmail tells the user about a completed login.
func (n *Notifier) SendLoginNotificationEmail(email, name, ip, device string, at time.Time) error {
	when := at.Format(time.RFC1123)
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>We noticed a new login to your account.</p>
<div class="info-box">
	<strong>Time:</strong> %s<br>
	<strong>IP Address:</strong> %s<br>
	<strong>Device:</strong> %s
</div>
<p>If this was not you, change your password immediately.</p>`, name, when, ip, device)

	return n.Mail.Send(EmailMessage{
		To:      email,
		Name:    name,
		Subject: "New Login Alert",
		Text:    fmt.Sprintf("Dear %s, a new login to your account happened at %s from %s.", name, when, ip),
		HTML:    layout(n.brand(), "New Login Detected", body),
	})
}

// SendAccountStatusEmail tells the user their account was blocked or unblocked.
func (n *Notifier) SendAccountStatusEmail(email, name string, active bool) error {
	status, detail := "blocked", "You can no longer log in. Contact support if you think this is a mistake."
	if active {
		status, detail = "unblocked", "You can log in again."
	}
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>Your account has been <strong>%s</strong> by an administrator.</p>
<p>%s</p>`, name, status, detail)

	return n.Mail.Send(EmailMessage{
		To:      email,
		Name:    name,
		Subject: "Your account has been " + status,
		Text:    fmt.Sprintf("Dear %s, your account has been %s. %s", name, status, detail),
		HTML:    layout(n.brand(), "Account "+status, body),
	})
}
