package notify

import (
	"fmt"
	"log"

	"portal/config"
)

// Notifier bundles the outbound channels used for OTPs and course mails.
type Notifier struct {
	Mail  Mailer
	SMS   SMSSender
	Brand string
}

func (n *Notifier) brand() string {
	if n.Brand == "" {
		return defaultBrand
	}
	return n.Brand
}

// Default is the process-wide notifier set up by Init.
var Default = &Notifier{Mail: NewConsoleMailer(), SMS: NewConsoleSMS()}

// Init picks the mail and SMS backends from configuration. Without
// credentials messages go to the log.
func Init(cfg *config.Config) *Notifier {
	n := &Notifier{Brand: cfg.AppName}

	switch {
	case cfg.SendgridAPIKey != "":
		n.Mail = NewSendgridMailer(cfg.SendgridAPIKey, cfg.AppName, cfg.EmailSender)
	case cfg.Password != "" && cfg.Password != "defaultSecret":
		n.Mail = NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailSender, cfg.Password)
	default:
		log.Println("[MAIL] no mail credentials configured, logging emails to console")
		n.Mail = NewConsoleMailer()
	}

	if cfg.SMSApiURL != "" {
		n.SMS = NewGatewaySMS(cfg.SMSApiURL, cfg.SMSApiKey, cfg.SMSSenderID)
	} else {
		n.SMS = NewConsoleSMS()
	}

	Default = n
	return n
}

// SendOTPEmail mails a login code.
func (n *Notifier) SendOTPEmail(email, code string, lifetimeMinutes int) error {
	return n.Mail.Send(EmailMessage{
		To:      email,
		Subject: "Your login verification code",
		Text:    fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, lifetimeMinutes),
		HTML: layout(n.brand(), "Login verification", fmt.Sprintf(`<p>Your one time code is:</p>
<h1 style="color: #4CAF50;">%s</h1>
<p>It expires in %d minutes. Do not share it with anyone.</p>`, code, lifetimeMinutes)),
	})
}

func (n *Notifier) SendOTPSMS(phone, code string, lifetimeMinutes int) error {
	return n.SMS.SendSMS(phone, fmt.Sprintf("Your verification code is %s. Valid for %d minutes.", code, lifetimeMinutes))
}

// SendEnrollmentEmail confirms a new course enrollment.
func (n *Notifier) SendEnrollmentEmail(email, userName, courseTitle string) error {
	return n.Mail.Send(EmailMessage{
		To:      email,
		Name:    userName,
		Subject: "Course enrollment confirmation",
		Text:    fmt.Sprintf("Dear %s, you have successfully enrolled in %s.", userName, courseTitle),
		HTML: layout(n.brand(), "Enrollment successful!", fmt.Sprintf(`<p>Dear %s,</p>
<p>You have successfully enrolled in:</p>
<h3 style="color: #4CAF50;">%s</h3>
<p>Happy learning!</p>`, userName, courseTitle)),
	})
}

// Go runs a send in the background and logs failures.
func Go(tag string, send func() error) {
	go func() {
		if err := send(); err != nil {
			log.Printf("[%s] %v", tag, err)
		}
	}()
}
