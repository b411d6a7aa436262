package notify

import (
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"sync"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailMessage struct {
	To      string
	Name    string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(msg EmailMessage) error
}

type sendgridMailer struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
}

func NewSendgridMailer(key, appName, fromEmail string) Mailer {
	return &sendgridMailer{
		client:     sendgrid.NewSendClient(key),
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}
}

func (m *sendgridMailer) Send(msg EmailMessage) error {
	to := sgmail.NewEmail(msg.Name, msg.To)
	mail := sgmail.NewSingleEmail(m.from, m.subjPrefix+msg.Subject, to, msg.Text, msg.HTML)

	res, err := m.client.Send(mail)
	if err != nil {
		return errors.Wrap(err, "sendgrid send")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid send: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

type smtpMailer struct {
	host, port string
	from       string
	password   string
}

func NewSMTPMailer(host, port, from, password string) Mailer {
	return &smtpMailer{host: host, port: port, from: from, password: password}
}

func (m *smtpMailer) Send(msg EmailMessage) error {
	header := fmt.Sprintf("Subject: %s\nMIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n", msg.Subject)
	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{msg.To}, []byte(header+msg.HTML)); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	return nil
}

// ConsoleMailer logs messages instead of delivering them and keeps a copy of each.
type ConsoleMailer struct {
	mu   sync.Mutex
	sent []EmailMessage
}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (m *ConsoleMailer) Send(msg EmailMessage) error {
	log.Printf("[MAIL] to=%s subject=%q\n%s", msg.To, msg.Subject, msg.Text)
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

// Sent returns a snapshot of the messages sent so far.
func (m *ConsoleMailer) Sent() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *ConsoleMailer) Reset() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}
