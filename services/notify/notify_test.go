package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleMailerRecordsOTP(t *testing.T) {
	mailer := NewConsoleMailer()
	n := &Notifier{Mail: mailer, SMS: NewConsoleSMS()}

	require.NoError(t, n.SendOTPEmail("jane@example.com", "123456", 10))

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@example.com", sent[0].To)
	assert.Contains(t, sent[0].Text, "123456")
	assert.Contains(t, sent[0].HTML, "123456")

	mailer.Reset()
	assert.Empty(t, mailer.Sent())
}

func TestEnrollmentEmail(t *testing.T) {
	mailer := NewConsoleMailer()
	n := &Notifier{Mail: mailer}

	require.NoError(t, n.SendEnrollmentEmail("sam@example.com", "Sam", "Go Basics"))

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "Go Basics")
	assert.Equal(t, "Sam", sent[0].Name)
}

func TestGatewaySMS(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"authorization": q.Get("authorization"),
			"numbers":       q.Get("numbers"),
			"sender_id":     q.Get("sender_id"),
			"message":       q.Get("message"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sms := NewGatewaySMS(srv.URL, "key", "JOBPRT")
	n := &Notifier{SMS: sms}
	require.NoError(t, n.SendOTPSMS("+15550001", "654321", 10))

	assert.Equal(t, "key", got["authorization"])
	assert.Equal(t, "+15550001", got["numbers"])
	assert.Equal(t, "JOBPRT", got["sender_id"])
	assert.Contains(t, got["message"], "654321")
}

func TestGatewaySMSFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewGatewaySMS(srv.URL, "key", "JOBPRT").SendSMS("+1", "hi")
	assert.Error(t, err)
}

func TestInitFallsBackToConsole(t *testing.T) {
	n := Init(&config.Config{AppName: "Portal", Password: "defaultSecret"})

	_, isConsoleMail := n.Mail.(*ConsoleMailer)
	_, isConsoleSMS := n.SMS.(*ConsoleSMS)
	assert.True(t, isConsoleMail)
	assert.True(t, isConsoleSMS)
	assert.Same(t, n, Default)
}

func TestInitPicksConfiguredBackends(t *testing.T) {
	n := Init(&config.Config{
		AppName:        "Portal",
		EmailSender:    "noreply@example.com",
		SendgridAPIKey: "SG.key",
		SMSApiURL:      "http://sms.local",
	})

	_, isSendgrid := n.Mail.(*sendgridMailer)
	_, isGateway := n.SMS.(*gatewaySMS)
	assert.True(t, isSendgrid)
	assert.True(t, isGateway)
}

func TestAccountEmailsUseBrandLayout(t *testing.T) {
	mailer := NewConsoleMailer()
	n := &Notifier{Mail: mailer, Brand: "Hireline"}

	require.NoError(t, n.SendWelcomeEmail("ann@example.com", "Ann"))
	require.NoError(t, n.SendLoginNotificationEmail("ann@example.com", "Ann", "10.0.0.1", "curl", time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, n.SendAccountStatusEmail("ann@example.com", "Ann", false))

	sent := mailer.Sent()
	require.Len(t, sent, 3)
	assert.Equal(t, "Welcome to Hireline", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "HIRELINE")
	assert.Contains(t, sent[1].HTML, "10.0.0.1")
	assert.Contains(t, sent[1].Text, "Wed, 01 May 2024 08:00:00 UTC")
	assert.Equal(t, "Your account has been blocked", sent[2].Subject)
}

func TestDefaultBrand(t *testing.T) {
	mailer := NewConsoleMailer()
	n := &Notifier{Mail: mailer}

	require.NoError(t, n.SendAccountStatusEmail("bo@example.com", "Bo", true))
	assert.Contains(t, mailer.Sent()[0].HTML, "JOB PORTAL")
	assert.Equal(t, "Your account has been unblocked", mailer.Sent()[0].Subject)
}
