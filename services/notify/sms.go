package notify

import (
	"log"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

type SMSSender interface {
	SendSMS(phone, text string) error
}

type gatewaySMS struct {
	client   *resty.Client
	url      string
	apiKey   string
	senderID string
}

// NewGatewaySMS sends messages through an HTTP SMS gateway that accepts the
// message as query parameters.
func NewGatewaySMS(url, apiKey, senderID string) SMSSender {
	return &gatewaySMS{
		client:   resty.New().SetTimeout(10 * time.Second),
		url:      url,
		apiKey:   apiKey,
		senderID: senderID,
	}
}

func (g *gatewaySMS) SendSMS(phone, text string) error {
	resp, err := g.client.R().
		SetQueryParams(map[string]string{
			"authorization": g.apiKey,
			"sender_id":     g.senderID,
			"message":       text,
			"numbers":       phone,
		}).
		Get(g.url)
	if err != nil {
		return errors.Wrap(err, "sms gateway request")
	}
	if resp.StatusCode() != 200 {
		return errors.Errorf("sms gateway: status %d", resp.StatusCode())
	}
	log.Println("[SMS] sent to", phone)
	return nil
}

type SMSMessage struct {
	Phone string
	Text  string
}

// ConsoleSMS logs messages and keeps a copy of each.
type ConsoleSMS struct {
	mu   sync.Mutex
	sent []SMSMessage
}

func NewConsoleSMS() *ConsoleSMS {
	return &ConsoleSMS{}
}

func (s *ConsoleSMS) SendSMS(phone, text string) error {
	log.Printf("[SMS] to=%s %s", phone, text)
	s.mu.Lock()
	s.sent = append(s.sent, SMSMessage{Phone: phone, Text: text})
	s.mu.Unlock()
	return nil
}

func (s *ConsoleSMS) Sent() []SMSMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SMSMessage, len(s.sent))
	copy(out, s.sent)
	return out
}
