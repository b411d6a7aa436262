package paymentService

import (
	"fmt"
	"math"

	"portal/config"
	"portal/models"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/pkg/errors"
)

const (
	GatewayStub     = "stub"
	GatewayMidtrans = "midtrans"
)

// Charge is what a gateway reports for a new payment.
type Charge struct {
	Paid        bool
	Token       string
	RedirectURL string
}

type Customer struct {
	Name  string
	Email string
	Phone string
}

type Gateway interface {
	Name() string
	Charge(p *models.Payment, item string, cust Customer) (Charge, error)
}

type stubGateway struct{}

// NewStubGateway accepts every payment immediately.
func NewStubGateway() Gateway { return stubGateway{} }

func (stubGateway) Name() string { return GatewayStub }

func (stubGateway) Charge(p *models.Payment, item string, cust Customer) (Charge, error) {
	return Charge{Paid: true, Token: "stub-" + p.OrderID}, nil
}

type midtransGateway struct {
	client snap.Client
}

// NewMidtransGateway creates snap transactions that complete through the
// payment notification callback.
func NewMidtransGateway(serverKey string, production bool) Gateway {
	g := &midtransGateway{}
	if production {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

func (g *midtransGateway) Name() string { return GatewayMidtrans }

func (g *midtransGateway) Charge(p *models.Payment, item string, cust Customer) (Charge, error) {
	gross := int64(math.Round(p.Total))
	if gross <= 0 {
		return Charge{}, errors.New("invalid payment amount")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  p.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.Name,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       fmt.Sprintf("enrollment-%d", p.EnrollmentID),
			Price:    gross,
			Qty:      1,
			Name:     truncate(item, 50),
			Category: "course",
		}},
	}

	resp, mErr := g.client.CreateTransaction(req)
	if mErr != nil {
		return Charge{}, errors.Wrap(mErr, "midtrans create transaction")
	}
	return Charge{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// NewGateway returns the midtrans gateway when a server key is configured
// and the stub otherwise.
func NewGateway(cfg *config.Config) Gateway {
	if cfg.MidtransServerKey != "" {
		return NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransProduction)
	}
	return NewStubGateway()
}
