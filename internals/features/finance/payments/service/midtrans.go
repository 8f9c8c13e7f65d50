package service

import (
	"context"
	"strings"
	"unicode/utf8"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
	"hopefoundation_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Gateway boundary
========================================================= */

type Customer struct {
	Name  string
	Email string
	Phone string
}

type CheckoutOrder struct {
	OrderID     string
	Amount      decimal.Decimal // major unit
	Customer    Customer
	Description string
}

type CheckoutSession struct {
	Token       string
	RedirectURL string
}

// TransactionStatus is the gateway's authoritative view of one order.
type TransactionStatus struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id,omitempty"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	PaymentType       string `json:"payment_type,omitempty"`
	GrossAmount       string `json:"gross_amount,omitempty"`
}

type Gateway interface {
	CreateCheckout(ctx context.Context, order CheckoutOrder) (*CheckoutSession, error)
	CheckTransaction(ctx context.Context, orderID string) (*TransactionStatus, error)
}

/* =========================================================
   Midtrans (Snap untuk checkout, Core API untuk cek status)
========================================================= */

type MidtransGateway struct {
	Snap snap.Client
	Core coreapi.Client
}

// NewMidtransGateway: useProduction=true untuk Production, false untuk Sandbox.
func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.Snap.New(serverKey, env)
	g.Core.New(serverKey, env)
	return g
}

func (g *MidtransGateway) CreateCheckout(_ context.Context, order CheckoutOrder) (*CheckoutSession, error) {
	gross := GrossAmount(order.Amount)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: order.Customer.Name,
			Email: order.Customer.Email,
			Phone: order.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       order.OrderID,
			Price:    gross,
			Qty:      1,
			Name:     truncate(order.Description, 50),
			Category: "Donation",
		}},
	}

	resp, merr := g.Snap.CreateTransaction(req)
	if merr != nil {
		return nil, merr
	}
	return &CheckoutSession{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (g *MidtransGateway) CheckTransaction(_ context.Context, orderID string) (*TransactionStatus, error) {
	resp, merr := g.Core.CheckTransaction(orderID)
	if merr != nil {
		return nil, merr
	}
	return &TransactionStatus{
		OrderID:           resp.OrderID,
		TransactionID:     resp.TransactionID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		PaymentType:       resp.PaymentType,
		GrossAmount:       resp.GrossAmount,
	}, nil
}

/* =========================================================
   Mapping
========================================================= */

// GrossAmount converts a major-unit amount to the integer the gateway charges.
// Midtrans currencies carry no minor unit.
func GrossAmount(amount decimal.Decimal) int64 {
	return amount.Round(0).IntPart()
}

// IntentStatus maps a gateway transaction status onto the intent lifecycle.
func IntentStatus(st TransactionStatus) string {
	switch strings.ToLower(st.TransactionStatus) {
	case "capture":
		if strings.EqualFold(st.FraudStatus, "challenge") {
			return model.IntentStatusPending
		}
		return model.IntentStatusPaid
	case "settlement":
		return model.IntentStatusPaid
	case "expire":
		return model.IntentStatusExpired
	case "cancel", "deny", "failure":
		return model.IntentStatusFailed
	default:
		return model.IntentStatusPending
	}
}

// DonationMethod maps midtrans payment_type to the ledger's donation method.
func DonationMethod(paymentType string) string {
	switch strings.ToLower(paymentType) {
	case "credit_card":
		return ledgerModel.MethodCard
	case "bank_transfer", "echannel", "permata", "bca_klikpay", "bca_klikbca", "bri_epay", "cimb_clicks", "danamon_online":
		return ledgerModel.MethodBankTransfer
	case "qris", "gopay", "shopeepay":
		return ledgerModel.MethodUPI
	case "cstore":
		return ledgerModel.MethodCash
	default:
		return ledgerModel.MethodOther
	}
}

// truncate memotong per karakter, bukan per byte.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
