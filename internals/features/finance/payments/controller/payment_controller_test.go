package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
	ledgerService "hopefoundation_backend/internals/features/finance/ledger/service"
	"hopefoundation_backend/internals/features/finance/payments/dto"
	"hopefoundation_backend/internals/features/finance/payments/model"
	"hopefoundation_backend/internals/features/finance/payments/service"
	"hopefoundation_backend/internals/testutil"
)

type stubGateway struct {
	status   map[string]service.TransactionStatus
	checkErr error
}

func (g *stubGateway) CreateCheckout(_ context.Context, order service.CheckoutOrder) (*service.CheckoutSession, error) {
	return &service.CheckoutSession{Token: "tok-" + order.OrderID}, nil
}

func (g *stubGateway) CheckTransaction(_ context.Context, orderID string) (*service.TransactionStatus, error) {
	if g.checkErr != nil {
		return nil, g.checkErr
	}
	st, ok := g.status[orderID]
	if !ok {
		return &service.TransactionStatus{OrderID: orderID, TransactionStatus: "pending"}, nil
	}
	return &st, nil
}

func newTestApp(t *testing.T) (*fiber.App, *service.PaymentService, *stubGateway) {
	t.Helper()
	db := testutil.NewDB(t, &model.PaymentIntent{}, &ledgerModel.Donation{}, &ledgerModel.Disbursement{}, &ledgerModel.LedgerBalance{})
	gw := &stubGateway{status: map[string]service.TransactionStatus{}}
	svc := service.NewPaymentService(db, ledgerService.NewLedgerService(db), gw)

	app := fiber.New()
	app.Post("/notification", NewPaymentController(svc).Notification)
	return app, svc, gw
}

func notify(t *testing.T, app *fiber.App, orderID string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/notification",
		strings.NewReader(`{"order_id":"`+orderID+`","transaction_status":"settlement"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestNotification_GatewayErrorAsksForRedelivery(t *testing.T) {
	app, svc, gw := newTestApp(t)
	ctx := context.Background()
	co, err := svc.Checkout(ctx, dto.CheckoutRequest{DonorName: "Kavya Nair", Amount: decimal.NewFromInt(2500)})
	require.NoError(t, err)

	gw.checkErr = errors.New("gateway timeout")
	code, body := notify(t, app, co.OrderID)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "retry", body["status"])

	// kiriman ulang setelah gateway pulih mencatat donasi
	gw.checkErr = nil
	gw.status[co.OrderID] = service.TransactionStatus{
		OrderID: co.OrderID, TransactionID: "trx-9", TransactionStatus: "settlement",
		PaymentType: "bank_transfer", GrossAmount: "2500.00",
	}
	code, body = notify(t, app, co.OrderID)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	intent, err := svc.GetIntent(ctx, co.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.IntentStatusPaid, intent.PaymentIntentStatus)
	assert.NotNil(t, intent.PaymentIntentDonationID)
}

func TestNotification_FinalOutcomesAnswerOK(t *testing.T) {
	app, svc, gw := newTestApp(t)
	ctx := context.Background()

	code, body := notify(t, app, "DONATION-404")
	assert.Equal(t, http.StatusOK, code, "unknown orders are not redelivered")
	assert.Equal(t, "error", body["status"])

	co, err := svc.Checkout(ctx, dto.CheckoutRequest{DonorName: "Kavya Nair", Amount: decimal.NewFromInt(2500)})
	require.NoError(t, err)
	gw.status[co.OrderID] = service.TransactionStatus{OrderID: co.OrderID, TransactionStatus: "settlement", GrossAmount: "5.00"}

	code, body = notify(t, app, co.OrderID)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.IntentStatusFailed, body["payment_status"])
}
