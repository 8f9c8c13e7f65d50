package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopefoundation_backend/internals/configs"
	"hopefoundation_backend/internals/constants"
	database "hopefoundation_backend/internals/databases"
	allocService "hopefoundation_backend/internals/features/finance/allocations/service"
	auditService "hopefoundation_backend/internals/features/finance/audit/service"
	ledgerService "hopefoundation_backend/internals/features/finance/ledger/service"
	paymentService "hopefoundation_backend/internals/features/finance/payments/service"
	reconService "hopefoundation_backend/internals/features/finance/reconciliation/service"
	staffDto "hopefoundation_backend/internals/features/users/staff/dto"
	staffService "hopefoundation_backend/internals/features/users/staff/service"
	helper "hopefoundation_backend/internals/helpers"
	middlewares "hopefoundation_backend/internals/middlewares"
	routeDetails "hopefoundation_backend/internals/route/details"
	"hopefoundation_backend/internals/testutil"
)

type testServer struct {
	app    *fiber.App
	tokens map[string]string
}

func newTestServer(t *testing.T, mw ...fiber.Handler) *testServer {
	t.Helper()
	configs.JWTSecret = "test-secret"

	db := testutil.NewDB(t, database.Models()...)
	staff := staffService.NewStaffService(db, configs.JWTSecret)
	ledger := ledgerService.NewLedgerService(db)
	ledger.Staff = staff
	alloc := allocService.NewAllocationService(db)
	recon := reconService.NewReconciliationService(ledger, alloc, nil)
	ledger.OnChange = recon
	alloc.OnChange = recon

	app := fiber.New(fiber.Config{ErrorHandler: helper.FromDomainError})
	for _, h := range mw {
		app.Use(h)
	}
	SetupRoutes(app, staff, &routeDetails.FinanceServices{
		Ledger:   ledger,
		Alloc:    alloc,
		Recon:    recon,
		Audit:    auditService.NewAuditService(ledger, nil),
		Payments: paymentService.NewPaymentService(db, ledger, nil),
	})

	ts := &testServer{app: app, tokens: map[string]string{}}
	for _, role := range constants.AllRoles {
		st, err := staff.CreateStaff(context.Background(), staffDto.CreateStaffRequest{
			Name:     "Test " + role,
			Email:    role + "@hopefoundation.org",
			Password: "Password@123",
			Role:     role,
		})
		require.NoError(t, err)
		tok, _, err := staff.IssueToken(st)
		require.NoError(t, err)
		ts.tokens[role] = tok
	}
	return ts
}

type apiResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Data      json.RawMessage     `json:"data"`
}

func (ts *testServer) do(t *testing.T, method, path, role string, body any) (int, apiResponse) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if role != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+ts.tokens[role])
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestAdminGroup_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	code, body := ts.do(t, http.MethodGet, "/api/a/donations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", body.ErrorCode)
}

func TestLogin_IsNotBehindJWT(t *testing.T) {
	ts := newTestServer(t)

	code, body := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@hopefoundation.org",
		"password": "Password@123",
	})
	require.Equal(t, http.StatusOK, code, body.Message)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &resp))
	assert.NotEmpty(t, resp.AccessToken)

	code, _ = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@hopefoundation.org",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestManagerCannotWriteLedger(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.do(t, http.MethodGet, "/api/a/donations", constants.RoleManager, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body := ts.do(t, http.MethodPost, "/api/a/donations", constants.RoleManager, map[string]any{
		"donor_name": "Rohan Sharma", "amount": "5000", "method": "UPI",
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", body.ErrorCode)

	code, _ = ts.do(t, http.MethodPost, "/api/o/ledger/rebuild", constants.RoleStaff, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestLedgerFlow_OverHTTP(t *testing.T) {
	ts := newTestServer(t)

	code, body := ts.do(t, http.MethodPost, "/api/a/donations", constants.RoleStaff, map[string]any{
		"donor_name": "Rohan Sharma", "amount": "7000", "method": "UPI",
	})
	require.Equal(t, http.StatusCreated, code, body.Message)

	code, body = ts.do(t, http.MethodPost, "/api/a/disbursements", constants.RoleStaff, map[string]any{
		"recipient": "Sunrise Public School", "amount": "9000", "category": "Education", "description": "Scholarships",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", body.ErrorCode)

	code, body = ts.do(t, http.MethodPost, "/api/a/disbursements", constants.RoleAdmin, map[string]any{
		"recipient": "Sunrise Public School", "amount": "5000", "category": "Education", "description": "Scholarships",
	})
	require.Equal(t, http.StatusCreated, code, body.Message)

	code, body = ts.do(t, http.MethodGet, "/api/public/summary", "", nil)
	require.Equal(t, http.StatusOK, code)
	var sum struct {
		TotalFunds       decimal.Decimal `json:"total_funds"`
		TotalDisbursed   decimal.Decimal `json:"total_disbursed"`
		AvailableBalance decimal.Decimal `json:"available_balance"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &sum))
	assert.True(t, sum.TotalFunds.Equal(decimal.NewFromInt(7000)))
	assert.True(t, sum.TotalDisbursed.Equal(decimal.NewFromInt(5000)))
	assert.True(t, sum.AvailableBalance.Equal(decimal.NewFromInt(2000)))
}

func TestValidationAndMismatchErrors(t *testing.T) {
	ts := newTestServer(t)

	code, body := ts.do(t, http.MethodPost, "/api/a/donations", constants.RoleAdmin, map[string]any{
		"donor_name": "", "amount": "0", "method": "Barter",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "VALIDATION_ERROR", body.ErrorCode)
	assert.NotEmpty(t, body.Errors["fields"])

	code, body = ts.do(t, http.MethodPut, "/api/a/utilization-ratios", constants.RoleAdmin, map[string]int{
		"education": 60, "nutrition": 30, "healthcare": 20,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "ALLOCATION_MISMATCH", body.ErrorCode)

	code, body = ts.do(t, http.MethodGet, "/api/a/donations/not-an-id", constants.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", body.ErrorCode)
}

func TestCheckout_DisabledWithoutGateway(t *testing.T) {
	ts := newTestServer(t)

	code, body := ts.do(t, http.MethodPost, "/api/public/donations/checkout", "", map[string]any{
		"donor_name": "Alice Smith", "amount": "12000",
	})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body.ErrorCode)
}

func TestRequestDeadline_ReachesServices(t *testing.T) {
	ts := newTestServer(t, middlewares.RequestContext(time.Nanosecond))

	code, body := ts.do(t, http.MethodGet, "/api/public/summary", "", nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "INTERNAL_ERROR", body.ErrorCode)
}
