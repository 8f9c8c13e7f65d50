package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hopefoundation_backend/internals/features/finance/errs"
	ledgerDto "hopefoundation_backend/internals/features/finance/ledger/dto"
	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
	"hopefoundation_backend/internals/features/finance/payments/dto"
	"hopefoundation_backend/internals/features/finance/payments/model"
)

var ErrGatewayDisabled = fiber.NewError(fiber.StatusServiceUnavailable, "online donations are not configured")

// ErrGatewayCheck menandai gagal cek status ke gateway; notifikasi boleh diulang.
var ErrGatewayCheck = errors.New("payment gateway status check failed")

// Retryable reports whether a notification failure is transient, so the
// gateway should deliver it again.
func Retryable(err error) bool {
	var se *errs.StorageError
	return errors.Is(err, ErrGatewayCheck) || errors.As(err, &se)
}

// DonationRecorder is the ledger entry point used once a payment is confirmed.
type DonationRecorder interface {
	RecordDonation(ctx context.Context, req ledgerDto.CreateDonationRequest, recordedBy *uuid.UUID) (*ledgerModel.Donation, error)
}

type PaymentService struct {
	DB      *gorm.DB
	Ledger  DonationRecorder
	Gateway Gateway // nil: checkout disabled
	Now     func() time.Time
}

func NewPaymentService(db *gorm.DB, ledger DonationRecorder, gw Gateway) *PaymentService {
	return &PaymentService{DB: db, Ledger: ledger, Gateway: gw, Now: time.Now}
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Checkout menyimpan intent pending lalu meminta token Snap ke gateway.
func (s *PaymentService) Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if s.Gateway == nil {
		return nil, ErrGatewayDisabled
	}
	d, err := req.Donation()
	if err != nil {
		return nil, err
	}

	intent := model.PaymentIntent{
		PaymentIntentOrderID:    fmt.Sprintf("DONATION-%d", s.now().UnixNano()),
		PaymentIntentProvider:   model.ProviderMidtrans,
		PaymentIntentDonorName:  d.DonorName,
		PaymentIntentDonorEmail: d.DonorEmail,
		PaymentIntentDonorPhone: d.DonorPhone,
		PaymentIntentAmount:     d.Amount,
		PaymentIntentNotes:      d.Notes,
		PaymentIntentStatus:     model.IntentStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(&intent).Error; err != nil {
		return nil, errs.Storage("create payment intent", err)
	}

	session, err := s.Gateway.CreateCheckout(ctx, CheckoutOrder{
		OrderID:     intent.PaymentIntentOrderID,
		Amount:      intent.PaymentIntentAmount,
		Customer:    Customer{Name: d.DonorName, Email: deref(d.DonorEmail), Phone: deref(d.DonorPhone)},
		Description: "Donation from " + d.DonorName,
	})
	if err != nil {
		log.Printf("[ERROR] checkout %s: gateway refused: %v", intent.PaymentIntentOrderID, err)
		if uerr := s.setStatus(ctx, &intent, model.IntentStatusFailed); uerr != nil {
			log.Printf("[WARN] could not mark intent %s failed: %v", intent.PaymentIntentOrderID, uerr)
		}
		return nil, fiber.NewError(fiber.StatusBadGateway, "payment gateway unavailable")
	}

	err = s.DB.WithContext(ctx).Model(&intent).Updates(map[string]any{
		"payment_intent_token":        session.Token,
		"payment_intent_redirect_url": session.RedirectURL,
	}).Error
	if err != nil {
		return nil, errs.Storage("save checkout token", err)
	}

	log.Printf("[INFO] checkout %s created for %s", intent.PaymentIntentOrderID, intent.PaymentIntentAmount.StringFixed(2))
	return &dto.CheckoutResponse{
		OrderID:     intent.PaymentIntentOrderID,
		Amount:      intent.PaymentIntentAmount,
		Token:       session.Token,
		RedirectURL: session.RedirectURL,
	}, nil
}

func (s *PaymentService) GetIntent(ctx context.Context, orderID string) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := s.DB.WithContext(ctx).Where("payment_intent_order_id = ?", orderID).First(&intent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &errs.NotFoundError{Entity: "payment", ID: orderID}
	}
	if err != nil {
		return nil, errs.Storage("get payment intent", err)
	}
	return &intent, nil
}

// HandleNotification memproses webhook gateway. Status selalu ditanyakan ulang
// ke gateway; body webhook hanya dipakai untuk order_id. Donasi dicatat tepat
// satu kali per order.
func (s *PaymentService) HandleNotification(ctx context.Context, n dto.Notification) (*dto.NotificationResult, error) {
	if n.OrderID == "" {
		return nil, errs.NewValidation("order_id is required")
	}
	if s.Gateway == nil {
		return nil, ErrGatewayDisabled
	}
	intent, err := s.GetIntent(ctx, n.OrderID)
	if err != nil {
		return nil, err
	}
	if intent.Settled() {
		return result(intent), nil
	}

	st, err := s.Gateway.CheckTransaction(ctx, n.OrderID)
	if err != nil {
		return nil, fmt.Errorf("check transaction %s: %w: %w", n.OrderID, ErrGatewayCheck, err)
	}
	s.keepGatewayStatus(ctx, intent, st)

	switch status := IntentStatus(*st); status {
	case model.IntentStatusPending:
		return result(intent), nil
	case model.IntentStatusPaid:
		if gross, perr := decimal.NewFromString(st.GrossAmount); perr == nil && !gross.Equal(intent.PaymentIntentAmount) {
			log.Printf("[WARN] order %s: gateway amount %s does not match intent %s", n.OrderID, st.GrossAmount, intent.PaymentIntentAmount.StringFixed(2))
			if err := s.setStatus(ctx, intent, model.IntentStatusFailed); err != nil {
				return nil, err
			}
			return result(intent), nil
		}
		return s.confirm(ctx, intent, st)
	default:
		if err := s.setStatus(ctx, intent, status); err != nil {
			return nil, err
		}
		log.Printf("[INFO] order %s closed as %s", n.OrderID, status)
		return result(intent), nil
	}
}

// confirm claims the intent first so two concurrent notifications cannot both
// record a donation. A failed ledger write releases the claim for the next retry.
func (s *PaymentService) confirm(ctx context.Context, intent *model.PaymentIntent, st *TransactionStatus) (*dto.NotificationResult, error) {
	res := s.DB.WithContext(ctx).Model(&model.PaymentIntent{}).
		Where("payment_intent_id = ? AND payment_intent_status = ?", intent.PaymentIntentID, model.IntentStatusPending).
		Update("payment_intent_status", model.IntentStatusPaid)
	if res.Error != nil {
		return nil, errs.Storage("claim payment intent", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.resultFor(ctx, intent.PaymentIntentOrderID)
	}

	donation, err := s.existingDonation(ctx, intent.PaymentIntentOrderID)
	if err == nil && donation == nil {
		orderID := intent.PaymentIntentOrderID
		donation, err = s.Ledger.RecordDonation(ctx, ledgerDto.CreateDonationRequest{
			DonorName:         intent.PaymentIntentDonorName,
			DonorEmail:        intent.PaymentIntentDonorEmail,
			DonorPhone:        intent.PaymentIntentDonorPhone,
			Amount:            intent.PaymentIntentAmount,
			Method:            DonationMethod(st.PaymentType),
			ExternalPaymentID: nonEmpty(st.TransactionID),
			ExternalOrderID:   &orderID,
			Notes:             intent.PaymentIntentNotes,
		}, nil)
	}
	if err != nil {
		if rerr := s.setStatus(ctx, intent, model.IntentStatusPending); rerr != nil {
			log.Printf("[WARN] could not release intent %s: %v", intent.PaymentIntentOrderID, rerr)
		}
		return nil, err
	}

	now := s.now()
	intent.PaymentIntentStatus = model.IntentStatusPaid
	intent.PaymentIntentDonationID = &donation.DonationID
	intent.PaymentIntentTransactionID = nonEmpty(st.TransactionID)
	intent.PaymentIntentPaymentType = nonEmpty(st.PaymentType)
	intent.PaymentIntentPaidAt = &now
	err = s.DB.WithContext(ctx).Model(intent).Updates(map[string]any{
		"payment_intent_donation_id":    intent.PaymentIntentDonationID,
		"payment_intent_transaction_id": intent.PaymentIntentTransactionID,
		"payment_intent_payment_type":   intent.PaymentIntentPaymentType,
		"payment_intent_paid_at":        now,
	}).Error
	if err != nil {
		log.Printf("[WARN] donation %s recorded but intent %s not updated: %v", donation.DonationID, intent.PaymentIntentOrderID, err)
	}

	log.Printf("[INFO] order %s paid, donation %s recorded", intent.PaymentIntentOrderID, donation.DonationID)
	return result(intent), nil
}

// keepGatewayStatus stores the raw status answer on the intent. Failure is logged only.
func (s *PaymentService) keepGatewayStatus(ctx context.Context, intent *model.PaymentIntent, st *TransactionStatus) {
	raw, err := sonic.Marshal(st)
	if err != nil {
		log.Printf("[WARN] order %s: encode gateway status: %v", intent.PaymentIntentOrderID, err)
		return
	}
	if err := s.DB.WithContext(ctx).Model(intent).Update("payment_intent_gateway_status", datatypes.JSON(raw)).Error; err != nil {
		log.Printf("[WARN] order %s: store gateway status: %v", intent.PaymentIntentOrderID, err)
		return
	}
	intent.PaymentIntentGatewayStatus = raw
}

// existingDonation finds a donation already recorded for this order, tombstoned ones included.
func (s *PaymentService) existingDonation(ctx context.Context, orderID string) (*ledgerModel.Donation, error) {
	var d ledgerModel.Donation
	err := s.DB.WithContext(ctx).Unscoped().Where("donation_external_order_id = ?", orderID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage("find donation by order", err)
	}
	return &d, nil
}

func (s *PaymentService) setStatus(ctx context.Context, intent *model.PaymentIntent, status string) error {
	if err := s.DB.WithContext(ctx).Model(intent).Update("payment_intent_status", status).Error; err != nil {
		return errs.Storage("update payment intent", err)
	}
	intent.PaymentIntentStatus = status
	return nil
}

func (s *PaymentService) resultFor(ctx context.Context, orderID string) (*dto.NotificationResult, error) {
	intent, err := s.GetIntent(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return result(intent), nil
}

func result(intent *model.PaymentIntent) *dto.NotificationResult {
	out := &dto.NotificationResult{OrderID: intent.PaymentIntentOrderID, Status: intent.PaymentIntentStatus}
	if intent.PaymentIntentDonationID != nil {
		id := intent.PaymentIntentDonationID.String()
		out.DonationID = &id
	}
	return out
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
