// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/snehalata/aura-backend/internal/config"
	"github.com/snehalata/aura-backend/internal/models"
	"github.com/snehalata/aura-backend/internal/store"
	"github.com/snehalata/aura-backend/internal/utils"
)

// PaymentService charges checkouts. Card payments ride Stripe; the
// local wallet rails (bKash, Nagad) are simulated with a fixed
// processing delay until real merchant accounts exist.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type ChargeRequest struct {
	Method   models.PaymentMethod `json:"method" validate:"required"`
	Amount   float64              `json:"amount" validate:"required,gt=0"`
	CardData map[string]string    `json:"card_data,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// CreatePaymentIntent opens a Stripe intent for a card checkout. The
// client confirms it with Stripe.js and then calls Charge with the
// intent id as reference.
func (s *PaymentService) CreatePaymentIntent(amount float64, customerID string) (*PaymentIntentResponse, error) {
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	currency := s.config.Payment.Currency
	if currency == "" {
		currency = "bdt"
	}

	// Stripe wants the smallest currency unit
	amountInCents := int64(amount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("customer_id", customerID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// Charge settles a payment and returns the confirmation the commerce
// store requires before it will produce an order.
func (s *PaymentService) Charge(req *ChargeRequest) (*store.PaymentConfirmation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var reference string
	var err error
	switch req.Method {
	case models.PaymentMethodCard:
		reference, err = s.chargeCard(req)
	case models.PaymentMethodBkash, models.PaymentMethodNagad:
		reference, err = s.chargeWallet(req)
	default:
		return nil, errors.New("unsupported payment method")
	}

	now := time.Now()
	payment := &models.Payment{
		Method:    req.Method,
		Amount:    req.Amount,
		Reference: reference,
	}
	if err != nil {
		payment.Status = models.PaymentStatusFailed
		payment.Metadata = models.JSONB{"error": err.Error()}
		if dbErr := s.db.Create(payment).Error; dbErr != nil {
			logrus.WithError(dbErr).Error("Failed to record failed payment")
		}
		return nil, err
	}

	payment.Status = models.PaymentStatusCompleted
	payment.ProcessedAt = &now
	if dbErr := s.db.Create(payment).Error; dbErr != nil {
		logrus.WithError(dbErr).Error("Failed to record payment")
	}

	return &store.PaymentConfirmation{
		Method:    req.Method,
		Reference: reference,
	}, nil
}

// AttachOrder links a settled payment to the order Checkout produced.
func (s *PaymentService) AttachOrder(reference, orderID string) error {
	result := s.db.Model(&models.Payment{}).
		Where("reference = ?", reference).
		Update("order_id", orderID)
	if result.Error != nil {
		return fmt.Errorf("failed to attach order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("payment not found")
	}
	return nil
}

func (s *PaymentService) chargeCard(req *ChargeRequest) (string, error) {
	intentID := req.CardData["payment_intent_id"]
	if intentID == "" {
		return "", errors.New("payment_intent_id is required for card payments")
	}

	pi, err := paymentintent.Get(intentID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch payment intent: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return pi.ID, nil
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		return "", errors.New("payment requires further action")
	default:
		return "", fmt.Errorf("payment not settled: %s", pi.Status)
	}
}

func (s *PaymentService) chargeWallet(req *ChargeRequest) (string, error) {
	// Simulated gateway latency
	delay := time.Duration(s.config.Payment.SimulatedDelayMs) * time.Millisecond
	if delay > 0 {
		time.Sleep(delay)
	}

	reference, err := utils.GeneratePaymentReference()
	if err != nil {
		return "", fmt.Errorf("failed to generate payment reference: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"method":    req.Method,
		"amount":    req.Amount,
		"reference": reference,
	}).Info("Simulated wallet payment settled")

	return reference, nil
}

// History lists payments, newest first.
func (s *PaymentService) History(params utils.PaginationParams) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	query := s.db.Model(&models.Payment{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "amount"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}
	return payments, total, nil
}
