package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrInvalidAmount is returned for a missing price, one under one cent, or
// one above MaxAmountCents.
var ErrInvalidAmount = errors.New("invalid amount")

// MaxAmountCents is the largest amount Stripe accepts for a USD charge.
const MaxAmountCents = 99999999

// IntentCreator creates a payment intent with the provider and returns its client secret.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error)
}

// StripeIntents creates payment intents through the Stripe API.
type StripeIntents struct {
	api *client.API
}

// NewStripeIntents builds a Stripe client for secretKey.
func NewStripeIntents(secretKey string) *StripeIntents {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeIntents{api: api}
}

func (s *StripeIntents) CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}

// PaymentService forwards checkout amounts to the payment provider.
type PaymentService struct {
	provider IntentCreator
}

// NewPaymentService creates a PaymentService backed by provider.
func NewPaymentService(provider IntentCreator) *PaymentService {
	return &PaymentService{provider: provider}
}

// CreateIntent converts price (dollars, as a JSON number or numeric string) to
// cents and opens a USD payment intent for it.
func (s *PaymentService) CreateIntent(ctx context.Context, price any) (string, error) {
	cents, err := PriceToCents(price)
	if err != nil {
		return "", err
	}
	return s.provider.CreateIntent(ctx, cents, string(stripe.CurrencyUSD))
}

// PriceToCents parses a dollar price into whole cents.
func PriceToCents(price any) (int64, error) {
	var dollars float64
	switch v := price.(type) {
	case float64:
		dollars = v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, v)
		}
		dollars = f
	default:
		return 0, ErrInvalidAmount
	}

	cents := dollars * 100
	if math.IsNaN(cents) || math.IsInf(cents, 0) || cents < 1 || math.Round(cents) > MaxAmountCents {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, price)
	}
	return int64(math.Round(cents)), nil
}
