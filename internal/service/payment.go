package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PaymentGateway creates and refunds payment intents for booking advances.
// Amounts are integer cents.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error)
	Refund(ctx context.Context, intentID string) error
}

// StripeGateway talks to the Stripe HTTP API directly. Requests are
// form-encoded with bearer auth, as the API expects.
type StripeGateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type stripeObject struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewStripeGateway fails when no secret key is configured; the process
// entry point decides whether payments are mandatory for its deployment.
func NewStripeGateway(apiKey string) (*StripeGateway, error) {
	if apiKey == "" {
		return nil, errors.New("stripe secret key is not configured")
	}
	return &StripeGateway{
		apiKey:  apiKey,
		baseURL: "https://api.stripe.com",
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// NopGateway is used when no payment provider is configured. Intent
// creation fails, which leaves bookings pending without an intent; no
// intents means nothing to refund.
type NopGateway struct{}

func (NopGateway) CreateIntent(context.Context, int64, string) (string, error) {
	return "", errors.New("payment gateway is not configured")
}

func (NopGateway) Refund(context.Context, string) error { return nil }

// CreateIntent requests a payment intent for the given amount and returns
// the intent id.
func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error) {
	if currency == "" {
		currency = "usd"
	}
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	obj, err := g.post(ctx, "/v1/payment_intents", form)
	if err != nil {
		return "", err
	}
	return obj.ID, nil
}

// Refund refunds the full amount held by a payment intent.
func (g *StripeGateway) Refund(ctx context.Context, intentID string) error {
	form := url.Values{}
	form.Set("payment_intent", intentID)
	_, err := g.post(ctx, "/v1/refunds", form)
	return err
}

func (g *StripeGateway) post(ctx context.Context, path string, form url.Values) (stripeObject, error) {
	var obj stripeObject
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return obj, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return obj, fmt.Errorf("payment gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return obj, fmt.Errorf("read gateway response: %w", err)
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return obj, fmt.Errorf("parse gateway response: %w", err)
	}
	if obj.Error != nil {
		return obj, fmt.Errorf("payment gateway: %s", obj.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return obj, fmt.Errorf("payment gateway: http %d", resp.StatusCode)
	}
	return obj, nil
}
