package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/evrenos/tour-booking/internal/model"
)

// Notifier delivers booking confirmations to guests. Calls are best-effort;
// the booking lifecycle treats failures as log-and-continue.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, phone string, b model.Booking) error
}

// WhatsAppNotifier posts messages to a WhatsApp business API provider.
type WhatsAppNotifier struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewWhatsAppNotifier(apiKey, baseURL string) (*WhatsAppNotifier, error) {
	if apiKey == "" {
		return nil, errors.New("whatsapp api key is not configured")
	}
	if baseURL == "" {
		baseURL = "https://api.whatsapp.example.com"
	}
	return &WhatsAppNotifier{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (n *WhatsAppNotifier) SendBookingConfirmation(ctx context.Context, phone string, b model.Booking) error {
	msg := fmt.Sprintf(
		"Your booking #%d has been %s. Total: %d.%02d, advance paid: %d.%02d.",
		b.ID, b.Status,
		b.TotalAmountCents/100, b.TotalAmountCents%100,
		b.AdvancePaymentCents/100, b.AdvancePaymentCents%100)
	payload, err := json.Marshal(map[string]string{"to": phone, "body": msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/v1/messages",
		bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification send: http %d", resp.StatusCode)
	}
	return nil
}

// NopNotifier is used when no provider is configured.
type NopNotifier struct{}

func (NopNotifier) SendBookingConfirmation(context.Context, string, model.Booking) error {
	return nil
}
