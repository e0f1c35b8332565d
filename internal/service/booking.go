// Package service holds the business logic that sits between handlers and
// repositories: the booking lifecycle manager and its external
// collaborators (payment gateway, notifier, event publisher, mailer).
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/evrenos/tour-booking/internal/model"
	"github.com/evrenos/tour-booking/internal/queue"
	"github.com/evrenos/tour-booking/internal/repository"
)

// ErrInvalidTransition is returned when a confirm or cancel would violate
// the booking state machine (pending -> confirmed, pending|confirmed ->
// cancelled, no exit from cancelled). Handlers map it to HTTP 409.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// ErrValidation wraps input problems detected before touching the store.
// Handlers map it to HTTP 400.
var ErrValidation = errors.New("validation failed")

// BookingStore is the persistence surface the lifecycle manager needs.
// *repository.BookingRepo satisfies it.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	SetPaymentIntent(ctx context.Context, id uint64, intentID string) error
	Update(ctx context.Context, id uint64, p repository.BookingPatch) (model.Booking, error)
	Delete(ctx context.Context, id uint64) error
}

// GuestFinder resolves guest ids to records, for phone lookups.
type GuestFinder interface {
	GetByID(ctx context.Context, id uint64) (model.Guest, error)
}

// BookingManager drives the booking lifecycle. All collaborators are
// injected at construction; the manager owns no global state.
type BookingManager struct {
	store     BookingStore
	guests    GuestFinder
	payments  PaymentGateway
	notifier  Notifier
	publisher EventPublisher
	log       zerolog.Logger
}

func NewBookingManager(store BookingStore, guests GuestFinder, payments PaymentGateway,
	notifier Notifier, publisher EventPublisher, log zerolog.Logger) *BookingManager {
	return &BookingManager{
		store:     store,
		guests:    guests,
		payments:  payments,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
	}
}

// BookingInput is the validated shape for a new booking.
type BookingInput struct {
	TourID               uint64    `json:"tour_id"`
	GuestID              uint64    `json:"guest_id"`
	AgencyID             *uint64   `json:"agency_id"`
	TotalAmountCents     int64     `json:"total_amount_cents"`
	AdvancePaymentCents  int64     `json:"advance_payment_cents"`
	RemainingAmountCents int64     `json:"remaining_amount_cents"`
	BookingDate          time.Time `json:"booking_date"`
}

func (in BookingInput) validate() error {
	if in.TourID == 0 || in.GuestID == 0 {
		return errors.Join(ErrValidation, errors.New("tour_id and guest_id are required"))
	}
	if in.TotalAmountCents < 0 || in.AdvancePaymentCents < 0 || in.RemainingAmountCents < 0 {
		return errors.Join(ErrValidation, errors.New("amounts must not be negative"))
	}
	if in.TotalAmountCents != in.AdvancePaymentCents+in.RemainingAmountCents {
		return errors.Join(ErrValidation, errors.New("total_amount_cents must equal advance plus remaining"))
	}
	if in.BookingDate.IsZero() {
		return errors.Join(ErrValidation, errors.New("booking_date is required"))
	}
	return nil
}

// Create persists a pending booking, then runs the side effects: a payment
// intent for the advance (when any) and a confirmation message to the guest
// (when a phone is on file). The intent request is retryable — a gateway
// failure leaves the booking pending without an intent and Confirm will try
// again. The notification is best-effort.
func (m *BookingManager) Create(ctx context.Context, in BookingInput) (model.Booking, error) {
	if err := in.validate(); err != nil {
		return model.Booking{}, err
	}
	b := model.Booking{
		TourID:               in.TourID,
		GuestID:              in.GuestID,
		AgencyID:             in.AgencyID,
		TotalAmountCents:     in.TotalAmountCents,
		AdvancePaymentCents:  in.AdvancePaymentCents,
		RemainingAmountCents: in.RemainingAmountCents,
		Status:               model.BookingPending,
		BookingDate:          in.BookingDate.UTC(),
	}
	if err := m.store.Create(ctx, &b); err != nil {
		return model.Booking{}, err
	}

	if b.AdvancePaymentCents > 0 {
		if err := m.ensureIntent(ctx, &b); err != nil {
			m.log.Error().Err(err).Uint64("booking_id", b.ID).
				Msg("payment intent creation failed; booking left pending without intent")
		}
	}
	m.notifyGuest(ctx, b)
	return b, nil
}

// Confirm moves a pending booking to confirmed. A missing payment intent
// for a non-zero advance is created here, covering intent failures during
// Create. Double confirmation is rejected rather than silently re-notifying.
func (m *BookingManager) Confirm(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := m.store.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if !model.CanTransition(b.Status, model.BookingConfirmed) {
		return model.Booking{}, ErrInvalidTransition
	}
	if b.AdvancePaymentCents > 0 && b.PaymentIntentID == nil {
		if err := m.ensureIntent(ctx, &b); err != nil {
			m.log.Error().Err(err).Uint64("booking_id", b.ID).
				Msg("payment intent retry failed during confirm")
		}
	}
	if err := m.store.UpdateStatus(ctx, id, model.BookingConfirmed); err != nil {
		return model.Booking{}, err
	}
	b.Status = model.BookingConfirmed

	m.notifyGuest(ctx, b)
	m.publish(ctx, queue.ConfirmedQueue, b)
	return b, nil
}

// Cancel moves a live booking to cancelled, refunding the stored payment
// intent in full first. Refund failure aborts the cancel so the booking
// state never claims a refund that did not happen. Cancelled is terminal.
func (m *BookingManager) Cancel(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := m.store.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if !model.CanTransition(b.Status, model.BookingCancelled) {
		return model.Booking{}, ErrInvalidTransition
	}
	if b.PaymentIntentID != nil {
		if err := m.payments.Refund(ctx, *b.PaymentIntentID); err != nil {
			return model.Booking{}, err
		}
	}
	if err := m.store.UpdateStatus(ctx, id, model.BookingCancelled); err != nil {
		return model.Booking{}, err
	}
	b.Status = model.BookingCancelled

	m.publish(ctx, queue.CancelledQueue, b)
	return b, nil
}

// Get loads one booking.
func (m *BookingManager) Get(ctx context.Context, id uint64) (model.Booking, error) {
	return m.store.GetByID(ctx, id)
}

// Update applies a partial field patch. When all three amounts are patched
// together the sum invariant is re-checked; partial amount patches are let
// through since the caller may be correcting a single column.
func (m *BookingManager) Update(ctx context.Context, id uint64, p repository.BookingPatch) (model.Booking, error) {
	if p.TotalAmountCents != nil && p.AdvancePaymentCents != nil && p.RemainingAmountCents != nil {
		if *p.TotalAmountCents != *p.AdvancePaymentCents+*p.RemainingAmountCents {
			return model.Booking{}, errors.Join(ErrValidation,
				errors.New("total_amount_cents must equal advance plus remaining"))
		}
	}
	return m.store.Update(ctx, id, p)
}

// Delete hard-deletes a booking. Deleting an absent booking is not an error.
func (m *BookingManager) Delete(ctx context.Context, id uint64) error {
	return m.store.Delete(ctx, id)
}

// ensureIntent requests a payment intent for the advance and persists the
// returned id on the booking.
func (m *BookingManager) ensureIntent(ctx context.Context, b *model.Booking) error {
	intentID, err := m.payments.CreateIntent(ctx, b.AdvancePaymentCents, "usd")
	if err != nil {
		return err
	}
	if err := m.store.SetPaymentIntent(ctx, b.ID, intentID); err != nil {
		return err
	}
	b.PaymentIntentID = &intentID
	return nil
}

// notifyGuest sends a booking confirmation when the guest has a phone
// number on file. Failures are logged, never propagated: a flaky messaging
// provider must not fail the booking request.
func (m *BookingManager) notifyGuest(ctx context.Context, b model.Booking) {
	g, err := m.guests.GetByID(ctx, b.GuestID)
	if err != nil {
		m.log.Warn().Err(err).Uint64("guest_id", b.GuestID).Msg("guest lookup for notification failed")
		return
	}
	if g.PhoneNumber == "" {
		return
	}
	if err := m.notifier.SendBookingConfirmation(ctx, g.PhoneNumber, b); err != nil {
		m.log.Warn().Err(err).Uint64("booking_id", b.ID).Msg("booking notification failed")
	}
}

func (m *BookingManager) publish(ctx context.Context, queueName string, b model.Booking) {
	ev := queue.BookingEvent{
		BookingID:           b.ID,
		TourID:              b.TourID,
		GuestID:             b.GuestID,
		Status:              b.Status,
		TotalAmountCents:    b.TotalAmountCents,
		AdvancePaymentCents: b.AdvancePaymentCents,
		OccurredAt:          time.Now().UTC().Format(time.RFC3339),
	}
	if b.PaymentIntentID != nil {
		ev.PaymentIntentID = *b.PaymentIntentID
	}
	if err := m.publisher.Publish(ctx, queueName, ev); err != nil {
		m.log.Warn().Err(err).Str("queue", queueName).Msg("event publish failed")
	}
}
