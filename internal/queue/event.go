// Package queue defines the message payloads exchanged over the broker and
// the background consumer that records them.
package queue

// Queue names. One durable queue per lifecycle event.
const (
	ConfirmedQueue = "booking.confirmed"
	CancelledQueue = "booking.cancelled"
)

// BookingEvent is published when a booking is confirmed or cancelled. It
// carries enough context for downstream consumers to log or notify without
// querying the primary database.
type BookingEvent struct {
	BookingID           uint64 `json:"booking_id"`
	TourID              uint64 `json:"tour_id"`
	GuestID             uint64 `json:"guest_id"`
	Status              string `json:"status"`
	TotalAmountCents    int64  `json:"total_amount_cents"`
	AdvancePaymentCents int64  `json:"advance_payment_cents"`
	PaymentIntentID     string `json:"payment_intent_id,omitempty"`
	OccurredAt          string `json:"occurred_at"`
}
