package model

import "time"

// Booking statuses. A booking starts pending, may be confirmed once, and
// can be cancelled from either live state. Cancelled is terminal.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// ValidBookingStatus reports whether s names a known booking status.
func ValidBookingStatus(s string) bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCancelled
}

// CanTransition reports whether a booking may move from one status to
// another. Identity transitions are rejected; callers treat a repeated
// confirm or cancel as an invalid transition.
func CanTransition(from, to string) bool {
	switch to {
	case BookingConfirmed:
		return from == BookingPending
	case BookingCancelled:
		return from == BookingPending || from == BookingConfirmed
	}
	return false
}

// Booking mirrors the 'bookings' table. All monetary fields are integer
// cents and satisfy total = advance + remaining at creation time.
type Booking struct {
	ID                   uint64    `json:"id"`
	TourID               uint64    `json:"tour_id"`
	GuestID              uint64    `json:"guest_id"`
	AgencyID             *uint64   `json:"agency_id,omitempty"`
	TotalAmountCents     int64     `json:"total_amount_cents"`
	AdvancePaymentCents  int64     `json:"advance_payment_cents"`
	RemainingAmountCents int64     `json:"remaining_amount_cents"`
	Status               string    `json:"status"`
	PaymentIntentID      *string   `json:"payment_intent_id,omitempty"`
	BookingDate          time.Time `json:"booking_date"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
