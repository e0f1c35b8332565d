package model

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingConfirmed, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingCancelled, false},
		{BookingCancelled, BookingPending, false},
		{BookingConfirmed, BookingPending, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidBookingStatus(t *testing.T) {
	for _, s := range []string{BookingPending, BookingConfirmed, BookingCancelled} {
		if !ValidBookingStatus(s) {
			t.Errorf("ValidBookingStatus(%s) = false", s)
		}
	}
	for _, s := range []string{"", "Pending", "done"} {
		if ValidBookingStatus(s) {
			t.Errorf("ValidBookingStatus(%q) = true", s)
		}
	}
}
