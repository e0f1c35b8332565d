package model

import "testing"

func TestAvailableCapacity(t *testing.T) {
	cases := []struct {
		max, reserved, want int
	}{
		{20, 8, 12},
		{20, 0, 20},
		{20, 20, 0},
		{20, 25, 0},
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := AvailableCapacity(tc.max, tc.reserved); got != tc.want {
			t.Errorf("AvailableCapacity(%d, %d) = %d, want %d", tc.max, tc.reserved, got, tc.want)
		}
	}
}
