package model

import "time"

// Guest mirrors the 'guests' table. IdentityNumber is stored AES-encrypted
// ("ivhex:cipherhex"); IPAddress and MACAddress are stored as sha256 hex
// digests. The phone number stays plain because the notification service
// needs it.
type Guest struct {
	ID                   uint64    `json:"id"`
	FullName             string    `json:"full_name"`
	Nationality          string    `json:"nationality"`
	IdentityNumber       string    `json:"-"`
	PhoneNumber          string    `json:"phone_number"`
	NumberOfGuests       int       `json:"number_of_guests"`
	AccommodationAddress string    `json:"accommodation_address"`
	TourDate             time.Time `json:"tour_date"`
	IPAddress            string    `json:"-"`
	MACAddress           string    `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
}
