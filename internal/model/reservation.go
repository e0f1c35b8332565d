package model

import "time"

// Reservation mirrors the 'reservations' table. A reservation is the public
// seat request a signed-in user submits for a tour; bookings are the
// commercial records agencies and admins manage. IdentityNumber, IPAddress
// and MACAddress hold sha256 digests, never plaintext.
type Reservation struct {
	ID                   uint64    `json:"id"`
	UserID               uint64    `json:"user_id"`
	TourID               uint64    `json:"tour_id"`
	Name                 string    `json:"name"`
	Nationality          string    `json:"nationality"`
	IdentityNumber       string    `json:"-"`
	Phone                string    `json:"phone"`
	PeopleCount          int       `json:"people_count"`
	AccommodationAddress string    `json:"accommodation_address"`
	TourDate             time.Time `json:"tour_date"`
	IPAddress            string    `json:"-"`
	MACAddress           string    `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
}
