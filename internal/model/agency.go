package model

import "time"

// Agency mirrors the 'agencies' table.
type Agency struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	PhoneNumber   string    `json:"phone_number"`
	Email         string    `json:"email"`
	TaxNumber     string    `json:"tax_number"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
