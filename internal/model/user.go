package model

import "time"

// Roles are stored and compared in canonical lowercase form. Signup never
// assigns admin; that role is provisioned directly in the database.
const (
	RoleGuest  = "guest"
	RoleAgency = "agency"
	RoleAdmin  = "admin"
)

// ValidRole reports whether r is one of the canonical role tags.
func ValidRole(r string) bool {
	return r == RoleGuest || r == RoleAgency || r == RoleAdmin
}

// User mirrors the 'users' table.
type User struct {
	ID                   uint64     `json:"id"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Name                 string     `json:"name"`
	Phone                string     `json:"phone,omitempty"`
	Role                 string     `json:"role"`
	PasswordResetToken   *string    `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
