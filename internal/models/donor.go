package models

import "time"

// Donor is a registered donor account. Email doubles as the login identifier
// and is unique across donors.
type Donor struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Phone            string     `db:"phone" json:"phone"`
	BloodGroup       BloodGroup `db:"blood_group" json:"blood_group"`
	City             string     `db:"city" json:"city"`
	LastDonationDate *time.Time `db:"last_donation_date" json:"last_donation_date,omitempty"`
	Available        bool       `db:"available" json:"available"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
