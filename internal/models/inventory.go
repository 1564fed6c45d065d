package models

import "time"

// BloodInventory is the single stock row kept per blood group. Units never go
// negative; rows are created on first restock and never deleted.
type BloodInventory struct {
	ID             string     `db:"id" json:"id"`
	BloodGroup     BloodGroup `db:"blood_group" json:"blood_group"`
	UnitsAvailable int        `db:"units_available" json:"units_available"`
	LastUpdated    time.Time  `db:"last_updated" json:"last_updated"`
}
