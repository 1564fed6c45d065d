package models

import "time"

// RequestStatus tracks the lifecycle of a blood request. PENDING is the only
// non-terminal state.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// BloodRequest is a hospital's demand for units of a given group.
type BloodRequest struct {
	ID            string        `db:"id" json:"id"`
	PatientName   string        `db:"patient_name" json:"patient_name"`
	BloodGroup    BloodGroup    `db:"blood_group" json:"blood_group"`
	UnitsRequired int           `db:"units_required" json:"units_required"`
	HospitalName  string        `db:"hospital_name" json:"hospital_name"`
	City          string        `db:"city" json:"city"`
	Status        RequestStatus `db:"status" json:"status"`
	RequestDate   time.Time     `db:"request_date" json:"request_date"`
}
