package models

import "time"

// PersonType tags a final snapshot row.
type PersonType string

const (
	PersonStudent     PersonType = "STUDENT"
	PersonAccompanist PersonType = "ACCOMPANIST"
)

// FinalParticipant is one immutable snapshot row in the locked master table.
// Exactly one row per person is written at final-approval time; the row is
// never mutated afterwards.
type FinalParticipant struct {
	RecordID        int64      `db:"record_id" json:"record_id"`
	CollegeID       int64      `db:"college_id" json:"college_id"`
	PersonID        int64      `db:"person_id" json:"person_id"`
	PersonType      PersonType `db:"person_type" json:"person_type"`
	FullName        string     `db:"full_name" json:"full_name"`
	Phone           string     `db:"phone" json:"phone"`
	Email           string     `db:"email" json:"email"`
	PhotoURL        string     `db:"photo_url" json:"photo_url"`
	AadhaarURL      *string    `db:"aadhaar_url" json:"aadhaar_url,omitempty"`
	CollegeIDURL    *string    `db:"college_id_url" json:"college_id_url,omitempty"`
	SSLCURL         *string    `db:"sslc_url" json:"sslc_url,omitempty"`
	AccompanistType *string    `db:"accompanist_type" json:"accompanist_type,omitempty"`
	IsTeamManager   bool       `db:"is_team_manager" json:"is_team_manager"`
	IDProofURL      *string    `db:"id_proof_url" json:"id_proof_url,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// FinalApprovalResult reports what a successful finalisation wrote.
type FinalApprovalResult struct {
	InsertedStudents     int `json:"inserted_students"`
	InsertedAccompanists int `json:"inserted_accompanists"`
	TotalRecords         int `json:"total_records"`
}
