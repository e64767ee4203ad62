package models

import "time"

// College represents a participating college. Once IsFinalApproved is set the
// college and every dependent row is frozen.
type College struct {
	CollegeID       int64      `db:"college_id" json:"college_id"`
	CollegeCode     string     `db:"college_code" json:"college_code"`
	CollegeName     string     `db:"college_name" json:"college_name"`
	Place           string     `db:"place" json:"place"`
	MaxQuota        int        `db:"max_quota" json:"max_quota"`
	IsFinalApproved bool       `db:"is_final_approved" json:"is_final_approved"`
	FinalApprovedAt *time.Time `db:"final_approved_at" json:"final_approved_at,omitempty"`
	FinalApprovedBy *int64     `db:"final_approved_by" json:"final_approved_by,omitempty"`
}
