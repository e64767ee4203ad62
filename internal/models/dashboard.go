package models

import "time"

// CollegeInfo is the college header block on the dashboard.
type CollegeInfo struct {
	CollegeCode string `json:"college_code"`
	CollegeName string `json:"college_name"`
	Place       string `json:"place"`
	MaxQuota    int    `json:"max_quota"`
}

// RegistrationStats aggregates per-college registration counts.
type RegistrationStats struct {
	TotalStudents            int `db:"total_students" json:"total_students"`
	StudentsWithApplications int `db:"students_with_applications" json:"students_with_applications"`
	ApprovedStudents         int `db:"approved_students" json:"approved_students"`
	RejectedStudents         int `db:"rejected_students" json:"rejected_students"`
	AccompanistsCount        int `db:"accompanists_count" json:"accompanists_count"`
	QuotaUsed                int `json:"quota_used"`
	QuotaRemaining           int `json:"quota_remaining"`
	EventsWithParticipants   int `json:"events_with_participants"`
}

// AccommodationStatus mirrors the college's accommodation request, when any.
type AccommodationStatus struct {
	TotalBoys  int        `db:"total_boys" json:"total_boys"`
	TotalGirls int        `db:"total_girls" json:"total_girls"`
	Status     string     `db:"status" json:"status"`
	AppliedAt  *time.Time `db:"applied_at" json:"applied_at,omitempty"`
}

// PaymentStatus mirrors the college's uploaded payment receipt, when any.
type PaymentStatus struct {
	Status       string     `db:"status" json:"status"`
	UploadedAt   *time.Time `db:"uploaded_at" json:"uploaded_at,omitempty"`
	AdminRemarks *string    `db:"admin_remarks" json:"admin_remarks,omitempty"`
}

// CollegeDashboard is the full dashboard payload for one college.
type CollegeDashboard struct {
	College         CollegeInfo          `json:"college"`
	Stats           RegistrationStats    `json:"stats"`
	Accommodation   *AccommodationStatus `json:"accommodation"`
	Payment         *PaymentStatus       `json:"payment_status"`
	IsFinalApproved bool                 `json:"is_final_approved"`
	FinalApprovedAt *time.Time           `json:"final_approved_at,omitempty"`
	HasTeamManager  *bool                `json:"has_team_manager,omitempty"`
}
