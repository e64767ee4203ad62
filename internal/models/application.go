package models

import "time"

// ApplicationStatus enumerates the student application lifecycle.
type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "SUBMITTED"
	ApplicationApproved  ApplicationStatus = "APPROVED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
)

// Student belongs to exactly one college. ReapplyCount increments on each
// rejection.
type Student struct {
	StudentID        int64  `db:"student_id" json:"student_id"`
	CollegeID        int64  `db:"college_id" json:"college_id"`
	FullName         string `db:"full_name" json:"full_name"`
	USN              string `db:"usn" json:"usn"`
	Email            string `db:"email" json:"email"`
	Phone            string `db:"phone" json:"phone"`
	Gender           string `db:"gender" json:"gender"`
	PassportPhotoURL string `db:"passport_photo_url" json:"passport_photo_url"`
	ReapplyCount     int    `db:"reapply_count" json:"reapply_count"`
}

// StudentApplication is one submission by a student. A student may hold
// several applications over time through the reapply flow.
type StudentApplication struct {
	ApplicationID  int64             `db:"application_id" json:"application_id"`
	StudentID      int64             `db:"student_id" json:"student_id"`
	Status         ApplicationStatus `db:"status" json:"status"`
	BloodGroup     string            `db:"blood_group" json:"blood_group"`
	Address        string            `db:"address" json:"address"`
	Department     string            `db:"department" json:"department"`
	YearOfStudy    int               `db:"year_of_study" json:"year_of_study"`
	Semester       int               `db:"semester" json:"semester"`
	RejectedReason *string           `db:"rejected_reason" json:"rejected_reason,omitempty"`
	SubmittedAt    time.Time         `db:"submitted_at" json:"submitted_at"`
	ReviewedAt     *time.Time        `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// PendingApplication is the review-queue projection joining the student row
// and the uploaded documents keyed by lower-cased document type.
type PendingApplication struct {
	ApplicationID int64             `db:"application_id" json:"application_id"`
	StudentID     int64             `db:"student_id" json:"student_id"`
	FullName      string            `db:"full_name" json:"full_name"`
	USN           string            `db:"usn" json:"usn"`
	Email         string            `db:"email" json:"email"`
	Phone         string            `db:"phone" json:"phone"`
	Gender        string            `db:"gender" json:"gender"`
	BloodGroup    string            `db:"blood_group" json:"blood_group"`
	Address       string            `db:"address" json:"address"`
	Department    string            `db:"department" json:"department"`
	YearOfStudy   int               `db:"year_of_study" json:"year_of_study"`
	Semester      int               `db:"semester" json:"semester"`
	Status        ApplicationStatus `db:"status" json:"status"`
	SubmittedAt   time.Time         `db:"submitted_at" json:"submitted_at"`
	Documents     map[string]string `db:"-" json:"documents"`
}

// ApprovedStudent is the assignment view of an approved application together
// with the student's current event sets.
type ApprovedStudent struct {
	ApplicationID       int64             `db:"application_id" json:"application_id"`
	StudentID           int64             `db:"student_id" json:"student_id"`
	FullName            string            `db:"full_name" json:"full_name"`
	USN                 string            `db:"usn" json:"usn"`
	Email               string            `db:"email" json:"email"`
	Phone               string            `db:"phone" json:"phone"`
	Status              ApplicationStatus `db:"status" json:"status"`
	ParticipatingEvents []EventRef        `db:"-" json:"participating_events"`
	AccompanyingEvents  []EventRef        `db:"-" json:"accompanying_events"`
}
