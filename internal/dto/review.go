package dto

// ActionEnvelope carries the action discriminator of a dispatch request. The
// handler decodes this first, then rebinds the full payload for the matched
// action.
type ActionEnvelope struct {
	Action string `json:"action"`
}

// ApproveStudentRequest approves a pending application and assigns events in
// the same transaction.
type ApproveStudentRequest struct {
	Action              string  `json:"action"`
	ApplicationID       int64   `json:"application_id" validate:"required,gt=0"`
	ParticipatingEvents []int64 `json:"participating_events" validate:"dive,gt=0"`
	AccompanyingEvents  []int64 `json:"accompanying_events" validate:"dive,gt=0"`
}

// RejectStudentRequest rejects a pending application with a reason.
type RejectStudentRequest struct {
	Action        string `json:"action"`
	ApplicationID int64  `json:"application_id" validate:"required,gt=0"`
	Reason        string `json:"reason" validate:"required"`
}

// EditStudentDetailsRequest updates the student row and the application row
// of a pending application.
type EditStudentDetailsRequest struct {
	Action        string `json:"action"`
	ApplicationID int64  `json:"application_id" validate:"required,gt=0"`
	FullName      string `json:"full_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	Gender        string `json:"gender" validate:"required"`
	BloodGroup    string `json:"blood_group"`
	Address       string `json:"address"`
	Department    string `json:"department"`
	YearOfStudy   int    `json:"year_of_study" validate:"gte=0"`
	Semester      int    `json:"semester" validate:"gte=0"`
}

// EditStudentEventsRequest replaces an approved student's event assignments.
type EditStudentEventsRequest struct {
	Action              string  `json:"action"`
	StudentID           int64   `json:"student_id" validate:"required,gt=0"`
	ParticipatingEvents []int64 `json:"participating_events" validate:"dive,gt=0"`
	AccompanyingEvents  []int64 `json:"accompanying_events" validate:"dive,gt=0"`
}

// MoveToRejectedRequest demotes an approved student back to rejected.
type MoveToRejectedRequest struct {
	Action    string `json:"action"`
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"required"`
}
