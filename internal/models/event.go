package models

// ParticipationType tags a student-event linkage row.
type ParticipationType string

const (
	Participating ParticipationType = "participating"
	Accompanying  ParticipationType = "accompanying"
)

// Event defines a festival event with its per-college participant cap.
type Event struct {
	EventID                   int64  `db:"event_id" json:"event_id"`
	EventName                 string `db:"event_name" json:"event_name"`
	MaxParticipantsPerCollege int    `db:"max_participants_per_college" json:"max_participants_per_college"`
}

// EventRef is the compact event identity used in assignment payloads.
type EventRef struct {
	EventID   int64  `db:"event_id" json:"event_id"`
	EventName string `db:"event_name" json:"event_name"`
}

// EventParticipation links a student to an event. Rows are mutable until the
// college is finalised.
type EventParticipation struct {
	StudentID        int64             `db:"student_id" json:"student_id"`
	EventID          int64             `db:"event_id" json:"event_id"`
	CollegeID        int64             `db:"college_id" json:"college_id"`
	AssignedByUserID int64             `db:"assigned_by_user_id" json:"assigned_by_user_id"`
	EventType        ParticipationType `db:"event_type" json:"event_type"`
}
